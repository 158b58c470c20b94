package domain

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusRejected  = "rejected"

	CounterOfferPendingReview = "pending_review"
	CounterOfferAccepted      = "accepted"
	CounterOfferDeclined      = "declined"

	// DefaultRejectionReason is recorded when the admin gives no reason.
	DefaultRejectionReason = "No reason provided"
)

// Order is a negotiable order surfaced by the review workflow. It is written
// by the external order-entry flow; this system only transitions its status.
type Order struct {
	ID              string        `json:"id"`
	Date            string        `json:"date"`
	Status          string        `json:"status"`
	Items           []OrderItem   `json:"items"`
	Total           float64       `json:"total"`
	OriginalPrice   float64       `json:"originalPrice,omitempty"`
	CounterOffer    *CounterOffer `json:"counterOffer,omitempty"`
	RejectedAt      string        `json:"rejectedAt,omitempty"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	PaidAt          string        `json:"paidAt,omitempty"`
}

type OrderItem struct {
	MachineID int64      `json:"machineId,omitempty"`
	Machine   MachineRef `json:"machine"`
	IsRental  bool       `json:"isRental"`
	StartDate string     `json:"startDate,omitempty"`
	EndDate   string     `json:"endDate,omitempty"`
}

// CounterOffer is a customer-proposed alternate price awaiting admin review.
type CounterOffer struct {
	Price  float64 `json:"price"`
	Notes  string  `json:"notes,omitempty"`
	Status string  `json:"status"`
}

// IsTerminal reports whether the order reached a state with no further
// transitions: completed, cancelled or rejected.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

type OrderRepository interface {
	FindAll() ([]*Order, error)
	FindByID(id string) (*Order, error)
	SaveAll(orders []*Order) error
}

type OrderService interface {
	ListOrders() ([]*Order, error)
	RejectOrder(id, reason string) (*Order, error)
	MarkAsPaid(id string) (*Order, error)
	ReviewCounterOffer(id string, accept bool) (*Order, error)
}
