package domain

const (
	InteractionActionRent = "Rent"
	InteractionActionBuy  = "Buy"

	InteractionStatusActive = "Active"

	InteractionProviderOnline = "Online Booking"
)

// Interaction is a rental or purchase event. Created only by order ingestion,
// never mutated or deleted; deleting a user leaves its interactions behind as
// orphans, still queryable by the old userId.
type Interaction struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	MachineID   int64   `json:"machineId"`
	MachineName string  `json:"machineName"`
	Action      string  `json:"action"`
	Date        string  `json:"date"`
	Duration    string  `json:"duration"`
	Cost        float64 `json:"cost"`
	Status      string  `json:"status"`
	Provider    string  `json:"provider"`
}

type InteractionRepository interface {
	Load() error
	FindAll() []*Interaction
	FindByUserID(userID int64) []*Interaction
	Append(interaction *Interaction) error
	ReplaceAll(interactions []*Interaction)
}
