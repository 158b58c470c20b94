package domain

const (
	ListingTypeRent = "Rent"
	ListingTypeSale = "Sale"
)

// Machine is a catalog entry owned by the external catalog flow; only the
// listing type matters to the dashboard stats.
type Machine struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	ListingType string  `json:"listingType"`
	Price       float64 `json:"price,omitempty"`
}

type MachineRepository interface {
	FindAll() ([]*Machine, error)
}
