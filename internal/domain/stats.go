package domain

// DashboardStats feeds the stat tiles at the top of the dashboard.
type DashboardStats struct {
	RentalMachines  int     `json:"rentalMachines"`
	SaleMachines    int     `json:"saleMachines"`
	ActivePartners  int     `json:"activePartners"`
	PendingPartners int     `json:"pendingPartners"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// ChartDataset mirrors the label/data pairs the analytics charts consume.
type ChartDataset struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type ChartData struct {
	MachineTypes  ChartDataset `json:"machineTypes"`
	ActiveVendors ChartDataset `json:"activeVendors"`
}

// MapMarker is one located user on the coverage map.
type MapMarker struct {
	UserID   int64    `json:"userId"`
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	Location Location `json:"location"`
}

type StatsService interface {
	DashboardStats() (*DashboardStats, error)
	ChartData() (*ChartData, error)
	MapMarkers() ([]MapMarker, error)
	RentalHistory(userID int64) []*Interaction
}
