package domain

import "context"

// PendingOrder is an external order-entry request waiting to be converted
// into a user/interaction pair. Consumed in FIFO batches and discarded.
type PendingOrder struct {
	Customer Customer           `json:"customer"`
	Location *Location          `json:"location,omitempty"`
	Items    []PendingOrderItem `json:"items"`
	Total    float64            `json:"total"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PendingOrderItem struct {
	MachineID int64      `json:"machineId"`
	Machine   MachineRef `json:"machine"`
	IsRental  bool       `json:"isRental"`
	Duration  int        `json:"duration,omitempty"`
}

type MachineRef struct {
	Name string `json:"name"`
}

type PendingOrderRepository interface {
	// List returns the queued orders in FIFO order; an absent queue is an
	// empty slice, not an error.
	List() ([]PendingOrder, error)
	// Clear removes the consumed queue. Calling Clear without a prior List
	// removes nothing.
	Clear() error
}

// IngestionService drains the pending-order queue into users and
// interactions, at most once per batch. A crash between processing and Clear
// reprocesses the batch; there is no idempotency key, so retried batches
// produce duplicate interactions. Known limitation, kept.
type IngestionService interface {
	Ingest(ctx context.Context) (bool, error)
}
