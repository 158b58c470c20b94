package store

import "errors"

// Durable store keys shared with the external order-entry and catalog flows.
// The key names are the wire contract; do not rename.
const (
	KeyUsers         = "super_admin_users"
	KeyInteractions  = "super_admin_interactions"
	KeyPendingOrders = "super_admin_pending_orders"
	KeyLegacyOrders  = "machinery_orders"
	KeyMachines      = "machines"
	KeyOrders        = "orders"
)

var ErrKeyNotFound = errors.New("anahtar bulunamadı")

// Store is a key-value adapter over the durable per-installation store with
// JSON encode/decode at the boundary. A value that fails to decode is treated
// as an absent key: the caller sees ErrKeyNotFound, the failure is logged.
type Store interface {
	Get(key string, dest interface{}) error
	Set(key string, value interface{}) error
	Delete(key string) error
	Has(key string) (bool, error)
	Ping() error
}
