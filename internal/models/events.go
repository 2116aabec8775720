package models

import "time"

// Tables carried in change notifications
const (
	TableProducts   = "products"
	TableCategories = "categories"
	TableCustomers  = "customers"
	TableOrders     = "orders"
)

const EventTypeTableChanged = "TABLE_CHANGED"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// TableChangedEvent tells subscribers that rows in a table changed and the
// collection should be reloaded. It carries no row data; consumers reload
// the whole collection (idempotent full overwrite).
type TableChangedEvent struct {
	BaseEvent
	Table string `json:"table"`
}
