package models

import "time"

// Product represents a catalog product
type Product struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Price      int64  `db:"price" json:"price"`
	Image      string `db:"image" json:"image"`
	Stock      int    `db:"stock" json:"stock"`
	CategoryID *int64 `db:"category_id" json:"category_id,omitempty"`
}

// Category groups products for filtering only
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Customer represents a registered customer
type Customer struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CartLine is a product snapshot plus a requested quantity inside a session
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Session holds a vendor's working state: identity, customer selection and
// cart. It is client-local data, persisted only to the fallback store.
type Session struct {
	ID              string     `json:"id"`
	VendorName      string     `json:"vendor_name"`
	CustomerName    string     `json:"customer_name"`
	CustomerAddress string     `json:"customer_address"`
	Discount        int        `json:"discount"`
	Lines           []CartLine `json:"lines"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Order is an immutable record created at checkout. Customer, vendor and
// line items are snapshots, not live references; only status, notes and the
// delivery address change afterwards.
type Order struct {
	ID              string    `db:"id" json:"id"`
	Date            time.Time `db:"date" json:"date"`
	CustomerName    string    `db:"customer_name" json:"customer_name"`
	CustomerAddress string    `db:"customer_address" json:"customer_address"`
	VendorName      string    `db:"vendor_name" json:"vendor_name"`
	Subtotal        int64     `db:"subtotal" json:"subtotal"`
	Discount        int       `db:"discount" json:"discount"`
	FinalTotal      int64     `db:"final_total" json:"final_total"`
	Status          string    `db:"status" json:"status"`
	Notes           string    `db:"notes" json:"notes,omitempty"`

	Items []OrderItem `db:"-" json:"items"`
}

// OrderItem is a line-item snapshot taken at submission time
type OrderItem struct {
	ID          int64  `db:"id" json:"id"`
	OrderID     string `db:"order_id" json:"order_id"`
	ProductID   int64  `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	Price       int64  `db:"price" json:"price"`
	Quantity    int    `db:"quantity" json:"quantity"`
}

// Order statuses
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
)

// statusRank orders the lifecycle; transitions may skip forward but never
// move backward, and delivered is terminal.
var statusRank = map[string]int{
	StatusPending:   0,
	StatusPreparing: 1,
	StatusReady:     2,
	StatusDelivered: 3,
}

// ValidStatus reports whether s is a known order status
func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to string) bool {
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	tr, ok := statusRank[to]
	if !ok {
		return false
	}
	return tr > fr
}

// Shortage describes a cart line whose requested quantity exceeds the
// product's available stock
type Shortage struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}
