package models

const (
	OrderStatusAwaitingPayment = "awaiting_payment"
	OrderStatusPaid            = "paid"
)

// MinProductPrice is the smallest allowed product price in minor
// currency units.
const MinProductPrice = 1000

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type Product struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"not null"                 json:"name"`
	Price      int64     `gorm:"not null"                 json:"price"`
	ImageURL   string    `json:"image_url"`
	CategoryID uint      `gorm:"index;not null"           json:"category_id"`
	Category   *Category `json:"category,omitempty"`
}

type Order struct {
	ID                    uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                uint        `gorm:"index;not null"           json:"user_id"`
	Subtotal              int64       `gorm:"not null"                 json:"subtotal"`
	Tax                   int64       `gorm:"not null"                 json:"tax"`
	GrandTotal            int64       `gorm:"not null"                 json:"grand_total"`
	Status                string      `gorm:"not null"                 json:"status"`
	ExternalTransactionID string      `json:"external_transaction_id,omitempty"`
	PaymentMethodID       string      `json:"payment_method_id,omitempty"`
	CreatedAt             int64       `gorm:"not null"                 json:"created_at"`
	Items                 []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem snapshots the product price at order time. The snapshot
// never changes after the row is written, whatever happens to the
// product later.
type OrderItem struct {
	ID        uint  `gorm:"primaryKey;autoIncrement"   json:"id"`
	OrderID   uint  `gorm:"index;not null"             json:"order_id"`
	ProductID uint  `gorm:"not null"                   json:"product_id"`
	Price     int64 `gorm:"not null"                   json:"price"`
	Quantity  uint  `gorm:"default:1;check:quantity>0" json:"quantity"`
}
