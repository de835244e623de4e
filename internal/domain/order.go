package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID             int64       `json:"id"`
	TrackingNumber string      `json:"tracking_number"`
	CustomerID     int64       `json:"customer_id"`
	Status         OrderStatus `json:"status"`
	Total          float64     `json:"total"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// PurchasedFile is the entitlement row written by order fulfillment: this
// customer, through this order, may download this digital file. Read-only
// for the download service.
type PurchasedFile struct {
	ID            int64        `json:"id"`
	CustomerID    int64        `json:"customer_id"`
	OrderID       int64        `json:"order_id"`
	Order         *Order       `json:"order,omitempty"`
	DigitalFileID int64        `json:"digital_file_id"`
	File          *DigitalFile `json:"file,omitempty" gorm:"foreignKey:DigitalFileID"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
