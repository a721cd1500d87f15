package models

import "time"

type Client struct {
	ID          int       `json:"id" validate:"required"`
	FullName    string    `json:"fullName"`
	Mobile      string    `json:"mobile"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"isActive"`
	OrdersCount int       `json:"ordersCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderConfirmed OrderStatus = "Confirmed"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled}

// Badge maps a status onto the badge class rendered in tables.
func (s OrderStatus) Badge() string {
	switch s {
	case OrderDelivered:
		return "success"
	case OrderCancelled:
		return "danger"
	case OrderShipped, OrderConfirmed:
		return "info"
	default:
		return "warning"
	}
}

type OrderItem struct {
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	UnitPrice   float64 `json:"unitPrice"`
	Color       string  `json:"color"`
	Size        string  `json:"size"`
}

type Order struct {
	ID         int         `json:"id" validate:"required"`
	ClientName string      `json:"clientName"`
	Mobile     string      `json:"mobile"`
	Address    string      `json:"address"`
	Total      float64     `json:"total" validate:"gte=0"`
	Status     OrderStatus `json:"status" validate:"required"`
	Items      []OrderItem `json:"items" validate:"dive"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type ReturnStatus string

const (
	ReturnRequested ReturnStatus = "Requested"
	ReturnApproved  ReturnStatus = "Approved"
	ReturnRejected  ReturnStatus = "Rejected"
	ReturnRefunded  ReturnStatus = "Refunded"
)

var ReturnStatuses = []ReturnStatus{ReturnRequested, ReturnApproved, ReturnRejected, ReturnRefunded}

func (s ReturnStatus) Badge() string {
	switch s {
	case ReturnApproved, ReturnRefunded:
		return "success"
	case ReturnRejected:
		return "danger"
	default:
		return "warning"
	}
}

type Return struct {
	ID         int          `json:"id" validate:"required"`
	OrderID    int          `json:"orderId"`
	ClientName string       `json:"clientName"`
	Reason     string       `json:"reason"`
	Amount     float64      `json:"amount"`
	Status     ReturnStatus `json:"status" validate:"required"`
	CreatedAt  time.Time    `json:"createdAt"`
}
