package models

type DashboardStats struct {
	TotalOrders    int          `json:"totalOrders" validate:"gte=0"`
	PendingOrders  int          `json:"pendingOrders" validate:"gte=0"`
	TotalClients   int          `json:"totalClients" validate:"gte=0"`
	TotalProducts  int          `json:"totalProducts" validate:"gte=0"`
	TotalRevenue   float64      `json:"totalRevenue"`
	PendingReturns int          `json:"pendingReturns" validate:"gte=0"`
	TopProducts    []TopProduct `json:"topProducts" validate:"dive"`
}

type TopProduct struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Sold      int    `json:"sold" validate:"gte=0"`
}
