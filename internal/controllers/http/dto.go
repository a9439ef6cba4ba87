package http

type CartLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items          []CartLineRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod  string            `json:"paymentMethod" binding:"required,oneof=cash card"`
	Address        string            `json:"address" binding:"required"`
	MapCoordinates string            `json:"mapCoordinates"`
	MapAddress     string            `json:"mapAddress"`
	Currency       string            `json:"currency"`
}

type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}
