package models

// OrderStatus enumerates backend order states.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderPreparing  OrderStatus = "PREPARING"
	OrderCompleted  OrderStatus = "COMPLETED"
)

// Order mirrors a customer order record of the backend.
type Order struct {
	ID           ID          `json:"id,omitempty"`
	Customer     string      `json:"customer"`
	Product      string      `json:"product"`
	Quantity     string      `json:"quantity"`
	Status       OrderStatus `json:"status"`
	OrderDate    string      `json:"orderDate"`
	DeliveryDate string      `json:"deliveryDate"`
}
