package order

import "time"

type GetManyOrderResponse []OrderResponse

type OrderResponse struct {
	OrderID           string    `json:"order_id"`
	TicketCatalogueID int64     `json:"ticket_catalogue_id"`
	Quantity          int64     `json:"quantity"`
	CustomerUsername  string    `json:"customer_username"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (r *OrderResponse) PopulateFromEntity(o Order) {
	r.OrderID = o.OrderID
	r.TicketCatalogueID = o.TicketCatalogueID
	r.Quantity = o.Quantity
	r.CustomerUsername = o.CustomerUsername
	r.Status = o.Status
	r.CreatedAt = o.CreatedAt
	r.UpdatedAt = o.UpdatedAt
}
