package order

import "time"

type Order struct {
	OrderID           string
	TicketCatalogueID int64
	Quantity          int64
	CustomerUsername  string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
