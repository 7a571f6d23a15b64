package order

import "time"

const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusCanceled = "CANCELED"
)

type Order struct {
	OrderID           string
	TicketCatalogueID int64
	Quantity          int64
	CustomerUsername  string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsTerminal reports whether the order has reached a final status. Terminal
// orders are never transitioned again.
func (o Order) IsTerminal() bool {
	return o.Status == StatusAccepted || o.Status == StatusCanceled
}
