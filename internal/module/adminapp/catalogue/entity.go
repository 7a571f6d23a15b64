package catalogue

import "time"

type TicketCatalogue struct {
	TicketID  int64
	Type      string
	Price     float64
	Zones     string
	MinAge    *int64
	MaxAge    *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
