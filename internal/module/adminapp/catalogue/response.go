package catalogue

import "time"

type GetCatalogueResponse []TicketCatalogueResponse

type TicketCatalogueResponse struct {
	TicketID  int64     `json:"ticket_id"`
	Type      string    `json:"type"`
	Price     float64   `json:"price"`
	Zones     string    `json:"zones"`
	MinAge    *int64    `json:"min_age"`
	MaxAge    *int64    `json:"max_age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *TicketCatalogueResponse) PopulateFromEntity(tc TicketCatalogue) {
	r.TicketID = tc.TicketID
	r.Type = tc.Type
	r.Price = tc.Price
	r.Zones = tc.Zones
	r.MinAge = tc.MinAge
	r.MaxAge = tc.MaxAge
	r.CreatedAt = tc.CreatedAt
	r.UpdatedAt = tc.UpdatedAt
}
