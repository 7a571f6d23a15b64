package catalogue

type AddTicketRequest struct {
	Type   string  `json:"type" validate:"required"`
	Price  float64 `json:"price"`
	Zones  string  `json:"zones" validate:"required"`
	MinAge *int64  `json:"min_age"`
	MaxAge *int64  `json:"max_age"`
}
