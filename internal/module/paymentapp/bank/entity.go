package bank

const (
	ChargeStatusApproved = "approved"
	ChargeStatusDeclined = "declined"
)

type Card struct {
	Number         string `json:"number"`
	ExpirationDate string `json:"expiration_date"`
	CVV            string `json:"cvv"`
	Holder         string `json:"holder"`
}

type ChargeRequest struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	Card    Card    `json:"card"`
}

type ChargeResponse struct {
	Status          string `json:"status"`
	AuthorizationID string `json:"authorization_id"`
	Reason          string `json:"reason"`
}
