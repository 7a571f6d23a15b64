package transaction

import "time"

type GetManyTransactionResponse []TransactionResponse

type TransactionResponse struct {
	TransactionID    string    `json:"transaction_id"`
	OrderID          string    `json:"order_id"`
	CustomerUsername string    `json:"customer_username"`
	Amount           float64   `json:"amount"`
	MaskedCardNumber string    `json:"masked_card_number"`
	CardHolder       string    `json:"card_holder"`
	Status           string    `json:"status"`
	AuthorizationID  *string   `json:"authorization_id"`
	CreatedAt        time.Time `json:"created_at"`
}

func (r *TransactionResponse) PopulateFromEntity(t Transaction) {
	r.TransactionID = t.TransactionID
	r.OrderID = t.OrderID
	r.CustomerUsername = t.CustomerUsername
	r.Amount = t.Amount
	r.MaskedCardNumber = t.MaskedCardNumber
	r.CardHolder = t.CardHolder
	r.Status = t.Status
	r.AuthorizationID = t.AuthorizationID
	r.CreatedAt = t.CreatedAt
}
