package transaction

import "time"

const (
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Transaction struct {
	TransactionID    string
	OrderID          string
	CustomerUsername string
	Amount           float64
	MaskedCardNumber string
	CardHolder       string
	Status           string
	AuthorizationID  *string
	CreatedAt        time.Time
}
