package transaction

// TransactionInfo is the capture request consumed from the payment-request
// topic. The caller's bearer token travels in the message's authorization
// header, not in the payload.
type TransactionInfo struct {
	OrderID          string  `json:"orderId"`
	Amount           float64 `json:"amount"`
	CreditCardNumber string  `json:"creditCardNumber"`
	ExpirationDate   string  `json:"expirationDate"`
	CVV              string  `json:"cvv"`
	CardHolder       string  `json:"cardHolder"`
}

// PaymentResult is published to the payment-result topic once the capture
// attempt has settled.
type PaymentResult struct {
	OrderID  string `json:"orderId"`
	Accepted bool   `json:"accepted"`
}
