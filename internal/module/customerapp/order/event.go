package order

// TransactionInfo is the capture request dispatched to the payment service.
// Field names follow the payment service's deserializer.
type TransactionInfo struct {
	OrderID          string  `json:"orderId"`
	Amount           float64 `json:"amount"`
	CreditCardNumber string  `json:"creditCardNumber"`
	ExpirationDate   string  `json:"expirationDate"`
	CVV              string  `json:"cvv"`
	CardHolder       string  `json:"cardHolder"`
}

// PaymentResultEvent is the asynchronous capture outcome consumed from the
// payment-result topic.
type PaymentResultEvent struct {
	OrderID  string `json:"orderId"`
	Accepted bool   `json:"accepted"`
}
