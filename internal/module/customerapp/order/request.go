package order

// Quantity and payment fields carry no validate tags on purpose: the use case
// checks them one at a time so each violation fails with its own message.
type PaymentInfoRequest struct {
	CardNumber     string `json:"card_number"`
	ExpirationDate string `json:"expiration_date"`
	CVV            string `json:"cvv"`
	CardHolder     string `json:"card_holder"`
}

type PurchaseRequest struct {
	TicketCatalogueID int64              `json:"ticket_catalogue_id" validate:"required"`
	Quantity          int64              `json:"quantity"`
	Payment           PaymentInfoRequest `json:"payment"`
}
