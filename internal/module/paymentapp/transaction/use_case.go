package transaction

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/internal/module/paymentapp/bank"
	"github.com/cityline-transit/ct-ticket/internal/pkg/jwt"
	"github.com/cityline-transit/ct-ticket/internal/pkg/session"
	"github.com/cityline-transit/ct-ticket/internal/pkg/util"
	"github.com/cityline-transit/ct-ticket/pkg/pubsub"
)

type TransactionUseCase interface {
	ProcessTransaction(ctx context.Context, e TransactionInfo, token string) error
	GetManyTransaction(ctx context.Context) (GetManyTransactionResponse, error)
	GetAllTransaction(ctx context.Context) (GetManyTransactionResponse, error)
}

type transactionUseCase struct {
	logger                *logrus.Logger
	timeout               time.Duration
	paymentResultTopic    string
	jsonWebToken          jwt.JSONWebToken
	transactionRepository TransactionRepository
	bankRepository        bank.BankRepository
	publisher             pubsub.Publisher
}

type TransactionUseCaseProperty struct {
	Logger                *logrus.Logger
	Timeout               time.Duration
	PaymentResultTopic    string
	JSONWebToken          jwt.JSONWebToken
	TransactionRepository TransactionRepository
	BankRepository        bank.BankRepository
	Publisher             pubsub.Publisher
}

func NewTransactionUseCase(props TransactionUseCaseProperty) TransactionUseCase {
	return &transactionUseCase{
		logger:                props.Logger,
		timeout:               props.Timeout,
		paymentResultTopic:    props.PaymentResultTopic,
		jsonWebToken:          props.JSONWebToken,
		transactionRepository: props.TransactionRepository,
		bankRepository:        props.BankRepository,
		publisher:             props.Publisher,
	}
}

func (u *transactionUseCase) publishResult(ctx context.Context, orderID string, accepted bool) error {
	result := PaymentResult{
		OrderID:  orderID,
		Accepted: accepted,
	}

	resultBuff, _ := json.Marshal(result)

	return u.publisher.Publish(ctx, u.paymentResultTopic, orderID, nil, resultBuff)
}

// ProcessTransaction implements TransactionUseCase. Transport errors towards
// the acquirer or the store propagate so the message is redelivered; every
// settled outcome ends with a persisted transaction row and exactly one
// published payment result per order.
func (u *transactionUseCase) ProcessTransaction(ctx context.Context, e TransactionInfo, token string) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	now := time.Now()

	t := Transaction{
		TransactionID:    util.GenerateTransactionID(),
		OrderID:          e.OrderID,
		Amount:           e.Amount,
		MaskedCardNumber: util.MaskCardNumber(e.CreditCardNumber),
		CardHolder:       e.CardHolder,
		Status:           StatusRejected,
		CreatedAt:        now,
	}

	claims, err := u.jsonWebToken.Parse(token)
	if err != nil {
		u.logger.WithContext(ctx).WithError(err).WithField("order_id", e.OrderID).Warn("capture request carries an invalid token, transaction is rejected")

		if err := u.transactionRepository.Save(ctx, t, nil); err != nil {
			return err
		}

		return u.publishResult(ctx, e.OrderID, false)
	}

	t.CustomerUsername = claims.Subject

	chargeResponse, err := u.bankRepository.Charge(ctx, bank.ChargeRequest{
		OrderID: e.OrderID,
		Amount:  e.Amount,
		Card: bank.Card{
			Number:         e.CreditCardNumber,
			ExpirationDate: e.ExpirationDate,
			CVV:            e.CVV,
			Holder:         e.CardHolder,
		},
	})
	if err != nil {
		return err
	}

	accepted := chargeResponse.Status == bank.ChargeStatusApproved
	if accepted {
		t.Status = StatusApproved
		t.AuthorizationID = &chargeResponse.AuthorizationID
	}

	if err := u.transactionRepository.Save(ctx, t, nil); err != nil {
		return err
	}

	return u.publishResult(ctx, e.OrderID, accepted)
}

// GetManyTransaction implements TransactionUseCase.
func (u *transactionUseCase) GetManyTransaction(ctx context.Context) (GetManyTransactionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	transactions, err := u.transactionRepository.FindManyByCustomer(ctx, acc.Username, nil)
	if err != nil {
		return nil, err
	}

	resp := make(GetManyTransactionResponse, len(transactions))
	for k, v := range transactions {
		resp[k].PopulateFromEntity(v)
	}

	return resp, nil
}

// GetAllTransaction implements TransactionUseCase.
func (u *transactionUseCase) GetAllTransaction(ctx context.Context) (GetManyTransactionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	transactions, err := u.transactionRepository.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	resp := make(GetManyTransactionResponse, len(transactions))
	for k, v := range transactions {
		resp[k].PopulateFromEntity(v)
	}

	return resp, nil
}
