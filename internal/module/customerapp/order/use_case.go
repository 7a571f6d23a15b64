package order

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/internal/module/customerapp/catalogue"
	"github.com/cityline-transit/ct-ticket/internal/pkg/jwt"
	"github.com/cityline-transit/ct-ticket/internal/pkg/session"
	"github.com/cityline-transit/ct-ticket/internal/pkg/util"
	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/pubsub"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type OrderUseCase interface {
	Purchase(ctx context.Context, req PurchaseRequest) (OrderResponse, error)
	OnPaymentResult(ctx context.Context, e PaymentResultEvent) error
	GetOrder(ctx context.Context, orderID string) (OrderResponse, error)
	GetManyOrder(ctx context.Context) (GetManyOrderResponse, error)
}

type orderUseCase struct {
	logger                    *logrus.Logger
	timeout                   time.Duration
	paymentRequestTopic       string
	ticketCatalogueRepository catalogue.TicketCatalogueRepository
	orderRepository           OrderRepository
	publisher                 pubsub.Publisher
}

type OrderUseCaseProperty struct {
	Logger                    *logrus.Logger
	Timeout                   time.Duration
	PaymentRequestTopic       string
	TicketCatalogueRepository catalogue.TicketCatalogueRepository
	OrderRepository           OrderRepository
	Publisher                 pubsub.Publisher
}

func NewOrderUseCase(props OrderUseCaseProperty) OrderUseCase {
	return &orderUseCase{
		logger:                    props.Logger,
		timeout:                   props.Timeout,
		paymentRequestTopic:       props.PaymentRequestTopic,
		ticketCatalogueRepository: props.TicketCatalogueRepository,
		orderRepository:           props.OrderRepository,
		publisher:                 props.Publisher,
	}
}

func validatePaymentInfo(p PaymentInfoRequest, now time.Time) error {
	if !util.IsValidCardNumber(p.CardNumber) {
		return errors.New(http.StatusBadRequest, status.BAD_REQUEST, "credit card number is not valid")
	}

	if !util.IsValidCardExpiry(p.ExpirationDate, now) {
		return errors.New(http.StatusBadRequest, status.BAD_REQUEST, "credit card expiration date is not valid")
	}

	if !util.IsValidCVV(p.CVV) {
		return errors.New(http.StatusBadRequest, status.BAD_REQUEST, "credit card cvv is not valid")
	}

	if !util.IsValidCardHolder(p.CardHolder) {
		return errors.New(http.StatusBadRequest, status.BAD_REQUEST, "credit card holder name must not be blank")
	}

	return nil
}

func validateAgeRestriction(tc catalogue.TicketCatalogue, age *int64) error {
	if age == nil {
		return nil
	}

	if tc.MinAge != nil && *age < *tc.MinAge {
		return errors.New(http.StatusBadRequest, status.BAD_REQUEST, "customer's age does not satisfy the ticket's age restriction")
	}

	if tc.MaxAge != nil && *age > *tc.MaxAge {
		return errors.New(http.StatusBadRequest, status.BAD_REQUEST, "customer's age does not satisfy the ticket's age restriction")
	}

	return nil
}

// Purchase implements OrderUseCase. Preconditions are checked in a fixed
// order before anything is written; the order row and the capture dispatch
// then happen inside one transaction boundary so neither exists without the
// other.
func (u *orderUseCase) Purchase(ctx context.Context, req PurchaseRequest) (OrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return OrderResponse{}, err
	}

	token, err := session.GetTokenFromCtx(ctx)
	if err != nil {
		return OrderResponse{}, err
	}

	now := time.Now()

	if req.Quantity <= 0 {
		return OrderResponse{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "quantity must be a positive integer")
	}

	tc, err := u.ticketCatalogueRepository.FindByID(ctx, req.TicketCatalogueID, nil)
	if err != nil {
		return OrderResponse{}, err
	}

	if err := validatePaymentInfo(req.Payment, now); err != nil {
		return OrderResponse{}, err
	}

	if err := validateAgeRestriction(tc, acc.Age); err != nil {
		return OrderResponse{}, err
	}

	o := Order{
		OrderID:           util.GenerateOrderID(),
		TicketCatalogueID: tc.TicketID,
		Quantity:          req.Quantity,
		CustomerUsername:  acc.Username,
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	tx, err := u.orderRepository.BeginTx(ctx)
	if err != nil {
		return OrderResponse{}, err
	}

	if err := u.orderRepository.Save(ctx, o, tx); err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return OrderResponse{}, err
	}

	capture := TransactionInfo{
		OrderID:          o.OrderID,
		Amount:           tc.Price * float64(req.Quantity),
		CreditCardNumber: req.Payment.CardNumber,
		ExpirationDate:   req.Payment.ExpirationDate,
		CVV:              req.Payment.CVV,
		CardHolder:       req.Payment.CardHolder,
	}

	captureBuff, _ := json.Marshal(capture)

	headers := map[string]string{
		"authorization": token,
	}

	if err := u.publisher.Publish(ctx, u.paymentRequestTopic, o.OrderID, headers, captureBuff); err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return OrderResponse{}, errors.New(http.StatusBadGateway, status.BAD_GATEWAY, "an error occurred while dispatching payment capture request")
	}

	if err := u.orderRepository.CommitTx(ctx, tx); err != nil {
		return OrderResponse{}, err
	}

	resp := OrderResponse{}
	resp.PopulateFromEntity(o)

	return resp, nil
}

// OnPaymentResult implements OrderUseCase. The handler is idempotent: unknown
// orders and orders already in a terminal status are acknowledged without a
// write, and the conditional update guards against a concurrent first
// transition. Only store errors propagate, which leaves redelivery to the
// messaging channel.
func (u *orderUseCase) OnPaymentResult(ctx context.Context, e PaymentResultEvent) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	o, err := u.orderRepository.FindByID(ctx, e.OrderID, nil)
	if err != nil {
		ae := errors.Destruct(err)
		if ae.HTTPStatusCode == http.StatusNotFound {
			u.logger.WithContext(ctx).WithField("order_id", e.OrderID).Info("payment result for unknown order has been discarded")
			return nil
		}
		return err
	}

	if o.IsTerminal() {
		u.logger.WithContext(ctx).WithFields(logrus.Fields{
			"order_id": e.OrderID,
			"status":   o.Status,
		}).Info("payment result for settled order has been discarded")
		return nil
	}

	newStatus := StatusCanceled
	if e.Accepted {
		newStatus = StatusAccepted
	}

	affected, err := u.orderRepository.UpdateStatus(ctx, e.OrderID, newStatus, nil)
	if err != nil {
		return err
	}

	if affected == 0 {
		u.logger.WithContext(ctx).WithField("order_id", e.OrderID).Info("order has already been settled by a concurrent payment result")
	}

	return nil
}

// GetOrder implements OrderUseCase. Customers only ever see their own orders;
// a missing order and someone else's order fail the same way so order ids of
// other customers cannot be probed. Admins get the plain not-found.
func (u *orderUseCase) GetOrder(ctx context.Context, orderID string) (OrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return OrderResponse{}, err
	}

	o, err := u.orderRepository.FindByID(ctx, orderID, nil)
	if err != nil {
		if acc.Role == jwt.RoleAdmin {
			return OrderResponse{}, err
		}
		return OrderResponse{}, errors.New(http.StatusUnauthorized, status.UNAUTHORIZED, "order is not accessible")
	}

	if acc.Role != jwt.RoleAdmin && o.CustomerUsername != acc.Username {
		return OrderResponse{}, errors.New(http.StatusUnauthorized, status.UNAUTHORIZED, "order is not accessible")
	}

	resp := OrderResponse{}
	resp.PopulateFromEntity(o)

	return resp, nil
}

// GetManyOrder implements OrderUseCase.
func (u *orderUseCase) GetManyOrder(ctx context.Context) (GetManyOrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := u.orderRepository.FindManyByCustomer(ctx, acc.Username, nil)
	if err != nil {
		return nil, err
	}

	resp := make(GetManyOrderResponse, len(orders))
	for k, v := range orders {
		resp[k].PopulateFromEntity(v)
	}

	return resp, nil
}
