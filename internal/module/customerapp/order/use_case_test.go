package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/internal/module/customerapp/catalogue"
	"github.com/cityline-transit/ct-ticket/internal/pkg/jwt"
	"github.com/cityline-transit/ct-ticket/internal/pkg/session"
	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type fakeTicketCatalogueRepository struct {
	ticket catalogue.TicketCatalogue
	err    error
}

func (f *fakeTicketCatalogueRepository) FindAll(ctx context.Context, tx *sql.Tx) ([]catalogue.TicketCatalogue, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []catalogue.TicketCatalogue{f.ticket}, nil
}

func (f *fakeTicketCatalogueRepository) FindByID(ctx context.Context, ID int64, tx *sql.Tx) (catalogue.TicketCatalogue, error) {
	if f.err != nil {
		return catalogue.TicketCatalogue{}, f.err
	}
	return f.ticket, nil
}

type statusUpdate struct {
	orderID   string
	newStatus string
}

type fakeOrderRepository struct {
	saved       []Order
	saveErr     error
	found       Order
	findErr     error
	many        []Order
	updates     []statusUpdate
	updateErr   error
	affected    int64
	commits     int
	rollbacks   int
}

func (f *fakeOrderRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return nil, nil
}

func (f *fakeOrderRepository) CommitTx(ctx context.Context, tx *sql.Tx) error {
	f.commits++
	return nil
}

func (f *fakeOrderRepository) Rollback(ctx context.Context, tx *sql.Tx) error {
	f.rollbacks++
	return nil
}

func (f *fakeOrderRepository) Save(ctx context.Context, o Order, tx *sql.Tx) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, o)
	return nil
}

func (f *fakeOrderRepository) FindByID(ctx context.Context, ID string, tx *sql.Tx) (Order, error) {
	if f.findErr != nil {
		return Order{}, f.findErr
	}
	return f.found, nil
}

func (f *fakeOrderRepository) FindManyByCustomer(ctx context.Context, customerUsername string, tx *sql.Tx) ([]Order, error) {
	return f.many, nil
}

func (f *fakeOrderRepository) FindAll(ctx context.Context, tx *sql.Tx) ([]Order, error) {
	return f.many, nil
}

func (f *fakeOrderRepository) UpdateStatus(ctx context.Context, ID string, newStatus string, tx *sql.Tx) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	f.updates = append(f.updates, statusUpdate{orderID: ID, newStatus: newStatus})
	return f.affected, nil
}

type publishedMessage struct {
	topic   string
	key     string
	headers map[string]string
	value   []byte
}

type fakePublisher struct {
	published []publishedMessage
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, key string, headers map[string]string, message []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{topic: topic, key: key, headers: headers, value: message})
	return nil
}

func (f *fakePublisher) Close() {}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func int64Ptr(v int64) *int64 {
	return &v
}

func customerCtx(username string, age *int64) context.Context {
	ctx := session.SetAccountToCtx(context.Background(), session.Account{
		Username: username,
		Role:     jwt.RoleCustomer,
		Age:      age,
	})
	return session.SetTokenToCtx(ctx, "bearer-token")
}

func adminCtx(username string) context.Context {
	ctx := session.SetAccountToCtx(context.Background(), session.Account{
		Username: username,
		Role:     jwt.RoleAdmin,
	})
	return session.SetTokenToCtx(ctx, "bearer-token")
}

func newTestUseCase(catalogueRepo catalogue.TicketCatalogueRepository, orderRepo OrderRepository, publisher *fakePublisher) OrderUseCase {
	return NewOrderUseCase(OrderUseCaseProperty{
		Logger:                    testLogger(),
		Timeout:                   5 * time.Second,
		PaymentRequestTopic:       "payment-request",
		TicketCatalogueRepository: catalogueRepo,
		OrderRepository:           orderRepo,
		Publisher:                 publisher,
	})
}

func validPurchaseRequest() PurchaseRequest {
	return PurchaseRequest{
		TicketCatalogueID: 7,
		Quantity:          2,
		Payment: PaymentInfoRequest{
			CardNumber:     "12345678901234",
			ExpirationDate: "12/30",
			CVV:            "123",
			CardHolder:     "Jane Doe",
		},
	}
}

func TestPurchase(t *testing.T) {
	t.Run("creates a pending order and dispatches exactly one capture request", func(t *testing.T) {
		catalogueRepo := &fakeTicketCatalogueRepository{
			ticket: catalogue.TicketCatalogue{TicketID: 7, Type: "single", Price: 12.5, Zones: "A"},
		}
		orderRepo := &fakeOrderRepository{}
		publisher := &fakePublisher{}
		useCase := newTestUseCase(catalogueRepo, orderRepo, publisher)

		resp, err := useCase.Purchase(customerCtx("jane", nil), validPurchaseRequest())
		if err != nil {
			t.Fatalf("Purchase failed: %v", err)
		}

		if resp.Status != StatusPending {
			t.Errorf("status = %q, want %q", resp.Status, StatusPending)
		}
		if resp.CustomerUsername != "jane" {
			t.Errorf("customer = %q, want %q", resp.CustomerUsername, "jane")
		}
		if resp.OrderID == "" {
			t.Error("order id must not be empty")
		}

		if len(orderRepo.saved) != 1 {
			t.Fatalf("saved %d orders, want 1", len(orderRepo.saved))
		}
		if orderRepo.saved[0].Status != StatusPending {
			t.Errorf("stored status = %q, want %q", orderRepo.saved[0].Status, StatusPending)
		}
		if orderRepo.commits != 1 || orderRepo.rollbacks != 0 {
			t.Errorf("commits = %d, rollbacks = %d", orderRepo.commits, orderRepo.rollbacks)
		}

		if len(publisher.published) != 1 {
			t.Fatalf("published %d messages, want 1", len(publisher.published))
		}
		msg := publisher.published[0]
		if msg.topic != "payment-request" {
			t.Errorf("topic = %q", msg.topic)
		}
		if msg.key != resp.OrderID {
			t.Errorf("message key = %q, want order id %q", msg.key, resp.OrderID)
		}
		if msg.headers["authorization"] != "bearer-token" {
			t.Errorf("authorization header = %q", msg.headers["authorization"])
		}

		var capture TransactionInfo
		if err := json.Unmarshal(msg.value, &capture); err != nil {
			t.Fatalf("capture payload cannot be unmarshalled: %v", err)
		}
		if capture.OrderID != resp.OrderID {
			t.Errorf("capture order id = %q, want %q", capture.OrderID, resp.OrderID)
		}
		if capture.Amount != 25.0 {
			t.Errorf("capture amount = %v, want 25", capture.Amount)
		}
		if capture.CreditCardNumber != "12345678901234" {
			t.Errorf("capture card number = %q", capture.CreditCardNumber)
		}
	})

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		_, err := useCase.Purchase(context.Background(), validPurchaseRequest())
		if err == nil {
			t.Fatal("expected an error")
		}
		if ae := errors.Destruct(err); ae.HTTPStatusCode != http.StatusUnauthorized {
			t.Errorf("http status = %d, want %d", ae.HTTPStatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("rejects invalid input before anything is written", func(t *testing.T) {
		cases := []struct {
			name        string
			mutate      func(r *PurchaseRequest)
			wantMessage string
		}{
			{
				name:        "zero quantity",
				mutate:      func(r *PurchaseRequest) { r.Quantity = 0 },
				wantMessage: "quantity must be a positive integer",
			},
			{
				name:        "negative quantity",
				mutate:      func(r *PurchaseRequest) { r.Quantity = -3 },
				wantMessage: "quantity must be a positive integer",
			},
			{
				name:        "card number too short",
				mutate:      func(r *PurchaseRequest) { r.Payment.CardNumber = "1234" },
				wantMessage: "credit card number is not valid",
			},
			{
				name:        "card number with letters",
				mutate:      func(r *PurchaseRequest) { r.Payment.CardNumber = "1234abcd90123456" },
				wantMessage: "credit card number is not valid",
			},
			{
				name:        "expired card",
				mutate:      func(r *PurchaseRequest) { r.Payment.ExpirationDate = "01/20" },
				wantMessage: "credit card expiration date is not valid",
			},
			{
				name:        "malformed expiration date",
				mutate:      func(r *PurchaseRequest) { r.Payment.ExpirationDate = "2030-12" },
				wantMessage: "credit card expiration date is not valid",
			},
			{
				name:        "cvv too long",
				mutate:      func(r *PurchaseRequest) { r.Payment.CVV = "1234" },
				wantMessage: "credit card cvv is not valid",
			},
			{
				name:        "blank card holder",
				mutate:      func(r *PurchaseRequest) { r.Payment.CardHolder = "   " },
				wantMessage: "credit card holder name must not be blank",
			},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				catalogueRepo := &fakeTicketCatalogueRepository{
					ticket: catalogue.TicketCatalogue{TicketID: 7, Price: 12.5},
				}
				orderRepo := &fakeOrderRepository{}
				publisher := &fakePublisher{}
				useCase := newTestUseCase(catalogueRepo, orderRepo, publisher)

				req := validPurchaseRequest()
				c.mutate(&req)

				_, err := useCase.Purchase(customerCtx("jane", nil), req)
				if err == nil {
					t.Fatal("expected an error")
				}

				ae := errors.Destruct(err)
				if ae.HTTPStatusCode != http.StatusBadRequest {
					t.Errorf("http status = %d, want %d", ae.HTTPStatusCode, http.StatusBadRequest)
				}
				if ae.Message != c.wantMessage {
					t.Errorf("message = %q, want %q", ae.Message, c.wantMessage)
				}

				if len(orderRepo.saved) != 0 {
					t.Errorf("saved %d orders, want none", len(orderRepo.saved))
				}
				if len(publisher.published) != 0 {
					t.Errorf("published %d messages, want none", len(publisher.published))
				}
			})
		}
	})

	t.Run("rejects an unknown ticket catalogue id", func(t *testing.T) {
		catalogueRepo := &fakeTicketCatalogueRepository{
			err: errors.New(http.StatusBadRequest, status.BAD_REQUEST, "ticket catalogue with id '7' is not found"),
		}
		orderRepo := &fakeOrderRepository{}
		useCase := newTestUseCase(catalogueRepo, orderRepo, &fakePublisher{})

		_, err := useCase.Purchase(customerCtx("jane", nil), validPurchaseRequest())
		if err == nil {
			t.Fatal("expected an error")
		}
		if ae := errors.Destruct(err); ae.HTTPStatusCode != http.StatusBadRequest {
			t.Errorf("http status = %d, want %d", ae.HTTPStatusCode, http.StatusBadRequest)
		}
		if len(orderRepo.saved) != 0 {
			t.Errorf("saved %d orders, want none", len(orderRepo.saved))
		}
	})

	t.Run("enforces the ticket's age restriction", func(t *testing.T) {
		catalogueRepo := &fakeTicketCatalogueRepository{
			ticket: catalogue.TicketCatalogue{
				TicketID: 7,
				Price:    12.5,
				MinAge:   int64Ptr(10),
				MaxAge:   int64Ptr(100),
			},
		}

		cases := []struct {
			name    string
			age     *int64
			wantErr bool
		}{
			{name: "below minimum age", age: int64Ptr(9), wantErr: true},
			{name: "above maximum age", age: int64Ptr(101), wantErr: true},
			{name: "at minimum age", age: int64Ptr(10), wantErr: false},
			{name: "within range", age: int64Ptr(30), wantErr: false},
			{name: "age unknown", age: nil, wantErr: false},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				orderRepo := &fakeOrderRepository{}
				useCase := newTestUseCase(catalogueRepo, orderRepo, &fakePublisher{})

				_, err := useCase.Purchase(customerCtx("jane", c.age), validPurchaseRequest())
				if c.wantErr {
					if err == nil {
						t.Fatal("expected an error")
					}
					if ae := errors.Destruct(err); ae.HTTPStatusCode != http.StatusBadRequest {
						t.Errorf("http status = %d, want %d", ae.HTTPStatusCode, http.StatusBadRequest)
					}
					if len(orderRepo.saved) != 0 {
						t.Errorf("saved %d orders, want none", len(orderRepo.saved))
					}
					return
				}
				if err != nil {
					t.Fatalf("Purchase failed: %v", err)
				}
			})
		}
	})

	t.Run("rolls back the order when the capture dispatch fails", func(t *testing.T) {
		catalogueRepo := &fakeTicketCatalogueRepository{
			ticket: catalogue.TicketCatalogue{TicketID: 7, Price: 12.5},
		}
		orderRepo := &fakeOrderRepository{}
		publisher := &fakePublisher{err: errors.New(http.StatusBadGateway, status.BAD_GATEWAY, "broker is unreachable")}
		useCase := newTestUseCase(catalogueRepo, orderRepo, publisher)

		_, err := useCase.Purchase(customerCtx("jane", nil), validPurchaseRequest())
		if err == nil {
			t.Fatal("expected an error")
		}
		if ae := errors.Destruct(err); ae.HTTPStatusCode != http.StatusBadGateway {
			t.Errorf("http status = %d, want %d", ae.HTTPStatusCode, http.StatusBadGateway)
		}
		if orderRepo.rollbacks != 1 || orderRepo.commits != 0 {
			t.Errorf("rollbacks = %d, commits = %d", orderRepo.rollbacks, orderRepo.commits)
		}
	})

	t.Run("rolls back when the order cannot be stored", func(t *testing.T) {
		catalogueRepo := &fakeTicketCatalogueRepository{
			ticket: catalogue.TicketCatalogue{TicketID: 7, Price: 12.5},
		}
		orderRepo := &fakeOrderRepository{
			saveErr: errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving order's properties"),
		}
		publisher := &fakePublisher{}
		useCase := newTestUseCase(catalogueRepo, orderRepo, publisher)

		_, err := useCase.Purchase(customerCtx("jane", nil), validPurchaseRequest())
		if err == nil {
			t.Fatal("expected an error")
		}
		if orderRepo.rollbacks != 1 {
			t.Errorf("rollbacks = %d, want 1", orderRepo.rollbacks)
		}
		if len(publisher.published) != 0 {
			t.Errorf("published %d messages, want none", len(publisher.published))
		}
	})
}

func TestOnPaymentResult(t *testing.T) {
	t.Run("accepts a pending order when the payment is accepted", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			found:    Order{OrderID: "order-1", Status: StatusPending},
			affected: 1,
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		err := useCase.OnPaymentResult(context.Background(), PaymentResultEvent{OrderID: "order-1", Accepted: true})
		if err != nil {
			t.Fatalf("OnPaymentResult failed: %v", err)
		}

		if len(orderRepo.updates) != 1 {
			t.Fatalf("updated %d times, want 1", len(orderRepo.updates))
		}
		if orderRepo.updates[0].newStatus != StatusAccepted {
			t.Errorf("new status = %q, want %q", orderRepo.updates[0].newStatus, StatusAccepted)
		}
	})

	t.Run("cancels a pending order when the payment is rejected", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			found:    Order{OrderID: "order-1", Status: StatusPending},
			affected: 1,
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		err := useCase.OnPaymentResult(context.Background(), PaymentResultEvent{OrderID: "order-1", Accepted: false})
		if err != nil {
			t.Fatalf("OnPaymentResult failed: %v", err)
		}

		if len(orderRepo.updates) != 1 || orderRepo.updates[0].newStatus != StatusCanceled {
			t.Errorf("updates = %+v, want a single transition to %q", orderRepo.updates, StatusCanceled)
		}
	})

	t.Run("discards a result for an unknown order", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			findErr: errors.New(http.StatusNotFound, status.NOT_FOUND, "order's properties with id 'order-9' is not found"),
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		err := useCase.OnPaymentResult(context.Background(), PaymentResultEvent{OrderID: "order-9", Accepted: true})
		if err != nil {
			t.Fatalf("expected the unknown order to be acknowledged, got %v", err)
		}
		if len(orderRepo.updates) != 0 {
			t.Errorf("updated %d times, want none", len(orderRepo.updates))
		}
	})

	t.Run("discards a duplicate result for a settled order", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			found: Order{OrderID: "order-1", Status: StatusAccepted},
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		err := useCase.OnPaymentResult(context.Background(), PaymentResultEvent{OrderID: "order-1", Accepted: false})
		if err != nil {
			t.Fatalf("expected the duplicate result to be acknowledged, got %v", err)
		}
		if len(orderRepo.updates) != 0 {
			t.Errorf("updated %d times, want none", len(orderRepo.updates))
		}
	})

	t.Run("tolerates a concurrent first transition", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			found:    Order{OrderID: "order-1", Status: StatusPending},
			affected: 0,
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		err := useCase.OnPaymentResult(context.Background(), PaymentResultEvent{OrderID: "order-1", Accepted: true})
		if err != nil {
			t.Fatalf("OnPaymentResult failed: %v", err)
		}
	})

	t.Run("propagates store errors for redelivery", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			found:     Order{OrderID: "order-1", Status: StatusPending},
			updateErr: errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating order's status"),
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		err := useCase.OnPaymentResult(context.Background(), PaymentResultEvent{OrderID: "order-1", Accepted: true})
		if err == nil {
			t.Fatal("expected the store error to propagate")
		}
	})
}

func TestGetOrder(t *testing.T) {
	t.Run("returns the customer's own order", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			found: Order{OrderID: "order-1", CustomerUsername: "jane", Status: StatusPending},
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		resp, err := useCase.GetOrder(customerCtx("jane", nil), "order-1")
		if err != nil {
			t.Fatalf("GetOrder failed: %v", err)
		}
		if resp.OrderID != "order-1" {
			t.Errorf("order id = %q", resp.OrderID)
		}
	})

	t.Run("denies access to another customer's order", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			found: Order{OrderID: "order-1", CustomerUsername: "john", Status: StatusPending},
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		_, err := useCase.GetOrder(customerCtx("jane", nil), "order-1")
		if err == nil {
			t.Fatal("expected an error")
		}
		if ae := errors.Destruct(err); ae.HTTPStatusCode != http.StatusUnauthorized {
			t.Errorf("http status = %d, want %d", ae.HTTPStatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("denies a customer's access to a missing order the same way", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			findErr: errors.New(http.StatusNotFound, status.NOT_FOUND, "order's properties with id 'order-9' is not found"),
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		_, err := useCase.GetOrder(customerCtx("jane", nil), "order-9")
		if err == nil {
			t.Fatal("expected an error")
		}
		ae := errors.Destruct(err)
		if ae.HTTPStatusCode != http.StatusUnauthorized {
			t.Errorf("http status = %d, want %d", ae.HTTPStatusCode, http.StatusUnauthorized)
		}
		if ae.Message != "order is not accessible" {
			t.Errorf("message = %q", ae.Message)
		}
	})

	t.Run("lets an admin read any order", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			found: Order{OrderID: "order-1", CustomerUsername: "jane", Status: StatusAccepted},
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		resp, err := useCase.GetOrder(adminCtx("root"), "order-1")
		if err != nil {
			t.Fatalf("GetOrder failed: %v", err)
		}
		if resp.CustomerUsername != "jane" {
			t.Errorf("customer = %q", resp.CustomerUsername)
		}
	})

	t.Run("gives an admin the plain not found", func(t *testing.T) {
		orderRepo := &fakeOrderRepository{
			findErr: errors.New(http.StatusNotFound, status.NOT_FOUND, "order's properties with id 'order-9' is not found"),
		}
		useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

		_, err := useCase.GetOrder(adminCtx("root"), "order-9")
		if err == nil {
			t.Fatal("expected an error")
		}
		if ae := errors.Destruct(err); ae.HTTPStatusCode != http.StatusNotFound {
			t.Errorf("http status = %d, want %d", ae.HTTPStatusCode, http.StatusNotFound)
		}
	})
}

func TestGetManyOrder(t *testing.T) {
	orderRepo := &fakeOrderRepository{
		many: []Order{
			{OrderID: "order-1", CustomerUsername: "jane", Status: StatusAccepted},
			{OrderID: "order-2", CustomerUsername: "jane", Status: StatusPending},
		},
	}
	useCase := newTestUseCase(&fakeTicketCatalogueRepository{}, orderRepo, &fakePublisher{})

	resp, err := useCase.GetManyOrder(customerCtx("jane", nil))
	if err != nil {
		t.Fatalf("GetManyOrder failed: %v", err)
	}

	if len(resp) != 2 {
		t.Fatalf("got %d orders, want 2", len(resp))
	}
	if resp[0].OrderID != "order-1" || resp[1].OrderID != "order-2" {
		t.Errorf("orders out of order: %+v", resp)
	}

	if _, err := useCase.GetManyOrder(context.Background()); err == nil {
		t.Error("expected an error for a context without a session")
	}
}
