package bank

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/errors"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestCharge(t *testing.T) {
	t.Run("decodes an approved charge", func(t *testing.T) {
		var gotAuth string
		var gotReq ChargeRequest

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/v1/charges" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			gotAuth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&gotReq)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(ChargeResponse{Status: ChargeStatusApproved, AuthorizationID: "auth-42"})
		}))
		defer srv.Close()

		repo := NewBankRepository(srv.URL, "basic-key", testLogger(), srv.Client())

		resp, err := repo.Charge(context.Background(), ChargeRequest{
			OrderID: "order-1",
			Amount:  25.0,
			Card:    Card{Number: "1234567890123456", ExpirationDate: "12/30", CVV: "123", Holder: "Jane Doe"},
		})
		if err != nil {
			t.Fatalf("Charge failed: %v", err)
		}

		if resp.Status != ChargeStatusApproved || resp.AuthorizationID != "auth-42" {
			t.Errorf("resp = %+v", resp)
		}
		if gotAuth != "Basic basic-key" {
			t.Errorf("authorization header = %q", gotAuth)
		}
		if gotReq.OrderID != "order-1" || gotReq.Card.Number != "1234567890123456" {
			t.Errorf("request body = %+v", gotReq)
		}
	})

	t.Run("maps a non 2xx response to a bad gateway", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}))
		defer srv.Close()

		repo := NewBankRepository(srv.URL, "basic-key", testLogger(), srv.Client())

		_, err := repo.Charge(context.Background(), ChargeRequest{OrderID: "order-1"})
		if err == nil {
			t.Fatal("expected an error")
		}
		if ae := errors.Destruct(err); ae.HTTPStatusCode != http.StatusBadGateway {
			t.Errorf("http status = %d, want %d", ae.HTTPStatusCode, http.StatusBadGateway)
		}
	})

	t.Run("maps an unreachable acquirer to a bad gateway", func(t *testing.T) {
		repo := NewBankRepository("http://127.0.0.1:1", "basic-key", testLogger(), http.DefaultClient)

		_, err := repo.Charge(context.Background(), ChargeRequest{OrderID: "order-1"})
		if err == nil {
			t.Fatal("expected an error")
		}
		if ae := errors.Destruct(err); ae.HTTPStatusCode != http.StatusBadGateway {
			t.Errorf("http status = %d, want %d", ae.HTTPStatusCode, http.StatusBadGateway)
		}
	})

	t.Run("maps a malformed body to a bad gateway", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{malformed"))
		}))
		defer srv.Close()

		repo := NewBankRepository(srv.URL, "basic-key", testLogger(), srv.Client())

		_, err := repo.Charge(context.Background(), ChargeRequest{OrderID: "order-1"})
		if err == nil {
			t.Fatal("expected an error")
		}
	})
}
