package transaction

import (
	"net/http"

	"github.com/gorilla/mux"

	internalMiddleware "github.com/cityline-transit/ct-ticket/internal/pkg/middleware"
	"github.com/cityline-transit/ct-ticket/pkg/errors"
	publicMiddleware "github.com/cityline-transit/ct-ticket/pkg/middleware"
	"github.com/cityline-transit/ct-ticket/pkg/response"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type HTTPHandler struct {
	TransactionUseCase TransactionUseCase
}

func InitHTTPHandler(router *mux.Router, customerSession *internalMiddleware.CustomerSession, adminSession *internalMiddleware.AdminSession, transactionUseCase TransactionUseCase) {
	handler := &HTTPHandler{
		TransactionUseCase: transactionUseCase,
	}

	router.HandleFunc("/ct-ticket/v1/paymentapp/transactions", publicMiddleware.SetRouteChain(handler.GetManyTransaction, customerSession.Verify)).Methods(http.MethodGet)
	router.HandleFunc("/ct-ticket/v1/paymentapp/admin/transactions", publicMiddleware.SetRouteChain(handler.GetAllTransaction, adminSession.Verify)).Methods(http.MethodGet)
}

func (handler HTTPHandler) GetManyTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.TransactionUseCase.GetManyTransaction(ctx)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "list of transactions",
		Data:    resp,
		Meta:    nil,
	})
}

func (handler HTTPHandler) GetAllTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.TransactionUseCase.GetAllTransaction(ctx)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "list of transactions",
		Data:    resp,
		Meta:    nil,
	})
}
