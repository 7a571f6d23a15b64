package order

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
	OrderUseCase OrderUseCase
}

func InitHTTPHandler(router *mux.Router, adminSession *internalMiddleware.AdminSession, orderUseCase OrderUseCase) {
	handler := &HTTPHandler{
		OrderUseCase: orderUseCase,
	}

	router.HandleFunc("/ct-ticket/v1/adminapp/orders", publicMiddleware.SetRouteChain(handler.GetAllOrder, adminSession.Verify)).Methods(http.MethodGet)
	router.HandleFunc("/ct-ticket/v1/adminapp/orders/{username}", publicMiddleware.SetRouteChain(handler.GetCustomerOrder, adminSession.Verify)).Methods(http.MethodGet)
}

func (handler HTTPHandler) GetAllOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.OrderUseCase.GetAllOrder(ctx)
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
		Message: "list of orders",
		Data:    resp,
		Meta:    nil,
	})
}

func (handler HTTPHandler) GetCustomerOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	customerUsername := mux.Vars(r)["username"]

	resp, err := handler.OrderUseCase.GetCustomerOrder(ctx, customerUsername)
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
		Message: "list of customer's orders",
		Data:    resp,
		Meta:    nil,
	})
}
