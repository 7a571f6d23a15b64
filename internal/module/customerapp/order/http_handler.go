package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	internalMiddleware "github.com/cityline-transit/ct-ticket/internal/pkg/middleware"
	"github.com/cityline-transit/ct-ticket/pkg/errors"
	publicMiddleware "github.com/cityline-transit/ct-ticket/pkg/middleware"
	"github.com/cityline-transit/ct-ticket/pkg/response"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type HTTPHandler struct {
	Validate     *validator.Validate
	OrderUseCase OrderUseCase
}

func InitHTTPHandler(router *mux.Router, customerSession *internalMiddleware.CustomerSession, anySession *internalMiddleware.AnySession, validate *validator.Validate, orderUseCase OrderUseCase) {
	handler := &HTTPHandler{
		Validate:     validate,
		OrderUseCase: orderUseCase,
	}

	router.HandleFunc("/ct-ticket/v1/customerapp/orders", publicMiddleware.SetRouteChain(handler.Purchase, customerSession.Verify)).Methods(http.MethodPost)
	router.HandleFunc("/ct-ticket/v1/customerapp/orders", publicMiddleware.SetRouteChain(handler.GetManyOrder, customerSession.Verify)).Methods(http.MethodGet)
	router.HandleFunc("/ct-ticket/v1/customerapp/orders/{orderId}", publicMiddleware.SetRouteChain(handler.GetOrder, anySession.Verify)).Methods(http.MethodGet)
}

func (handler HTTPHandler) validate(ctx context.Context, payload interface{}) error {
	err := handler.Validate.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	errorFields := err.(validator.ValidationErrors)

	errMessages := make([]string, len(errorFields))

	for k, errorField := range errorFields {
		errMessages[k] = fmt.Sprintf("invalid '%s' with value '%v'", errorField.Field(), errorField.Value())
	}

	return fmt.Errorf("%s", strings.Join(errMessages, ", "))
}

func (handler HTTPHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := PurchaseRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusUnprocessableEntity, response.RESTEnvelope{
			Status:  status.UNPROCESSABLE_ENTITY,
			Message: err.Error(),
		})

		return
	}

	if err := handler.validate(ctx, req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: err.Error(),
		})

		return
	}

	resp, err := handler.OrderUseCase.Purchase(ctx, req)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusCreated, response.RESTEnvelope{
		Status:  status.CREATED,
		Message: "order has been successfully placed",
		Data:    resp,
		Meta:    nil,
	})
}

func (handler HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID := mux.Vars(r)["orderId"]

	resp, err := handler.OrderUseCase.GetOrder(ctx, orderID)
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
		Message: "order's properties",
		Data:    resp,
		Meta:    nil,
	})
}

func (handler HTTPHandler) GetManyOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.OrderUseCase.GetManyOrder(ctx)
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
