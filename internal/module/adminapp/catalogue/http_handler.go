package catalogue

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
	Validate         *validator.Validate
	CatalogueUseCase CatalogueUseCase
}

func InitHTTPHandler(router *mux.Router, adminSession *internalMiddleware.AdminSession, validate *validator.Validate, catalogueUseCase CatalogueUseCase) {
	handler := &HTTPHandler{
		Validate:         validate,
		CatalogueUseCase: catalogueUseCase,
	}

	router.HandleFunc("/ct-ticket/v1/adminapp/tickets", publicMiddleware.SetRouteChain(handler.AddTicket, adminSession.Verify)).Methods(http.MethodPost)
	router.HandleFunc("/ct-ticket/v1/adminapp/tickets", publicMiddleware.SetRouteChain(handler.GetCatalogue, adminSession.Verify)).Methods(http.MethodGet)
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

func (handler HTTPHandler) AddTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := AddTicketRequest{}
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

	resp, err := handler.CatalogueUseCase.AddTicket(ctx, req)
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
		Message: "ticket has been successfully added to catalogue",
		Data:    resp,
		Meta:    nil,
	})
}

func (handler HTTPHandler) GetCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.CatalogueUseCase.GetCatalogue(ctx)
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
		Message: "list of ticket catalogue",
		Data:    resp,
		Meta:    nil,
	})
}
