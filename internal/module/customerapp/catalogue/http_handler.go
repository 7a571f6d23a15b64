package catalogue

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/response"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type HTTPHandler struct {
	CatalogueUseCase CatalogueUseCase
}

func InitHTTPHandler(router *mux.Router, catalogueUseCase CatalogueUseCase) {
	handler := &HTTPHandler{
		CatalogueUseCase: catalogueUseCase,
	}

	// the catalogue is public, no session required
	router.HandleFunc("/ct-ticket/v1/customerapp/tickets", handler.GetCatalogue).Methods(http.MethodGet)
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
