package errors

import (
	"net/http"

	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type ApplicationError struct {
	HTTPStatusCode int
	Status         string
	Message        string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

func New(httpStatusCode int, applicationStatus string, message string) error {
	return &ApplicationError{
		HTTPStatusCode: httpStatusCode,
		Status:         applicationStatus,
		Message:        message,
	}
}

// Destruct unwraps err into an ApplicationError. Errors of any other type are
// flattened into a generic internal server error so the handler never leaks
// driver level messages to the client.
func Destruct(err error) *ApplicationError {
	ae, ok := err.(*ApplicationError)
	if ok {
		return ae
	}

	return &ApplicationError{
		HTTPStatusCode: http.StatusInternalServerError,
		Status:         status.INTERNAL_SERVER_ERROR,
		Message:        "an unexpected error occurred",
	}
}
