package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/xelth-com/eckcheckin/internal/models"
)

var (
	// ErrTransport covers timeouts, refused connections and unreadable bodies
	ErrTransport = errors.New("transport failure")
	// ErrMalformedBody is a 404 whose body is not a JSON error object
	ErrMalformedBody = errors.New("malformed error body")
)

// notFoundDetail is what API Gateway puts in "detail" when no route matched
const notFoundDetail = "Not Found"

// errorBody is the FastAPI/API Gateway error envelope
type errorBody struct {
	Detail any `json:"detail"`
}

// Classify maps a status code and body to a verdict. The body is only
// inspected for 404 responses; an unparseable 404 body is a request-error.
func Classify(status int, body []byte) (models.Verdict, error) {
	if status == http.StatusNotFound {
		var eb *errorBody
		if err := json.Unmarshal(body, &eb); err != nil {
			return models.VerdictRequestError, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		// A bare null decodes without error but is not an error object
		if eb == nil {
			return models.VerdictRequestError, fmt.Errorf("%w: body is null", ErrMalformedBody)
		}
		if detail, ok := eb.Detail.(string); ok && detail == notFoundDetail {
			return models.VerdictGatewayMisconfigured, nil
		}
	}

	switch status {
	case http.StatusOK, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return models.VerdictServiceResponding, nil
	default:
		return models.VerdictUnexpectedStatus, nil
	}
}
