// Package envelope builds the uniform {"data": ...} / {"error": ...} JSON
// responses returned by every endpoint.
package envelope

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// IssuesURL is where internal errors ask users to report bugs.
const IssuesURL = "https://github.com/dvishal485/flipkart-scraper-api"

const internalErrorMessage = "Internal Server Error"

// ErrorDetail is the payload of the "error" member.
type ErrorDetail struct {
	ErrorMessage string `json:"error_message"`
	MoreDetails  string `json:"more_details,omitempty"`
}

// Response is a serialized envelope ready to be written.
type Response struct {
	Status int
	Body   []byte
}

type dataBody struct {
	Data any `json:"data"`
}

type errorBody struct {
	Error ErrorDetail `json:"error"`
}

// Success wraps v as {"data": v} with status 200. If v cannot be encoded the
// result is an InternalError instead.
func Success(v any) Response {
	body, err := json.Marshal(dataBody{Data: v})
	if err != nil {
		return InternalError(fmt.Sprintf("failed to serialize response: %v", err))
	}
	return Response{Status: http.StatusOK, Body: body}
}

// BadRequest reports a client input problem (400).
func BadRequest(d ErrorDetail) Response {
	return Error(http.StatusBadRequest, d)
}

// BadGateway reports a collaborator failure (502).
func BadGateway(d ErrorDetail) Response {
	return Error(http.StatusBadGateway, d)
}

// InternalError reports a failure of this service (500).
func InternalError(details string) Response {
	return Error(http.StatusInternalServerError, ErrorDetail{
		ErrorMessage: internalErrorMessage,
		MoreDetails: fmt.Sprintf("There was some internal server error. %s. Report issues at %s",
			details, IssuesURL),
	})
}

// Error builds an error envelope with an arbitrary status.
func Error(status int, d ErrorDetail) Response {
	body, err := json.Marshal(errorBody{Error: d})
	if err != nil {
		// ErrorDetail holds only strings; this is unreachable in practice.
		body = []byte(`{"error":{"error_message":"Internal Server Error"}}`)
		status = http.StatusInternalServerError
	}
	return Response{Status: status, Body: body}
}

// FromHTTPError renders an Echo framework error (405, 413, recovered panics)
// in envelope form.
func FromHTTPError(he *echo.HTTPError) Response {
	if he.Code >= http.StatusInternalServerError {
		return InternalError(http.StatusText(he.Code))
	}
	msg := http.StatusText(he.Code)
	if s, ok := he.Message.(string); ok && s != "" {
		msg = s
	}
	return Error(he.Code, ErrorDetail{ErrorMessage: msg})
}

// Write emits the envelope as application/json.
func (r Response) Write(c echo.Context) error {
	return c.JSONBlob(r.Status, r.Body)
}
