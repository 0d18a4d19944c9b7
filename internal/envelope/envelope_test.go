package envelope

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
)

func TestSuccess(t *testing.T) {
	r := Success(map[string]string{"title": "X"})

	if r.Status != http.StatusOK {
		t.Errorf("Status = %d, want %d", r.Status, http.StatusOK)
	}
	if got, want := string(r.Body), `{"data":{"title":"X"}}`; got != want {
		t.Errorf("Body = %s, want %s", got, want)
	}
}

func TestSuccess_RawMessage(t *testing.T) {
	r := Success(json.RawMessage(`[1,2,3]`))

	if got, want := string(r.Body), `{"data":[1,2,3]}`; got != want {
		t.Errorf("Body = %s, want %s", got, want)
	}
}

func TestSuccess_UnencodableFallsBackToInternalError(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"NaN", math.NaN()},
		{"channel", make(chan int)},
		{"invalid raw JSON", json.RawMessage(`{"broken"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Success(tt.v)
			if r.Status != http.StatusInternalServerError {
				t.Fatalf("Status = %d, want %d", r.Status, http.StatusInternalServerError)
			}
			if !json.Valid(r.Body) {
				t.Fatalf("body is not valid JSON: %s", r.Body)
			}

			var body errorBody
			if err := json.Unmarshal(r.Body, &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body.Error.ErrorMessage != "Internal Server Error" {
				t.Errorf("error_message = %q, want %q", body.Error.ErrorMessage, "Internal Server Error")
			}
			if !strings.Contains(body.Error.MoreDetails, "failed to serialize response") {
				t.Errorf("more_details = %q, want mention of serialization", body.Error.MoreDetails)
			}
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	detail := ErrorDetail{ErrorMessage: "boom", MoreDetails: "extra"}

	tests := []struct {
		name       string
		resp       Response
		wantStatus int
		wantDetail ErrorDetail
	}{
		{"bad request", BadRequest(detail), http.StatusBadRequest, detail},
		{"bad gateway", BadGateway(ErrorDetail{ErrorMessage: "site down"}), http.StatusBadGateway, ErrorDetail{ErrorMessage: "site down"}},
		{
			"internal error", InternalError("oops"), http.StatusInternalServerError,
			ErrorDetail{
				ErrorMessage: "Internal Server Error",
				MoreDetails:  "There was some internal server error. oops. Report issues at " + IssuesURL,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.resp.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", tt.resp.Status, tt.wantStatus)
			}
			var body map[string]ErrorDetail
			if err := json.Unmarshal(tt.resp.Body, &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if _, ok := body["data"]; ok {
				t.Error("error envelope must not carry data")
			}
			if diff := cmp.Diff(tt.wantDetail, body["error"]); diff != "" {
				t.Errorf("error detail mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestErrorDetail_OmitsEmptyMoreDetails(t *testing.T) {
	r := BadGateway(ErrorDetail{ErrorMessage: "x"})
	if strings.Contains(string(r.Body), "more_details") {
		t.Errorf("Body = %s, want no more_details key", r.Body)
	}
}

func TestFromHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		err         *echo.HTTPError
		wantStatus  int
		wantMessage string
	}{
		{"method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"custom message", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge, "too big"},
		{"server error hides message", echo.NewHTTPError(http.StatusInternalServerError, "panic: nil map"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromHTTPError(tt.err)
			if r.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", r.Status, tt.wantStatus)
			}
			var body errorBody
			if err := json.Unmarshal(r.Body, &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body.Error.ErrorMessage != tt.wantMessage {
				t.Errorf("error_message = %q, want %q", body.Error.ErrorMessage, tt.wantMessage)
			}
		})
	}
}

func TestResponse_Write(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := BadRequest(ErrorDetail{ErrorMessage: "nope"}).Write(c); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		t.Errorf("Content-Type = %q, want %q", ct, echo.MIMEApplicationJSON)
	}
	if got, want := rec.Body.String(), `{"error":{"error_message":"nope"}}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}
