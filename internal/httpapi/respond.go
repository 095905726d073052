package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sandeepkv93/nexusflow/internal/httputil"
	"github.com/sandeepkv93/nexusflow/internal/service"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads the request body into dst. A malformed body is written
// as a validation error and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errEmptyBody
		}
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidation, "Invalid JSON body", []service.FieldError{
			{Field: "body", Message: err.Error()},
		})
		return false
	}
	return true
}

// writeServiceError maps a service error kind to its HTTP status. The cause
// of an internal error is logged and never sent to the caller.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = service.Internal("process request", err)
	}
	switch se.Kind {
	case service.KindValidation:
		var details any
		if len(se.Fields) > 0 {
			details = se.Fields
		}
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidation, se.Message, details)
	case service.KindNotFound:
		httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, se.Message, nil)
	default:
		zerolog.Ctx(r.Context()).Error().Err(se.Err).Str("path", r.URL.Path).Msg(se.Message)
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeInternal, se.Message, nil)
	}
}

type successBody struct {
	Success bool `json:"success"`
}

// parseTimeParam accepts RFC 3339 timestamps or plain dates. An empty value
// yields nil.
func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%q is not an RFC 3339 timestamp or YYYY-MM-DD date", raw)
}
