package api

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the body of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorDetails struct {
	Details string `json:"details"`
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(Envelope{
		Success: status < http.StatusBadRequest,
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, status, message, data)
}

// writeFailure converts err into an error envelope. Internal failures carry the error text as details.
func writeFailure(w http.ResponseWriter, err error) {
	failure, ok := core.AsFailure(shell.Classify(err))
	if !ok {
		failure = core.InternalFailure("internal error", err)
	}

	if failure.Kind == core.KindInternal {
		details := failure.Message
		if failure.Cause != nil {
			details = failure.Cause.Error()
		}

		writeEnvelope(w, failure.Kind.HTTPStatus(), failure.Message, errorDetails{Details: details})
		return
	}

	writeEnvelope(w, failure.Kind.HTTPStatus(), failure.Message, nil)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeEnvelope(w, http.StatusUnauthorized, message, nil)
}

// decodeJSON reads a JSON request body into target.
func decodeJSON(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return core.Failure{Kind: core.KindValidation, Message: "invalid request body", Cause: err}
	}

	return nil
}
