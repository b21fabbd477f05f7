package common

import (
	"encoding/json"
	"net/http"
)

type SuccessResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	OK        bool   `json:"ok"`
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

// RespondOK wraps the payload in the {ok:true, data} envelope.
func RespondOK(w http.ResponseWriter, code int, data interface{}) {
	RespondWithJSON(w, code, SuccessResponse{OK: true, Data: data})
}

// RespondErr renders a domain error as {ok:false, error_kind, message}.
func RespondErr(w http.ResponseWriter, err error) {
	RespondWithJSON(w, HTTPStatusFromError(err), ErrorResponse{
		OK:        false,
		ErrorKind: ErrorKindFromError(err),
		Message:   err.Error(),
	})
}

// RespondWithError renders an explicit kind/message pair, for failures that
// happen before a domain error exists (e.g. unreadable request bodies).
func RespondWithError(w http.ResponseWriter, code int, kind, message string) {
	RespondWithJSON(w, code, ErrorResponse{OK: false, ErrorKind: kind, Message: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"ok": false, "error_kind": "internal_error", "message": "failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
