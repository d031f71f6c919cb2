package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Stage     string `json:"stage,omitempty"`
	ExitCode  *int   `json:"exit_code,omitempty"`
	Log       string `json:"log,omitempty"`
}

// writeJSON encodes payload with the given status. Encoding errors are
// dropped: the header is already sent.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Status:    "error",
		Message:   msg,
		RequestID: RequestIDFrom(r.Context()),
	})
}

// writePDF sends pdf inline under filename.
func writePDF(w http.ResponseWriter, filename string, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
