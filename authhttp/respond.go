package authhttp

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// respondJSON encodes v as JSON and writes it with the given status
// code. Encoding happens into a buffer first so a failed encode never
// half-writes a response; on encode failure a plain 500 is written
// instead.
func respondJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

// errorBody is the JSON shape of every non-success response.
type errorBody struct {
	Error string `json:"error"`
}
