package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response. A nil body writes only the status.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}
