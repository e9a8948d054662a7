package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/tablefind/tablefind/internal/api/validate"
)

// M builds the response envelope: {success: bool, data|message|errors...}.
type M map[string]any

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Success(w http.ResponseWriter, status int, body M) {
	out := M{"success": true}
	for k, v := range body {
		out[k] = v
	}
	WriteJSON(w, status, out)
}

func Fail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, M{"success": false, "message": msg})
}

func FailFields(w http.ResponseWriter, errs validate.Errs) {
	WriteJSON(w, http.StatusBadRequest, M{"success": false, "errors": errs})
}
