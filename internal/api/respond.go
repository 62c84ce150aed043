package api

import (
	"agenda/internal/entities"
	apperrors "agenda/internal/errors"
	"encoding/json"
	"net/http"
)

const maxBodyBytes = int64(65536)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err *apperrors.HTTPError) {
	writeJSON(w, err.Code, entities.ErrorResponse{Error: err.Message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
