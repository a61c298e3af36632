package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"sourcegate/internal/domain"
)

// writeJSON отправляет успешный ответ. nil сериализуется как JSON null —
// это штатный сигнал "ответа нет", а не ошибка транспорта.
func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// writeError отдает ошибки входных данных структурированным телом,
// инфраструктурные — кодом 500 без деталей.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErr)
		return
	}
	http.Error(w, "operation failed", http.StatusInternalServerError)
}
