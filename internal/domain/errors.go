package domain

import "strings"

// ValidationError — ошибка входных данных или состояния (в отличие от
// инфраструктурных сбоев, которые гасятся внутри сервисов).
type ValidationError struct {
	Errors []string `json:"errors"`
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}
