package dto

import (
	"github.com/shopspring/decimal"
)

// ErrorResponse cuerpo de error HTTP. Errors lleva los mensajes por campo en validaciones.
type ErrorResponse struct {
	Code   string              `json:"code"`
	Detail string              `json:"detail"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// Money importe con exactamente dos decimales en JSON ("29.97").
type Money struct {
	decimal.Decimal
}

// NewMoney envuelve un decimal.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MarshalJSON serializa como string con dos decimales.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}
