package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate runs struct-tag validation. It runs on create AND on the merged
// document during update, so partial updates cannot bypass invariants.
func Validate(v any) error {
	return validate.Struct(v)
}

// ValidatePriceDiscount enforces discount < price. Only called from the
// create path: the original system never ran this check on update, and that
// behavior is kept.
func ValidatePriceDiscount(t *Tour) bool {
	return t.PriceDiscount == 0 || t.PriceDiscount < t.Price
}
