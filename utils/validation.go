package utils

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateNotEmpty checks if a slice is not empty
func ValidateNotEmpty[T any](slice []T, fieldName string) error {
	if len(slice) == 0 {
		return NewValidationError(fmt.Sprintf("%s cannot be empty", fieldName))
	}
	return nil
}

// ValidateDateRange checks that optional YYYY-MM-DD dates parse and are ordered.
func ValidateDateRange(start, end *string) error {
	if start != nil && !ValidDate(*start) {
		return NewValidationError("start_date must be YYYY-MM-DD")
	}
	if end != nil && !ValidDate(*end) {
		return NewValidationError("end_date must be YYYY-MM-DD")
	}
	if start != nil && end != nil && *end < *start {
		return NewValidationError("end_date cannot be before start_date")
	}
	return nil
}

// ValidateCurrency checks a 3-letter ISO currency code, defaulting empty to USD.
func ValidateCurrency(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return "USD", nil
	}
	if len(currency) != 3 {
		return "", NewValidationError("currency must be a 3-letter code")
	}
	for _, ch := range currency {
		if ch < 'A' || ch > 'Z' {
			return "", NewValidationError("currency must be a 3-letter code")
		}
	}
	return currency, nil
}
