// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/hex"
	"regexp"

	validation "github.com/jellydator/validation"
)

var (
	// examDateRegex matches dates like 15-06-2026.
	examDateRegex = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
)

// Hex validates that a string is valid hex-encoded data.
var Hex = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_hex_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := hex.DecodeString(s); err != nil {
		return validation.NewError("validation_hex", "must be valid hex-encoded data")
	}
	return nil
})
