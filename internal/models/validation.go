package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared struct-tag validator instance for API-boundary
// DTOs, matching the teacher's one-validator-per-process convention.
var Validate = validator.New()

var phonePattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// ValidatePhoneNumber reports whether phone looks like an E.164 mobile
// number, the format Twilio's API requires.
func ValidatePhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}
