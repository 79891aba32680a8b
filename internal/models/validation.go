package models

import (
	"regexp"
	"strings"
)

// Email validation regex pattern
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Indian mobile or landline, with optional +91 or 0 prefix
var phoneRegex = regexp.MustCompile(`^(\+91|0)?[1-9]\d{9}$`)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// IsValidPhone validates an Indian phone number
func IsValidPhone(phone string) bool {
	if phone == "" {
		return true // Optional field
	}
	cleaned := strings.ReplaceAll(strings.ReplaceAll(phone, " ", ""), "-", "")
	return phoneRegex.MatchString(cleaned)
}

// SanitizeString removes extra whitespace and trims the string
func SanitizeString(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}
