package utils

import "regexp"

// Patterns match the storefront's historical validation rules: a minimal
// something@something.tld email shape and an E.164-like phone number.
var (
	emailRx = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phoneRx = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRx.MatchString(s) }

// ValidPhone reports whether s looks like an E.164 phone number.
func ValidPhone(s string) bool { return phoneRx.MatchString(s) }
