package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/storefront-api/internal/utils"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"a@b.co", true},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"", false},
		{"spaces in@mail.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, utils.ValidEmail(tt.email), "email=%q", tt.email)
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+14155552671", true},
		{"4155552671", true},
		{"+0123", false}, // leading zero is not E.164
		{"letters", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, utils.ValidPhone(tt.phone), "phone=%q", tt.phone)
	}
}
