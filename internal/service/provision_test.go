package service

import (
	"strings"
	"testing"
)

func TestValidateSubdomain(t *testing.T) {
	tests := []struct {
		subdomain string
		wantErr   bool
	}{
		{"happy-paws", false},
		{"pets123", false},
		{"abc", false},
		{"a2c", false},
		{"ab", true},                   // too short
		{"-paws", true},                // leading hyphen
		{"paws-", true},                // trailing hyphen
		{"Paws", true},                 // uppercase
		{"paw shop", true},             // space
		{"paws.shop", true},            // dot
		{"", true},                     // empty
		{"www", true},                  // reserved
		{"api", true},                  // reserved
		{"admin", true},                // reserved
		{strings.Repeat("a", 70), true}, // too long
	}

	for _, tt := range tests {
		t.Run(tt.subdomain, func(t *testing.T) {
			err := ValidateSubdomain(tt.subdomain)
			if tt.wantErr && err == nil {
				t.Errorf("expected %q to be rejected", tt.subdomain)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected %q to be accepted, got: %v", tt.subdomain, err)
			}
		})
	}
}
