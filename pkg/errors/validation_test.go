package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Energy", false},
		{"valid with spaces", "Special relativity", false},
		{"valid unicode", "Schrödinger equation", false},
		{"valid punctuation", "E=mc^2 (mass-energy)", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", MaxNameLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("node", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidQuery) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidQuery)
			}
		})
	}
}

func TestValidateRelations(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"none", nil, false},
		{"valid", []string{"requires", "is_a"}, false},
		{"comma", []string{"a,b"}, true},
		{"empty entry", []string{"requires", ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelations(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRelations(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDirection(t *testing.T) {
	for _, d := range []string{"in", "out", "both"} {
		if err := ValidateDirection(d); err != nil {
			t.Errorf("ValidateDirection(%q) = %v", d, err)
		}
	}
	for _, d := range []string{"", "up", "BOTH"} {
		if err := ValidateDirection(d); err == nil {
			t.Errorf("ValidateDirection(%q) should fail", d)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"http", "http://localhost:5000/api", false},
		{"https", "https://kg.example.com/api", false},

		{"empty", "", true},
		{"no scheme", "localhost:5000/api", true},
		{"ftp", "ftp://example.com", true},
		{"no host", "http:///api", true},
		{"malformed", "http://[::1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
