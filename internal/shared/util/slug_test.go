package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "John Doe", want: "john-doe"},
		{in: "  Acme -- Brand Kit!  ", want: "acme-brand-kit"},
		{in: "Café Noir", want: "café-noir"},
		{in: "***", want: "document"},
		{in: "", want: "document"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in, "document"); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
