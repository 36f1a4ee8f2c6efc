package sanitizer

import (
	"testing"

	"propshoot/pkg/model"
)

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"national mobile", "07700 900123", "+447700900123"},
		{"international with spaces", "+44 7700 900123", "+447700900123"},
		{"already e164", "+447700900123", "+447700900123"},
		{"garbage left for validator", "call me", "call me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePhone(tt.input); got != tt.want {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePostcode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"sw1a1aa", "SW1A 1AA"},
		{" SW1A   1AA ", "SW1A 1AA"},
		{"m1 1ae", "M1 1AE"},
		{"ab", "AB"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizePostcode(tt.input); got != tt.want {
				t.Errorf("SanitizePostcode(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizePostcode(SanitizePostcode(tt.input)); again != tt.want {
				t.Errorf("SanitizePostcode is not idempotent: %q", again)
			}
		})
	}
}

func TestSanitizeDiscountCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" spring10 ", "SPRING10"},
		{"spring-10", "SPRING10"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeDiscountCode(tt.input); got != tt.want {
			t.Errorf("SanitizeDiscountCode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTrimAndNormalize(t *testing.T) {
	if got := TrimAndNormalize("  12  High\tStreet \n"); got != "12 High Street" {
		t.Errorf("got %q", got)
	}
	if got := SanitizeAddress(" 12 High Street, "); got != "12 High Street" {
		t.Errorf("SanitizeAddress got %q", got)
	}
}

func TestSanitizeOrder(t *testing.T) {
	order := &model.Order{
		Agent: model.Agent{Name: " Sam  Lee ", Email: " Sam@Example.COM ", Phone: "07700900123"},
		Properties: []model.PropertyOrder{
			{Address: " 1  Mill Lane ", Postcode: "le11ab", StartTime: " 09:00 "},
		},
		DiscountCode: "welcome-5",
	}

	SanitizeOrder(order)

	if order.Agent.Name != "Sam Lee" {
		t.Errorf("name = %q", order.Agent.Name)
	}
	if order.Agent.Email != "sam@example.com" {
		t.Errorf("email = %q", order.Agent.Email)
	}
	if order.Agent.Phone != "+447700900123" {
		t.Errorf("phone = %q", order.Agent.Phone)
	}
	if p := order.Properties[0]; p.Address != "1 Mill Lane" || p.Postcode != "LE1 1AB" || p.StartTime != "09:00" {
		t.Errorf("property = %+v", p)
	}
	if order.DiscountCode != "WELCOME5" {
		t.Errorf("discount code = %q", order.DiscountCode)
	}
}
