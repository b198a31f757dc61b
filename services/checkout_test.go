package services

import (
	"testing"
	"time"
)

func TestValidateCardAcceptsKnownBrands(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		number   string
		cardType string
		last4    string
	}{
		{"4242424242424242", "visa", "4242"},
		{"4242 4242 4242 4242", "visa", "4242"},
		{"5555555555554444", "mastercard", "4444"},
		{"378282246310005", "amex", "0005"},
		{"6011111111111117", "discover", "1117"},
	}

	for _, c := range cases {
		cardType, last4, err := ValidateCard(PaymentInput{
			CardNumber:     c.number,
			CardholderName: "Jordan Smith",
			ExpiryMonth:    12,
			ExpiryYear:     2030,
		}, now)
		if err != nil {
			t.Errorf("%s: unexpected error %v", c.number, err)
			continue
		}
		if cardType != c.cardType {
			t.Errorf("%s: expected type %s, got %s", c.number, c.cardType, cardType)
		}
		if last4 != c.last4 {
			t.Errorf("%s: expected last4 %s, got %s", c.number, c.last4, last4)
		}
	}
}

func TestValidateCardRejectsBadInput(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input PaymentInput
	}{
		{"luhn failure", PaymentInput{CardNumber: "4242424242424241", CardholderName: "J", ExpiryMonth: 12, ExpiryYear: 2030}},
		{"letters in number", PaymentInput{CardNumber: "4242abcd42424242", CardholderName: "J", ExpiryMonth: 12, ExpiryYear: 2030}},
		{"too short", PaymentInput{CardNumber: "424242", CardholderName: "J", ExpiryMonth: 12, ExpiryYear: 2030}},
		{"empty", PaymentInput{CardNumber: "", CardholderName: "J", ExpiryMonth: 12, ExpiryYear: 2030}},
		{"unknown brand", PaymentInput{CardNumber: "9999999999999995", CardholderName: "J", ExpiryMonth: 12, ExpiryYear: 2030}},
		{"expired last year", PaymentInput{CardNumber: "4242424242424242", CardholderName: "J", ExpiryMonth: 12, ExpiryYear: 2023}},
		{"expired last month", PaymentInput{CardNumber: "4242424242424242", CardholderName: "J", ExpiryMonth: 2, ExpiryYear: 2024}},
	}

	for _, c := range cases {
		if _, _, err := ValidateCard(c.input, now); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

// A card expiring this month is still good until the month ends.
func TestValidateCardExpiryIsEndOfMonth(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	_, _, err := ValidateCard(PaymentInput{
		CardNumber:     "4242424242424242",
		CardholderName: "Jordan Smith",
		ExpiryMonth:    3,
		ExpiryYear:     2024,
	}, now)
	if err != nil {
		t.Fatalf("card expiring this month should be accepted, got %v", err)
	}
}

func TestDetectCardType(t *testing.T) {
	cases := map[string]string{
		"4111111111111111": "visa",
		"5105105105105100": "mastercard",
		"371449635398431":  "amex",
		"6011000990139424": "discover",
		"3530111333300000": "",
	}
	for number, want := range cases {
		if got := DetectCardType(number); got != want {
			t.Errorf("%s: expected %q, got %q", number, want, got)
		}
	}
}
