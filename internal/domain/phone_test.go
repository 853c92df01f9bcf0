package domain

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func randomDigits(r *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + r.Intn(10)))
	}
	return b.String()
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain ten digits", "1234567890", "(123) 456-7890", true},
		{"dashed", "123-456-7890", "(123) 456-7890", true},
		{"country code", "+1 (123) 456-7890", "(123) 456-7890", true},
		{"dotted with text", "call me at 555.123.4567 please", "(555) 123-4567", true},
		{"already normalized", "(555) 123-4567", "(555) 123-4567", true},
		{"too short", "456-7890", "", false},
		{"too long", "123456789012", "", false},
		{"no digits", "unknown", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePhone(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone_TenDigitProperty(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		digits := randomDigits(r, 10)
		got, ok := NormalizePhone(digits)
		if !assert.True(t, ok, digits) {
			continue
		}
		assert.Equal(t, digits, PhoneDigits(got))
		assert.Equal(t, "("+digits[:3]+") "+digits[3:6]+"-"+digits[6:], got)

		again, ok := NormalizePhone(got)
		assert.True(t, ok)
		assert.Equal(t, got, again, "normalizing twice must not change the value")
	}
}

func TestNormalizePhone_ElevenDigitProperty(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		rest := randomDigits(r, 10)
		lead := randomDigits(r, 1)
		want, _ := NormalizePhone(rest)
		got, ok := NormalizePhone(lead + rest)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestNormalizePhone_RejectsWrongLengths(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for n := 0; n < 20; n++ {
		if n == 10 || n == 11 {
			continue
		}
		input := "tel: " + randomDigits(r, n)
		got, ok := NormalizePhone(input)
		assert.False(t, ok, "length %d", n)
		assert.Empty(t, got)
	}
}
