package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// ErrInvalidAge is returned for ages that are not non-negative integers.
var ErrInvalidAge = errors.New("age must be a non-negative integer")

// ParseAge accepts a JSON integer or a string of ASCII digits.
// Fractions, exponents, signs and booleans are rejected, never truncated.
func ParseAge(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, ErrInvalidAge
	}

	var digits string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &digits); err != nil {
			return 0, ErrInvalidAge
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		digits = string(raw)
	default:
		return 0, ErrInvalidAge
	}

	if !allDigits(digits) {
		return 0, ErrInvalidAge
	}

	age, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || age < 0 || age > math.MaxInt32 {
		return 0, ErrInvalidAge
	}
	return int(age), nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isNull reports whether raw is absent or JSON null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
