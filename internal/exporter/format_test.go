package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero value", input: 0.0, expected: "0.00"},
		{name: "positive integer", input: 123.0, expected: "123.00"},
		{name: "negative integer", input: -456.0, expected: "-456.00"},
		{name: "one decimal padded", input: 13.4, expected: "13.40"},
		{name: "rounded to two decimals", input: 7.0710678, expected: "7.07"},
		{name: "small negative decimal", input: -0.005678, expected: "-0.01"},
		{name: "large positive number", input: 1234567.890123, expected: "1234567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatOptional(t *testing.T) {
	v := 2.5
	n := 6

	assert.Equal(t, "", formatOptional(nil))
	assert.Equal(t, "2.50", formatOptional(&v))
	assert.Equal(t, "", formatOptionalInt(nil))
	assert.Equal(t, "6", formatOptionalInt(&n))
}

func TestFormatDateAndCoordinate(t *testing.T) {
	assert.Equal(t, "05-04-2022", formatDate(time.Date(2022, 4, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "22.745049", formatCoordinate(22.745049))
	assert.Equal(t, "12.900000", formatCoordinate(12.9))
}
