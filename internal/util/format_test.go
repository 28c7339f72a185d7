package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatProcessingDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "—"},
		{-time.Second, "—"},
		{500 * time.Microsecond, "500µs"},
		{1234567 * time.Microsecond, "1.234s"},
		{2 * time.Minute, "2m0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatProcessingDuration(tt.in), tt.in.String())
	}
}
