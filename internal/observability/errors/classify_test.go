package errors

import (
	"context"
	"fmt"
	"os"
	"testing"

	apperrors "github.com/target/harvest-extract/internal/errors"
)

type customErr struct{}

func (customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	_, statErr := os.Stat("/definitely/not/here")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error code", err: apperrors.RateLimited("slow down", 0), want: "rate_limited"},
		{name: "wrapped app error", err: fmt.Errorf("page 2: %w", apperrors.Transportf("502")), want: "transport"},
		{name: "context canceled", err: fmt.Errorf("fetch: %w", context.Canceled), want: "canceled"},
		{name: "deadline", err: context.DeadlineExceeded, want: "timeout"},
		{name: "filesystem", err: statErr, want: "storage"},
		{name: "custom type", err: fmt.Errorf("wrap: %w", customErr{}), want: "errors_customerr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
