package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusPending, StatusPending, false},
		{"unknown", StatusConfirmed, false},
		{StatusPending, "unknown", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
