package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedTransition(t *testing.T) {
	cases := []struct {
		role, from, to string
		want           bool
	}{
		// student delivers work in progress
		{"student", StatusInProgress, StatusDelivered, true},
		{"student", StatusPending, StatusDelivered, false},
		{"student", StatusDelivered, StatusCompleted, false},
		{"student", StatusPending, StatusCancelled, false},

		// buyer signs off delivered work or backs out before paying
		{"buyer", StatusDelivered, StatusCompleted, true},
		{"buyer", StatusPending, StatusCancelled, true},
		{"buyer", StatusInProgress, StatusDelivered, false},
		{"buyer", StatusInProgress, StatusCancelled, false},
		{"buyer", StatusCompleted, StatusDelivered, false},

		// terminal states never move
		{"student", StatusCompleted, StatusDelivered, false},
		{"buyer", StatusCancelled, StatusPending, false},

		// unknown roles get nothing
		{"admin", StatusDelivered, StatusCompleted, false},
		{"", StatusInProgress, StatusDelivered, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AllowedTransition(tc.role, tc.from, tc.to),
			"%s: %s -> %s", tc.role, tc.from, tc.to)
	}
}
