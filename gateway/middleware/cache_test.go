package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/parts", "parts"},
		{"/api/parts/15", "parts"},
		{"/api/knives/3/operations", "knives"},
		{"/api/orders", "orders"},
		{"/api/", "misc"},
		{"/health", "misc"},
		{"/", "misc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResourceFromPath(tt.path), tt.path)
	}
}
