package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOK(t *testing.T) {
	result := OK("saved", AggregateParts, AggregateKnives)
	assert.True(t, result.Success)
	assert.Equal(t, "saved", result.Message)
	assert.Equal(t, []string{"parts", "knives"}, result.ChangedNames())
}

func TestFail(t *testing.T) {
	result := Fail("no stock")
	assert.False(t, result.Success)
	assert.Empty(t, result.Changed)
	assert.Empty(t, result.ChangedNames())
}
