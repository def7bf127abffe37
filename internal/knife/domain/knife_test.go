package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombinedStatus(t *testing.T) {
	tests := []struct {
		sharp, installation, want string
	}{
		{SharpStateSharp, InstallationInstalled, StatusInUse},
		{SharpStateSharp, InstallationRemoved, StatusSharpened},
		{SharpStateDull, InstallationInstalled, StatusDull},
		{SharpStateDull, InstallationRemoved, StatusDull},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CombinedStatus(tt.sharp, tt.installation))
	}
}

func TestAxesForStatusRoundTrip(t *testing.T) {
	for _, status := range []string{StatusInUse, StatusSharpened, StatusDull} {
		sharp, installation := AxesForStatus(status)
		assert.Equal(t, status, CombinedStatus(sharp, installation))
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusInUse))
	assert.True(t, ValidStatus(StatusSharpened))
	assert.True(t, ValidStatus(StatusDull))
	assert.False(t, ValidStatus("bent"))
	assert.False(t, ValidStatus(""))
}
