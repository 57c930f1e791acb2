package location

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStatic_EmptyBaseURL(t *testing.T) {
	_, err := NewStatic("  ", 0, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty")
}

func TestStatic_TrackingURL(t *testing.T) {
	p, err := NewStatic("https://track.example.com/", -26.1843, 28.0055)
	require.NoError(t, err)
	require.Equal(t, "https://track.example.com/frontend/track.html?lat=-26.1843&lon=28.0055", p.TrackingURL())
}
