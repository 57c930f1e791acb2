package location

import (
	"fmt"
	"strings"
)

// Provider resolves the live-tracking URL included in outgoing alerts.
type Provider interface {
	TrackingURL() string
}

// Static returns a fixed tracking-page URL with preset coordinates.
// Real device-sourced locations are a separate collaborator; alerts must
// still carry a usable link when none is available.
type Static struct {
	baseURL string
	lat     float64
	lon     float64
}

// NewStatic creates a Static provider. An empty baseURL is rejected so a
// misconfigured deployment fails at startup rather than sending alerts
// with broken links.
func NewStatic(baseURL string, lat, lon float64) (*Static, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("location: base URL must not be empty")
	}
	return &Static{baseURL: baseURL, lat: lat, lon: lon}, nil
}

func (s *Static) TrackingURL() string {
	return fmt.Sprintf("%s/frontend/track.html?lat=%g&lon=%g", s.baseURL, s.lat, s.lon)
}
