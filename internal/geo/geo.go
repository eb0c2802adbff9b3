package geo

import (
	"context"
	"fmt"
	"math"

	"github.com/i474232898/farm-insight/internal/apperr"
)

// Fix is a single latitude/longitude reading.
type Fix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Within reports whether other lies strictly within maxDelta degrees of f on both axes.
func (f Fix) Within(other Fix, maxDelta float64) bool {
	return math.Abs(f.Latitude-other.Latitude) < maxDelta &&
		math.Abs(f.Longitude-other.Longitude) < maxDelta
}

func (f Fix) String() string {
	return fmt.Sprintf("%.4f,%.4f", f.Latitude, f.Longitude)
}

// Locator supplies a location fix on demand. It may fail or be denied.
type Locator interface {
	Locate(ctx context.Context) (Fix, error)
}

// Static is a Locator that always returns the same fix.
type Static Fix

func (s Static) Locate(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, fmt.Errorf("%w: %v", apperr.ErrLocationUnavailable, err)
	}
	return Fix(s), nil
}

// Unavailable is a Locator that always fails, e.g. when permission was denied.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Locate(context.Context) (Fix, error) {
	reason := u.Reason
	if reason == "" {
		reason = "no fix"
	}
	return Fix{}, fmt.Errorf("%w: %s", apperr.ErrLocationUnavailable, reason)
}
