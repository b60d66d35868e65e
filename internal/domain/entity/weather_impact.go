package entity

import (
	"time"

	"github.com/google/uuid"
)

// WeatherKind is a qualitative weather condition.
type WeatherKind string

const (
	WeatherSunny  WeatherKind = "sunny"
	WeatherCloudy WeatherKind = "cloudy"
	WeatherRainy  WeatherKind = "rainy"
	WeatherStormy WeatherKind = "stormy"
	WeatherFoggy  WeatherKind = "foggy"
	WeatherWindy  WeatherKind = "windy"
)

// WeatherImpact is the current weather effect on travel for one region.
// One row per region, overwritten on refresh.
type WeatherImpact struct {
	RegionID  uuid.UUID
	Condition WeatherKind
	// ImpactFactor multiplies travel time, within [0.8, 3.0].
	ImpactFactor float64
	UpdatedAt    time.Time
}

// IsFresh reports whether the impact record is younger than maxAge.
func (w *WeatherImpact) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(w.UpdatedAt) < maxAge
}
