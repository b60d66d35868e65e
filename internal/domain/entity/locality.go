// Package entity contains the core business objects of the project.
package entity

import "github.com/google/uuid"

// Locality is a named geographic area (commune or district) used as reference
// data for nearest-locality resolution and baseline congestion.
// Localities are immutable at runtime and loaded once at startup.
type Locality struct {
	ID uuid.UUID
	// RegionID groups localities under an administrative region.
	RegionID  uuid.UUID
	Name      string
	Latitude  float64
	Longitude float64
	// Population is informational only.
	Population int
	// CongestionFactor is the baseline traffic multiplier for the area,
	// always within [0.5, 5.0].
	CongestionFactor float64
}
