// Package entity contains the core business objects of the project.
package entity

// TransportMode is the transport a customer declared for reaching a service point.
type TransportMode string

const (
	TransportWalk TransportMode = "walk"
	TransportBike TransportMode = "bike"
	TransportMoto TransportMode = "moto"
	TransportCar  TransportMode = "car"
	TransportTaxi TransportMode = "taxi"
	TransportBus  TransportMode = "bus"
)

// String returns the string representation of the TransportMode.
func (m TransportMode) String() string {
	return string(m)
}

// IsValid checks if the TransportMode is a known value.
func (m TransportMode) IsValid() bool {
	switch m {
	case TransportWalk, TransportBike, TransportMoto, TransportCar, TransportTaxi, TransportBus:
		return true
	default:
		return false
	}
}
