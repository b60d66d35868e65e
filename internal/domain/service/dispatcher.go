package service

import "context"

// NoticePriority orders delivery of dispatched notices.
type NoticePriority string

const (
	PriorityNormal NoticePriority = "normal"
	PriorityHigh   NoticePriority = "high"
)

// DepartureNotice is a "time to leave" message handed to the external
// notification channel for asynchronous delivery.
type DepartureNotice struct {
	RequestID     string         `json:"request_id,omitempty"`
	AppointmentID string         `json:"appointment_id"`
	UserID        string         `json:"user_id"`
	DestinationID string         `json:"destination_id"`
	Message       string         `json:"message"`
	TravelMinutes int            `json:"travel_minutes"`
	Priority      NoticePriority `json:"priority"`
}

// NotificationDispatcher accepts notices for asynchronous delivery.
// No synchronous delivery confirmation is expected.
type NotificationDispatcher interface {
	// DispatchDepartureNotice hands the notice to the delivery channel.
	DispatchDepartureNotice(ctx context.Context, notice *DepartureNotice) error

	// Close releases any resources held by the dispatcher.
	Close() error
}
