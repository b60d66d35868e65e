package dispatch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"smartqueue/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// localHTTPDispatcher implements NotificationDispatcher by sending HTTP POST
// requests to a local endpoint, simulating Pub/Sub push behavior for
// development
type localHTTPDispatcher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// PubSubPushMessage represents the structure of a Pub/Sub push message
// This mimics the format Google Pub/Sub uses when pushing to HTTP endpoints
type PubSubPushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewLocalHTTPDispatcher creates a new local HTTP dispatcher for development
func NewLocalHTTPDispatcher(endpoint string, logger *slog.Logger) service.NotificationDispatcher {
	return &localHTTPDispatcher{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// DispatchDepartureNotice delivers the notice by HTTP POST to the local endpoint
func (d *localHTTPDispatcher) DispatchDepartureNotice(ctx context.Context, notice *service.DepartureNotice) error {
	noticeData, err := json.Marshal(notice)
	if err != nil {
		return errors.WithStack(err)
	}

	pushMsg := PubSubPushMessage{
		Subscription: "projects/local/subscriptions/departure-notice-sub",
	}
	pushMsg.Message.Data = base64.StdEncoding.EncodeToString(noticeData)
	pushMsg.Message.MessageID = uuid.New().String()
	pushMsg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)

	attributes := map[string]string{
		"appointment_id": notice.AppointmentID,
		"user_id":        notice.UserID,
		"priority":       string(notice.Priority),
	}
	if notice.RequestID != "" {
		attributes["request_id"] = notice.RequestID
	}
	pushMsg.Message.Attributes = attributes

	body, err := json.Marshal(pushMsg)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Add X-Request-Id header for tracing
	if notice.RequestID != "" {
		req.Header.Set("X-Request-Id", notice.RequestID)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("push endpoint returned non-success status: %d", resp.StatusCode)
	}

	d.logger.Info("[LocalPubSub] Departure notice delivered",
		slog.String("appointment_id", notice.AppointmentID),
	)

	return nil
}

// Close releases resources (no-op for HTTP client)
func (d *localHTTPDispatcher) Close() error {
	return nil
}
