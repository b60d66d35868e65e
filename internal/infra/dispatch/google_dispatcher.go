package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"smartqueue/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// googleDispatcher implements NotificationDispatcher using Google Cloud Pub/Sub
type googleDispatcher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *slog.Logger
}

// NewGoogleDispatcher creates a new Google Pub/Sub dispatcher
func NewGoogleDispatcher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (service.NotificationDispatcher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Check if topic exists using TopicAdminClient
	topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	_, err = client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{
		Topic: topicPath,
	})
	if err != nil {
		client.Close()

		return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
	}

	publisher := client.Publisher(topicID)

	logger.Info("Google Pub/Sub dispatcher initialized",
		slog.String("project_id", projectID),
		slog.String("topic_id", topicID),
	)

	return &googleDispatcher{
		client:    client,
		publisher: publisher,
		logger:    logger,
	}, nil
}

// DispatchDepartureNotice publishes the notice to Google Pub/Sub
func (d *googleDispatcher) DispatchDepartureNotice(ctx context.Context, notice *service.DepartureNotice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return errors.WithStack(err)
	}

	// Attributes allow subscription-side filtering and tracing
	attributes := map[string]string{
		"appointment_id": notice.AppointmentID,
		"user_id":        notice.UserID,
		"priority":       string(notice.Priority),
	}
	if notice.RequestID != "" {
		attributes["request_id"] = notice.RequestID
	}

	msg := &pubsub.Message{
		Data:       data,
		Attributes: attributes,
	}

	result := d.publisher.Publish(ctx, msg)

	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	d.logger.Info("[GooglePubSub] Departure notice published",
		slog.String("appointment_id", notice.AppointmentID),
		slog.String("server_id", serverID),
	)

	return nil
}

// Close releases Pub/Sub client resources
func (d *googleDispatcher) Close() error {
	if d.publisher != nil {
		d.publisher.Stop()
	}
	if d.client != nil {
		return errors.WithStack(d.client.Close())
	}

	return nil
}
