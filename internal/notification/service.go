package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	authrepo "admissions-backend/internal/auth/repository"
	feedbackdomain "admissions-backend/internal/feedback/domain"
	"admissions-backend/pkg/fcm"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Event types published on the admissions topic
const (
	EventFeedbackSubmitted = "feedback.submitted"
	EventFeedbackReplied   = "feedback.replied"
)

// Event is the JSON envelope of every published message
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// PushSender is the part of the FCM client the service needs
type PushSender interface {
	SendToDevices(ctx context.Context, tokens []string, n fcm.NotificationData) ([]string, error)
}

// Service publishes domain events to Pub/Sub and pushes reply notifications.
// Both sinks are optional; a nil topic or sender turns that sink off.
type Service struct {
	topic   *pubsub.Topic
	fcmRepo authrepo.FCMTokenRepository
	sender  PushSender
}

// NewPubSubTopic connects to Pub/Sub and returns the named topic, creating it
// when it does not exist yet.
func NewPubSubTopic(ctx context.Context, projectID, topicName, credentialsFile string) (*pubsub.Topic, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic %s: %w", topicName, err)
	}
	if !exists {
		topic, err = client.CreateTopic(ctx, topicName)
		if err != nil {
			return nil, fmt.Errorf("failed to create topic %s: %w", topicName, err)
		}
		log.Printf("[PubSub] Created topic: %s", topicName)
	}
	return topic, nil
}

func NewService(topic *pubsub.Topic, fcmRepo authrepo.FCMTokenRepository, sender PushSender) *Service {
	return &Service{topic: topic, fcmRepo: fcmRepo, sender: sender}
}

// Publish sends one event and waits for the server ack.
func (s *Service) Publish(ctx context.Context, eventType string, payload interface{}) error {
	if s.topic == nil {
		return nil
	}

	data, err := json.Marshal(Event{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", eventType, err)
	}

	result := s.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"type": eventType},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}

// NotifyFeedbackReplied publishes the replied event and pushes a notification
// to the submitter's devices. Failures are logged only.
func (s *Service) NotifyFeedbackReplied(ctx context.Context, feedback *feedbackdomain.Feedback) {
	if err := s.Publish(ctx, EventFeedbackReplied, feedback); err != nil {
		log.Printf("[PubSub] %v", err)
	}

	if s.sender == nil || s.fcmRepo == nil || feedback.UserID == "" {
		return
	}

	tokens, err := s.fcmRepo.GetTokensByUserID(feedback.UserID)
	if err != nil {
		log.Printf("[FCM] Error getting tokens for user %s: %v", feedback.UserID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	body := "The admissions team answered your feedback."
	if feedback.AdminReply != nil && *feedback.AdminReply != "" {
		body = *feedback.AdminReply
		if len([]rune(body)) > 140 {
			body = string([]rune(body)[:140]) + "..."
		}
	}

	failed, err := s.sender.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title: "Reply to: " + feedback.Title,
		Body:  body,
		Data: map[string]string{
			"type":        "feedback_reply",
			"feedback_id": feedback.ID,
		},
		Link: "/feedback",
	})
	if err != nil {
		log.Printf("[FCM] Error sending reply notification for feedback %s: %v", feedback.ID, err)
		return
	}
	if len(failed) > 0 {
		if err := s.fcmRepo.DeleteTokens(failed); err != nil {
			log.Printf("[FCM] Error pruning %d stale tokens: %v", len(failed), err)
		}
	}
}
