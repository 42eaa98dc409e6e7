package retry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDefaultDLQConfig(t *testing.T) {
	config := DefaultDLQConfig()

	if config.TopicSuffix != ".dlq" {
		t.Errorf("TopicSuffix = %s, want .dlq", config.TopicSuffix)
	}

	if config.Source != "unknown" {
		t.Errorf("Source = %s, want unknown", config.Source)
	}
}

// MockKafkaPublisher is a mock Kafka publisher for testing
type MockKafkaPublisher struct {
	PublishedMessages []struct {
		Topic   string
		Key     string
		Data    interface{}
		Headers map[string]string
	}
	ShouldFail bool
}

func (m *MockKafkaPublisher) PublishJSON(ctx context.Context, topic string, key string, data interface{}, headers map[string]string) error {
	if m.ShouldFail {
		return errors.New("mock publish failed")
	}

	m.PublishedMessages = append(m.PublishedMessages, struct {
		Topic   string
		Key     string
		Data    interface{}
		Headers map[string]string
	}{
		Topic:   topic,
		Key:     key,
		Data:    data,
		Headers: headers,
	})

	return nil
}

func TestKafkaDLQPublisher_GetDLQTopic(t *testing.T) {
	tests := []struct {
		name          string
		originalTopic string
		suffix        string
		expected      string
	}{
		{
			name:          "default suffix",
			originalTopic: "event-events",
			suffix:        ".dlq",
			expected:      "event-events.dlq",
		},
		{
			name:          "custom suffix",
			originalTopic: "event-events",
			suffix:        "-dead-letter",
			expected:      "event-events-dead-letter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &DLQConfig{
				TopicSuffix: tt.suffix,
			}

			publisher := NewKafkaDLQPublisher(&MockKafkaPublisher{}, config)
			got := publisher.GetDLQTopic(tt.originalTopic)

			if got != tt.expected {
				t.Errorf("GetDLQTopic(%s) = %s, want %s", tt.originalTopic, got, tt.expected)
			}
		})
	}
}

func TestKafkaDLQPublisher_PublishToDLQ(t *testing.T) {
	mock := &MockKafkaPublisher{}
	config := &DLQConfig{
		TopicSuffix: ".dlq",
		Source:      "event-service",
	}

	publisher := NewKafkaDLQPublisher(mock, config)

	msg := &DLQMessage{
		ID:             "msg-123",
		OriginalTopic:  "event-events",
		OriginalKey:    "evt-456",
		Payload:        json.RawMessage(`{"event_id": "evt-456"}`),
		Error:          "kafka connection failed",
		Attempts:       3,
		FirstAttemptAt: time.Now().Add(-1 * time.Minute),
		LastAttemptAt:  time.Now(),
	}

	err := publisher.PublishToDLQ(context.Background(), msg)
	if err != nil {
		t.Fatalf("PublishToDLQ failed: %v", err)
	}

	if len(mock.PublishedMessages) != 1 {
		t.Fatalf("Expected 1 published message, got %d", len(mock.PublishedMessages))
	}

	published := mock.PublishedMessages[0]

	if published.Topic != "event-events.dlq" {
		t.Errorf("Topic = %s, want event-events.dlq", published.Topic)
	}

	if published.Key != "evt-456" {
		t.Errorf("Key = %s, want evt-456", published.Key)
	}

	if published.Headers["original_topic"] != "event-events" {
		t.Errorf("Header original_topic = %s, want event-events", published.Headers["original_topic"])
	}

	if published.Headers["error"] != "kafka connection failed" {
		t.Errorf("Header error = %s, want 'kafka connection failed'", published.Headers["error"])
	}

	if published.Headers["attempts"] != "3" {
		t.Errorf("Header attempts = %s, want 3", published.Headers["attempts"])
	}

	publishedMsg, ok := published.Data.(*DLQMessage)
	if !ok {
		t.Fatal("Published data is not a DLQMessage")
	}

	if publishedMsg.MovedToDLQAt.IsZero() {
		t.Error("MovedToDLQAt should be set")
	}

	if publishedMsg.Source != "event-service" {
		t.Errorf("Source = %s, want event-service", publishedMsg.Source)
	}
}

func TestKafkaDLQPublisher_PublishToDLQ_NilMessage(t *testing.T) {
	mock := &MockKafkaPublisher{}
	publisher := NewKafkaDLQPublisher(mock, nil)

	err := publisher.PublishToDLQ(context.Background(), nil)
	if err == nil {
		t.Error("Expected error for nil message")
	}
}

func TestKafkaDLQPublisher_PublishToDLQ_PublishFails(t *testing.T) {
	mock := &MockKafkaPublisher{ShouldFail: true}
	publisher := NewKafkaDLQPublisher(mock, nil)

	msg := &DLQMessage{
		ID:            "msg-123",
		OriginalTopic: "event-events",
		OriginalKey:   "evt-456",
		Error:         "test error",
	}

	err := publisher.PublishToDLQ(context.Background(), msg)
	if err == nil {
		t.Error("Expected error when publish fails")
	}
}

func TestNoOpDLQPublisher(t *testing.T) {
	publisher := NewNoOpDLQPublisher()

	msg := &DLQMessage{
		ID:            "msg-123",
		OriginalTopic: "event-events",
	}

	err := publisher.PublishToDLQ(context.Background(), msg)
	if err != nil {
		t.Errorf("NoOpDLQPublisher.PublishToDLQ should not return error, got %v", err)
	}

	topic := publisher.GetDLQTopic("event-events")
	if topic != "event-events.dlq" {
		t.Errorf("GetDLQTopic = %s, want event-events.dlq", topic)
	}
}
