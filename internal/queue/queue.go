package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TopicFollowUpsDue carries DueNotice payloads.
const TopicFollowUpsDue = "follow_ups_due"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// DueNotice announces that a campaign has a follow-up due today or overdue.
type DueNotice struct {
	OwnerID     string    `json:"owner_id"`
	CampaignID  string    `json:"campaign_id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"company_name"`
	FollowUpID  string    `json:"follow_up_id"`
	DueDate     time.Time `json:"due_date"`
	OverdueDays int       `json:"overdue_days"`
}

// InMemoryQueue delivers to in-process subscribers with retry.
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]func(payload any) error
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger *zap.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
		logger:     logger,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish hands payload to every subscriber of topic on its own goroutine.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := append([]func(payload any) error(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		job := JobPayload{Topic: topic, Payload: payload, MaxRetries: q.maxRetries}
		q.wg.Add(1)
		go q.processJob(handler, job)
	}
	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	defer q.wg.Done()
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return
		}

		job.RetryCount++
		q.logger.Warn("job failed",
			zap.String("topic", job.Topic),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err))

		if job.RetryCount > job.MaxRetries {
			q.logger.Error("job permanently failed", zap.String("topic", job.Topic), zap.Any("payload", job.Payload))
			return
		}

		time.Sleep(time.Duration(job.RetryCount) * q.backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published job has finished.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

// StartDueNoticeSubscriber logs each due notice. Delivery to the owner is
// handled outside this service. Payloads arrive as DueNotice in process and as
// raw JSON from the broker.
func StartDueNoticeSubscriber(q Queue, logger *zap.Logger) error {
	return q.Subscribe(TopicFollowUpsDue, func(payload any) error {
		var notice DueNotice
		switch p := payload.(type) {
		case DueNotice:
			notice = p
		case json.RawMessage:
			if err := json.Unmarshal(p, &notice); err != nil {
				logger.Warn("undecodable due notice", zap.ByteString("body", p), zap.Error(err))
				return nil
			}
		default:
			logger.Warn("invalid payload type, expected DueNotice", zap.Any("payload", payload))
			return nil
		}

		logger.Info("follow-up due",
			zap.String("owner_id", notice.OwnerID),
			zap.String("campaign_id", notice.CampaignID),
			zap.String("title", notice.Title),
			zap.String("company", notice.CompanyName),
			zap.Time("due_date", notice.DueDate),
			zap.Int("overdue_days", notice.OverdueDays))
		return nil
	})
}
