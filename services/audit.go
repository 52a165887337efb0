package services

import (
	"encoding/json"

	"passkey_mfa_ms/dtos/request"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// IAuditService publishes passkey lifecycle events to the notification bus.
// Publishing is best effort, a broker outage never fails a ceremony.
type IAuditService interface {
	PublishPasskeyRegistered(event *request.PasskeyRegisteredEvent)
	PublishPasskeyAuthenticated(event *request.PasskeyAuthenticatedEvent)
	PublishPasskeyRevoked(event *request.PasskeyRevokedEvent)
}

type AuditService struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

func NewAuditService(producer sarama.SyncProducer, topic string, logger *zap.Logger) IAuditService {
	return &AuditService{producer: producer, topic: topic, logger: logger}
}

func (s *AuditService) PublishPasskeyRegistered(event *request.PasskeyRegisteredEvent) {
	s.publish("PasskeyRegistered", event.TraceID, event)
}

func (s *AuditService) PublishPasskeyAuthenticated(event *request.PasskeyAuthenticatedEvent) {
	s.publish("PasskeyAuthenticated", event.TraceID, event)
}

func (s *AuditService) PublishPasskeyRevoked(event *request.PasskeyRevokedEvent) {
	s.publish("PasskeyRevoked", event.TraceID, event)
}

func (s *AuditService) publish(kind string, traceID string, payload interface{}) {
	if s.producer == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to encode audit event",
			zap.String("kind", kind),
			zap.String("trace_id", traceID),
			zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(kind),
		Value: sarama.ByteEncoder(data),
	}
	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		s.logger.Warn("failed to publish audit event",
			zap.String("kind", kind),
			zap.String("trace_id", traceID),
			zap.Error(err))
		return
	}
	s.logger.Info("audit event published",
		zap.String("kind", kind),
		zap.String("trace_id", traceID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
}
