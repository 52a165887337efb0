package services_test

import (
	"encoding/json"
	"errors"
	"testing"

	"passkey_mfa_ms/dtos/request"
	"passkey_mfa_ms/services"

	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishPasskeyRegistered(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event request.PasskeyRegisteredEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.EmployeeID != 1 || event.PasskeyID != 3 {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	audit := services.NewAuditService(producer, "PasskeyAuditEvent", zap.NewNop())
	audit.PublishPasskeyRegistered(&request.PasskeyRegisteredEvent{
		EmployeeID: 1,
		PasskeyID:  3,
		Label:      "Laptop",
		TraceID:    "t1",
	})

	require.NoError(t, producer.Close())
}

func TestPublishSurvivesBrokerFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(errors.New("broker down"))

	audit := services.NewAuditService(producer, "PasskeyAuditEvent", zap.NewNop())

	// Publishing is best effort, a failed send must not panic or block.
	assert.NotPanics(t, func() {
		audit.PublishPasskeyAuthenticated(&request.PasskeyAuthenticatedEvent{
			EmployeeID: 1,
			PasskeyID:  3,
			TraceID:    "t1",
		})
	})

	require.NoError(t, producer.Close())
}

func TestPublishWithoutProducerIsNoop(t *testing.T) {
	audit := services.NewAuditService(nil, "PasskeyAuditEvent", zap.NewNop())

	assert.NotPanics(t, func() {
		audit.PublishPasskeyRevoked(&request.PasskeyRevokedEvent{
			EmployeeID: 1,
			PasskeyID:  3,
			Hard:       true,
			TraceID:    "t1",
		})
	})
}
