package stream

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	apperrors "typesanitizer/pkg/errors"
	"typesanitizer/pkg/kafka"
	"typesanitizer/pkg/logger"
	"typesanitizer/pkg/sanitizer"
)

const (
	EventTypeSanitized = "record.sanitized"
	Source             = "sanitizer-stream"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Processor sanitizes raw JSON records from Kafka and republishes the clean
// result.
type Processor struct {
	sanitizer *sanitizer.Sanitizer
	spec      sanitizer.Spec
	publisher Publisher
	log       *logger.Logger
}

func NewProcessor(s *sanitizer.Sanitizer, spec sanitizer.Spec, publisher Publisher, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.Discard()
	}
	return &Processor{
		sanitizer: s,
		spec:      spec,
		publisher: publisher,
		log:       log,
	}
}

// Handle is a kafka.MessageHandler.
//
// The sanitize-type and sanitize-policy headers override the processor's
// specification and the sanitizer's policy for one message. Sanitization
// failures are permanent, so the consumer dead-letters them at once; publish
// failures are transient and retried.
func (p *Processor) Handle(ctx context.Context, msg kafka.Message) error {
	spec := p.spec
	if name := msg.Header(kafka.HeaderSpecType); name != "" {
		spec = sanitizer.TypeName(name)
	}

	policy := p.sanitizer.Policy()
	if name := msg.Header(kafka.HeaderPolicy); name != "" {
		parsed, err := sanitizer.ParsePolicy(name)
		if err != nil {
			return kafka.NewPermanentError("invalid policy header", err).
				WithDetail("code", apperrors.CodeInvalidInput)
		}
		policy = parsed
	}

	res, err := p.sanitizer.SanitizeWith(msg.Value, spec, policy)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		return kafka.NewPermanentError("sanitize record", err).
			WithDetail("code", appErr.Code).
			WithDetail("details", appErr.Details)
	}

	value, err := json.Marshal(res.Value())
	if err != nil {
		return kafka.NewPermanentError("encode sanitized record", err).
			WithDetail("code", apperrors.CodeInternal)
	}

	correlationID := msg.CorrelationID()
	if correlationID == "" {
		correlationID = msg.EventID()
	}

	out, err := kafka.NewMessage().
		WithKey(outputKey(msg)).
		WithRawValue(value).
		WithEventID("").
		WithEventType(EventTypeSanitized).
		WithCorrelationID(correlationID).
		WithSource(Source).
		WithHeader(kafka.HeaderSpecType, msg.Header(kafka.HeaderSpecType)).
		Build()
	if err != nil {
		return kafka.NewPermanentError("build output message", err)
	}

	if err := p.publisher.Publish(ctx, out); err != nil {
		return kafka.NewTransientError("publish sanitized record", err)
	}

	p.log.Debug("record sanitized",
		"key", out.Key,
		"event_id", out.EventID(),
		"correlation_id", correlationID,
		"list", res.List,
		"records", len(res.Records),
	)
	return nil
}

// outputKey keeps the source key so per-key ordering survives; unkeyed input
// falls back to the source event id, then a fresh one.
func outputKey(msg kafka.Message) string {
	if msg.Key != "" {
		return msg.Key
	}
	if id := msg.EventID(); id != "" {
		return id
	}
	return uuid.NewString()
}
