package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"order-consolidation/internal/domain"
	"order-consolidation/internal/logx"
)

var newSyncProducer = sarama.NewSyncProducer

// ResultPublisher sends consolidation summaries to a Kafka topic.
type ResultPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
}

// NewResultPublisher returns nil when Kafka is not configured.
func NewResultPublisher(logger logx.Logger, brokers []string, topic string) (*ResultPublisher, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3

	producer, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return newResultPublisher(producer, topic, logger), nil
}

func newResultPublisher(producer sarama.SyncProducer, topic string, logger logx.Logger) *ResultPublisher {
	return &ResultPublisher{producer: producer, topic: topic, logger: logger}
}

type pairMessage struct {
	OrderA int64  `json:"order_a"`
	OrderB int64  `json:"order_b"`
	Reason string `json:"reason"`
}

// ResultMessage is the published summary. Only combinable pairs are listed.
type ResultMessage struct {
	RunID               string        `json:"run_id"`
	StartedAt           time.Time     `json:"started_at"`
	DurationMS          int64         `json:"duration_ms"`
	Partial             bool          `json:"partial"`
	TotalPairs          int           `json:"total_pairs"`
	EvaluatedPairs      int           `json:"evaluated_pairs"`
	InvalidTimestamps   int           `json:"invalid_timestamps"`
	RouteLookupFailures int           `json:"route_lookup_failures"`
	Combinable          []pairMessage `json:"combinable"`
}

func toMessage(res domain.ConsolidationResult) ResultMessage {
	msg := ResultMessage{
		RunID:               res.RunID,
		StartedAt:           res.StartedAt,
		DurationMS:          res.Duration.Milliseconds(),
		Partial:             res.Partial,
		TotalPairs:          res.TotalPairs,
		EvaluatedPairs:      res.EvaluatedPairs,
		InvalidTimestamps:   res.InvalidTimestamps,
		RouteLookupFailures: res.RouteLookupFailures,
		Combinable:          make([]pairMessage, 0),
	}
	for _, p := range res.Pairs {
		if !p.Verdict.Combinable {
			continue
		}
		msg.Combinable = append(msg.Combinable, pairMessage{
			OrderA: p.OrderA,
			OrderB: p.OrderB,
			Reason: string(p.Verdict.Reason),
		})
	}
	return msg
}

// Publish sends res keyed by its run id. A nil publisher does nothing.
func (p *ResultPublisher) Publish(ctx context.Context, res domain.ConsolidationResult) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(toMessage(res))
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(res.RunID),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		return fmt.Errorf("send result: %w", err)
	}
	p.logger.Debug("consolidation result published",
		logx.String("run_id", res.RunID),
		logx.Int("partition", int(partition)),
		logx.Int64("offset", offset),
	)
	return nil
}

// Close closes the producer.
func (p *ResultPublisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
