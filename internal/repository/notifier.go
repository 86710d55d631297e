package repository

import (
	"context"

	"WatchPulse/internal/domain/models"
	pkgkafka "WatchPulse/pkg/kafka"
	"WatchPulse/pkg/logger"
)

// LogNotifier writes triggered alerts to the application log. It is the
// default sink when no broker is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, notif models.Notification) error {
	n.log.Info("alert triggered",
		logger.String("rule_id", notif.RuleID),
		logger.String("symbol", notif.Symbol),
		logger.String("direction", string(notif.Direction)),
		logger.Float64("target", notif.Target),
		logger.Float64("price", notif.Price),
		logger.Int64("at", notif.At),
	)
	return nil
}

func (n *LogNotifier) Close() error { return nil }

// KafkaNotifier publishes triggered alerts to a topic, keyed by symbol so
// downstream consumers keep per-symbol ordering.
type KafkaNotifier struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaNotifier(producer *pkgkafka.Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

func (n *KafkaNotifier) Notify(ctx context.Context, notif models.Notification) error {
	return n.producer.Publish(ctx, n.topic, []byte(notif.Symbol), notif)
}

func (n *KafkaNotifier) Close() error {
	if n.producer != nil {
		return n.producer.Close()
	}
	return nil
}
