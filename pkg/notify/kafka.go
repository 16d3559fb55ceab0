package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/kafka"
	kafka_config "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/kafka/config"
	kafka_middleware "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/kafka/middleware"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaDispatcher publishes notifications as JSON events keyed by booking id.
type KafkaDispatcher struct {
	publisher Publisher
	source    string
}

func NewKafkaDispatcher(publisher Publisher, source string) *KafkaDispatcher {
	return &KafkaDispatcher{publisher: publisher, source: source}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, n Notification) error {
	msg, err := kafka.NewMessage(n.Key(), n.Event, d.source, n)
	if err != nil {
		return fmt.Errorf("build %s message: %w", n.Event, err)
	}
	if err := d.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", n.Event, err)
	}
	return nil
}

const (
	DriverLog   = "log"
	DriverKafka = "kafka"
)

// New builds the dispatcher selected by driver. The returned closer releases
// the broker connection and is a no-op for the log sink.
func New(driver, topic, service string, log *logger.Logger) (Dispatcher, io.Closer, error) {
	switch driver {
	case DriverLog, "":
		return NewLogDispatcher(log), nopCloser{}, nil
	case DriverKafka:
		cfg, err := kafka_config.Load()
		if err != nil {
			return nil, nil, err
		}
		cfg.LogConfiguration(log.Info)

		producer, err := kafka.NewProducer(cfg, topic, log)
		if err != nil {
			return nil, nil, fmt.Errorf("create kafka producer: %w", err)
		}
		if cfg.EnableMiddleware {
			producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
		}
		return NewKafkaDispatcher(producer, service), producer, nil
	default:
		return nil, nil, fmt.Errorf("unknown notify driver %q", driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
