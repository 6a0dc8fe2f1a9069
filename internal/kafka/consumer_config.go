package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig — настройки консьюмера заказов.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string

	ProcessTimeout time.Duration // таймаут обработки одного сообщения
	RetryInitial   time.Duration // стартовый интервал backoff при ошибках чтения
	RetryMax       time.Duration // потолок backoff
}

// ReaderConfig — конфигурация kafka.Reader: ручной коммит оффсетов,
// StartOffset нормализуется ("first" в любом регистре, иначе last).
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		CommitInterval: 0,
	}

	switch strings.ToLower(strings.TrimSpace(c.StartOffset)) {
	case "first":
		rc.StartOffset = kafka.FirstOffset
	default:
		rc.StartOffset = kafka.LastOffset
	}

	return rc
}
