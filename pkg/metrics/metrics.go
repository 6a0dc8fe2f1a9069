package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	IngestRowsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_rows_accepted_total",
			Help: "Number of rows validated and saved",
		},
	)
	IngestRowsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_rows_rejected_total",
			Help: "Number of rows rejected during ingestion",
		},
		[]string{"reason"}, // invalid|save_failed
	)
	IngestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Number of ingestion runs",
		},
		[]string{"status"}, // ok|failed
	)
)

var (
	InvoicesRendered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "invoices_rendered_total",
			Help: "Number of invoice documents rendered",
		},
	)
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

var registerOnce sync.Once

func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			IngestRowsAccepted, IngestRowsRejected, IngestRuns,
			InvoicesRendered,
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
			CacheOps, CacheSize,
		)
	})
}
