// Package metrics
package metrics

import (
	"time"

	"github.com/half-nothing/event-logistics/internal/interfaces/global"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = global.MetricsNamespace

// Upload results used as the label of UploadsTotal
const (
	UploadAccepted = "accepted"
	UploadRejected = "rejected"
	UploadFailed   = "failed"
)

// Metrics 上传与状态更新相关的指标
type Metrics struct {
	RowsProcessed    prometheus.Counter
	RowsFailed       prometheus.Counter
	UploadsTotal     *prometheus.CounterVec
	IngestionSeconds prometheus.Histogram
	StatusUpdates    *prometheus.CounterVec
}

// NewMetrics 在registerer上注册全部指标, 同一个registerer只能调用一次
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		RowsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rows_processed_total",
			Help:      "The total number of workbook rows persisted as flight schedules",
		}),
		RowsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rows_failed_total",
			Help:      "The total number of workbook rows rejected by validation",
		}),
		UploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "uploads_total",
			Help:      "The total number of workbook uploads by result",
		}, []string{"result"}),
		IngestionSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "ingestion_seconds",
			Help:      "Time taken to decode, validate and persist one workbook",
			Buckets:   prometheus.DefBuckets,
		}),
		StatusUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "status_updates_total",
			Help:      "The total number of accepted flight status writes by new status",
		}, []string{"status"}),
	}
}

func (m *Metrics) ObserveUpload(result string, processed, failed int, elapsed time.Duration) {
	m.UploadsTotal.WithLabelValues(result).Inc()
	m.IngestionSeconds.Observe(elapsed.Seconds())
	m.RowsProcessed.Add(float64(processed))
	m.RowsFailed.Add(float64(failed))
}

func (m *Metrics) ObserveStatusUpdate(status string) {
	m.StatusUpdates.WithLabelValues(status).Inc()
}
