package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	renderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "folioforge",
			Subsystem: "render",
			Name:      "document_duration_seconds",
			Help:      "单次文档渲染耗时分布（秒）。",
			Buckets:   prometheus.DefBuckets,
		},
	)

	renderSections = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "folioforge",
			Subsystem: "render",
			Name:      "sections_per_document",
			Help:      "每次渲染输出的区块数量分布。",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)
)

// ObserveRender 记录一次文档渲染的耗时与区块数。
func ObserveRender(start time.Time, sections int) {
	renderDuration.Observe(time.Since(start).Seconds())
	renderSections.Observe(float64(sections))
}
