package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	projectsCreatedTotal     atomic.Uint64
	estimationStartedTotal   atomic.Uint64
	estimationSucceededTotal atomic.Uint64
	estimationFailedTotal    atomic.Uint64
	llmCallsTotal            atomic.Uint64

	estimationDuration = newHistogram([]float64{1000, 2500, 5000, 10000, 20000, 30000, 60000, 120000})
)

// IncProjectsCreated increments the persisted-project counter.
func IncProjectsCreated() {
	projectsCreatedTotal.Add(1)
}

// IncEstimationStarted increments the started counter.
func IncEstimationStarted() {
	estimationStartedTotal.Add(1)
}

// IncEstimationSucceeded increments the succeeded counter.
func IncEstimationSucceeded() {
	estimationSucceededTotal.Add(1)
}

// IncEstimationFailed increments the failed counter.
func IncEstimationFailed() {
	estimationFailedTotal.Add(1)
}

// IncLLMCalls increments the outbound LLM request counter.
func IncLLMCalls() {
	llmCallsTotal.Add(1)
}

// ObserveEstimationDuration records a pipeline duration.
func ObserveEstimationDuration(d time.Duration) {
	value := float64(d) / float64(time.Millisecond)
	if value < 0 {
		value = 0
	}
	estimationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "projects_created_total", "Total projects persisted", projectsCreatedTotal.Load())
	writeCounter(&buf, "estimation_started_total", "Total estimation pipelines started", estimationStartedTotal.Load())
	writeCounter(&buf, "estimation_succeeded_total", "Total estimation pipelines succeeded", estimationSucceededTotal.Load())
	writeCounter(&buf, "estimation_failed_total", "Total estimation pipelines failed", estimationFailedTotal.Load())
	writeCounter(&buf, "llm_calls_total", "Total LLM completion requests", llmCallsTotal.Load())
	writeHistogram(&buf, "estimation_duration_ms", "Estimation pipeline duration in milliseconds", estimationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value into the first bucket whose bound it does not exceed.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

// writeHistogram emits cumulative bucket counts.
func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
