package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	analysisStarted   atomic.Uint64
	analysisCompleted atomic.Uint64
	analysisFailed    = newLabeledCounter()
	extractions       = newLabeledCounter()

	analysisDuration  = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
	inferenceDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncAnalysisStarted counts a pipeline run that passed upload validation.
func IncAnalysisStarted() {
	analysisStarted.Add(1)
}

// IncAnalysisCompleted counts a pipeline run that produced a result.
func IncAnalysisCompleted() {
	analysisCompleted.Add(1)
}

// IncAnalysisFailed counts a failed run under the given error code.
func IncAnalysisFailed(code string) {
	analysisFailed.Inc(label("code", code))
}

// IncExtraction counts a text extraction attempt by extension and outcome.
func IncExtraction(ext, outcome string) {
	extractions.Inc(label("ext", ext) + "," + label("outcome", outcome))
}

// ObserveAnalysisDurationMs records an end-to-end analysis duration.
func ObserveAnalysisDurationMs(value float64) {
	analysisDuration.Observe(clamp(value))
}

// ObserveInferenceDurationMs records the time spent waiting on the model.
func ObserveInferenceDurationMs(value float64) {
	inferenceDuration.Observe(clamp(value))
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
	writeCounter(&buf, "resume_analysis_started_total", "Analyses started", analysisStarted.Load())
	writeCounter(&buf, "resume_analysis_completed_total", "Analyses completed", analysisCompleted.Load())
	writeLabeled(&buf, "resume_analysis_failed_total", "Analyses failed by error code", analysisFailed.Snapshot())
	writeLabeled(&buf, "resume_extractions_total", "Text extractions by extension and outcome", extractions.Snapshot())
	writeHistogram(&buf, "resume_analysis_duration_ms", "End-to-end analysis duration in milliseconds", analysisDuration.Snapshot())
	writeHistogram(&buf, "resume_inference_duration_ms", "Inference call duration in milliseconds", inferenceDuration.Snapshot())
	return buf.String()
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func label(key, value string) string {
	value = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(value)
	return key + `="` + value + `"`
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(labels string) {
	l.mu.Lock()
	l.values[labels]++
	l.mu.Unlock()
}

func (l *labeledCounter) Snapshot() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	for k, v := range l.values {
		out[k] = v
	}
	return out
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

// Observe increments only the first bucket that fits; Render accumulates.
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

func writeLabeled(buf *bytes.Buffer, name, help string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s} %d\n", name, k, values[k])
	}
}

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
