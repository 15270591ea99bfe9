package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf strings.Builder
	snap := h.Snapshot()
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
	}
	if cumulative != 2 || snap.count != 3 {
		t.Fatalf("cumulative=%d count=%d", cumulative, snap.count)
	}
	buf.WriteString(formatFloat(snap.sum))
	if buf.String() != "555" {
		t.Fatalf("sum = %s", buf.String())
	}
}

func TestRenderIncludesLabeledCounters(t *testing.T) {
	IncExtraction("pdf", "ok")
	IncAnalysisFailed("inference_failed")

	out := Render()
	for _, want := range []string{
		`resume_extractions_total{ext="pdf",outcome="ok"}`,
		`resume_analysis_failed_total{code="inference_failed"}`,
		"# TYPE resume_analysis_duration_ms histogram",
		`resume_inference_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestLabelEscapesQuotes(t *testing.T) {
	if got := label("ext", `a"b`); got != `ext="a\"b"` {
		t.Fatalf("label = %s", got)
	}
}
