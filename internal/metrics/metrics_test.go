package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequest(t *testing.T) {
	c := HTTPRequests.WithLabelValues("GET", "/venting/{slug}", "404", "PT")
	before := testutil.ToFloat64(c)
	RecordRequest("GET", "/venting/{slug}", "404", "PT")
	RecordRequest("GET", "/venting/{slug}", "404", "PT")
	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("counter delta = %v, want 2", got)
	}
}

func TestRecordLoad(t *testing.T) {
	RecordLoad("post", 7, 3*time.Millisecond)
	if got := testutil.ToFloat64(Documents.WithLabelValues("post")); got != 7 {
		t.Errorf("documents gauge = %v, want 7", got)
	}
	RecordLoad("post", 2, time.Millisecond)
	if got := testutil.ToFloat64(Documents.WithLabelValues("post")); got != 2 {
		t.Errorf("documents gauge = %v, want 2", got)
	}
}
