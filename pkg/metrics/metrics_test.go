package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderCounters(t *testing.T) {
	m := &Metrics{}
	m.RecordGeneration(160, 12345)
	m.RecordGeneration(150, 6789)
	m.RecordViolations(2)
	m.RecordFailure()

	out := m.Render()
	assert.Contains(t, out, "earthpath_generations_total 2\n")
	assert.Contains(t, out, "earthpath_layers_total 310\n")
	assert.Contains(t, out, "earthpath_emitted_bytes_total 19134\n")
	assert.Contains(t, out, "earthpath_envelope_violations_total 2\n")
	assert.Contains(t, out, "earthpath_generation_failures_total 1\n")
}

func TestRenderExpositionFormat(t *testing.T) {
	out := (&Metrics{}).Render()
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		ok := strings.HasPrefix(line, "# HELP ") ||
			strings.HasPrefix(line, "# TYPE ") ||
			strings.HasPrefix(line, "earthpath_")
		assert.True(t, ok, "unexpected line: %q", line)
	}
}

func TestRecordViolationsIgnoresZero(t *testing.T) {
	m := &Metrics{}
	m.RecordViolations(0)
	assert.Contains(t, m.Render(), "earthpath_envelope_violations_total 0\n")
}

func TestHandler(t *testing.T) {
	m := &Metrics{}
	m.RecordGeneration(5, 100)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "earthpath_generations_total 1\n")
}
