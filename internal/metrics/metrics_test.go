package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := New()

	c.EventEmitted("bigmap", "scav")
	c.EventEmitted("bigmap", "scav")
	c.EventEmitted("bigmap", "boss")
	c.BudgetCutoff("bigmap", "scav")
	c.Defect("woods", "raider")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("bigmap", "scav")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("bigmap", "boss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cutoffsTotal.WithLabelValues("bigmap", "scav")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.defectsTotal.WithLabelValues("woods", "raider")))
}

func TestCollector_PassDone(t *testing.T) {
	c := New()

	c.PassDone(20*time.Millisecond, 3, nil)
	c.PassDone(time.Millisecond, 0, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.passesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.passesTotal.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.lastPassMaps))
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.EventEmitted("bigmap", "pmc")

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `spawnpattern_events_total{category="pmc",map="bigmap"} 1`)
}
