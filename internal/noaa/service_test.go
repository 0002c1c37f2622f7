package noaa

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queryLog records the query string of every upstream request, in order.
type queryLog struct {
	mu      sync.Mutex
	queries []string
}

func (l *queryLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = append(l.queries, r.URL.RawQuery)
}

func (l *queryLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.queries...)
}

func lakeEnvelope(stamps ...string) string {
	rows := make([]string, 0, len(stamps))
	for i, stamp := range stamps {
		rows = append(rows, fmt.Sprintf(`["%s",%d,%d,%d,%d,%d,%d]`, stamp, i, i, i, i, i, i))
	}
	return `{"table":{"columnNames":` + lakeColumns + `,"rows":[` + strings.Join(rows, ",") + `]}}`
}

func TestLatestUsesOrderedQueryFirst(t *testing.T) {
	const body = `{"table":{"columnNames":["time"],"rows":[["2024-03-01T00:00:00Z"]]}}`

	log := &queryLog{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		fmt.Fprint(w, body)
	}))

	svc := NewService(ts.URL+"/glerlIce.json?time,Superior", NewClient(2*time.Second))
	payload, err := svc.Latest(context.Background())
	ts.Close()

	require.NoError(t, err)
	assert.Equal(t, body, string(payload))

	queries := log.all()
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "orderByMax(%22time%22)")
}

func TestLatestFallsBackToBaseQuery(t *testing.T) {
	const body = `{"table":{"columnNames":["time"],"rows":[["2024-03-01T00:00:00Z"]]}}`

	log := &queryLog{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		if strings.Contains(r.URL.RawQuery, "orderByMax") {
			http.Error(w, "unsupported", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, body)
	}))

	svc := NewService(ts.URL+"/glerlIce.json?time,Superior", NewClient(2*time.Second))
	payload, err := svc.Latest(context.Background())
	ts.Close()

	require.NoError(t, err)
	assert.Equal(t, body, string(payload))

	queries := log.all()
	require.Len(t, queries, 2)
	assert.NotContains(t, queries[1], "orderByMax")
}

func TestLatestReportsEveryAttempt(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	base := ts.URL + "/glerlIce.json?time,Superior"
	svc := NewService(base, NewClient(2*time.Second))

	_, err := svc.Latest(context.Background())
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Len(t, upstream.Attempts, 2)
	assert.Equal(t, base+"&orderByMax(%22time%22): HTTP 503", upstream.Attempts[0])
	assert.Equal(t, base+": HTTP 503", upstream.Attempts[1])
	assert.Contains(t, err.Error(), "all 2 upstream endpoints failed")
}

func TestHistoryClampsRequestedWindow(t *testing.T) {
	fresh := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, lakeEnvelope(fresh))
	}))
	defer ts.Close()

	svc := NewService(ts.URL+"/glerlIce.json?time", NewClient(2*time.Second))

	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"below minimum", 1, 14},
		{"at minimum", 14, 14},
		{"in range", 90, 90},
		{"at maximum", 365, 365},
		{"above maximum", 4000, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.History(context.Background(), tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Days)
			require.Len(t, resp.Rows, 1)
			assert.Equal(t, fresh, resp.Rows[0].Time)
		})
	}
}

func TestHistoryStampsGeneration(t *testing.T) {
	fresh := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, lakeEnvelope(fresh))
	}))
	defer ts.Close()

	svc := NewService(ts.URL+"/glerlIce.json?time", NewClient(2*time.Second))

	resp, err := svc.History(context.Background(), 90)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`, resp.GeneratedAt)
}

func TestHistoryRequestsFilteredQueryFirst(t *testing.T) {
	fresh := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)

	log := &queryLog{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		fmt.Fprint(w, lakeEnvelope(fresh))
	}))

	svc := NewService(ts.URL+"/glerlIce.json?time", NewClient(2*time.Second))
	_, err := svc.History(context.Background(), 30)
	ts.Close()

	require.NoError(t, err)

	queries := log.all()
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "time%3E=")
	assert.Contains(t, queries[0], "T00:00:00Z")
}

func TestHistoryFallsBackWhenFilteredQueryHasNoFreshRows(t *testing.T) {
	now := time.Now().UTC()
	fresh := now.Add(-24 * time.Hour).Format(time.RFC3339)
	stale := now.Add(-100 * 24 * time.Hour).Format(time.RFC3339)

	log := &queryLog{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		if strings.Contains(r.URL.RawQuery, "time%3E=") {
			fmt.Fprint(w, lakeEnvelope(stale))
			return
		}
		fmt.Fprint(w, lakeEnvelope(stale, fresh))
	}))

	svc := NewService(ts.URL+"/glerlIce.json?time", NewClient(2*time.Second))
	resp, err := svc.History(context.Background(), 30)
	ts.Close()

	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, fresh, resp.Rows[0].Time)
	assert.Len(t, log.all(), 2)
}

func TestHistoryReportsEmptyTables(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"table":{"columnNames":["time"],"rows":[]}}`)
	}))
	defer ts.Close()

	svc := NewService(ts.URL+"/glerlIce.json?time", NewClient(2*time.Second))

	_, err := svc.History(context.Background(), 30)
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Len(t, upstream.Attempts, 2)
	for _, attempt := range upstream.Attempts {
		assert.True(t, strings.HasSuffix(attempt, ": No rows returned"), attempt)
	}
}

func TestHistoryReportsMalformedPayloads(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>scheduled maintenance</html>")
	}))
	defer ts.Close()

	svc := NewService(ts.URL+"/glerlIce.json?time", NewClient(2*time.Second))

	_, err := svc.History(context.Background(), 30)
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Len(t, upstream.Attempts, 2)
	for _, attempt := range upstream.Attempts {
		assert.True(t, strings.HasSuffix(attempt, ": invalid JSON payload"), attempt)
	}
}

func TestClampDays(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"negative", -5, 14},
		{"zero", 0, 14},
		{"below minimum", 13, 14},
		{"minimum", 14, 14},
		{"typical", 90, 90},
		{"maximum", 365, 365},
		{"above maximum", 366, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampDays(tt.in))
		})
	}
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService("", nil)
	require.NotNil(t, svc)
	assert.Equal(t, DefaultBaseEndpoint, svc.base)
	assert.NotNil(t, svc.client)
}
