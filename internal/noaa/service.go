package noaa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// HistoryResponse is the client-facing shape of the history endpoint.
// Days reports the effective window after clamping.
type HistoryResponse struct {
	GeneratedAt string         `json:"generated_at"`
	Days        int            `json:"days"`
	Rows        []HistoryPoint `json:"rows"`
}

// UpstreamError reports that every candidate endpoint of a query failed.
// Attempts holds one "<endpoint>: <reason>" entry per candidate, in the
// order they were tried.
type UpstreamError struct {
	Attempts []string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("all %d upstream endpoints failed: %s",
		len(e.Attempts), strings.Join(e.Attempts, "; "))
}

// Service answers ice cover queries by walking an ordered list of endpoint
// candidates for each query kind and returning the first usable result.
type Service struct {
	base   string
	client *Client
}

// NewService builds a Service over the given base tabledap query. An empty
// base selects DefaultBaseEndpoint; a nil client gets default settings.
func NewService(base string, client *Client) *Service {
	if base == "" {
		base = DefaultBaseEndpoint
	}
	if client == nil {
		client = NewClient(DefaultTimeout)
	}
	return &Service{base: base, client: client}
}

// Latest returns the newest upstream observation payload verbatim, without
// re-encoding. The first candidate asks the upstream to order by maximum
// time so only the most recent row comes back; the plain base query is the
// fallback.
func (s *Service) Latest(ctx context.Context) ([]byte, error) {
	var attempts []string

	for _, endpoint := range s.latestEndpoints() {
		payload, err := s.client.Fetch(ctx, endpoint)
		if err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", endpoint, err))
			continue
		}
		return payload, nil
	}

	endpointsExhausted.Inc()
	return nil, &UpstreamError{Attempts: attempts}
}

// History fetches, decodes and trims the observation history for the
// requested window. days is clamped into [MinDays, MaxDays]. The first
// candidate filters server-side with a padded date bound so the transfer
// stays small; the unfiltered base query is the fallback.
func (s *Service) History(ctx context.Context, days int) (HistoryResponse, error) {
	days = ClampDays(days)
	now := time.Now().UTC()

	var attempts []string

	for _, endpoint := range s.historyEndpoints(days, now) {
		rows, err := s.historyRows(ctx, endpoint, days, now)
		if err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", endpoint, err))
			continue
		}
		return HistoryResponse{
			GeneratedAt: now.Format(time.RFC3339),
			Days:        days,
			Rows:        rows,
		}, nil
	}

	endpointsExhausted.Inc()
	return HistoryResponse{}, &UpstreamError{Attempts: attempts}
}

func (s *Service) historyRows(ctx context.Context, endpoint string, days int, now time.Time) ([]HistoryPoint, error) {
	payload, err := s.client.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	records, err := ExtractRows(payload)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("No rows returned")
	}

	rows := TrimHistory(records, days, now)
	if len(rows) == 0 {
		return nil, errors.New("No rows in requested date range")
	}
	return rows, nil
}

// ClampDays bounds a requested day window to the supported range.
func ClampDays(days int) int {
	if days < MinDays {
		return MinDays
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

func (s *Service) latestEndpoints() []string {
	return []string{
		s.base + "&orderByMax(%22time%22)",
		s.base,
	}
}

// historyEndpoints pads the server-side time filter by a week so boundary
// rows survive the later client-side trim.
func (s *Service) historyEndpoints(days int, now time.Time) []string {
	since := now.Add(-time.Duration(days+7) * 24 * time.Hour)
	return []string{
		s.base + "&time%3E=" + since.Format("2006-01-02") + "T00:00:00Z",
		s.base,
	}
}
