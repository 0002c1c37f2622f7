package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/icewatch/great-lakes-ice-watch/internal/noaa"
)

// handlerTimeout bounds one proxy request end to end; it has to cover two
// upstream attempts plus decoding.
const handlerTimeout = 30 * time.Second

const upstreamFailureMessage = "Unable to fetch NOAA data."

// errorReport is the aggregated payload returned when every upstream
// candidate failed, one detail entry per attempted endpoint.
type errorReport struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// handleIceLatest proxies the newest upstream observation verbatim.
func (s *Server) handleIceLatest(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	payload, err := s.ice.Latest(ctx)
	if err != nil {
		s.renderUpstreamError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// handleIceHistory serves the trimmed observation history for the window
// given by the days query parameter.
func (s *Server) handleIceHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	history, err := s.ice.History(ctx, historyDays(c.Query("days")))
	if err != nil {
		s.renderUpstreamError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, history)
}

// historyDays parses the days parameter. A missing or unparsable value
// falls back to the default window; out-of-range values are clamped later
// in the pipeline rather than rejected here.
func historyDays(raw string) int {
	if raw == "" {
		return noaa.DefaultDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return noaa.DefaultDays
	}
	return days
}

func (s *Server) renderUpstreamError(c *gin.Context, err error) {
	report := errorReport{Error: upstreamFailureMessage}

	var upstream *noaa.UpstreamError
	if errors.As(err, &upstream) {
		report.Details = upstream.Attempts
	} else {
		report.Details = []string{err.Error()}
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusBadGateway, report)
}
