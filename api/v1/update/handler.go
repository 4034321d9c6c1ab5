// Package update exposes the DNS update endpoint: a token identifies
// the record, the client IP comes from the request itself.
package update

import (
	"errors"

	"github.com/bakerboy448/autodns/internal/clientip"
	"github.com/bakerboy448/autodns/internal/dns"
	"github.com/bakerboy448/autodns/internal/httpx"
	"github.com/bakerboy448/autodns/internal/mapping"
	"github.com/bakerboy448/autodns/internal/metrics"
	"github.com/bakerboy448/autodns/internal/updater"

	"github.com/gin-gonic/gin"
)

// Handler handles DNS update requests
type Handler struct {
	updater *updater.Updater
}

// NewHandler creates a new update handler
func NewHandler(u *updater.Updater) *Handler {
	return &Handler{updater: u}
}

// UpdateByQuery handles the original endpoint shape:
// GET /update-dns?guid=<token>
func (h *Handler) UpdateByQuery(c *gin.Context) {
	token := c.Query("guid")
	if token == "" {
		metrics.IncrementOutcome("bad_request")
		httpx.FailErr(c, httpx.ErrParamMissing("guid parameter is missing"))
		return
	}
	h.run(c, token)
}

// UpdateByPath handles GET /api/v1/update/:token
func (h *Handler) UpdateByPath(c *gin.Context) {
	h.run(c, c.Param("token"))
}

func (h *Handler) run(c *gin.Context, token string) {
	result, err := h.updater.Update(
		c.Request.Context(),
		token,
		c.GetHeader("X-Forwarded-For"),
		c.Request.RemoteAddr,
	)

	switch {
	case err == nil:
		metrics.IncrementOutcome(string(result.Status))
		message := "DNS record updated."
		if result.Status == updater.StatusUnchanged {
			message = "DNS record already up to date."
		}
		httpx.OKMsg(c, message, gin.H{
			"status": result.Status,
			"record": result.Record,
			"ip":     result.IP,
		})

	case errors.Is(err, clientip.ErrInvalidAddress):
		metrics.IncrementOutcome("bad_request")
		httpx.FailErr(c, httpx.ErrParamInvalid("unable to determine client address", err))

	case errors.Is(err, mapping.ErrUnknownToken):
		// Malformed and unrecognized tokens answer identically so the
		// endpoint is useless as a token-guessing oracle.
		metrics.IncrementOutcome("unknown_token")
		httpx.FailErr(c, httpx.ErrNotFound("record not found"))

	case errors.Is(err, updater.ErrRateLimited):
		metrics.IncrementOutcome("rate_limited")
		httpx.FailErr(c, httpx.ErrRateLimited("update not allowed yet"))

	case errors.Is(err, dns.ErrUnavailable) || errors.Is(err, dns.ErrAuth) ||
		errors.Is(err, dns.ErrNotFound) || errors.Is(err, dns.ErrRejected):
		metrics.IncrementOutcome("provider_error")
		httpx.FailErr(c, httpx.ErrExternalError("dns provider request failed", err))

	default:
		metrics.IncrementOutcome("internal_error")
		httpx.FailErr(c, httpx.ErrInternalError("update failed", err))
	}
}
