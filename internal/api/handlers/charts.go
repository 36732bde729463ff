package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plancharts/internal/api/models"
	"plancharts/internal/charts"
	"plancharts/internal/host"
	"plancharts/internal/protocol"
)

// maxBodyBytes bounds a chart request body.
const maxBodyBytes = 1 << 20

// ChartHandler handles chart rendering requests
type ChartHandler struct {
	host    *host.Host
	catalog *charts.Catalog
	logger  *zap.Logger
}

// NewChartHandler creates a new chart handler
func NewChartHandler(h *host.Host, catalog *charts.Catalog, logger *zap.Logger) *ChartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChartHandler{host: h, catalog: catalog, logger: logger.Named("api")}
}

// Render handles POST /api/v1/charts/:domain
//
// The body is a request envelope. A success envelope is returned with 200,
// an error envelope with 422 together with the default dataset's table.
func (h *ChartHandler) Render(c *gin.Context) {
	domain := c.Param("domain")
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}
	h.render(c, domain, raw)
}

// Defaults handles GET /api/v1/charts/:domain/defaults
func (h *ChartHandler) Defaults(c *gin.Context) {
	domain := c.Param("domain")
	d, ok := h.catalog.Domain(domain)
	if !ok {
		h.unknownDomain(c, domain)
		return
	}
	raw, err := protocol.NewRequest(d.Actions()[0], nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewError("INTERNAL_ERROR", err.Error()))
		return
	}
	h.render(c, domain, raw)
}

// ListDomains handles GET /api/v1/domains
func (h *ChartHandler) ListDomains(c *gin.Context) {
	resp := models.DomainsResponse{Domains: []models.DomainInfo{}}
	for _, name := range h.catalog.Names() {
		d, ok := h.catalog.Domain(name)
		if !ok {
			continue
		}
		resp.Domains = append(resp.Domains, models.DomainInfo{Name: name, Actions: d.Actions()})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChartHandler) render(c *gin.Context, domain string, raw []byte) {
	out, err := h.host.Render(c.Request.Context(), domain, raw)
	switch {
	case errors.Is(err, host.ErrUnknownDomain):
		h.unknownDomain(c, domain)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("render abandoned", zap.String("domain", domain), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, models.NewError("RENDER_ABANDONED", err.Error()))
		return
	case err != nil:
		h.logger.Error("render failed", zap.String("domain", domain), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.NewError("INTERNAL_ERROR", err.Error()))
		return
	}

	status := http.StatusOK
	if out.Response.IsError() {
		status = http.StatusUnprocessableEntity
	}
	// PureJSON leaves <, > and & in ids and captions unescaped.
	c.PureJSON(status, models.ChartResponse{Response: out.Response, FallbackTable: out.Fallback})
}

func (h *ChartHandler) unknownDomain(c *gin.Context, domain string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "UNKNOWN_DOMAIN",
			Message: "unknown chart domain " + domain,
			Details: map[string]interface{}{"domains": h.catalog.Names()},
		},
	})
}
