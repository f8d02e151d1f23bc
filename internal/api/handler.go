package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockpulse/internal/analytics"
	"github.com/guttosm/stockpulse/internal/cache"
	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/middleware"
	"github.com/guttosm/stockpulse/internal/service"
)

const (
	defaultDays = 30
	maxDays     = 365
)

// Handler provides HTTP handlers for the stock analytics endpoints.
//
// Responsibilities:
//   - Validate path and query parameters
//   - Delegate to the service layer
//   - Translate results into response DTOs
//   - Serve repeated requests from the response cache
type Handler struct {
	svc   service.StockService
	cache cache.Cache[[]byte]
}

// NewHandler constructs a new Handler. c may be nil to disable caching.
func NewHandler(svc service.StockService, c cache.Cache[[]byte]) *Handler {
	return &Handler{svc: svc, cache: c}
}

// Index handles GET /.
//
// @Summary      API index
// @Description  Lists the available endpoints
// @Tags         meta
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       / [get]
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "stockpulse",
		"version": "v1",
		"endpoints": []string{
			"GET /api/v1/companies",
			"GET /api/v1/data/{symbol}?days=30",
			"GET /api/v1/summary/{symbol}",
			"GET /api/v1/compare?symbol1=&symbol2=&days=30",
			"GET /api/v1/top-gainers",
			"GET /api/v1/top-losers",
			"GET /api/v1/sectors",
		},
	})
}

// ListCompanies handles GET /api/v1/companies.
//
// @Summary      List companies
// @Description  Returns every tracked company
// @Tags         companies
// @Produce      json
// @Success      200  {array}   dto.CompanyResponse
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/companies [get]
func (h *Handler) ListCompanies(c *gin.Context) {
	h.respond(c, "companies", func(ctx context.Context) (any, error) {
		companies, err := h.svc.ListCompanies(ctx)
		if err != nil {
			return nil, err
		}
		return dto.NewCompanyResponses(companies), nil
	})
}

// GetStockData handles GET /api/v1/data/{symbol}.
//
// @Summary      Daily history with indicators
// @Description  Returns the daily bars of the last `days` calendar days with derived indicators. Indicators without enough history are null.
// @Tags         stocks
// @Produce      json
// @Param        symbol  path      string  true   "Ticker symbol" example(INFY.NS)
// @Param        days    query     int     false  "Calendar days, 1 to 365" default(30)
// @Success      200     {array}   dto.BarResponse
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Not Found"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/data/{symbol} [get]
func (h *Handler) GetStockData(c *gin.Context) {
	symbol := normalizeSymbol(c.Param("symbol"))
	days, err := parseDays(c.Query("days"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid days", err)
		return
	}
	key := fmt.Sprintf("data:%s:%d", symbol, days)
	h.respond(c, key, func(ctx context.Context) (any, error) {
		bars, err := h.svc.GetHistory(ctx, symbol, days)
		if err != nil {
			return nil, err
		}
		return dto.NewBarResponses(bars), nil
	})
}

// GetSummary handles GET /api/v1/summary/{symbol}.
//
// @Summary      52-week summary
// @Description  Returns the latest price with 52-week high, low and average close
// @Tags         stocks
// @Produce      json
// @Param        symbol  path      string  true  "Ticker symbol" example(TCS.NS)
// @Success      200     {object}  dto.SummaryResponse
// @Failure      404     {object}  dto.ErrorResponse  "Not Found"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/summary/{symbol} [get]
func (h *Handler) GetSummary(c *gin.Context) {
	symbol := normalizeSymbol(c.Param("symbol"))
	h.respond(c, "summary:"+symbol, func(ctx context.Context) (any, error) {
		s, err := h.svc.GetSummary(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return dto.NewSummaryResponse(s), nil
	})
}

// Compare handles GET /api/v1/compare.
//
// @Summary      Compare two symbols
// @Description  Correlation of closing prices plus performance, volatility and price of each symbol
// @Tags         stocks
// @Produce      json
// @Param        symbol1  query     string  true   "First symbol" example(TCS.NS)
// @Param        symbol2  query     string  true   "Second symbol" example(INFY.NS)
// @Param        days     query     int     false  "Calendar days, 1 to 365" default(30)
// @Success      200      {object}  dto.ComparisonResponse
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404      {object}  dto.ErrorResponse  "Not Found"
// @Failure      422      {object}  dto.ErrorResponse  "Series of different length"
// @Failure      500      {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/compare [get]
func (h *Handler) Compare(c *gin.Context) {
	s1 := normalizeSymbol(c.Query("symbol1"))
	s2 := normalizeSymbol(c.Query("symbol2"))
	if s1 == "" || s2 == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "symbol1 and symbol2 are required", nil)
		return
	}
	days, err := parseDays(c.Query("days"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid days", err)
		return
	}
	key := fmt.Sprintf("compare:%s:%s:%d", s1, s2, days)
	h.respond(c, key, func(ctx context.Context) (any, error) {
		res, err := h.svc.Compare(ctx, s1, s2, days)
		if err != nil {
			return nil, err
		}
		return dto.NewComparisonResponse(res, days), nil
	})
}

// TopGainers handles GET /api/v1/top-gainers.
//
// @Summary      Top gainers
// @Description  The five companies with the highest latest close-to-close change
// @Tags         market
// @Produce      json
// @Success      200  {array}   dto.MoverResponse
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/top-gainers [get]
func (h *Handler) TopGainers(c *gin.Context) {
	h.respond(c, "top-gainers", func(ctx context.Context) (any, error) {
		entries, err := h.svc.TopGainers(ctx)
		if err != nil {
			return nil, err
		}
		return dto.NewMoverResponses(entries), nil
	})
}

// TopLosers handles GET /api/v1/top-losers.
//
// @Summary      Top losers
// @Description  The five companies with the lowest latest close-to-close change
// @Tags         market
// @Produce      json
// @Success      200  {array}   dto.MoverResponse
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/top-losers [get]
func (h *Handler) TopLosers(c *gin.Context) {
	h.respond(c, "top-losers", func(ctx context.Context) (any, error) {
		entries, err := h.svc.TopLosers(ctx)
		if err != nil {
			return nil, err
		}
		return dto.NewMoverResponses(entries), nil
	})
}

// Sectors handles GET /api/v1/sectors.
//
// @Summary      Sector averages
// @Description  Average latest change per sector, in order of first appearance
// @Tags         market
// @Produce      json
// @Success      200  {array}   dto.SectorResponse
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/sectors [get]
func (h *Handler) Sectors(c *gin.Context) {
	h.respond(c, "sectors", func(ctx context.Context) (any, error) {
		sectors, err := h.svc.Sectors(ctx)
		if err != nil {
			return nil, err
		}
		return dto.NewSectorResponses(sectors), nil
	})
}

// respond serves key from the cache or computes, encodes and caches it.
// Errors are never cached.
func (h *Handler) respond(c *gin.Context, key string, compute func(ctx context.Context) (any, error)) {
	if h.cache != nil {
		if body, ok := h.cache.Get(key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		}
	}

	v, err := compute(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to encode response", err)
		return
	}
	if h.cache != nil {
		h.cache.Set(key, body, 0)
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// fail maps domain errors to HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	var mismatch *analytics.LengthMismatchError
	switch {
	case errors.Is(err, analytics.ErrNotFound):
		var nf *analytics.NotFoundError
		msg := "no data found"
		if errors.As(err, &nf) && nf.Symbol != "" {
			msg = "no data found for " + nf.Symbol
		}
		middleware.AbortWithError(c, http.StatusNotFound, msg, err)
	case errors.As(err, &mismatch):
		middleware.AbortWithError(c, http.StatusUnprocessableEntity, "price series have different lengths", err)
	case errors.Is(err, context.DeadlineExceeded):
		middleware.AbortWithError(c, http.StatusGatewayTimeout, "request timed out", err)
	default:
		logger.L().Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		middleware.AbortWithError(c, http.StatusInternalServerError, "internal error", err)
	}
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// parseDays reads the days query parameter, defaulting to 30.
func parseDays(s string) (int, error) {
	if s == "" {
		return defaultDays, nil
	}
	d, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("days must be an integer: %w", err)
	}
	if d < 1 || d > maxDays {
		return 0, fmt.Errorf("days must be between 1 and %d, got %d", maxDays, d)
	}
	return d, nil
}
