// Package api exposes the HTTP surface: market data reads plus watchlist,
// alert, and poller management.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"WatchPulse/internal/domain/models"
	"WatchPulse/internal/symbols"
	"WatchPulse/internal/usecase"
	xhttp "WatchPulse/pkg/http"
	xlogger "WatchPulse/pkg/logger"
)

// MarketHandler serves the quote and candle read endpoints. These return the
// aggregator payloads directly, without the management envelope, so clients
// can consume them as-is.
type MarketHandler struct {
	logger  *xlogger.Logger
	quotes  *usecase.QuotesUseCase
	candles *usecase.CandlesUseCase
}

func NewMarketHandler(logger *xlogger.Logger, quotes *usecase.QuotesUseCase, candles *usecase.CandlesUseCase) *MarketHandler {
	return &MarketHandler{logger: logger, quotes: quotes, candles: candles}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/quotes", h.Quotes)
	e.GET("/candles", h.Candles)
}

type errorBody struct {
	Error string `json:"error"`
}

// Quotes handles GET /quotes?symbols=CSV.
func (h *MarketHandler) Quotes(c echo.Context) error {
	raw := c.QueryParam("symbols")
	syms := symbols.Normalize(raw)
	if len(syms) == 0 {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "symbols query parameter is required"})
	}

	result, err := h.quotes.GetQuotes(c.Request().Context(), syms)
	if err != nil {
		var tooMany *models.TooManySymbolsError
		if errors.As(err, &tooMany) {
			return c.JSON(http.StatusBadRequest, errorBody{Error: tooMany.Error()})
		}
		h.logger.Error("get quotes", xlogger.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, result)
}

type candlesErrorBody struct {
	Candles []models.Candle    `json:"candles"`
	Source  models.QuoteSource `json:"source"`
	Error   string             `json:"error"`
}

// Candles handles GET /candles?symbol=S&range=1d|5d.
func (h *MarketHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "symbol and range=1d|5d are required"})
	}
	if !symbols.Validate(req.Symbol) {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid symbol"})
	}
	rng, ok := models.ParseCandleRange(req.Range)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "range must be 1d or 5d"})
	}
	sym := symbols.Sanitize([]string{req.Symbol})[0]

	result, err := h.candles.GetCandles(c.Request().Context(), sym, rng)
	if err != nil {
		h.logger.Error("get candles", xlogger.String("symbol", sym), xlogger.Error(err))
		return c.JSON(http.StatusBadGateway, candlesErrorBody{
			Candles: []models.Candle{},
			Source:  models.SourceNone,
			Error:   err.Error(),
		})
	}
	return c.JSON(http.StatusOK, result)
}
