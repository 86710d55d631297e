package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"WatchPulse/internal/domain/models"
	domrepo "WatchPulse/internal/domain/repository"
	"WatchPulse/internal/symbols"
	"WatchPulse/internal/usecase"
	xhttp "WatchPulse/pkg/http"
	xlogger "WatchPulse/pkg/logger"
)

// PollControl is the slice of the poller the HTTP layer needs.
type PollControl interface {
	SetVisible(visible bool)
	Wake()
}

// ManagementHandler serves watchlist, alert rule, and poller visibility
// endpoints using the standard response envelope.
type ManagementHandler struct {
	logger    *xlogger.Logger
	watchlist domrepo.WatchlistStore
	alerts    *usecase.AlertsUseCase
	poller    PollControl
}

func NewManagementHandler(
	logger *xlogger.Logger,
	watchlist domrepo.WatchlistStore,
	alerts *usecase.AlertsUseCase,
	poller PollControl,
) *ManagementHandler {
	return &ManagementHandler{logger: logger, watchlist: watchlist, alerts: alerts, poller: poller}
}

func (h *ManagementHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/watchlist", h.ListWatchlist)
	e.POST("/watchlist", h.AddSymbol)
	e.DELETE("/watchlist/:symbol", h.RemoveSymbol)

	e.GET("/alerts", h.ListAlerts)
	e.POST("/alerts", h.CreateAlert)
	e.PATCH("/alerts/:id", h.ToggleAlert)
	e.DELETE("/alerts/:id", h.DeleteAlert)

	e.POST("/poll/visibility", h.SetVisibility)
}

type watchlistBody struct {
	Symbols []string `json:"symbols"`
}

func (h *ManagementHandler) ListWatchlist(c echo.Context) error {
	syms, err := h.watchlist.List(c.Request().Context())
	if err != nil {
		h.logger.Error("list watchlist", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	if syms == nil {
		syms = []string{}
	}
	return xhttp.SuccessResponse(c, watchlistBody{Symbols: syms})
}

func (h *ManagementHandler) AddSymbol(c echo.Context) error {
	req := &models.AddSymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !symbols.Validate(req.Symbol) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid symbol %q", req.Symbol))
	}
	sym := strings.ToUpper(strings.TrimSpace(req.Symbol))

	syms, err := h.watchlist.Add(c.Request().Context(), sym)
	if err != nil {
		h.logger.Error("add watchlist symbol", xlogger.String("symbol", sym), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	h.poller.Wake()
	return xhttp.CreatedResponse(c, watchlistBody{Symbols: syms})
}

func (h *ManagementHandler) RemoveSymbol(c echo.Context) error {
	sym := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if sym == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("symbol is required"))
	}

	syms, err := h.watchlist.Remove(c.Request().Context(), sym)
	if err != nil {
		h.logger.Error("remove watchlist symbol", xlogger.String("symbol", sym), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	if syms == nil {
		syms = []string{}
	}
	return xhttp.SuccessResponse(c, watchlistBody{Symbols: syms})
}

func (h *ManagementHandler) ListAlerts(c echo.Context) error {
	rules, err := h.alerts.List(c.Request().Context())
	if err != nil {
		h.logger.Error("list alerts", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, rules)
}

func (h *ManagementHandler) CreateAlert(c echo.Context) error {
	req := &models.CreateAlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !symbols.Validate(req.Symbol) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid symbol %q", req.Symbol))
	}
	sym := strings.ToUpper(strings.TrimSpace(req.Symbol))

	rule, err := h.alerts.Create(c.Request().Context(), sym, models.AlertDirection(req.Direction), req.Target)
	if err != nil {
		h.logger.Error("create alert", xlogger.String("symbol", sym), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.CreatedResponse(c, rule)
}

func (h *ManagementHandler) ToggleAlert(c echo.Context) error {
	id := c.Param("id")
	req := &models.ToggleAlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.alerts.SetActive(c.Request().Context(), id, req.Active); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("alert %s not found", id))
	}
	return xhttp.SuccessResponse(c, nil)
}

func (h *ManagementHandler) DeleteAlert(c echo.Context) error {
	id := c.Param("id")
	if err := h.alerts.Delete(c.Request().Context(), id); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("alert %s not found", id))
	}
	return xhttp.NoContentResponse(c)
}

func (h *ManagementHandler) SetVisibility(c echo.Context) error {
	req := &models.VisibilityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.poller.SetVisible(*req.Visible)
	return xhttp.SuccessResponse(c, map[string]bool{"visible": *req.Visible})
}
