package api

import (
	"github.com/labstack/echo/v4"
)

// Router bundles the handlers into one route registrar for the server.
type Router struct {
	market *MarketHandler
	mgmt   *ManagementHandler
}

func NewRouter(market *MarketHandler, mgmt *ManagementHandler) *Router {
	return &Router{market: market, mgmt: mgmt}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.market.RegisterRoutes(e)
	r.mgmt.RegisterRoutes(e)
}
