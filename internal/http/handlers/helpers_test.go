package handlers_test

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"order-consolidation/internal/logx"
)

func testLogger() logx.Logger { return logx.Nop() }

func withID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}
