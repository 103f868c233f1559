package server

import (
	"context"
	"net/http"

	"menucart/internal/handlers"
	applog "menucart/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/logout", handlers.Logout)
	applog.Debug(context.Background(), "route registered", "path", "/login")

	mux.HandleFunc("/menu", handlers.Brands)
	mux.HandleFunc("/menu/", handlers.BrandMenu)
	mux.HandleFunc("/variants/", handlers.VariantOptions)
	applog.Debug(context.Background(), "route registered", "path", "/menu")

	mux.HandleFunc("/cart", handlers.CartSummary)
	mux.HandleFunc("/cart/lines", handlers.AddLine)
	mux.HandleFunc("/cart/lines/increment", handlers.IncrementLine)
	mux.HandleFunc("/cart/lines/decrement", handlers.DecrementLine)
	mux.HandleFunc("/cart/lines/remove", handlers.RemoveLine)
	mux.HandleFunc("/cart/clear", handlers.ClearCart)
	mux.HandleFunc("/cart/checkout", handlers.Checkout)
	applog.Debug(context.Background(), "route registered", "path", "/cart")

	mux.Handle("/admin/", handlers.RequireStaff(http.HandlerFunc(handlers.AdminResource)))
	applog.Debug(context.Background(), "route registered", "path", "/admin/", "protected", true)
	return mux
}
