package api

import (
	"net/http"

	"petex-service/internal/api/handlers"
	"petex-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
//
// Every endpoint except /health requires a bearer credential; the import
// endpoint additionally requires the administrator role.
func NewRouter(
	store ports.ImportStore,
	reader ports.RouteReader,
	zones ports.ZoneSource,
	auth ports.Authenticator,
) http.Handler {
	mux := http.NewServeMux()

	importHandler := &handlers.ImportHandler{Store: store, Zones: zones}
	routeHandler := &handlers.RouteHandler{Reader: reader}
	stopHandler := &handlers.StopHandler{Reader: reader}
	zoneHandler := &handlers.ZoneHandler{Zones: zones}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/imports/routes",
		authRequired(auth, adminOnly(http.HandlerFunc(importHandler.ImportRoutes))))
	mux.Handle("/zones",
		authRequired(auth, http.HandlerFunc(zoneHandler.List)))
	mux.Handle("/routes",
		authRequired(auth, http.HandlerFunc(routeHandler.List)))
	mux.Handle("/routes/",
		authRequired(auth, http.HandlerFunc(routeHandler.Stops)))
	mux.Handle("/stops/",
		authRequired(auth, http.HandlerFunc(stopHandler.UpdateStatus)))

	return loggingMiddleware(mux)
}
