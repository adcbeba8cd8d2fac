package ports

import (
	"context"
	"time"

	"petex-service/internal/domain"
)

// Port: the read/update boundary behind the driver and dashboard views.
type RouteReader interface {
	// Routes for a date, optionally narrowed to one driver (empty = all).
	ListRoutes(ctx context.Context, date time.Time, driverID string) ([]domain.RouteSummary, error)

	// Stops of a route ordered by sequence position.
	ListStops(ctx context.Context, routeID string) ([]domain.StopRecord, error)

	// Record the outcome of a delivery attempt. Returns
	// domain.ErrStopNotFound when the stop does not exist.
	UpdateStopStatus(ctx context.Context, stopID, status, note string) error
}
