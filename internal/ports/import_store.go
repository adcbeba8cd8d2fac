package ports

import (
	"context"

	"petex-service/internal/domain"
)

// Port: the write boundary the import pipeline drives. One implementation
// per backing store; the pipeline never sees SQL.
type ImportStore interface {
	// Persist a new route and return it with its assigned id.
	CreateRoute(ctx context.Context, route domain.RouteRecord) (domain.RouteRecord, error)

	// Insert-or-update deliveries keyed by tracking code (overwrite on
	// conflict) and return the stored records, ids included.
	UpsertDeliveries(ctx context.Context, deliveries []domain.DeliveryRecord) ([]domain.DeliveryRecord, error)

	// Persist all stops of one chunk.
	InsertStops(ctx context.Context, stops []domain.StopRecord) error

	// Remove a route created earlier in the same run (compensating action).
	DeleteRoute(ctx context.Context, routeID string) error
}
