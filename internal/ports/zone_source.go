package ports

import (
	"context"

	"petex-service/internal/domain"
)

// Port: a boundary for retrieving zone reference data.
// Implementations must return zones in a stable order: keyword matching
// takes the first hit, so reordering changes resolution results.
type ZoneSource interface {
	ListZones(ctx context.Context) ([]domain.Zone, error)
}
