package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"petex-service/internal/domain"
	"petex-service/internal/platform/obs"
)

// Postgres-backed implementation of the ZoneSource port.
// The ORDER BY pins zone ordering so keyword matching stays deterministic
// across invocations.
type PostgresZoneSource struct{ DB *sql.DB }

func NewPostgresZoneSource(db *sql.DB) *PostgresZoneSource {
	return &PostgresZoneSource{DB: db}
}

func (s *PostgresZoneSource) ListZones(ctx context.Context) (_ []domain.Zone, err error) {
	defer obs.Time(ctx, "store.ListZones")(&err)

	if s.DB == nil {
		return nil, errors.New("zone source: DB is nil")
	}

	query := `
	SELECT id, name, keywords
	FROM zones
	ORDER BY created_at, id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list zones: query zones table: %w", err)
	}
	defer rows.Close()

	zones := make([]domain.Zone, 0, 16)
	for rows.Next() {
		var z domain.Zone
		var keywords []byte
		if err := rows.Scan(&z.ID, &z.Name, &keywords); err != nil {
			return nil, fmt.Errorf("list zones: scan row: %w", err)
		}
		if err := json.Unmarshal(keywords, &z.Keywords); err != nil {
			return nil, fmt.Errorf("list zones: decode keywords for zone %q: %w", z.Name, err)
		}
		zones = append(zones, z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list zones: row iteration: %w", err)
	}

	return zones, nil
}
