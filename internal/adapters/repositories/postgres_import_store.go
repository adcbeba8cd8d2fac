package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"petex-service/internal/domain"
	"petex-service/internal/platform/obs"
)

// Postgres-backed implementation of the ImportStore port.
// Ids are generated application-side so rollback can address records without
// a read-back.
type PostgresImportStore struct{ DB *sql.DB }

func NewPostgresImportStore(db *sql.DB) *PostgresImportStore {
	return &PostgresImportStore{DB: db}
}

func (s *PostgresImportStore) CreateRoute(ctx context.Context, route domain.RouteRecord) (_ domain.RouteRecord, err error) {
	defer obs.Time(ctx, "store.CreateRoute")(&err)

	if s.DB == nil {
		return domain.RouteRecord{}, errors.New("import store: DB is nil")
	}

	route.ID = uuid.NewString()

	query := `
	INSERT INTO routes (id, route_date, zone_id, driver_id, status)
	VALUES ($1, $2, $3, $4, $5);
	`
	_, err = s.DB.ExecContext(ctx, query,
		route.ID,
		route.RouteDate,
		nullable(route.ZoneID),
		route.DriverID,
		route.Status,
	)
	if err != nil {
		return domain.RouteRecord{}, fmt.Errorf("create route: insert routes row: %w", err)
	}

	return route, nil
}

func (s *PostgresImportStore) UpsertDeliveries(ctx context.Context, deliveries []domain.DeliveryRecord) (_ []domain.DeliveryRecord, err error) {
	defer obs.Time(ctx, "store.UpsertDeliveries")(&err)

	if s.DB == nil {
		return nil, errors.New("import store: DB is nil")
	}
	if len(deliveries) == 0 {
		return []domain.DeliveryRecord{}, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("upsert deliveries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Overwrite-on-conflict keyed by tracking code; status is only set on
	// first insert so later lifecycle transitions survive re-imports.
	query := `
	INSERT INTO deliveries (id, tracking_code, recipient_name, phone, address, zone_id, status, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (tracking_code) DO UPDATE
	SET recipient_name = EXCLUDED.recipient_name,
		phone = EXCLUDED.phone,
		address = EXCLUDED.address,
		zone_id = EXCLUDED.zone_id,
		metadata = EXCLUDED.metadata,
		updated_at = now()
	RETURNING id, tracking_code, recipient_name, phone, address, COALESCE(zone_id, ''), status;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("upsert deliveries: prepare upsert: %w", err)
	}
	defer stmt.Close()

	stored := make([]domain.DeliveryRecord, 0, len(deliveries))
	for _, d := range deliveries {
		encoded, err := json.Marshal(d.Metadata)
		if err != nil {
			return nil, fmt.Errorf("upsert deliveries: encode metadata for %q: %w", d.TrackingCode, err)
		}

		var out domain.DeliveryRecord
		row := stmt.QueryRowContext(ctx,
			uuid.NewString(),
			d.TrackingCode,
			d.RecipientName,
			d.Phone,
			d.Address,
			nullable(d.ZoneID),
			d.Status,
			encoded,
		)
		if err := row.Scan(&out.ID, &out.TrackingCode, &out.RecipientName, &out.Phone, &out.Address, &out.ZoneID, &out.Status); err != nil {
			return nil, fmt.Errorf("upsert deliveries: upsert tracking_code=%q: %w", d.TrackingCode, err)
		}
		stored = append(stored, out)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("upsert deliveries: commit tx: %w", err)
	}

	return stored, nil
}

func (s *PostgresImportStore) InsertStops(ctx context.Context, stops []domain.StopRecord) (err error) {
	defer obs.Time(ctx, "store.InsertStops")(&err)

	if s.DB == nil {
		return errors.New("import store: DB is nil")
	}
	if len(stops) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert stops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO route_stops (id, route_id, delivery_id, stop_order, title, address, phone, status, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("insert stops: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range stops {
		encoded, err := json.Marshal(st.Metadata)
		if err != nil {
			return fmt.Errorf("insert stops: encode metadata for order=%d: %w", st.Order, err)
		}

		_, err = stmt.ExecContext(ctx,
			uuid.NewString(),
			st.RouteID,
			st.DeliveryID,
			st.Order,
			st.Title,
			st.Address,
			st.Phone,
			st.Status,
			encoded,
		)
		if err != nil {
			return fmt.Errorf("insert stops: insert route_id=%s order=%d: %w", st.RouteID, st.Order, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert stops: commit tx: %w", err)
	}

	return nil
}

func (s *PostgresImportStore) DeleteRoute(ctx context.Context, routeID string) (err error) {
	defer obs.Time(ctx, "store.DeleteRoute")(&err)

	if s.DB == nil {
		return errors.New("import store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM routes WHERE id = $1;`, routeID); err != nil {
		return fmt.Errorf("delete route: id=%s: %w", routeID, err)
	}

	return nil
}

// nullable maps "" to SQL NULL for optional text columns.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
