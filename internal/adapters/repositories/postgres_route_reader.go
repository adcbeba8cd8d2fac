package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"petex-service/internal/domain"
	"petex-service/internal/platform/obs"
)

// Postgres-backed implementation of the RouteReader port.
type PostgresRouteReader struct{ DB *sql.DB }

func NewPostgresRouteReader(db *sql.DB) *PostgresRouteReader {
	return &PostgresRouteReader{DB: db}
}

func (s *PostgresRouteReader) ListRoutes(ctx context.Context, date time.Time, driverID string) (_ []domain.RouteSummary, err error) {
	defer obs.Time(ctx, "store.ListRoutes")(&err)

	if s.DB == nil {
		return nil, errors.New("route reader: DB is nil")
	}

	query := `
	SELECT r.id, r.route_date, COALESCE(r.zone_id, ''), r.driver_id, r.status, COUNT(s.id)
	FROM routes r
	LEFT JOIN route_stops s ON s.route_id = r.id
	WHERE r.route_date = $1
		AND ($2 = '' OR r.driver_id = $2)
	GROUP BY r.id, r.route_date, r.zone_id, r.driver_id, r.status, r.created_at
	ORDER BY r.created_at, r.id;
	`
	rows, err := s.DB.QueryContext(ctx, query, date, driverID)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.RouteSummary, 0, 16)
	for rows.Next() {
		var r domain.RouteSummary
		if err := rows.Scan(&r.ID, &r.RouteDate, &r.ZoneID, &r.DriverID, &r.Status, &r.StopCount); err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		routes = append(routes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return routes, nil
}

func (s *PostgresRouteReader) ListStops(ctx context.Context, routeID string) (_ []domain.StopRecord, err error) {
	defer obs.Time(ctx, "store.ListStops")(&err)

	if s.DB == nil {
		return nil, errors.New("route reader: DB is nil")
	}

	query := `
	SELECT id, route_id, delivery_id, stop_order, title, address, phone, status, note
	FROM route_stops
	WHERE route_id = $1
	ORDER BY stop_order;
	`
	rows, err := s.DB.QueryContext(ctx, query, routeID)
	if err != nil {
		return nil, fmt.Errorf("list stops: query route_stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.StopRecord, 0, 32)
	for rows.Next() {
		var st domain.StopRecord
		if err := rows.Scan(&st.ID, &st.RouteID, &st.DeliveryID, &st.Order, &st.Title, &st.Address, &st.Phone, &st.Status, &st.Note); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		stops = append(stops, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}

func (s *PostgresRouteReader) UpdateStopStatus(ctx context.Context, stopID, status, note string) (err error) {
	defer obs.Time(ctx, "store.UpdateStopStatus")(&err)

	if s.DB == nil {
		return errors.New("route reader: DB is nil")
	}

	query := `
	UPDATE route_stops
	SET status = $2, note = $3, completed_at = now()
	WHERE id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query, stopID, status, note)
	if err != nil {
		return fmt.Errorf("update stop status: id=%s: %w", stopID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stop status: rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrStopNotFound
	}

	return nil
}
