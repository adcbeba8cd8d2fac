package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Initialize the Postgres schema for the PETEX store.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createZonesQuery := `
	CREATE TABLE IF NOT EXISTS zones (
		id uuid PRIMARY KEY,
		name text NOT NULL UNIQUE,
		keywords jsonb NOT NULL DEFAULT '[]',
		created_at timestamptz NOT NULL DEFAULT now()
	);
	`

	createDriversQuery := `
	CREATE TABLE IF NOT EXISTS drivers (
		id uuid PRIMARY KEY,
		name text NOT NULL UNIQUE,
		phone text NOT NULL DEFAULT '',
		active boolean NOT NULL DEFAULT true
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id uuid PRIMARY KEY,
		route_date date NOT NULL,
		zone_id text,
		driver_id text NOT NULL,
		status text NOT NULL DEFAULT 'active',
		created_at timestamptz NOT NULL DEFAULT now()
	);
	`

	createDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS deliveries (
		id uuid PRIMARY KEY,
		tracking_code text NOT NULL UNIQUE,
		recipient_name text NOT NULL DEFAULT '',
		phone text NOT NULL DEFAULT '',
		address text NOT NULL DEFAULT '',
		zone_id text,
		status text NOT NULL DEFAULT 'created',
		metadata jsonb NOT NULL DEFAULT '{}',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_stops (
		id uuid PRIMARY KEY,
		route_id uuid NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
		delivery_id uuid NOT NULL REFERENCES deliveries(id),
		stop_order integer NOT NULL,
		title text NOT NULL DEFAULT '',
		address text NOT NULL DEFAULT '',
		phone text NOT NULL DEFAULT '',
		status text NOT NULL DEFAULT 'pending',
		note text NOT NULL DEFAULT '',
		completed_at timestamptz,
		metadata jsonb NOT NULL DEFAULT '{}',
		UNIQUE (route_id, stop_order)
	);
	`

	createRouteIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_routes_date_driver
	ON routes(route_date, driver_id);
	`

	createStopIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_stops_route_order
	ON route_stops(route_id, stop_order);
	`

	statements := []string{
		createZonesQuery,
		createDriversQuery,
		createRoutesQuery,
		createDeliveriesQuery,
		createStopsQuery,
		createRouteIndexQuery,
		createStopIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ZoneSeed struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type DriverSeed struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type SeedFile struct {
	Zones   []ZoneSeed   `json:"zones"`
	Drivers []DriverSeed `json:"drivers"`
}

// Populate zones and drivers from a JSON seed file. Records are upserted by
// name so the tool can run repeatedly against the same database.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed reference data: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed reference data: parse json: %w", err)
	}

	for i, z := range data.Zones {
		if strings.TrimSpace(z.Name) == "" {
			return fmt.Errorf("seed reference data: zone at index %d: name cannot be empty", i+1)
		}
	}
	for i, d := range data.Drivers {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("seed reference data: driver at index %d: name cannot be empty", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed reference data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	zoneQuery := `
	INSERT INTO zones (id, name, keywords)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE
	SET keywords = EXCLUDED.keywords;
	`
	zoneStmt, err := tx.Prepare(zoneQuery)
	if err != nil {
		return fmt.Errorf("seed reference data: prepare zone insert: %w", err)
	}
	defer zoneStmt.Close()

	for _, z := range data.Zones {
		keywords := make([]string, 0, len(z.Keywords))
		for _, kw := range z.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}

		encoded, err := json.Marshal(keywords)
		if err != nil {
			return fmt.Errorf("seed reference data: encode keywords for zone %q: %w", z.Name, err)
		}

		if _, err := zoneStmt.Exec(uuid.NewString(), strings.TrimSpace(z.Name), encoded); err != nil {
			return fmt.Errorf("seed reference data: insert zone %q: %w", z.Name, err)
		}
	}

	driverQuery := `
	INSERT INTO drivers (id, name, phone)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE
	SET phone = EXCLUDED.phone;
	`
	driverStmt, err := tx.Prepare(driverQuery)
	if err != nil {
		return fmt.Errorf("seed reference data: prepare driver insert: %w", err)
	}
	defer driverStmt.Close()

	for _, d := range data.Drivers {
		if _, err := driverStmt.Exec(uuid.NewString(), strings.TrimSpace(d.Name), strings.TrimSpace(d.Phone)); err != nil {
			return fmt.Errorf("seed reference data: insert driver %q: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed reference data: commit tx: %w", err)
	}

	return nil
}
