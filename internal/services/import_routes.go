package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"petex-service/internal/domain"
	"petex-service/internal/ports"
)

// Each chunk becomes one route and one bounded multi-row write.
const chunkSize = 150

const (
	groupGlobal = "global"
	groupNoZone = "no-zone"
)

// Metadata tag stamped on every delivery this pipeline touches.
const importSource = "bulk-import"

// ImportOptions controls driver assignment and the route date for one run.
type ImportOptions struct {
	UseSingleDriver bool
	SingleDriverID  string
	DriverByGroup   map[string]string
	RouteDate       time.Time
}

// InvalidRow reports one rejected row. RowNumber is 1-based in the uploaded
// table; 0 marks group-level or general entries.
type InvalidRow struct {
	RowNumber int
	Reason    string
}

// GroupSummary describes what happened to one group of rows.
type GroupSummary struct {
	Key       string
	DriverID  string
	Shipments int
	Routes    int
}

// ImportReport is the aggregated outcome of a completed run. Partial
// success is the normal completion mode: invalid rows and driverless groups
// are reported here, not raised as errors.
type ImportReport struct {
	RoutesCreated      int
	DeliveriesImported int
	InvalidRows        []InvalidRow
	Groups             []GroupSummary
}

// indexedRow is a valid row with its 1-based source position and its
// resolved zone, carried together through grouping and chunking.
type indexedRow struct {
	n      int
	row    domain.ImportRow
	zoneID string
}

// ImportRoutes converts uploaded shipment rows into persisted deliveries,
// driver-assigned routes and ordered stops.
//
// Rows are normalized and validated first, grouped by zone (or all together
// in single-driver mode), then written in chunks: one route per chunk, a
// delivery upsert keyed by tracking code, and a bulk stop insert. A chunk
// whose stops cannot be established has its route deleted again. Store
// failures abort the run; data-quality failures are accumulated into the
// report and the run continues.
func ImportRoutes(
	ctx context.Context,
	rawRows []map[string]any,
	opts ImportOptions,
	store ports.ImportStore,
	zones ports.ZoneSource,
) (*ImportReport, error) {
	if len(rawRows) == 0 {
		return nil, &ValidationError{Msg: "rows must not be empty"}
	}
	if opts.UseSingleDriver && strings.TrimSpace(opts.SingleDriverID) == "" {
		return nil, &ValidationError{Msg: "single_driver_id is required when use_single_driver is set"}
	}
	if opts.RouteDate.IsZero() {
		now := time.Now().UTC()
		opts.RouteDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	zoneList, err := zones.ListZones(ctx)
	if err != nil {
		return nil, &StoreError{Op: "import routes: list zones", Err: err}
	}

	report := &ImportReport{
		InvalidRows: []InvalidRow{},
		Groups:      []GroupSummary{},
	}

	valid := make([]indexedRow, 0, len(rawRows))
	for i, raw := range rawRows {
		row := domain.NormalizeRow(raw)
		if reason := row.Invalid(); reason != "" {
			report.InvalidRows = append(report.InvalidRows, InvalidRow{RowNumber: i + 1, Reason: reason})
			continue
		}

		valid = append(valid, indexedRow{
			n:      i + 1,
			row:    row,
			zoneID: domain.ResolveZone(zoneList, row),
		})
	}

	// Stable grouping: keys appear in first-seen order and rows keep their
	// relative order inside each group.
	groupKeys := make([]string, 0, 8)
	groups := make(map[string][]indexedRow, 8)
	for _, r := range valid {
		key := groupKey(opts, r)
		if _, seen := groups[key]; !seen {
			groupKeys = append(groupKeys, key)
		}
		groups[key] = append(groups[key], r)
	}

	for _, key := range groupKeys {
		rows := groups[key]

		driverID := resolveDriver(opts, key)
		if driverID == "" {
			report.InvalidRows = append(report.InvalidRows, InvalidRow{
				RowNumber: 0,
				Reason:    fmt.Sprintf("no driver assigned for group %q (%d shipments)", key, len(rows)),
			})
			report.Groups = append(report.Groups, GroupSummary{Key: key, Shipments: len(rows)})
			continue
		}

		routes := 0
		for start := 0; start < len(rows); start += chunkSize {
			end := min(start+chunkSize, len(rows))

			created, err := importChunk(ctx, store, opts, key, driverID, rows[start:end], report)
			if err != nil {
				return nil, err
			}
			if created {
				routes++
			}
		}

		report.Groups = append(report.Groups, GroupSummary{
			Key:       key,
			DriverID:  driverID,
			Shipments: len(rows),
			Routes:    routes,
		})
	}

	return report, nil
}

// groupKey buckets a valid row: one global group in single-driver mode,
// otherwise zone id, then lowercased zone hint, then the no-zone sentinel.
func groupKey(opts ImportOptions, r indexedRow) string {
	if opts.UseSingleDriver {
		return groupGlobal
	}
	if r.zoneID != "" {
		return r.zoneID
	}
	if hint := strings.ToLower(strings.TrimSpace(r.row.ZoneHint)); hint != "" {
		return hint
	}
	return groupNoZone
}

func resolveDriver(opts ImportOptions, key string) string {
	if opts.UseSingleDriver {
		return strings.TrimSpace(opts.SingleDriverID)
	}
	return strings.TrimSpace(opts.DriverByGroup[key])
}

// importChunk runs one unit of work: create the chunk's route, upsert its
// deliveries, insert its stops. Reports whether a route survived. A store
// failure after route creation deletes the route again and aborts; an empty
// chunk deletes the route and lets the run continue.
func importChunk(
	ctx context.Context,
	store ports.ImportStore,
	opts ImportOptions,
	key, driverID string,
	chunk []indexedRow,
	report *ImportReport,
) (bool, error) {
	zoneID := ""
	if !opts.UseSingleDriver {
		zoneID = chunk[0].zoneID
	}

	route, err := store.CreateRoute(ctx, domain.RouteRecord{
		RouteDate: opts.RouteDate,
		ZoneID:    zoneID,
		DriverID:  driverID,
		Status:    domain.RouteStatusActive,
	})
	if err != nil {
		// Nothing to roll back yet.
		return false, &StoreError{Op: "import routes: create route", Err: err}
	}

	deliveries := make([]domain.DeliveryRecord, 0, len(chunk))
	for _, r := range chunk {
		deliveries = append(deliveries, domain.DeliveryRecord{
			TrackingCode:  r.row.OrderID,
			RecipientName: r.row.CustomerName,
			Phone:         r.row.Phone,
			Address:       r.row.Address,
			ZoneID:        r.zoneID,
			Status:        domain.DeliveryStatusCreated,
			Metadata: domain.DeliveryMetadata{
				Carrier:      r.row.Carrier,
				City:         r.row.City,
				Neighborhood: r.row.ZoneHint,
				PostalCode:   r.row.PostalCode,
				Notes:        r.row.Notes,
				Raw:          r.row.Raw,
				Source:       importSource,
			},
		})
	}

	stored, err := store.UpsertDeliveries(ctx, deliveries)
	if err != nil {
		rollbackRoute(ctx, store, route.ID, "delivery upsert failed")
		return false, &StoreError{Op: "import routes: upsert deliveries", Err: err}
	}

	byCode := make(map[string]domain.DeliveryRecord, len(stored))
	for _, d := range stored {
		byCode[d.TrackingCode] = d
	}

	stops := make([]domain.StopRecord, 0, len(chunk))
	for _, r := range chunk {
		d, ok := byCode[r.row.OrderID]
		if !ok {
			report.InvalidRows = append(report.InvalidRows, InvalidRow{
				RowNumber: r.n,
				Reason:    fmt.Sprintf("tracking code %q not resolved after upsert", r.row.OrderID),
			})
			continue
		}

		// Stored values win over submitted ones; "Parada" is the last-resort
		// stop title shown to drivers.
		title := d.RecipientName
		if title == "" {
			title = r.row.OrderID
		}
		if title == "" {
			title = "Parada"
		}
		address := d.Address
		if address == "" {
			address = r.row.Address
		}
		phone := d.Phone
		if phone == "" {
			phone = r.row.Phone
		}

		stops = append(stops, domain.StopRecord{
			RouteID:    route.ID,
			DeliveryID: d.ID,
			Order:      len(stops) + 1,
			Title:      title,
			Address:    address,
			Phone:      phone,
			Status:     domain.StopStatusPending,
			Metadata: domain.StopMetadata{
				OrderID:      r.row.OrderID,
				CustomerName: r.row.CustomerName,
				Phone:        r.row.Phone,
				ZoneHint:     r.row.ZoneHint,
			},
		})
	}

	if len(stops) == 0 {
		rollbackRoute(ctx, store, route.ID, "no valid stops")
		report.InvalidRows = append(report.InvalidRows, InvalidRow{
			RowNumber: 0,
			Reason:    fmt.Sprintf("chunk without valid stops for group %q; route rolled back", key),
		})
		return false, nil
	}

	if err := store.InsertStops(ctx, stops); err != nil {
		rollbackRoute(ctx, store, route.ID, "stop insert failed")
		return false, &StoreError{Op: "import routes: insert stops", Err: err}
	}

	report.RoutesCreated++
	report.DeliveriesImported += len(stops)
	return true, nil
}

// rollbackRoute undoes a route whose stops could not be established. The
// delete is best-effort: its own failure is logged with the route id and
// never changes the caller's outcome. A crash before this runs leaves a
// zero-stop route behind, which readers must treat as recoverable garbage.
func rollbackRoute(ctx context.Context, store ports.ImportStore, routeID, why string) {
	if err := store.DeleteRoute(ctx, routeID); err != nil {
		log.Printf("rollback route failed: route_id=%s reason=%q err=%v", routeID, why, err)
	}
}
