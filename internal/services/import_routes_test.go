package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petex-service/internal/domain"
)

type fakeZones struct {
	zones []domain.Zone
	calls int
}

func (f *fakeZones) ListZones(ctx context.Context) ([]domain.Zone, error) {
	f.calls++
	return f.zones, nil
}

// fakeStore is an in-memory ImportStore keeping deliveries unique per
// tracking code, mirroring the real upsert semantics.
type fakeStore struct {
	routes     map[string]domain.RouteRecord
	deliveries map[string]domain.DeliveryRecord
	stops      []domain.StopRecord
	nextID     int

	deletedRoutes []string

	failCreateRoute   bool
	failUpsert        bool
	failInsertStops   bool
	failDeleteRoute   bool
	dropUpsertResults bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		routes:     map[string]domain.RouteRecord{},
		deliveries: map[string]domain.DeliveryRecord{},
	}
}

func (f *fakeStore) CreateRoute(ctx context.Context, route domain.RouteRecord) (domain.RouteRecord, error) {
	if f.failCreateRoute {
		return domain.RouteRecord{}, errors.New("route write refused")
	}
	f.nextID++
	route.ID = fmt.Sprintf("route-%d", f.nextID)
	f.routes[route.ID] = route
	return route, nil
}

func (f *fakeStore) UpsertDeliveries(ctx context.Context, deliveries []domain.DeliveryRecord) ([]domain.DeliveryRecord, error) {
	if f.failUpsert {
		return nil, errors.New("delivery write refused")
	}

	stored := make([]domain.DeliveryRecord, 0, len(deliveries))
	for _, d := range deliveries {
		if existing, ok := f.deliveries[d.TrackingCode]; ok {
			d.ID = existing.ID
			d.Status = existing.Status
		} else {
			f.nextID++
			d.ID = fmt.Sprintf("delivery-%d", f.nextID)
		}
		f.deliveries[d.TrackingCode] = d
		stored = append(stored, d)
	}

	if f.dropUpsertResults {
		return []domain.DeliveryRecord{}, nil
	}
	return stored, nil
}

func (f *fakeStore) InsertStops(ctx context.Context, stops []domain.StopRecord) error {
	if f.failInsertStops {
		return errors.New("stop write refused")
	}
	f.stops = append(f.stops, stops...)
	return nil
}

func (f *fakeStore) DeleteRoute(ctx context.Context, routeID string) error {
	f.deletedRoutes = append(f.deletedRoutes, routeID)
	if f.failDeleteRoute {
		return errors.New("delete refused")
	}
	delete(f.routes, routeID)
	return nil
}

func (f *fakeStore) stopsForRoute(routeID string) []domain.StopRecord {
	out := []domain.StopRecord{}
	for _, st := range f.stops {
		if st.RouteID == routeID {
			out = append(out, st)
		}
	}
	return out
}

func validRow(orderID, name string) map[string]any {
	return map[string]any{
		"order_id":      orderID,
		"customer_name": name,
		"address_line1": "Calle " + orderID,
	}
}

func TestImportRoutesRejectsEmptyInput(t *testing.T) {
	store := newFakeStore()
	zones := &fakeZones{}

	_, err := ImportRoutes(context.Background(), nil, ImportOptions{}, store, zones)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, zones.calls, "must fail before any store access")
	assert.Empty(t, store.routes)
}

func TestImportRoutesRequiresSingleDriverID(t *testing.T) {
	store := newFakeStore()

	_, err := ImportRoutes(context.Background(),
		[]map[string]any{validRow("A1", "Ana")},
		ImportOptions{UseSingleDriver: true},
		store, &fakeZones{})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, store.routes)
}

func TestImportRoutesSingleDriverScenario(t *testing.T) {
	store := newFakeStore()
	rows := []map[string]any{
		{"order_id": "A1", "address_line1": "Calle 1", "customer_name": "Ana"},
		{"order_id": "", "address_line1": "Calle 2", "phone": "555"},
	}

	report, err := ImportRoutes(context.Background(), rows,
		ImportOptions{UseSingleDriver: true, SingleDriverID: "drv-1"},
		store, &fakeZones{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.RoutesCreated)
	assert.Equal(t, 1, report.DeliveriesImported)
	require.Len(t, report.InvalidRows, 1)
	assert.Equal(t, 2, report.InvalidRows[0].RowNumber)
	assert.NotEmpty(t, report.InvalidRows[0].Reason)

	require.Len(t, report.Groups, 1)
	assert.Equal(t, "global", report.Groups[0].Key)
	assert.Equal(t, "drv-1", report.Groups[0].DriverID)
	assert.Equal(t, 1, report.Groups[0].Shipments)
	assert.Equal(t, 1, report.Groups[0].Routes)

	require.Len(t, store.routes, 1)
	for _, route := range store.routes {
		assert.Empty(t, route.ZoneID, "single-driver routes carry no zone")
		assert.Equal(t, "drv-1", route.DriverID)
		assert.Equal(t, domain.RouteStatusActive, route.Status)
	}

	require.Len(t, store.stops, 1)
	assert.Equal(t, 1, store.stops[0].Order)
	assert.Equal(t, "Ana", store.stops[0].Title, "stop title prefers stored recipient name")
}

func TestImportRoutesChunkBoundary(t *testing.T) {
	store := newFakeStore()
	rows := make([]map[string]any, 0, 301)
	for i := 0; i < 301; i++ {
		rows = append(rows, validRow(fmt.Sprintf("T-%03d", i), "Cliente"))
	}

	report, err := ImportRoutes(context.Background(), rows,
		ImportOptions{UseSingleDriver: true, SingleDriverID: "drv-1"},
		store, &fakeZones{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.RoutesCreated, "301 rows split 150+150+1")
	assert.Equal(t, 301, report.DeliveriesImported)
	require.Len(t, store.routes, 3)

	wantSizes := map[int]int{150: 2, 1: 1}
	gotSizes := map[int]int{}
	for id := range store.routes {
		stops := store.stopsForRoute(id)
		gotSizes[len(stops)]++

		// Orders must be exactly 1..n within each route.
		for i, st := range stops {
			assert.Equal(t, i+1, st.Order)
		}
	}
	assert.Equal(t, wantSizes, gotSizes)
}

func TestImportRoutesMissingDriverGroupRejected(t *testing.T) {
	store := newFakeStore()
	rows := []map[string]any{
		{"order_id": "N1", "address_line1": "Calle 1", "customer_name": "Ana", "zone": "Norte"},
		{"order_id": "S1", "address_line1": "Calle 2", "customer_name": "Luis", "zone": "Sur"},
		{"order_id": "N2", "address_line1": "Calle 3", "customer_name": "Eva", "zone": "Norte"},
	}

	report, err := ImportRoutes(context.Background(), rows,
		ImportOptions{DriverByGroup: map[string]string{"norte": "drv-9"}},
		store, &fakeZones{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.RoutesCreated)
	assert.Equal(t, 2, report.DeliveriesImported)

	require.Len(t, report.InvalidRows, 1, "driverless group collapses to one entry")
	assert.Equal(t, 0, report.InvalidRows[0].RowNumber)
	assert.Contains(t, report.InvalidRows[0].Reason, `"sur"`)

	require.Len(t, report.Groups, 2)
	assert.Equal(t, "norte", report.Groups[0].Key)
	assert.Equal(t, 1, report.Groups[0].Routes)
	assert.Equal(t, "sur", report.Groups[1].Key)
	assert.Zero(t, report.Groups[1].Routes)
	assert.Empty(t, report.Groups[1].DriverID)

	// Rows of the rejected group never reach the store.
	assert.Len(t, store.deliveries, 2)
	_, ok := store.deliveries["S1"]
	assert.False(t, ok)
}

func TestImportRoutesGroupsByResolvedZone(t *testing.T) {
	store := newFakeStore()
	zones := &fakeZones{zones: []domain.Zone{
		{ID: "z-centro", Name: "Centro", Keywords: []string{"candelaria"}},
		{ID: "z-norte", Name: "Norte", Keywords: []string{"usaquen"}},
	}}
	rows := []map[string]any{
		{"order_id": "C1", "address_line1": "Cra 7 La Candelaria", "customer_name": "Ana"},
		{"order_id": "N1", "address_line1": "Calle 180 Usaquen", "customer_name": "Luis"},
		{"order_id": "C2", "address_line1": "Candelaria 5", "customer_name": "Eva"},
	}

	report, err := ImportRoutes(context.Background(), rows,
		ImportOptions{DriverByGroup: map[string]string{"z-centro": "drv-c", "z-norte": "drv-n"}},
		store, zones)
	require.NoError(t, err)

	assert.Equal(t, 2, report.RoutesCreated)
	assert.Equal(t, 1, zones.calls, "zones are fetched once per invocation")

	byZone := map[string]int{}
	for _, route := range store.routes {
		byZone[route.ZoneID] = len(store.stopsForRoute(route.ID))
	}
	assert.Equal(t, map[string]int{"z-centro": 2, "z-norte": 1}, byZone)
}

func TestImportRoutesUpsertIdempotence(t *testing.T) {
	store := newFakeStore()
	rows := []map[string]any{
		validRow("T-1", "Ana"),
		validRow("T-2", "Luis"),
	}
	opts := ImportOptions{UseSingleDriver: true, SingleDriverID: "drv-1"}

	_, err := ImportRoutes(context.Background(), rows, opts, store, &fakeZones{})
	require.NoError(t, err)

	firstIDs := map[string]string{}
	for code, d := range store.deliveries {
		firstIDs[code] = d.ID
	}

	_, err = ImportRoutes(context.Background(), rows, opts, store, &fakeZones{})
	require.NoError(t, err)

	assert.Len(t, store.deliveries, 2, "re-import must not duplicate deliveries")
	for code, d := range store.deliveries {
		assert.Equal(t, firstIDs[code], d.ID, "tracking code %s changed identity", code)
	}
	assert.Len(t, store.routes, 2, "each run creates its own routes")
}

func TestImportRoutesUnresolvedTrackingRollsBackChunk(t *testing.T) {
	store := newFakeStore()
	store.dropUpsertResults = true
	rows := []map[string]any{
		validRow("T-1", "Ana"),
		validRow("T-2", "Luis"),
	}

	report, err := ImportRoutes(context.Background(), rows,
		ImportOptions{UseSingleDriver: true, SingleDriverID: "drv-1"},
		store, &fakeZones{})
	require.NoError(t, err, "an empty chunk is a data-quality failure, not an abort")

	assert.Zero(t, report.RoutesCreated)
	assert.Zero(t, report.DeliveriesImported)
	assert.Empty(t, store.routes, "zero-stop route must not survive")
	assert.Len(t, store.deletedRoutes, 1)

	require.Len(t, report.InvalidRows, 3)
	assert.Equal(t, 1, report.InvalidRows[0].RowNumber)
	assert.Equal(t, 2, report.InvalidRows[1].RowNumber)
	assert.Equal(t, 0, report.InvalidRows[2].RowNumber)
	assert.Contains(t, report.InvalidRows[2].Reason, "without valid stops")
}

func TestImportRoutesCreateRouteFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.failCreateRoute = true

	_, err := ImportRoutes(context.Background(),
		[]map[string]any{validRow("T-1", "Ana")},
		ImportOptions{UseSingleDriver: true, SingleDriverID: "drv-1"},
		store, &fakeZones{})

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Empty(t, store.deliveries)
	assert.Empty(t, store.deletedRoutes, "nothing to roll back before route creation succeeds")
}

func TestImportRoutesUpsertFailureDeletesRouteAndAborts(t *testing.T) {
	store := newFakeStore()
	store.failUpsert = true

	_, err := ImportRoutes(context.Background(),
		[]map[string]any{validRow("T-1", "Ana")},
		ImportOptions{UseSingleDriver: true, SingleDriverID: "drv-1"},
		store, &fakeZones{})

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Empty(t, store.routes)
	assert.Len(t, store.deletedRoutes, 1)
}

func TestImportRoutesStopInsertFailureDeletesRouteAndAborts(t *testing.T) {
	store := newFakeStore()
	store.failInsertStops = true

	_, err := ImportRoutes(context.Background(),
		[]map[string]any{validRow("T-1", "Ana")},
		ImportOptions{UseSingleDriver: true, SingleDriverID: "drv-1"},
		store, &fakeZones{})

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Empty(t, store.routes)
	assert.Len(t, store.deletedRoutes, 1)
}

func TestImportRoutesRollbackFailureDoesNotEscalate(t *testing.T) {
	store := newFakeStore()
	store.dropUpsertResults = true
	store.failDeleteRoute = true

	report, err := ImportRoutes(context.Background(),
		[]map[string]any{validRow("T-1", "Ana")},
		ImportOptions{UseSingleDriver: true, SingleDriverID: "drv-1"},
		store, &fakeZones{})

	require.NoError(t, err, "a failed compensating delete is logged, never raised")
	assert.Zero(t, report.RoutesCreated)
	assert.Len(t, store.deletedRoutes, 1)
}
