package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"petex-service/internal/api/dto"
	"petex-service/internal/ports"
)

// RouteHandler exposes the read side of routes for the driver view.
type RouteHandler struct {
	Reader ports.RouteReader
}

// List returns routes for a date (default today, UTC), optionally narrowed
// to one driver via ?driver=.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if d := strings.TrimSpace(r.URL.Query().Get("date")); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}
		date = parsed
	}

	driverID := strings.TrimSpace(r.URL.Query().Get("driver"))

	routes, err := h.Reader.ListRoutes(r.Context(), date, driverID)
	if err != nil {
		log.Printf("list routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
	for _, rt := range routes {
		res.Routes = append(res.Routes, dto.RouteResponse{
			ID:        rt.ID,
			RouteDate: rt.RouteDate.Format("2006-01-02"),
			ZoneID:    rt.ZoneID,
			DriverID:  rt.DriverID,
			Status:    rt.Status,
			Stops:     rt.StopCount,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Stops serves /routes/{id}/stops: the ordered stops of one route.
func (h *RouteHandler) Stops(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/routes/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "stops" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	routeID := parts[0]

	stops, err := h.Reader.ListStops(r.Context(), routeID)
	if err != nil {
		log.Printf("list stops failed: route_id=%s err=%v", routeID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStopsResponse{
		RouteID: routeID,
		Stops:   make([]dto.StopResponse, 0, len(stops)),
	}
	for _, st := range stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			ID:         st.ID,
			DeliveryID: st.DeliveryID,
			Order:      st.Order,
			Title:      st.Title,
			Address:    st.Address,
			Phone:      st.Phone,
			Status:     st.Status,
			Note:       st.Note,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
