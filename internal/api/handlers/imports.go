package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"petex-service/internal/api/dto"
	"petex-service/internal/platform/obs"
	"petex-service/internal/ports"
	"petex-service/internal/services"
)

type ImportHandler struct {
	Store ports.ImportStore
	Zones ports.ZoneSource
}

// ImportRoutes runs the bulk route-import pipeline for an uploaded shipment
// table. Any completed run returns 200, partial failures included in the
// body; store failures map to 400 with the store's message.
func (h *ImportHandler) ImportRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Store == nil || h.Zones == nil {
		writeError(w, r, http.StatusInternalServerError, "server is not configured")
		return
	}

	var req dto.ImportRoutesRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	var routeDate time.Time
	if d := strings.TrimSpace(req.RouteDate); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "routeDate must be formatted YYYY-MM-DD")
			return
		}
		routeDate = parsed
	}

	opts := services.ImportOptions{
		UseSingleDriver: req.UseSingleDriver,
		SingleDriverID:  req.SingleDriverID,
		DriverByGroup:   req.DriverByGroup,
		RouteDate:       routeDate,
	}

	report, err := services.ImportRoutes(r.Context(), req.Rows, opts, h.Store, h.Zones)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			writeError(w, r, http.StatusBadRequest, ve.Msg)
			return
		}

		var se *services.StoreError
		if errors.As(err, &se) {
			log.Printf("import routes aborted: req_id=%s err=%v", obs.RequestID(r.Context()), se)
			writeError(w, r, http.StatusBadRequest, se.Error())
			return
		}

		log.Printf("import routes failed: req_id=%s err=%v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ImportRoutesResponse{
		Summary: dto.ImportSummaryResponse{
			RoutesCreated:      report.RoutesCreated,
			DeliveriesImported: report.DeliveriesImported,
			InvalidRows:        len(report.InvalidRows),
		},
		Groups:      make([]dto.ImportGroupResponse, 0, len(report.Groups)),
		InvalidRows: make([]dto.InvalidRowResponse, 0, len(report.InvalidRows)),
	}
	for _, g := range report.Groups {
		res.Groups = append(res.Groups, dto.ImportGroupResponse{
			Group:     g.Key,
			Driver:    g.DriverID,
			Shipments: g.Shipments,
			Routes:    g.Routes,
		})
	}
	for _, row := range report.InvalidRows {
		res.InvalidRows = append(res.InvalidRows, dto.InvalidRowResponse{
			RowNumber: row.RowNumber,
			Reason:    row.Reason,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
