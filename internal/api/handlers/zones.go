package handlers

import (
	"log"
	"net/http"

	"petex-service/internal/api/dto"
	"petex-service/internal/ports"
)

// ZoneHandler exposes read-only zone reference data.
type ZoneHandler struct {
	Zones ports.ZoneSource
}

func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	zones, err := h.Zones.ListZones(r.Context())
	if err != nil {
		log.Printf("list zones failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListZonesResponse{Zones: make([]dto.ZoneResponse, 0, len(zones))}
	for _, z := range zones {
		res.Zones = append(res.Zones, dto.ZoneResponse{
			ID:       z.ID,
			Name:     z.Name,
			Keywords: z.Keywords,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
