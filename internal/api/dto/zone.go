package dto

type ZoneResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type ListZonesResponse struct {
	Zones []ZoneResponse `json:"zones"`
}
