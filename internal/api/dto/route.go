package dto

type RouteResponse struct {
	ID        string `json:"id"`
	RouteDate string `json:"route_date"`
	ZoneID    string `json:"zone_id,omitempty"`
	DriverID  string `json:"driver_id"`
	Status    string `json:"status"`
	Stops     int    `json:"stops"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type StopResponse struct {
	ID         string `json:"id"`
	DeliveryID string `json:"delivery_id"`
	Order      int    `json:"order"`
	Title      string `json:"title"`
	Address    string `json:"address"`
	Phone      string `json:"phone,omitempty"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
}

type ListStopsResponse struct {
	RouteID string         `json:"route_id"`
	Stops   []StopResponse `json:"stops"`
}

type StopStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}
