package dto

type ImportRoutesRequest struct {
	Rows            []map[string]any  `json:"rows"`
	UseSingleDriver bool              `json:"useSingleDriver"`
	SingleDriverID  string            `json:"singleDriverId"`
	DriverByGroup   map[string]string `json:"driverByGroup"`
	RouteDate       string            `json:"routeDate"`
}

type ImportSummaryResponse struct {
	RoutesCreated      int `json:"routes_created"`
	DeliveriesImported int `json:"deliveries_imported"`
	InvalidRows        int `json:"invalid_rows"`
}

type ImportGroupResponse struct {
	Group     string `json:"group"`
	Driver    string `json:"driver"`
	Shipments int    `json:"shipments"`
	Routes    int    `json:"routes"`
}

type InvalidRowResponse struct {
	RowNumber int    `json:"row_number"`
	Reason    string `json:"reason"`
}

type ImportRoutesResponse struct {
	Summary     ImportSummaryResponse `json:"summary"`
	Groups      []ImportGroupResponse `json:"groups"`
	InvalidRows []InvalidRowResponse  `json:"invalid_rows"`
}
