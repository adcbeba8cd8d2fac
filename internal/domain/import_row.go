package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ImportRow is the fixed-shape record produced from one submitted shipment
// row. All fields are trimmed strings; Raw keeps every submitted field
// stringified so nothing the uploader sent is lost.
type ImportRow struct {
	OrderID      string
	CustomerName string
	Phone        string
	Address      string
	City         string
	PostalCode   string
	ZoneHint     string
	Carrier      string
	Notes        string
	ZoneID       string
	Raw          map[string]string
}

// Accepted field names per column, snake_case first since that is what the
// dashboard exports; camelCase variants come from older spreadsheet templates.
var (
	orderIDKeys  = []string{"order_id", "orderId", "order_number", "orderNumber"}
	nameKeys     = []string{"customer_name", "customerName", "name", "recipient"}
	phoneKeys    = []string{"phone", "phone_number", "phoneNumber", "telephone"}
	addressKeys  = []string{"address_line1", "addressLine1", "address", "address1"}
	cityKeys     = []string{"city"}
	postalKeys   = []string{"postal_code", "postalCode", "zip", "zip_code"}
	zoneHintKeys = []string{"zone", "zone_hint", "zoneHint", "neighborhood"}
	carrierKeys  = []string{"carrier"}
	notesKeys    = []string{"notes", "note"}
	zoneIDKeys   = []string{"zone_id", "zoneId"}
)

// NormalizeRow converts a raw uploaded row into a fixed-shape ImportRow.
// Field lookup tries each accepted name in order; every value is stringified
// and trimmed before any validation runs.
func NormalizeRow(raw map[string]any) ImportRow {
	row := ImportRow{
		OrderID:      pickString(raw, orderIDKeys),
		CustomerName: pickString(raw, nameKeys),
		Phone:        pickString(raw, phoneKeys),
		Address:      pickString(raw, addressKeys),
		City:         pickString(raw, cityKeys),
		PostalCode:   pickString(raw, postalKeys),
		ZoneHint:     pickString(raw, zoneHintKeys),
		Carrier:      pickString(raw, carrierKeys),
		Notes:        pickString(raw, notesKeys),
		ZoneID:       pickString(raw, zoneIDKeys),
		Raw:          make(map[string]string, len(raw)),
	}

	for k, v := range raw {
		row.Raw[k] = stringify(v)
	}

	return row
}

// Invalid returns a human-readable rejection reason, or "" for a valid row.
// A row needs an order id, an address, and at least one way to identify the
// recipient (phone or name).
func (r ImportRow) Invalid() string {
	missing := make([]string, 0, 3)
	if r.OrderID == "" {
		missing = append(missing, "order id")
	}
	if r.Address == "" {
		missing = append(missing, "address")
	}
	if r.Phone == "" && r.CustomerName == "" {
		missing = append(missing, "phone or customer name")
	}

	if len(missing) == 0 {
		return ""
	}
	return "missing " + strings.Join(missing, ", ")
}

// SearchString builds the lowercase haystack used for zone keyword matching.
func (r ImportRow) SearchString() string {
	return strings.ToLower(strings.Join([]string{r.Address, r.City, r.PostalCode, r.ZoneHint}, " "))
}

func pickString(raw map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringify renders an uploaded cell value as a trimmed string. JSON numbers
// arrive as float64; integral ones must not pick up an exponent or decimals.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
