package domain

import "testing"

func TestNormalizeRowFieldFallbacks(t *testing.T) {
	raw := map[string]any{
		"orderId":     "A-77",
		"name":        "  Ana Gomez ",
		"phoneNumber": float64(5551234),
		"address1":    "Calle 9 #12-34",
		"city":        "Bogota",
		"zip":         float64(110111),
		"zoneHint":    "Chapinero",
		"carrier":     "servientrega",
	}

	row := NormalizeRow(raw)

	if row.OrderID != "A-77" {
		t.Fatalf("OrderID = %q, want A-77", row.OrderID)
	}
	if row.CustomerName != "Ana Gomez" {
		t.Fatalf("CustomerName = %q, want trimmed name", row.CustomerName)
	}
	if row.Phone != "5551234" {
		t.Fatalf("Phone = %q, want 5551234 (no exponent)", row.Phone)
	}
	if row.Address != "Calle 9 #12-34" {
		t.Fatalf("Address = %q", row.Address)
	}
	if row.PostalCode != "110111" {
		t.Fatalf("PostalCode = %q, want 110111", row.PostalCode)
	}
	if row.ZoneHint != "Chapinero" {
		t.Fatalf("ZoneHint = %q", row.ZoneHint)
	}

	if row.Raw["phoneNumber"] != "5551234" {
		t.Fatalf("Raw[phoneNumber] = %q, want stringified value", row.Raw["phoneNumber"])
	}
}

func TestNormalizeRowSnakeCaseWinsOverCamel(t *testing.T) {
	raw := map[string]any{
		"order_id": "SNAKE",
		"orderId":  "CAMEL",
	}

	row := NormalizeRow(raw)
	if row.OrderID != "SNAKE" {
		t.Fatalf("OrderID = %q, want snake_case to win", row.OrderID)
	}
}

func TestImportRowInvalid(t *testing.T) {
	cases := []struct {
		name string
		row  ImportRow
		want string
	}{
		{
			name: "valid with name only",
			row:  ImportRow{OrderID: "A1", Address: "Calle 1", CustomerName: "Ana"},
			want: "",
		},
		{
			name: "valid with phone only",
			row:  ImportRow{OrderID: "A1", Address: "Calle 1", Phone: "555"},
			want: "",
		},
		{
			name: "missing order id",
			row:  ImportRow{Address: "Calle 2", Phone: "555"},
			want: "missing order id",
		},
		{
			name: "missing address",
			row:  ImportRow{OrderID: "A2", Phone: "555"},
			want: "missing address",
		},
		{
			name: "missing contact",
			row:  ImportRow{OrderID: "A3", Address: "Calle 3"},
			want: "missing phone or customer name",
		},
		{
			name: "missing everything",
			row:  ImportRow{},
			want: "missing order id, address, phone or customer name",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.row.Invalid(); got != tc.want {
				t.Fatalf("Invalid() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSearchStringIsLowercase(t *testing.T) {
	row := ImportRow{
		Address:    "Carrera 15 #80",
		City:       "BOGOTA",
		PostalCode: "110221",
		ZoneHint:   "Usaquen",
	}

	want := "carrera 15 #80 bogota 110221 usaquen"
	if got := row.SearchString(); got != want {
		t.Fatalf("SearchString() = %q, want %q", got, want)
	}
}
