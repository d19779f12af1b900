package receipt

import (
	"testing"
)

func TestPaperWidth_CharsPerLine(t *testing.T) {
	if got := Paper58mm.CharsPerLine(); got != 32 {
		t.Errorf("Expected 32 chars for 58mm, got %d", got)
	}
	if got := Paper80mm.CharsPerLine(); got != 48 {
		t.Errorf("Expected 48 chars for 80mm, got %d", got)
	}
	// Unknown widths fall back to 80mm geometry
	if got := PaperWidth("112mm").CharsPerLine(); got != 48 {
		t.Errorf("Expected fallback of 48 chars, got %d", got)
	}
}

func TestPaperWidth_DotWidth(t *testing.T) {
	if got := Paper58mm.DotWidth(); got != 384 {
		t.Errorf("Expected 384 dots for 58mm, got %d", got)
	}
	if got := Paper80mm.DotWidth(); got != 576 {
		t.Errorf("Expected 576 dots for 80mm, got %d", got)
	}
}

func TestValidate_ValidDocument(t *testing.T) {
	doc := &Document{
		Version: "1.0",
		Name:    "Test Receipt",
		Items: []Item{
			{Type: TypeText, Value: "Hello World"},
			{Type: TypeCut},
		},
	}

	if err := Validate(doc); err != nil {
		t.Errorf("Expected valid document, got error: %v", err)
	}
}

func TestValidate_MissingVersion(t *testing.T) {
	doc := &Document{
		Items: []Item{{Type: TypeText, Value: "Hello"}},
	}

	if err := Validate(doc); err == nil {
		t.Error("Expected error for missing version")
	}
}

func TestValidate_InvalidVersion(t *testing.T) {
	doc := &Document{
		Version: "2.0",
		Items:   []Item{{Type: TypeText, Value: "Hello"}},
	}

	if err := Validate(doc); err == nil {
		t.Error("Expected error for invalid version")
	}
}

func TestValidate_NoItems(t *testing.T) {
	doc := &Document{Version: "1.0", Items: []Item{}}

	if err := Validate(doc); err == nil {
		t.Error("Expected error for empty item list")
	}
}

func TestValidate_PaperWidths(t *testing.T) {
	for _, width := range []PaperWidth{Paper58mm, Paper80mm} {
		doc := &Document{
			Version:    "1.0",
			PaperWidth: width,
			Items:      []Item{{Type: TypeText, Value: "Hello"}},
		}
		if err := Validate(doc); err != nil {
			t.Errorf("Expected valid for width %s, got error: %v", width, err)
		}
	}

	doc := &Document{
		Version:    "1.0",
		PaperWidth: "112mm",
		Items:      []Item{{Type: TypeText, Value: "Hello"}},
	}
	if err := Validate(doc); err == nil {
		t.Error("Expected error for unsupported paper width")
	}
}

func TestValidate_TextItem(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{"valid text", Item{Type: TypeText, Value: "Hello"}, false},
		{"align left", Item{Type: TypeText, Value: "Hello", Style: Style{Align: AlignLeft}}, false},
		{"align center", Item{Type: TypeText, Value: "Hello", Style: Style{Align: AlignCenter}}, false},
		{"align right", Item{Type: TypeText, Value: "Hello", Style: Style{Align: AlignRight}}, false},
		{"invalid align", Item{Type: TypeText, Value: "Hello", Style: Style{Align: "middle"}}, true},
		{"double size", Item{Type: TypeText, Value: "Hello", Style: Style{Size: SizeDouble}}, false},
		{"invalid size", Item{Type: TypeText, Value: "Hello", Style: Style{Size: "triple"}}, true},
		{"no value", Item{Type: TypeText}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Version: "1.0", Items: []Item{tt.item}}
			err := Validate(doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_TableItem(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{
			"valid table",
			Item{Type: TypeTable, Rows: []TableRow{
				{Columns: []TableColumn{{Text: "Item", Width: "60%"}, {Text: "Price"}}},
			}},
			false,
		},
		{"no rows", Item{Type: TypeTable}, true},
		{
			"empty row",
			Item{Type: TypeTable, Rows: []TableRow{{}}},
			true,
		},
		{
			"absolute width",
			Item{Type: TypeTable, Rows: []TableRow{
				{Columns: []TableColumn{{Text: "x", Width: "12"}}},
			}},
			false,
		},
		{
			"bad width",
			Item{Type: TypeTable, Rows: []TableRow{
				{Columns: []TableColumn{{Text: "x", Width: "wide"}}},
			}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Version: "1.0", Items: []Item{tt.item}}
			err := Validate(doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_BarcodeItem(t *testing.T) {
	valid := &Document{
		Version: "1.0",
		Items:   []Item{{Type: TypeBarcode, Value: "123456", Symbology: SymbologyCODE128}},
	}
	if err := Validate(valid); err != nil {
		t.Errorf("Expected valid barcode, got error: %v", err)
	}

	missing := &Document{
		Version: "1.0",
		Items:   []Item{{Type: TypeBarcode, Symbology: SymbologyCODE128}},
	}
	if err := Validate(missing); err == nil {
		t.Error("Expected error for barcode without value")
	}

	badSym := &Document{
		Version: "1.0",
		Items:   []Item{{Type: TypeBarcode, Value: "1", Symbology: "CODE11"}},
	}
	if err := Validate(badSym); err == nil {
		t.Error("Expected error for unknown symbology")
	}
}

func TestValidate_QRCodeItem(t *testing.T) {
	valid := &Document{
		Version: "1.0",
		Items:   []Item{{Type: TypeQRCode, Value: "https://example.com", ErrorCorrection: ECHigh}},
	}
	if err := Validate(valid); err != nil {
		t.Errorf("Expected valid qrcode, got error: %v", err)
	}

	bad := &Document{
		Version: "1.0",
		Items:   []Item{{Type: TypeQRCode, Value: "x", ErrorCorrection: "X"}},
	}
	if err := Validate(bad); err == nil {
		t.Error("Expected error for invalid error correction level")
	}
}

func TestValidate_UnknownItemType(t *testing.T) {
	doc := &Document{
		Version: "1.0",
		Items:   []Item{{Type: "hologram"}},
	}

	if err := Validate(doc); err == nil {
		t.Error("Expected error for unknown item type")
	}
}

func TestParse_ValidJSON(t *testing.T) {
	jsonData := `{
		"version": "1.0",
		"name": "Test Receipt",
		"items": [
			{"type": "text", "value": "Hello World", "align": "center"},
			{"type": "cut"}
		]
	}`

	doc, err := Parse([]byte(jsonData))
	if err != nil {
		t.Fatalf("Expected successful parse, got error: %v", err)
	}

	if doc.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", doc.Version)
	}
	if doc.Name != "Test Receipt" {
		t.Errorf("Expected name 'Test Receipt', got %s", doc.Name)
	}
	if len(doc.Items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(doc.Items))
	}
	if doc.Items[0].Align != AlignCenter {
		t.Errorf("Expected center alignment, got %s", doc.Items[0].Align)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{invalid json`)); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	doc := &Document{
		Version: "1.0",
		Name:    "Test",
		Items: []Item{
			{Type: TypeText, Value: "Hello", Style: Style{Bold: true}},
			{Type: TypeBarcode, Value: "4006381333931", Symbology: SymbologyEAN13, Width: 3, Height: 80},
		},
	}

	jsonData, err := doc.ToJSON()
	if err != nil {
		t.Fatalf("Expected successful JSON conversion, got error: %v", err)
	}

	parsed, err := Parse(jsonData)
	if err != nil {
		t.Fatalf("Expected successful re-parse, got error: %v", err)
	}

	if parsed.Name != doc.Name {
		t.Errorf("Round-trip failed: expected name %s, got %s", doc.Name, parsed.Name)
	}
	if !parsed.Items[0].Bold {
		t.Error("Round-trip failed: bold flag lost")
	}
	if parsed.Items[1].Symbology != SymbologyEAN13 {
		t.Errorf("Round-trip failed: expected EAN13, got %s", parsed.Items[1].Symbology)
	}
}
