package builder

import (
	"testing"

	"github.com/posline/escpos-engine/pkg/receipt"
)

func TestBuilder_Chaining(t *testing.T) {
	b := New(receipt.Paper80mm)

	result := b.Text("one").CenteredText("two").Cut()

	if result != b {
		t.Error("Expected chained calls to return the same builder")
	}
	if len(b.Items()) != 3 {
		t.Errorf("Expected 3 items, got %d", len(b.Items()))
	}
}

func TestBuilder_AppendOrderIsPrintOrder(t *testing.T) {
	b := New(receipt.Paper80mm).
		Title("Store").
		Line().
		Feed(2).
		Cut()

	items := b.Items()
	want := []receipt.ItemType{receipt.TypeText, receipt.TypeLine, receipt.TypeFeed, receipt.TypeCut}
	for i, typ := range want {
		if items[i].Type != typ {
			t.Errorf("item[%d]: expected type %s, got %s", i, typ, items[i].Type)
		}
	}
}

func TestBuilder_TitleStyle(t *testing.T) {
	b := New(receipt.Paper80mm).Title("COFFEE SHOP")

	item := b.Items()[0]
	if !item.Bold || item.Align != receipt.AlignCenter || item.Size != receipt.SizeDouble {
		t.Errorf("Title should be centered, bold and double size, got %+v", item.Style)
	}
}

func TestBuilder_SubtitleStyle(t *testing.T) {
	b := New(receipt.Paper80mm).Subtitle("Downtown branch")

	item := b.Items()[0]
	if !item.Bold || item.Align != receipt.AlignCenter || item.Size != "" {
		t.Errorf("Subtitle should be centered bold at normal size, got %+v", item.Style)
	}
}

func TestBuilder_TableRowCoalescing(t *testing.T) {
	b := New(receipt.Paper80mm)
	b.TableRow([]receipt.TableColumn{{Text: "a"}})
	b.TableRow([]receipt.TableColumn{{Text: "b"}})

	items := b.Items()
	if len(items) != 1 {
		t.Fatalf("Expected adjacent rows to coalesce into 1 table, got %d items", len(items))
	}
	if len(items[0].Rows) != 2 {
		t.Errorf("Expected 2 rows in table, got %d", len(items[0].Rows))
	}
}

func TestBuilder_TableRowInterruptedByText(t *testing.T) {
	b := New(receipt.Paper80mm)
	b.TableRow([]receipt.TableColumn{{Text: "a"}})
	b.Text("between")
	b.TableRow([]receipt.TableColumn{{Text: "b"}})

	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[0].Type != receipt.TypeTable || items[2].Type != receipt.TypeTable {
		t.Error("Expected two distinct table blocks around the text item")
	}
	if len(items[0].Rows) != 1 || len(items[2].Rows) != 1 {
		t.Error("Expected each table block to hold exactly one row")
	}
}

func TestBuilder_ItemRowFormatsPrice(t *testing.T) {
	b := New(receipt.Paper80mm).
		WithCurrency(receipt.CurrencyFormat{Symbol: "$", Position: "before"}).
		ItemRow("Coffee", 2, 3.5)

	row := b.Items()[0].Rows[0]
	if len(row.Columns) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(row.Columns))
	}
	if row.Columns[0].Width != "50%" || row.Columns[1].Width != "15%" || row.Columns[2].Width != "35%" {
		t.Errorf("Expected 50/15/35 proportions, got %s/%s/%s",
			row.Columns[0].Width, row.Columns[1].Width, row.Columns[2].Width)
	}
	if row.Columns[1].Text != "2" {
		t.Errorf("Expected quantity '2', got %q", row.Columns[1].Text)
	}
	if row.Columns[2].Text != "$3.50" {
		t.Errorf("Expected formatted price '$3.50', got %q", row.Columns[2].Text)
	}
	if row.Columns[2].Align != receipt.AlignRight {
		t.Error("Expected right aligned price column")
	}
}

func TestBuilder_TotalRowIsBold(t *testing.T) {
	b := New(receipt.Paper80mm).TotalRow("TOTAL", 12.34)

	row := b.Items()[0].Rows[0]
	for i, col := range row.Columns {
		if !col.Bold {
			t.Errorf("column[%d]: expected bold total row", i)
		}
	}
}

func TestBuilder_Reset(t *testing.T) {
	b := New(receipt.Paper80mm).Text("hello").Cut()

	if len(b.Items()) == 0 {
		t.Fatal("Expected items before reset")
	}

	b.Reset()
	if len(b.Items()) != 0 {
		t.Errorf("Expected empty sequence after reset, got %d items", len(b.Items()))
	}
}

func TestBuilder_LineVariants(t *testing.T) {
	b := New(receipt.Paper58mm).Line().DashedLine().DoubleLine().CustomLine("*")

	items := b.Items()
	chars := []string{"", "-", "=", "*"}
	for i, want := range chars {
		if items[i].Type != receipt.TypeLine {
			t.Errorf("item[%d]: expected line item", i)
		}
		if items[i].Char != want {
			t.Errorf("item[%d]: expected fill char %q, got %q", i, want, items[i].Char)
		}
	}
}

func TestBuilder_BarcodeDefaults(t *testing.T) {
	b := New(receipt.Paper80mm).Barcode("123456789012", receipt.SymbologyCODE128)

	item := b.Items()[0]
	if item.Width != 2 || item.Height != 80 {
		t.Errorf("Expected width 2 height 80, got %d/%d", item.Width, item.Height)
	}
	if item.TextPosition != receipt.TextBelow {
		t.Errorf("Expected readable text below, got %s", item.TextPosition)
	}
	if item.Align != receipt.AlignCenter {
		t.Error("Expected centered barcode")
	}
}

func TestBuilder_QRCodeDefaults(t *testing.T) {
	b := New(receipt.Paper80mm).QRCode("https://example.com")

	item := b.Items()[0]
	if item.QRSize != 6 {
		t.Errorf("Expected QR size 6, got %d", item.QRSize)
	}
	if item.ErrorCorrection != receipt.ECMedium {
		t.Errorf("Expected medium error correction, got %s", item.ErrorCorrection)
	}
}

func TestBuilder_Document(t *testing.T) {
	b := New(receipt.Paper58mm).Text("hi")
	doc := b.Document("test")

	if doc.Version != receipt.Version {
		t.Errorf("Expected version %s, got %s", receipt.Version, doc.Version)
	}
	if doc.PaperWidth != receipt.Paper58mm {
		t.Errorf("Expected 58mm, got %s", doc.PaperWidth)
	}
	if err := receipt.Validate(doc); err != nil {
		t.Errorf("Expected valid document, got: %v", err)
	}
}
