package encoder

import (
	"bytes"
	"strings"
	"testing"

	"github.com/posline/escpos-engine/pkg/receipt"
)

func TestEncode_BeginsWithInitialize(t *testing.T) {
	out := Encode(nil, receipt.Paper80mm)

	if !bytes.Equal(out, []byte{0x1B, '@'}) {
		t.Errorf("Expected initialization only for empty sequence, got % X", out)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	items := []receipt.Item{
		{Type: receipt.TypeText, Value: "Hello", Style: receipt.Style{Bold: true}},
		{Type: receipt.TypeLine},
		{Type: receipt.TypeBarcode, Value: "123456", Symbology: receipt.SymbologyCODE128},
		{Type: receipt.TypeCut},
	}

	a := Encode(items, receipt.Paper80mm)
	b := Encode(items, receipt.Paper80mm)

	if !bytes.Equal(a, b) {
		t.Error("Expected byte identical output for identical inputs")
	}
}

func TestEncode_PlainText(t *testing.T) {
	out := Encode([]receipt.Item{
		{Type: receipt.TypeText, Value: "Hi"},
	}, receipt.Paper80mm)

	want := []byte{
		0x1B, '@', // initialize
		0x1B, 'a', 0x00, // align left (always emitted)
		'H', 'i',
		0x0A,
		0x1B, 'a', 0x00, // unconditional align reset
	}
	if !bytes.Equal(out, want) {
		t.Errorf("Plain text encoding mismatch:\ngot  % X\nwant % X", out, want)
	}
}

func TestEncode_StyledText(t *testing.T) {
	out := Encode([]receipt.Item{
		{
			Type:  receipt.TypeText,
			Value: "X",
			Style: receipt.Style{
				Align: receipt.AlignCenter,
				Size:  receipt.SizeDouble,
				Bold:  true,
			},
		},
	}, receipt.Paper80mm)

	want := []byte{
		0x1B, '@',
		0x1B, 'a', 0x01, // center
		0x1B, '!', 0x30, // double size
		0x1B, 'E', 0x01, // bold on
		'X',
		0x0A,
		0x1B, 'E', 0x00, // bold off
		0x1B, '!', 0x00, // size normal
		0x1B, 'a', 0x00, // align reset
	}
	if !bytes.Equal(out, want) {
		t.Errorf("Styled text encoding mismatch:\ngot  % X\nwant % X", out, want)
	}
}

func TestEncode_UnderlineAndInvert(t *testing.T) {
	out := Encode([]receipt.Item{
		{Type: receipt.TypeText, Value: "u", Style: receipt.Style{Underline: true, Invert: true}},
	}, receipt.Paper80mm)

	want := []byte{
		0x1B, '@',
		0x1B, 'a', 0x00,
		0x1B, '-', 0x01, // underline on
		0x1D, 'B', 0x01, // invert on
		'u',
		0x0A,
		0x1B, '-', 0x00, // underline off
		0x1D, 'B', 0x00, // invert off
		0x1B, 'a', 0x00,
	}
	if !bytes.Equal(out, want) {
		t.Errorf("Underline/invert encoding mismatch:\ngot  % X\nwant % X", out, want)
	}
}

func TestEncode_NoStyleLeakBetweenItems(t *testing.T) {
	out := Encode([]receipt.Item{
		{Type: receipt.TypeText, Value: "a", Style: receipt.Style{Bold: true, Size: receipt.SizeDouble}},
		{Type: receipt.TypeText, Value: "b"},
	}, receipt.Paper80mm)

	// The second item must begin after a bold-off and size-normal
	second := bytes.Index(out, []byte{'b'})
	prefix := out[:second]

	if !bytes.Contains(prefix, []byte{0x1B, 'E', 0x00}) {
		t.Error("Expected bold switched off before the next item")
	}
	if !bytes.Contains(prefix, []byte{0x1B, '!', 0x00}) {
		t.Error("Expected size reset before the next item")
	}
}

func TestEncode_LineFillsPaperWidth(t *testing.T) {
	tests := []struct {
		paper receipt.PaperWidth
		width int
	}{
		{receipt.Paper80mm, 48},
		{receipt.Paper58mm, 32},
	}

	for _, tt := range tests {
		out := Encode([]receipt.Item{{Type: receipt.TypeLine}}, tt.paper)

		want := append([]byte{0x1B, '@'}, bytes.Repeat([]byte{'-'}, tt.width)...)
		want = append(want, 0x0A)
		if !bytes.Equal(out, want) {
			t.Errorf("%s: expected %d dashes, got % X", tt.paper, tt.width, out)
		}
	}
}

func TestEncode_LineCustomChar(t *testing.T) {
	out := Encode([]receipt.Item{{Type: receipt.TypeLine, Char: "="}}, receipt.Paper58mm)

	payload := out[2:] // strip initialize
	if len(payload) != 33 {
		t.Fatalf("Expected 32 chars plus line feed, got %d bytes", len(payload))
	}
	for i := 0; i < 32; i++ {
		if payload[i] != '=' {
			t.Fatalf("byte %d: expected '=', got %#x", i, payload[i])
		}
	}
}

func TestEncode_Feed(t *testing.T) {
	tests := []struct {
		name  string
		lines int
		want  byte
	}{
		{"explicit", 5, 5},
		{"default 3", 0, 3},
		{"clamped high", 999, 255},
		{"clamped low", -2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Encode([]receipt.Item{{Type: receipt.TypeFeed, Lines: tt.lines}}, receipt.Paper80mm)

			want := []byte{0x1B, '@', 0x1B, 'd', tt.want}
			if !bytes.Equal(out, want) {
				t.Errorf("Feed(%d): got % X, want % X", tt.lines, out, want)
			}
		})
	}
}

func TestEncode_Cut(t *testing.T) {
	full := Encode([]receipt.Item{{Type: receipt.TypeCut}}, receipt.Paper80mm)
	wantFull := []byte{0x1B, '@', 0x1B, 'd', 3, 0x1D, 'V', 0x00}
	if !bytes.Equal(full, wantFull) {
		t.Errorf("Full cut: got % X, want % X", full, wantFull)
	}

	partial := Encode([]receipt.Item{{Type: receipt.TypeCut, Partial: true}}, receipt.Paper80mm)
	wantPartial := []byte{0x1B, '@', 0x1B, 'd', 3, 0x1D, 'V', 'B', 0x00}
	if !bytes.Equal(partial, wantPartial) {
		t.Errorf("Partial cut: got % X, want % X", partial, wantPartial)
	}
}

func TestEncode_Table(t *testing.T) {
	out := Encode([]receipt.Item{
		{
			Type: receipt.TypeTable,
			Rows: []receipt.TableRow{
				{Columns: []receipt.TableColumn{
					{Text: "ab", Width: "4"},
					{Text: "cd", Width: "4", Align: receipt.AlignRight},
				}},
			},
		},
	}, receipt.Paper58mm)

	want := append([]byte{0x1B, '@'}, []byte("ab    cd")...)
	want = append(want, 0x0A)
	if !bytes.Equal(out, want) {
		t.Errorf("Table row: got %q, want %q", out, want)
	}
}

func TestEncode_TableBoldWrapsWholeLine(t *testing.T) {
	out := Encode([]receipt.Item{
		{
			Type: receipt.TypeTable,
			Rows: []receipt.TableRow{
				{Columns: []receipt.TableColumn{
					{Text: "a", Width: "2", Bold: true},
					{Text: "b", Width: "2"},
				}},
			},
		},
	}, receipt.Paper58mm)

	want := []byte{0x1B, '@', 0x1B, 'E', 0x01}
	want = append(want, []byte("a b ")...)
	want = append(want, 0x0A, 0x1B, 'E', 0x00)
	if !bytes.Equal(out, want) {
		t.Errorf("Bold table row: got % X, want % X", out, want)
	}
}

func TestEncode_TableFlexColumns(t *testing.T) {
	// 60% of 48 = 28, flex column takes the remaining 20
	out := Encode([]receipt.Item{
		{
			Type: receipt.TypeTable,
			Rows: []receipt.TableRow{
				{Columns: []receipt.TableColumn{
					{Text: "left", Width: "60%"},
					{Text: "right", Align: receipt.AlignRight},
				}},
			},
		},
	}, receipt.Paper80mm)

	line := string(out[2 : len(out)-1])
	if len(line) != 48 {
		t.Fatalf("Expected full width line of 48, got %d: %q", len(line), line)
	}
	if line[:4] != "left" {
		t.Errorf("Expected left column at start, got %q", line)
	}
	if line[len(line)-5:] != "right" {
		t.Errorf("Expected right column at end, got %q", line)
	}
}

func TestEncode_UnknownTypeIsNoOp(t *testing.T) {
	out := Encode([]receipt.Item{
		{Type: "hologram", Value: "ignored"},
		{Type: receipt.TypeImage, Source: "logo.png"},
	}, receipt.Paper80mm)

	if !bytes.Equal(out, []byte{0x1B, '@'}) {
		t.Errorf("Expected unknown and image items to encode to nothing, got % X", out)
	}
}

func TestEncodeDocument_UsesDocumentPaperWidth(t *testing.T) {
	doc := &receipt.Document{
		Version:    receipt.Version,
		PaperWidth: receipt.Paper58mm,
		Items:      []receipt.Item{{Type: receipt.TypeLine}},
	}

	out := EncodeDocument(doc)

	// init + 32 dashes + LF
	if len(out) != 2+32+1 {
		t.Errorf("Expected a 58mm line of 32 chars, got %d bytes", len(out))
	}
}

func TestEncodeWidth_Override(t *testing.T) {
	out := EncodeWidth([]receipt.Item{{Type: receipt.TypeLine}}, receipt.Paper80mm, 40)

	// init + 40 dashes + LF
	if len(out) != 2+40+1 {
		t.Errorf("Expected a 40-char line with width override, got %d bytes", len(out))
	}
}

func TestEncode_BarcodeFraming(t *testing.T) {
	tests := []struct {
		name string
		item receipt.Item
		want []byte
	}{
		{
			name: "code128 defaults",
			item: receipt.Item{Type: receipt.TypeBarcode, Value: "HELLO", Symbology: receipt.SymbologyCODE128},
			want: []byte{
				GS, 'h', 80, // default height
				GS, 'w', 2, // width clamped up from zero
				GS, 'H', 2, // HRI below by default
				GS, 'k', 73, 7, '{', 'B', 'H', 'E', 'L', 'L', 'O',
				LF,
				ESC, 'a', 0,
			},
		},
		{
			name: "ean13 length prefixed",
			item: receipt.Item{
				Type: receipt.TypeBarcode, Value: "4006381333931",
				Symbology: receipt.SymbologyEAN13, Height: 100, Width: 3,
				TextPosition: receipt.TextNone,
			},
			want: []byte{
				GS, 'h', 100,
				GS, 'w', 3,
				GS, 'H', 0,
				GS, 'k', 67, 13,
				'4', '0', '0', '6', '3', '8', '1', '3', '3', '3', '9', '3', '1',
				LF,
				ESC, 'a', 0,
			},
		},
		{
			name: "code39 clamps height and width",
			item: receipt.Item{
				Type: receipt.TypeBarcode, Value: "AB",
				Symbology: receipt.SymbologyCODE39, Height: 999, Width: 9,
			},
			want: []byte{
				GS, 'h', 255,
				GS, 'w', 6,
				GS, 'H', 2,
				GS, 'k', 69, 2, 'A', 'B',
				LF,
				ESC, 'a', 0,
			},
		},
		{
			name: "centered barcode wraps in alignment",
			item: receipt.Item{
				Type: receipt.TypeBarcode, Value: "X",
				Symbology: receipt.SymbologyCODABAR,
				Style:     receipt.Style{Align: receipt.AlignCenter},
			},
			want: []byte{
				ESC, 'a', 1,
				GS, 'h', 80,
				GS, 'w', 2,
				GS, 'H', 2,
				GS, 'k', 71, 1, 'X',
				LF,
				ESC, 'a', 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Encode([]receipt.Item{tt.item}, receipt.Paper80mm)
			got := out[2:] // skip initialization
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got % X\nwant % X", got, tt.want)
			}
		})
	}
}

func TestEncode_QRCodeFraming(t *testing.T) {
	tests := []struct {
		name string
		item receipt.Item
		want []byte
	}{
		{
			name: "defaults",
			item: receipt.Item{Type: receipt.TypeQRCode, Value: "HI"},
			want: []byte{
				GS, '(', 'k', 4, 0, 0x31, 0x41, 2, 0, // model 2
				GS, '(', 'k', 3, 0, 0x31, 0x43, 6, // default module size
				GS, '(', 'k', 3, 0, 0x31, 0x45, 0x31, // EC M by default
				GS, '(', 'k', 5, 0, 0x31, 0x50, 0x30, 'H', 'I', // store, pL = len+3
				GS, '(', 'k', 3, 0, 0x31, 0x51, 0x30, // print
				LF,
				ESC, 'a', 0,
			},
		},
		{
			name: "centered with level H and size clamp",
			item: receipt.Item{
				Type: receipt.TypeQRCode, Value: "Q",
				QRSize: 99, ErrorCorrection: receipt.ECHigh,
				Style: receipt.Style{Align: receipt.AlignCenter},
			},
			want: []byte{
				ESC, 'a', 1,
				GS, '(', 'k', 4, 0, 0x31, 0x41, 2, 0,
				GS, '(', 'k', 3, 0, 0x31, 0x43, 16, // size clamped to 16
				GS, '(', 'k', 3, 0, 0x31, 0x45, 0x33,
				GS, '(', 'k', 4, 0, 0x31, 0x50, 0x30, 'Q',
				GS, '(', 'k', 3, 0, 0x31, 0x51, 0x30,
				LF,
				ESC, 'a', 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Encode([]receipt.Item{tt.item}, receipt.Paper80mm)
			got := out[2:]
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got % X\nwant % X", got, tt.want)
			}
		})
	}
}

func TestEncode_QRStoreLengthLittleEndian(t *testing.T) {
	value := strings.Repeat("A", 300)
	out := Encode([]receipt.Item{{Type: receipt.TypeQRCode, Value: value}}, receipt.Paper80mm)

	// init(2) + model(9) + size(8) + level(8), then the store header
	store := out[2+9+8+8:]
	want := []byte{GS, '(', 'k', 47, 1, 0x31, 0x50, 0x30} // 303 = 0x012F
	if !bytes.Equal(store[:8], want) {
		t.Errorf("Store header % X, want % X", store[:8], want)
	}
}
