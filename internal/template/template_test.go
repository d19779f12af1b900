package template

import (
	"testing"

	"github.com/posline/escpos-engine/pkg/receipt"
)

func TestApply_SubstitutesValues(t *testing.T) {
	doc := &receipt.Document{
		Version: receipt.Version,
		Variables: []receipt.Variable{
			{Name: "customer"},
			{Name: "total", Prefix: "$"},
		},
		Items: []receipt.Item{
			{Type: receipt.TypeText, Value: "Customer: {{customer}}"},
			{Type: receipt.TypeText, Value: "Total: {{total}}"},
		},
	}

	items := Apply(doc, map[string]string{
		"customer": "Ada Lovelace",
		"total":    "12.50",
	})

	if items[0].Value != "Customer: Ada Lovelace" {
		t.Errorf("Unexpected value: %q", items[0].Value)
	}
	if items[1].Value != "Total: $12.50" {
		t.Errorf("Expected prefix applied, got %q", items[1].Value)
	}
}

func TestApply_DefaultsAndUndeclared(t *testing.T) {
	doc := &receipt.Document{
		Version: receipt.Version,
		Variables: []receipt.Variable{
			{Name: "store", Default: "Main Street"},
		},
		Items: []receipt.Item{
			{Type: receipt.TypeText, Value: "{{store}} / {{register}}"},
		},
	}

	items := Apply(doc, nil)

	if items[0].Value != "Main Street / {{register}}" {
		t.Errorf("Expected default and untouched placeholder, got %q", items[0].Value)
	}
}

func TestApply_TableColumns(t *testing.T) {
	doc := &receipt.Document{
		Version: receipt.Version,
		Variables: []receipt.Variable{
			{Name: "item"},
		},
		Items: []receipt.Item{
			{
				Type: receipt.TypeTable,
				Rows: []receipt.TableRow{
					{Columns: []receipt.TableColumn{
						{Text: "{{item}}"},
						{Text: "1.00"},
					}},
				},
			},
		},
	}

	items := Apply(doc, map[string]string{"item": "Coffee"})

	if got := items[0].Rows[0].Columns[0].Text; got != "Coffee" {
		t.Errorf("Expected column substitution, got %q", got)
	}

	// The source document must stay untouched
	if doc.Items[0].Rows[0].Columns[0].Text != "{{item}}" {
		t.Error("Apply modified the source document")
	}
}

func TestApply_NoVariables(t *testing.T) {
	doc := &receipt.Document{
		Version: receipt.Version,
		Items: []receipt.Item{
			{Type: receipt.TypeText, Value: "{{anything}}"},
		},
	}

	items := Apply(doc, map[string]string{"anything": "x"})

	if items[0].Value != "{{anything}}" {
		t.Errorf("Expected placeholders untouched without declarations, got %q", items[0].Value)
	}
}
