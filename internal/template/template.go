// Package template resolves {{name}} placeholders in receipt documents
// against the document's declared variables.
package template

import (
	"strings"

	"github.com/posline/escpos-engine/pkg/receipt"
)

// Apply substitutes the document's declared variables into its items
// and returns the resolved sequence. A declared variable missing from
// values falls back to its default; placeholders without a declaration
// are left as written. The document is not modified.
func Apply(doc *receipt.Document, values map[string]string) []receipt.Item {
	if len(doc.Variables) == 0 {
		return doc.Items
	}

	replacer := newReplacer(doc.Variables, values)

	items := make([]receipt.Item, len(doc.Items))
	for i, item := range doc.Items {
		item.Value = replacer.Replace(item.Value)

		if len(item.Rows) > 0 {
			rows := make([]receipt.TableRow, len(item.Rows))
			for r, row := range item.Rows {
				columns := make([]receipt.TableColumn, len(row.Columns))
				for c, col := range row.Columns {
					col.Text = replacer.Replace(col.Text)
					columns[c] = col
				}
				rows[r] = receipt.TableRow{Columns: columns}
			}
			item.Rows = rows
		}

		items[i] = item
	}

	return items
}

func newReplacer(decls []receipt.Variable, values map[string]string) *strings.Replacer {
	pairs := make([]string, 0, len(decls)*2)
	for _, v := range decls {
		value, ok := values[v.Name]
		if !ok {
			value = v.Default
		}
		pairs = append(pairs, "{{"+v.Name+"}}", v.Prefix+value+v.Suffix)
	}
	return strings.NewReplacer(pairs...)
}
