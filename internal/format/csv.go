package format

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Table is tabular data ready for export. Every row has one cell per header.
type Table struct {
	Headers []string
	Rows    [][]string
}

// TableFromJSON builds a Table from a JSON array of objects.
//
// Headers come from the first object's keys in document order. A cell is
// empty when the row lacks the key or holds null, false, 0 or "".
func TableFromJSON(data []byte) (Table, error) {
	if !gjson.ValidBytes(data) {
		return Table{}, fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return Table{}, fmt.Errorf("expected a JSON array of objects, got %s", root.Type)
	}

	items := root.Array()
	if len(items) == 0 {
		return Table{}, nil
	}
	if !items[0].IsObject() {
		return Table{}, fmt.Errorf("row 0: expected an object")
	}

	var table Table
	items[0].ForEach(func(key, _ gjson.Result) bool {
		table.Headers = append(table.Headers, key.String())
		return true
	})

	for i, item := range items {
		if !item.IsObject() {
			return Table{}, fmt.Errorf("row %d: expected an object", i)
		}
		fields := make(map[string]gjson.Result)
		item.ForEach(func(key, value gjson.Result) bool {
			fields[key.String()] = value
			return true
		})

		row := make([]string, len(table.Headers))
		for j, header := range table.Headers {
			row[j] = cellText(fields[header])
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func cellText(v gjson.Result) string {
	switch v.Type {
	case gjson.Null, gjson.False:
		return ""
	case gjson.Number:
		if v.Num == 0 {
			return ""
		}
		return v.Raw
	case gjson.String:
		return v.Str
	case gjson.True:
		return "true"
	default:
		return v.Raw
	}
}

// CSV writes t as comma separated values: a header line followed by one line
// per row, every row cell quoted. Lines are joined with "\n" and there is no
// trailing newline. A table without rows writes nothing.
func CSV(w io.Writer, t Table) error {
	if len(t.Rows) == 0 {
		return nil
	}

	lines := make([]string, 0, len(t.Rows)+1)

	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		if strings.ContainsAny(h, ",\"\r\n") {
			h = quote(h)
		}
		headers[i] = h
	}
	lines = append(lines, strings.Join(headers, ","))

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = quote(cell)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// CSVString returns t rendered by CSV.
func CSVString(t Table) string {
	var buf bytes.Buffer
	_ = CSV(&buf, t)
	return buf.String()
}

// WriteCSVFile writes t to path as CSV.
func WriteCSVFile(path string, t Table) error {
	if err := os.WriteFile(path, []byte(CSVString(t)), 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
