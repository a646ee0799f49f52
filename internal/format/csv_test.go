package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFromJSON(t *testing.T) {
	data := []byte(`[
		{"name": "lb-east", "requests": 1200, "healthy": true, "note": null},
		{"name": "lb-west", "requests": 0, "healthy": false, "note": "draining"},
		{"requests": 7}
	]`)

	table, err := TableFromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "requests", "healthy", "note"}, table.Headers)
	assert.Equal(t, [][]string{
		{"lb-east", "1200", "true", ""},
		{"lb-west", "", "", "draining"},
		{"", "7", "", ""},
	}, table.Rows)
}

func TestTableFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", `[{"a":`},
		{"not an array", `{"a": 1}`},
		{"array of scalars", `[1, 2]`},
		{"mixed rows", `[{"a": 1}, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TableFromJSON([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestTableFromJSON_Empty(t *testing.T) {
	table, err := TableFromJSON([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestCSV(t *testing.T) {
	table := Table{
		Headers: []string{"server", "status"},
		Rows: [][]string{
			{"lb-east", "up"},
			{`say "hi"`, ""},
		},
	}

	expected := "server,status\n\"lb-east\",\"up\"\n\"say \"\"hi\"\"\",\"\""
	assert.Equal(t, expected, CSVString(table))
}

func TestCSV_QuotesAwkwardHeaders(t *testing.T) {
	table := Table{
		Headers: []string{"a,b", "c"},
		Rows:    [][]string{{"1", "2"}},
	}
	assert.Equal(t, "\"a,b\",c\n\"1\",\"2\"", CSVString(table))
}

func TestCSV_NoRows(t *testing.T) {
	assert.Equal(t, "", CSVString(Table{Headers: []string{"a"}}))
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	table := Table{Headers: []string{"a"}, Rows: [][]string{{"1"}}}

	require.NoError(t, WriteCSVFile(path, table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n\"1\"", string(data))
}
