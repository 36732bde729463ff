package tabular

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plancharts/internal/model"
)

func TestWriteCSV(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"Year", "Revenue", "Margin"},
		Rows: [][]string{
			{"2026", "$1,250.0M", "12.5%"},
			{"2027", "$2,000.0M", "-"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "Year,Revenue,Margin\n2026,\"$1,250.0M\",12.5%\n2027,\"$2,000.0M\",-\n", buf.String())
}

func TestWriteCSVRejectsRaggedRows(t *testing.T) {
	tbl := model.Table{Columns: []string{"a", "b"}, Rows: [][]string{{"1"}}}
	err := WriteCSV(&bytes.Buffer{}, tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0 has 1 cells, want 2")
}

func TestWriteTableCSVCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "risk.csv")
	require.NoError(t, WriteTableCSV(path, model.Table{Columns: []string{"Risk"}, Rows: [][]string{{"Churn"}}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Risk\nChurn\n", string(raw))
}
