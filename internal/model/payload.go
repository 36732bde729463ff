package model

// ChartPayload is the chart-ready output of a transform.
// It crosses the message boundary encoded, so the requester owns its decoded copy.
type ChartPayload struct {
	Series      []Series     `json:"series"`
	Categories  []string     `json:"categories"`
	Colors      []string     `json:"colors,omitempty"`
	Annotations []Annotation `json:"annotations"`
	// TableData mirrors the chart as pre-formatted strings for screen readers
	// and the table-only fallback view.
	TableData Table `json:"tableData"`
	Metrics   any   `json:"metrics,omitempty"`
}

// Series is one logical data series.
type Series struct {
	Name  string  `json:"name"`
	Data  []Value `json:"data"`
	Color string  `json:"color,omitempty"`
	Type  string  `json:"type,omitempty"`
	Stack string  `json:"stack,omitempty"`
}

// Axis selects where an annotation is drawn.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Annotation is a threshold line (AxisY) or a position marker (AxisX).
type Annotation struct {
	Label string  `json:"label"`
	Axis  Axis    `json:"axis"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// Table is a row-per-period rendering of the chart.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// AddRow appends cells as one row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Empty reports whether the payload carries nothing to render.
func (p ChartPayload) Empty() bool {
	return len(p.Series) == 0 && len(p.TableData.Rows) == 0
}
