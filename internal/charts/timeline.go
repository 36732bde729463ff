package charts

import (
	"sort"
	"time"

	"plancharts/internal/analysis"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

var dateLayouts = []string{"2006-01-02", "2006-01"}

type timeline struct{ deps Deps }

type timelineRequest struct{ in model.TimelineInput }

func (timelineRequest) request() {}

// ScheduledEvent is a validated timeline event.
type ScheduledEvent struct {
	Name      string       `json:"name"`
	Phase     string       `json:"phase"`
	Start     string       `json:"start"`
	End       string       `json:"end,omitempty"`
	Milestone bool         `json:"milestone"`
	Status    model.Status `json:"status"`

	start, end time.Time
}

type Track struct {
	Phase  string           `json:"phase"`
	Events []ScheduledEvent `json:"events"`
}

type TimelineMetrics struct {
	Tracks        []Track         `json:"tracks"`
	Total         int             `json:"total"`
	Completed     int             `json:"completed"`
	CompletionPct model.Value     `json:"completionPct"`
	NextMilestone *ScheduledEvent `json:"nextMilestone,omitempty"`
	SpanStart     string          `json:"spanStart"`
	SpanEnd       string          `json:"spanEnd"`
}

func (d timeline) Name() string      { return Timeline }
func (d timeline) Actions() []string { return []string{ActionPrepareData} }

func (d timeline) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.TimelineInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return timelineRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d timeline) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case timelineRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// decimalYear places t on a year axis, e.g. 2025-07-01 → 2025.5.
func decimalYear(t time.Time) float64 {
	return analysis.Round2(float64(t.Year()) + float64(t.YearDay()-1)/365)
}

func scheduleEvents(events []model.TimelineEvent) ([]ScheduledEvent, error) {
	out := make([]ScheduledEvent, 0, len(events))
	for i, e := range events {
		if e.Name == "" {
			return nil, malformed("event %d: name is required", i)
		}
		if e.Phase == "" {
			return nil, malformed("event %q: phase is required", e.Name)
		}
		status, err := model.ParseStatus(string(e.Status))
		if err != nil {
			return nil, malformed("event %q: %v", e.Name, err)
		}
		start, ok := parseDate(e.StartDate)
		if !ok {
			return nil, malformed("event %q: bad start date %q", e.Name, e.StartDate)
		}
		end := start
		if e.EndDate != "" {
			if end, ok = parseDate(e.EndDate); !ok {
				return nil, malformed("event %q: bad end date %q", e.Name, e.EndDate)
			}
			if end.Before(start) {
				return nil, malformed("event %q: ends before it starts", e.Name)
			}
		}
		out = append(out, ScheduledEvent{
			Name:      e.Name,
			Phase:     e.Phase,
			Start:     e.StartDate,
			End:       e.EndDate,
			Milestone: e.Milestone,
			Status:    status,
			start:     start,
			end:       end,
		})
	}
	return out, nil
}

func (d timeline) prepare(in model.TimelineInput) (Result, error) {
	def := d.deps.Datasets.Timeline
	caps := captions(in.Captions, def.Captions)
	if len(in.Events) == 0 {
		in.Events = def.Events
	}
	events, err := scheduleEvents(in.Events)
	if err != nil {
		return Result{}, err
	}

	m := TimelineMetrics{Total: len(events)}
	trackIndex := map[string]int{}
	var first, last *ScheduledEvent
	for i := range events {
		e := &events[i]
		t, ok := trackIndex[e.Phase]
		if !ok {
			t = len(m.Tracks)
			trackIndex[e.Phase] = t
			m.Tracks = append(m.Tracks, Track{Phase: e.Phase})
		}
		m.Tracks[t].Events = append(m.Tracks[t].Events, *e)
		if e.Status == model.StatusCompleted {
			m.Completed++
		}
		if first == nil || e.start.Before(first.start) {
			first = e
		}
		if last == nil || e.end.After(last.end) {
			last = e
		}
	}
	for _, tr := range m.Tracks {
		sort.SliceStable(tr.Events, func(i, j int) bool { return tr.Events[i].start.Before(tr.Events[j].start) })
	}
	m.CompletionPct = valueOf(analysis.Share(float64(m.Completed), float64(m.Total)))
	if m.CompletionPct.Valid {
		m.CompletionPct = model.V(analysis.Round1(m.CompletionPct.Float))
	}
	m.SpanStart = first.Start
	m.SpanEnd = last.End
	if m.SpanEnd == "" {
		m.SpanEnd = last.Start
	}

	byStart := make([]ScheduledEvent, len(events))
	copy(byStart, events)
	sort.SliceStable(byStart, func(i, j int) bool { return byStart[i].start.Before(byStart[j].start) })
	for i := range byStart {
		if byStart[i].Milestone && byStart[i].Status != model.StatusCompleted {
			next := byStart[i]
			m.NextMilestone = &next
			break
		}
	}

	f := d.deps.Format
	categories := make([]string, len(m.Tracks))
	colors := make([]string, len(m.Tracks))
	series := make([]model.Series, len(m.Tracks))
	for i, tr := range m.Tracks {
		categories[i] = tr.Phase
		colors[i] = f.Color(i, "")
		// [start, end] per event as decimal years.
		data := make([]model.Value, 0, 2*len(tr.Events))
		for _, e := range tr.Events {
			data = append(data, model.V(decimalYear(e.start)), model.V(decimalYear(e.end)))
		}
		series[i] = model.Series{Name: tr.Phase, Data: data, Color: colors[i], Type: "rangeBar"}
	}

	annotations := []model.Annotation{}
	table := model.Table{Columns: []string{"Phase", "Event", "Start", "End", "Status", "Milestone"}}
	for i, tr := range m.Tracks {
		for _, e := range tr.Events {
			if e.Milestone {
				annotations = append(annotations, model.Annotation{Label: e.Name, Axis: model.AxisX, Value: decimalYear(e.start), Color: colors[i]})
			}
			ms := ""
			if e.Milestone {
				ms = "Yes"
			}
			table.AddRow(tr.Phase, e.Name, e.Start, e.End, string(e.Status), ms)
		}
	}

	return Result{
		Action: ActionDataReady,
		Payload: model.ChartPayload{
			Series:      series,
			Categories:  categories,
			Colors:      colors,
			Annotations: annotations,
			TableData:   table,
			Metrics:     m,
		},
		Captions: caps,
	}, nil
}
