package charts

import (
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

type orgStructure struct{ deps Deps }

type orgRequest struct{ in model.OrgInput }

func (orgRequest) request() {}

// OrgTreeNode is a position with its resolved reports.
type OrgTreeNode struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department"`
	Level      int    `json:"level"`
	Headcount  int    `json:"headcount"`
	// TeamSize is Headcount plus the headcount of every position below.
	TeamSize int            `json:"teamSize"`
	Children []*OrgTreeNode `json:"children"`
}

type DepartmentHeadcount struct {
	Department string `json:"department"`
	Headcount  int    `json:"headcount"`
}

type OrgMetrics struct {
	Roots          []*OrgTreeNode        `json:"roots"`
	TotalHeadcount int                   `json:"totalHeadcount"`
	Depth          int                   `json:"depth"`
	MaxSpan        int                   `json:"maxSpan"`
	MaxSpanNode    string                `json:"maxSpanNode,omitempty"`
	Departments    []DepartmentHeadcount `json:"departments"`
}

func (d orgStructure) Name() string      { return OrgStructure }
func (d orgStructure) Actions() []string { return []string{ActionPrepareData} }

func (d orgStructure) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.OrgInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return orgRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d orgStructure) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case orgRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

// buildOrgTree links nodes to their parents. Every node must be reachable
// from a root; anything left over sits on a cycle.
func buildOrgTree(nodes []model.OrgNode) ([]*OrgTreeNode, map[string]*OrgTreeNode, error) {
	byID := make(map[string]*OrgTreeNode, len(nodes))
	for i, n := range nodes {
		if n.ID == "" {
			return nil, nil, malformed("node %d: id is required", i)
		}
		if n.Name == "" {
			return nil, nil, malformed("node %q: name is required", n.ID)
		}
		if n.Headcount < 0 {
			return nil, nil, malformed("node %q: headcount must be non-negative", n.ID)
		}
		if _, dup := byID[n.ID]; dup {
			return nil, nil, malformed("duplicate node id %q", n.ID)
		}
		byID[n.ID] = &OrgTreeNode{
			ID:         n.ID,
			Name:       n.Name,
			Title:      n.Title,
			Department: n.Department,
			Headcount:  n.Headcount,
			Children:   []*OrgTreeNode{},
		}
	}
	var roots []*OrgTreeNode
	for _, n := range nodes {
		node := byID[n.ID]
		if n.Parent == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := byID[n.Parent]
		if !ok {
			return nil, nil, malformed("node %q: unknown parent %q", n.ID, n.Parent)
		}
		parent.Children = append(parent.Children, node)
	}

	visited := 0
	var walk func(n *OrgTreeNode, level int) int
	walk = func(n *OrgTreeNode, level int) int {
		visited++
		n.Level = level
		n.TeamSize = n.Headcount
		for _, c := range n.Children {
			n.TeamSize += walk(c, level+1)
		}
		return n.TeamSize
	}
	for _, r := range roots {
		walk(r, 0)
	}
	if visited != len(nodes) {
		return nil, nil, malformed("reporting cycle among %d nodes", len(nodes)-visited)
	}
	return roots, byID, nil
}

func (d orgStructure) prepare(in model.OrgInput) (Result, error) {
	def := d.deps.Datasets.Org
	caps := captions(in.Captions, def.Captions)
	if len(in.Nodes) == 0 {
		in.Nodes = def.Nodes
	}
	roots, byID, err := buildOrgTree(in.Nodes)
	if err != nil {
		return Result{}, err
	}

	m := OrgMetrics{Roots: roots}
	deptIndex := map[string]int{}
	for _, n := range in.Nodes {
		node := byID[n.ID]
		m.TotalHeadcount += node.Headcount
		if node.Level+1 > m.Depth {
			m.Depth = node.Level + 1
		}
		if len(node.Children) > m.MaxSpan {
			m.MaxSpan = len(node.Children)
			m.MaxSpanNode = node.ID
		}
		i, ok := deptIndex[node.Department]
		if !ok {
			i = len(m.Departments)
			deptIndex[node.Department] = i
			m.Departments = append(m.Departments, DepartmentHeadcount{Department: node.Department})
		}
		m.Departments[i].Headcount += node.Headcount
	}

	f := d.deps.Format
	categories := make([]string, len(m.Departments))
	counts := make([]float64, len(m.Departments))
	colors := make([]string, len(m.Departments))
	for i, dh := range m.Departments {
		categories[i] = dh.Department
		counts[i] = float64(dh.Headcount)
		colors[i] = f.Color(i, "")
	}

	parentOf := make(map[string]string, len(in.Nodes))
	for _, n := range in.Nodes {
		if n.Parent != "" {
			parentOf[n.ID] = byID[n.Parent].Name
		}
	}
	table := model.Table{Columns: []string{"Position", "Title", "Department", "Reports To", "Level", "Headcount"}}
	var emit func(n *OrgTreeNode)
	emit = func(n *OrgTreeNode) {
		table.AddRow(n.Name, n.Title, n.Department, parentOf[n.ID], f.Number(float64(n.Level), 0), f.Number(float64(n.Headcount), 0))
		for _, c := range n.Children {
			emit(c)
		}
	}
	for _, r := range roots {
		emit(r)
	}

	return Result{
		Action: ActionDataReady,
		Payload: model.ChartPayload{
			Series:      []model.Series{{Name: "Headcount", Data: model.Values(counts), Type: "bar"}},
			Categories:  categories,
			Colors:      colors,
			Annotations: []model.Annotation{},
			TableData:   table,
			Metrics:     m,
		},
		Captions: caps,
	}, nil
}
