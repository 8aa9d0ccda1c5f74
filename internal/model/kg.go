package model

// KGNode is a labelled node in a returned graph path.
type KGNode struct {
	ID         string            `json:"id"`
	Label      string            `json:"label"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// KGEdge is a typed relationship between two path nodes.
type KGEdge struct {
	Source     string            `json:"source"`
	Target     string            `json:"target"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// KGPath is a small subgraph explaining why an answer relates to the question.
type KGPath struct {
	Nodes          []KGNode `json:"nodes"`
	Edges          []KGEdge `json:"edges"`
	RelevanceScore float64  `json:"relevance_score"`
	Source         string   `json:"source"`
	Confidence     float64  `json:"confidence"`
}

// NeighborNode is a node adjacent to a looked-up node.
type NeighborNode struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Type         string `json:"type"`
	Relationship string `json:"relationship"`
	Direction    string `json:"direction"`
}

// NodeNeighbors is a node together with its immediate neighborhood.
type NodeNeighbors struct {
	Node      KGNode         `json:"node"`
	Neighbors []NeighborNode `json:"neighbors"`
}

// GraphData is the capped node/edge set served to the graph visualisation.
type GraphData struct {
	Nodes []GraphVizNode `json:"nodes"`
	Edges []GraphVizEdge `json:"edges"`
}

type GraphVizNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

type GraphVizEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}
