package catalog

import (
	"regexp"

	"github.com/hyperjump/katalog/internal/models"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeIDChars = regexp.MustCompile(`[^\w-]`)
)

// SafeID turns a name into a node id: whitespace runs become "-" and anything
// other than ASCII letters, digits, "_" and "-" is dropped.
func SafeID(name string) string {
	return unsafeIDChars.ReplaceAllString(whitespaceRun.ReplaceAllString(name, "-"), "")
}

// BuildGraph lays out part as a directed graph: the model node points to each
// Name 1 node, which points to its Name 2 nodes. Nodes and edges sharing an id
// are emitted once.
func BuildGraph(model string, part *models.PartNode) *models.Graph {
	g := &models.Graph{Model: model, Nodes: []models.GraphNode{}, Edges: []models.GraphEdge{}}
	nodes := make(map[string]bool)
	edges := make(map[models.GraphEdge]bool)
	addNode := func(n models.GraphNode) {
		if nodes[n.ID] {
			return
		}
		nodes[n.ID] = true
		g.Nodes = append(g.Nodes, n)
	}
	addEdge := func(e models.GraphEdge) {
		if edges[e] {
			return
		}
		edges[e] = true
		g.Edges = append(g.Edges, e)
	}

	rootID := SafeID(model)
	addNode(models.GraphNode{ID: rootID, Label: model, Main: true})
	if part == nil {
		return g
	}
	for _, sub := range part.Subparts {
		subID := SafeID(sub.Name)
		addNode(models.GraphNode{ID: subID, Label: sub.Name})
		addEdge(models.GraphEdge{Source: rootID, Target: subID})
		for _, leaf := range sub.Subparts {
			leafID := SafeID(sub.Name + "-" + leaf)
			addNode(models.GraphNode{ID: leafID, Label: leaf})
			addEdge(models.GraphEdge{Source: subID, Target: leafID})
		}
	}
	return g
}
