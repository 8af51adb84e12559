package infra

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/momentummm/screenguard/internal/domain"
)

// SnapshotNode is a captured accessibility tree node, serialized with the
// same compact keys the capture tooling emits. It implements domain.UiNode
// with handle accounting so replayed scans keep the same borrow/release
// discipline as live trees.
type SnapshotNode struct {
	NodeText    string          `json:"t,omitempty"`
	Description string          `json:"d,omitempty"`
	ResourceID  string          `json:"id,omitempty"`
	IsSelected  bool            `json:"s,omitempty"`
	Nodes       []*SnapshotNode `json:"c,omitempty"`

	acquires int
	releases int
}

func (n *SnapshotNode) Text() string               { return n.NodeText }
func (n *SnapshotNode) ContentDescription() string { return n.Description }
func (n *SnapshotNode) ViewID() string             { return n.ResourceID }
func (n *SnapshotNode) Selected() bool             { return n.IsSelected }
func (n *SnapshotNode) ChildCount() int            { return len(n.Nodes) }

// Child hands out a handle to the i-th child, counting the acquisition.
func (n *SnapshotNode) Child(i int) domain.UiNode {
	if i < 0 || i >= len(n.Nodes) || n.Nodes[i] == nil {
		return nil
	}
	c := n.Nodes[i]
	c.acquires++
	return c
}

// Release counts the handle return. Snapshot nodes have no OS handle to
// free; the accounting exists so Leaked can verify scan discipline.
func (n *SnapshotNode) Release() { n.releases++ }

// Leaked returns the number of handles acquired in this subtree that were
// never released. The root handle is owned by the loader's caller and not
// counted.
func (n *SnapshotNode) Leaked() int {
	leaked := 0
	var walk func(*SnapshotNode)
	walk = func(node *SnapshotNode) {
		leaked += node.acquires - node.releases
		for _, c := range node.Nodes {
			if c != nil {
				walk(c)
			}
		}
	}
	for _, c := range n.Nodes {
		if c != nil {
			walk(c)
		}
	}
	return leaked
}

// LoadSnapshot reads a captured UI tree from a JSON file.
func LoadSnapshot(path string) (*SnapshotNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var root SnapshotNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &root, nil
}

// Ensure SnapshotNode implements domain.UiNode.
var _ domain.UiNode = (*SnapshotNode)(nil)
