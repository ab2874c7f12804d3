package output

import (
	"cmp"
	"path"
	"slices"
	"strings"

	"github.com/opmodel/cratekit/internal/action"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// noteColumn aligns the per-path notes.
	noteColumn = 34
)

// treeNode is one path segment of the created-files tree.
type treeNode struct {
	name     string
	note     string
	dir      bool
	children []*treeNode
}

func (n *treeNode) child(name string) *treeNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	c := &treeNode{name: name}
	n.children = append(n.children, c)
	return c
}

// RenderCreatedTree renders the paths of Created results as a tree under
// project. Units initialized by cargo show up as directories carrying their
// kind. It returns "" when nothing was created.
func RenderCreatedTree(project string, results []action.Result) string {
	root := &treeNode{name: project, dir: true}
	empty := true

	for _, r := range results {
		if r.Kind != action.Created || r.Path == "." || r.Path == "" {
			continue
		}
		empty = false

		parts := strings.Split(path.Clean(r.Path), "/")
		node := root
		for i, part := range parts {
			node = node.child(part)
			if i < len(parts)-1 {
				node.dir = true
			}
		}
		if isUnitNote(r.Detail) {
			node.dir = true
		}
		node.note = r.Detail
	}

	if empty {
		return ""
	}

	sortTree(root)

	var sb strings.Builder
	sb.WriteString(StyleSummary.Render(root.name + "/"))
	sb.WriteString("\n")
	for i, c := range root.children {
		renderNode(&sb, c, "", i == len(root.children)-1)
	}
	return sb.String()
}

// isUnitNote reports whether detail is the kind note of an initialized unit.
func isUnitNote(detail string) bool {
	return detail == "bin" || detail == "lib"
}

// sortTree orders directories first, then by name.
func sortTree(n *treeNode) {
	slices.SortFunc(n.children, func(a, b *treeNode) int {
		if a.dir != b.dir {
			if a.dir {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.name, b.name)
	})
	for _, c := range n.children {
		sortTree(c)
	}
}

func renderNode(sb *strings.Builder, n *treeNode, prefix string, last bool) {
	connector, childPrefix := treeEdge, prefix+treeVert
	if last {
		connector, childPrefix = treeLast, prefix+treeSpace
	}

	line := prefix + connector + n.name
	if n.dir {
		line += "/"
	}
	if n.note != "" {
		line += strings.Repeat(" ", max(noteColumn-len([]rune(line)), 2))
		line += StyleDim.Render(n.note)
	}
	sb.WriteString(line)
	sb.WriteString("\n")

	for i, c := range n.children {
		renderNode(sb, c, childPrefix, i == len(n.children)-1)
	}
}
