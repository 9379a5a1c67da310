package bptree

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Visualizer renders a tree level by level for interactive debugging.
// Internal nodes print their divider keys, leaves their key/value pairs.
type Visualizer[K, V any] struct {
	Tree *Tree[K, V]
}

// Visualize returns a colorized multi-line rendering of the tree: divider
// keys in cyan, leaf entries in green. Not a stable format, debugging only.
func (v *Visualizer[K, V]) Visualize() string {
	internal := color.New(color.FgCyan).SprintFunc()
	leaf := color.New(color.FgGreen).SprintFunc()

	var sb strings.Builder
	level := []*node[K, V]{v.Tree.root}
	depth := 0
	for len(level) > 0 {
		var next []*node[K, V]
		fmt.Fprintf(&sb, "level %d: ", depth)
		for i, n := range level {
			if i > 0 {
				sb.WriteString("  ")
			}
			if n.leaf {
				sb.WriteString(leaf(formatLeaf(n)))
			} else {
				sb.WriteString(internal(fmt.Sprintf("%v", n.keys)))
				next = append(next, n.children...)
			}
		}
		sb.WriteString("\n")
		level = next
		depth++
	}
	return sb.String()
}

// Dump writes an uncolored rendering of the tree to w.
func (t *Tree[K, V]) Dump(w io.Writer) {
	level := []*node[K, V]{t.root}
	depth := 0
	for len(level) > 0 {
		var next []*node[K, V]
		fmt.Fprintf(w, "level %d: ", depth)
		for i, n := range level {
			if i > 0 {
				fmt.Fprint(w, "  ")
			}
			if n.leaf {
				fmt.Fprint(w, formatLeaf(n))
			} else {
				fmt.Fprintf(w, "%v", n.keys)
				next = append(next, n.children...)
			}
		}
		fmt.Fprintln(w)
		level = next
		depth++
	}
}

func formatLeaf[K, V any](n *node[K, V]) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := range n.keys {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%v:%v", n.keys[i], n.vals[i])
	}
	sb.WriteString("]")
	return sb.String()
}
