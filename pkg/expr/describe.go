// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"
	"strings"

	"github.com/gomlx/exprgraph/pkg/core/ids"
)

// Describe renders the DAG under the given roots as an indented tree, one node per line.
//
// A node reachable more than once is fully printed the first time only, then referenced as "#id (shared)".
func (b *Builder) Describe(roots ...Ref) string {
	var sb strings.Builder
	visited := make(map[ids.ID]bool)
	for _, root := range roots {
		b.describe(&sb, visited, root.ID(), "", 0)
	}
	return sb.String()
}

func (b *Builder) describe(sb *strings.Builder, visited map[ids.ID]bool, id ids.ID, label string, depth int) {
	indent := strings.Repeat("  ", depth)
	node, found := b.Node(id)
	if !found {
		fmt.Fprintf(sb, "%s%s%s (unknown)\n", indent, label, id)
		return
	}
	if visited[id] {
		fmt.Fprintf(sb, "%s%s%s (shared)\n", indent, label, id)
		return
	}
	visited[id] = true
	fmt.Fprintf(sb, "%s%s%s\n", indent, label, DescribeNode(node))

	if minimize, ok := node.(*MinimizeNode); ok {
		b.describe(sb, visited, minimize.Loss, "loss=", depth+1)
		for _, hp := range minimize.Hyperparameters {
			b.describe(sb, visited, hp.Value, hp.Name+"=", depth+1)
		}
		return
	}
	for _, input := range node.Inputs() {
		b.describe(sb, visited, input, "", depth+1)
	}
}

// DescribeNode returns the one line description of a node, as used by Builder.Describe.
func DescribeNode(node Node) string {
	switch n := node.(type) {
	case *ConstantNode:
		return fmt.Sprintf("%s Constant %s", n.id, n.shape)
	case *PlaceholderNode:
		return fmt.Sprintf("%s Placeholder %q %s", n.id, n.Name, n.shape)
	case *VariableNode:
		return fmt.Sprintf("%s Variable %q %s", n.id, n.Name, n.shape)
	case *NullaryNode:
		return fmt.Sprintf("%s Nullary[%s] %s", n.id, n.Fn, n.shape)
	case *UnaryNode:
		return fmt.Sprintf("%s Unary[%s] %s", n.id, n.Fn, n.shape)
	case *BinaryNode:
		return fmt.Sprintf("%s Binary[%s] %s", n.id, n.Fn, n.shape)
	case *ElementwiseNode:
		return fmt.Sprintf("%s Elementwise[%s] %s", n.id, n.Op, n.shape)
	case *MinimizeNode:
		vars := make([]string, len(n.Variables))
		for ii, v := range n.Variables {
			vars[ii] = v.ID().String()
		}
		return fmt.Sprintf("%s Minimize[%s] vars=[%s]", n.id, n.Optimizer, strings.Join(vars, " "))
	}
	return fmt.Sprintf("%s %T", node.ID(), node)
}
