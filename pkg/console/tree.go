package console

import "strings"

// TreeNode is a node in a renderable tree, used for printing planned
// scaffold layouts and activity hierarchies.
type TreeNode struct {
	Value    string
	Children []TreeNode
}

// RenderTree renders the tree with box-drawing connectors rooted at node.
func RenderTree(node TreeNode) string {
	var sb strings.Builder
	sb.WriteString(node.Value)
	sb.WriteString("\n")
	for i, child := range node.Children {
		sb.WriteString(renderTreeSimple(child, "", i == len(node.Children)-1))
	}
	return sb.String()
}

func renderTreeSimple(node TreeNode, prefix string, isLast bool) string {
	var sb strings.Builder

	connector := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		connector = "└── "
		childPrefix = prefix + "    "
	}

	sb.WriteString(prefix + connector + node.Value + "\n")
	for i, child := range node.Children {
		sb.WriteString(renderTreeSimple(child, childPrefix, i == len(node.Children)-1))
	}

	return sb.String()
}
