package doctree

import "strings"

// Normalize returns a cleaned copy of the tree: paragraphs whose content is
// empty or whitespace-only are removed, and stray inline runs found inside
// block-only containers are wrapped into synthesized paragraphs so that
// every block node holds only block children and every inline node only
// inline children. The input tree is not modified.
func Normalize(root *Node) *Node {
	if root == nil {
		return nil
	}
	out := normalizeNode(root)
	if out == nil {
		// Keep the root even when everything inside was vacuous.
		clone := *root
		clone.Children = nil
		return &clone
	}
	return out
}

func normalizeNode(n *Node) *Node {
	clone := *n
	clone.Children = nil

	for _, child := range n.Children {
		norm := normalizeNode(child)
		if norm != nil {
			clone.Children = append(clone.Children, norm)
		}
	}

	if isBlockContainer(clone.Type) {
		clone.Children = wrapInlineRuns(clone.Children)
	}

	if clone.Type == Paragraph && !hasVisibleInline(clone.Children) {
		return nil
	}

	return &clone
}

// isBlockContainer lists node types whose children must all be blocks.
func isBlockContainer(t NodeType) bool {
	switch t {
	case Root, Blockquote, ListItem, TableCell:
		return true
	default:
		return false
	}
}

// wrapInlineRuns groups maximal runs of consecutive inline children into
// synthesized paragraphs, leaving block children in place and preserving
// order.
func wrapInlineRuns(children []*Node) []*Node {
	var out []*Node
	var run []*Node

	flush := func() {
		if len(run) == 0 {
			return
		}
		if hasVisibleInline(run) {
			out = append(out, &Node{Type: Paragraph, Children: run})
		}
		run = nil
	}

	for _, child := range children {
		if child.IsInline() {
			run = append(run, child)
			continue
		}
		flush()
		out = append(out, child)
	}
	flush()

	return out
}

// hasVisibleInline reports whether the inline children carry anything beyond
// whitespace-only text.
func hasVisibleInline(children []*Node) bool {
	for _, child := range children {
		if child.Type == Text {
			if strings.TrimSpace(child.Value) != "" {
				return true
			}
			continue
		}
		return true
	}
	return false
}
