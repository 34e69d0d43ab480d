package converter

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"

	"github.com/clipdoc/clipdoc/doctree"
)

func (s *state) convertList(n *html.Node, ordered bool) []*doctree.Node {
	list := &doctree.Node{Type: doctree.List, Ordered: ordered}
	if ordered {
		if start := intAttr(n, "start", 0); start > 1 {
			list.Start = start
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch dom.NodeName(child) {
		case "li":
			list.Children = append(list.Children, s.convertListItem(child)...)
		case "ul", "ol":
			// Lists nested directly under a list (missing li wrapper) fold
			// into the previous item when one exists.
			nested := s.convertList(child, dom.NodeName(child) == "ol")
			if len(nested) == 0 {
				continue
			}
			if last := len(list.Children) - 1; last >= 0 {
				list.Children[last].Children = append(list.Children[last].Children, nested...)
			} else {
				list.Children = append(list.Children, &doctree.Node{
					Type:     doctree.ListItem,
					Children: nested,
				})
			}
		}
	}

	if len(list.Children) == 0 {
		return nil
	}
	return []*doctree.Node{list}
}

func (s *state) convertListItem(n *html.Node) []*doctree.Node {
	item := &doctree.Node{Type: doctree.ListItem}

	// Task items carry a leading checkbox control; its state moves onto the
	// item and the control itself is removed before recursing.
	if checkbox := leadingCheckbox(n); checkbox != nil {
		checked := hasAttr(checkbox, "checked")
		item.Checked = &checked
		next := checkbox.NextSibling
		checkbox.Parent.RemoveChild(checkbox)
		// The label text keeps its own spacing, minus the gap that separated
		// it from the control.
		if next != nil && next.Type == html.TextNode {
			next.Data = strings.TrimLeft(next.Data, " \t")
		}
	}

	item.Children = s.convertBlockChildren(n)
	return []*doctree.Node{item}
}

// leadingCheckbox finds a checkbox input at the start of a list item,
// looking through whitespace and thin wrappers (label, span, p).
func leadingCheckbox(li *html.Node) *html.Node {
	node := li.FirstChild
	for node != nil {
		switch {
		case node.Type == html.TextNode && strings.TrimSpace(node.Data) == "":
			node = node.NextSibling
		case node.Type == html.ElementNode:
			name := dom.NodeName(node)
			if name == "input" {
				if strings.EqualFold(dom.GetAttributeOr(node, "type", ""), "checkbox") {
					return node
				}
				return nil
			}
			if name == "label" || name == "span" || name == "p" {
				node = node.FirstChild
				continue
			}
			return nil
		default:
			return nil
		}
	}
	return nil
}
