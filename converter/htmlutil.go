package converter

import (
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"
)

// textContent returns the concatenated text of n and all descendants.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

// hasAttr reports whether the element carries the attribute at all,
// regardless of value.
func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// hasClassWord reports whether the element's class attribute contains the
// given class as a whole word.
func hasClassWord(n *html.Node, class string) bool {
	for _, field := range strings.Fields(dom.GetAttributeOr(n, "class", "")) {
		if strings.EqualFold(field, class) {
			return true
		}
	}
	return false
}

// classContains reports whether any class word contains the given substring
// (case-insensitive).
func classContains(n *html.Node, substr string) bool {
	return strings.Contains(strings.ToLower(dom.GetAttributeOr(n, "class", "")), strings.ToLower(substr))
}

// renderNode serializes the element back to markup, used for opaque
// fallbacks. Render failures yield an empty string; nothing here is fatal.
func renderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

// findFirstElement returns the first descendant element (or n itself) with
// the given tag name.
func findFirstElement(n *html.Node, name string) *html.Node {
	return dom.FindFirstNode(n, func(node *html.Node) bool {
		return node.Type == html.ElementNode && dom.NodeName(node) == name
	})
}

// intAttr parses an integer attribute, returning fallback on absence or
// garbage.
func intAttr(n *html.Node, key string, fallback int) int {
	raw := strings.TrimSpace(dom.GetAttributeOr(n, key, ""))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
