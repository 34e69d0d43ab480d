package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDropsEmptyParagraphs(t *testing.T) {
	root := &Node{Type: Root, Children: []*Node{
		{Type: Paragraph, Children: []*Node{NewText("   \n\t ")}},
		{Type: Paragraph, Children: []*Node{NewText("kept")}},
		{Type: Paragraph},
	}}

	out := Normalize(root)

	require.Len(t, out.Children, 1)
	assert.Equal(t, Paragraph, out.Children[0].Type)
	assert.Equal(t, "kept", out.Children[0].Children[0].Value)
}

func TestNormalizeWrapsStrayInlineRuns(t *testing.T) {
	item := &Node{Type: ListItem, Children: []*Node{
		NewText("lead "),
		{Type: Strong, Children: []*Node{NewText("in")}},
		{Type: List, Children: []*Node{{Type: ListItem}}},
		NewText("tail"),
	}}
	root := &Node{Type: Root, Children: []*Node{
		{Type: List, Children: []*Node{item}},
	}}

	out := Normalize(root)

	got := out.Children[0].Children[0]
	require.Len(t, got.Children, 3)
	assert.Equal(t, Paragraph, got.Children[0].Type)
	require.Len(t, got.Children[0].Children, 2)
	assert.Equal(t, List, got.Children[1].Type)
	assert.Equal(t, Paragraph, got.Children[2].Type)
	assert.Equal(t, "tail", got.Children[2].Children[0].Value)
}

func TestNormalizePurity(t *testing.T) {
	root := &Node{Type: Root, Children: []*Node{
		NewText("stray"),
		{Type: Blockquote, Children: []*Node{
			NewText("quoted"),
			{Type: Paragraph, Children: []*Node{NewText("block")}},
		}},
	}}

	out := Normalize(root)
	assertPurity(t, out)
}

func assertPurity(t *testing.T, n *Node) {
	t.Helper()
	for _, child := range n.Children {
		switch {
		case isBlockContainer(n.Type):
			assert.True(t, child.IsBlock(), "block container %s holds inline %s", n.Type, child.Type)
		case n.Type == Paragraph || n.Type == Heading || n.IsInline():
			assert.True(t, child.IsInline(), "inline context %s holds block %s", n.Type, child.Type)
		}
		assertPurity(t, child)
	}
}

func TestNormalizeKeepsEmptyRoot(t *testing.T) {
	root := &Node{Type: Root, Children: []*Node{
		{Type: Paragraph, Children: []*Node{NewText(" ")}},
	}}

	out := Normalize(root)
	require.NotNil(t, out)
	assert.Equal(t, Root, out.Type)
	assert.Empty(t, out.Children)
}
