package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/clipdoc/clipdoc/assets"
	"github.com/clipdoc/clipdoc/doctree"
)

// HTML serializes the tree to a sanitized hypertext string: balanced tags,
// escaped text and attribute values, no script/style elements. When
// StyleRules is set, the output additionally runs through the inline-style
// post-pass for destinations that cannot load a stylesheet.
func HTML(root *doctree.Node, manifest *assets.Manifest, opts Options) (string, error) {
	s := &htmlState{manifest: manifest, opts: opts}

	var sb strings.Builder
	for _, child := range root.Children {
		s.block(&sb, child)
	}

	out := sb.String()
	if len(opts.StyleRules) > 0 {
		styled, err := applyInlineStyles(out, opts.StyleRules)
		if err != nil {
			return "", fmt.Errorf("apply style rules: %w", err)
		}
		out = styled
	}
	return out, nil
}

type htmlState struct {
	manifest *assets.Manifest
	opts     Options
}

func (s *htmlState) block(sb *strings.Builder, n *doctree.Node) {
	switch n.Type {
	case doctree.Paragraph:
		sb.WriteString("<p>")
		s.inlineChildren(sb, n)
		sb.WriteString("</p>\n")

	case doctree.Heading:
		depth := clampDepth(n.Depth)
		fmt.Fprintf(sb, "<h%d>", depth)
		s.inlineChildren(sb, n)
		fmt.Fprintf(sb, "</h%d>\n", depth)

	case doctree.Blockquote:
		sb.WriteString("<blockquote>\n")
		for _, child := range n.Children {
			s.block(sb, child)
		}
		sb.WriteString("</blockquote>\n")

	case doctree.List:
		s.list(sb, n)

	case doctree.CodeBlock:
		sb.WriteString("<pre><code")
		if n.Lang != "" {
			fmt.Fprintf(sb, ` class="language-%s"`, html.EscapeString(n.Lang))
		}
		sb.WriteString(">")
		sb.WriteString(html.EscapeString(n.Value))
		sb.WriteString("</code></pre>\n")

	case doctree.Table:
		s.table(sb, n)

	case doctree.ThematicBreak:
		sb.WriteString("<hr>\n")

	case doctree.ImageBlock:
		if n.Caption != "" {
			sb.WriteString("<figure>")
			s.img(sb, n)
			sb.WriteString("<figcaption>")
			sb.WriteString(html.EscapeString(n.Caption))
			sb.WriteString("</figcaption></figure>\n")
			return
		}
		s.img(sb, n)
		sb.WriteString("\n")

	case doctree.HTMLBlock:
		if sanitized := sanitizeFragment(n.Value); sanitized != "" {
			sb.WriteString(sanitized)
			sb.WriteString("\n")
		}

	case doctree.Embed:
		s.embed(sb, n)

	case doctree.MathBlock:
		sb.WriteString(`<section class="math-block" data-formula="`)
		sb.WriteString(html.EscapeString(n.Value))
		sb.WriteString(`" data-display="true"`)
		if n.Engine != "" {
			fmt.Fprintf(sb, ` data-engine="%s"`, html.EscapeString(n.Engine))
		}
		sb.WriteString(">$$")
		sb.WriteString(html.EscapeString(n.Value))
		sb.WriteString("$$</section>\n")

	default:
		if n.IsInline() {
			s.inline(sb, n)
		}
	}
}

func (s *htmlState) list(sb *strings.Builder, n *doctree.Node) {
	tag := "ul"
	attrs := ""
	if n.Ordered {
		tag = "ol"
		if n.Start > 1 {
			attrs = ` start="` + strconv.Itoa(n.Start) + `"`
		}
	}

	sb.WriteString("<" + tag + attrs + ">\n")
	for _, item := range n.Children {
		if item.Type != doctree.ListItem {
			continue
		}
		sb.WriteString("<li>")
		if item.Checked != nil {
			if *item.Checked {
				sb.WriteString(`<input type="checkbox" checked disabled> `)
			} else {
				sb.WriteString(`<input type="checkbox" disabled> `)
			}
		}
		for _, child := range item.Children {
			s.block(sb, child)
		}
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</" + tag + ">\n")
}

func (s *htmlState) table(sb *strings.Builder, n *doctree.Node) {
	sb.WriteString("<table>\n")
	for _, row := range n.Children {
		if row.Type != doctree.TableRow {
			continue
		}
		sb.WriteString("<tr>")
		for _, cell := range row.Children {
			tag := "td"
			if cell.Header {
				tag = "th"
			}
			sb.WriteString("<" + tag)
			if cell.CellAlign != doctree.AlignNone {
				fmt.Fprintf(sb, ` style="text-align: %s"`, cell.CellAlign)
			}
			if cell.RowSpan > 1 {
				fmt.Fprintf(sb, ` rowspan="%d"`, cell.RowSpan)
			}
			if cell.ColSpan > 1 {
				fmt.Fprintf(sb, ` colspan="%d"`, cell.ColSpan)
			}
			sb.WriteString(">")
			for _, child := range cell.Children {
				s.cellBlock(sb, child)
			}
			sb.WriteString("</" + tag + ">")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n")
}

// cellBlock renders a cell child without the paragraph wrapper for the
// common single-paragraph case.
func (s *htmlState) cellBlock(sb *strings.Builder, n *doctree.Node) {
	if n.Type == doctree.Paragraph {
		s.inlineChildren(sb, n)
		return
	}
	s.block(sb, n)
}

func (s *htmlState) embed(sb *strings.Builder, n *doctree.Node) {
	target := s.opts.linkURL(n.URL)

	switch n.EmbedType {
	case "iframe":
		if target != "" {
			fmt.Fprintf(sb, `<iframe src="%s"></iframe>`+"\n", html.EscapeString(target))
			return
		}
	case "video", "audio":
		if target != "" {
			fmt.Fprintf(sb, `<%s controls src="%s"></%s>`+"\n", n.EmbedType, html.EscapeString(target), n.EmbedType)
			return
		}
	case "card":
		if target != "" {
			label := n.Provider
			if label == "" {
				label = target
			}
			fmt.Fprintf(sb, `<p><a class="link-card" href="%s">%s</a></p>`+"\n", html.EscapeString(target), html.EscapeString(label))
			return
		}
	}

	if sanitized := sanitizeFragment(n.Value); sanitized != "" {
		sb.WriteString(sanitized)
		sb.WriteString("\n")
	}
}

func (s *htmlState) inlineChildren(sb *strings.Builder, n *doctree.Node) {
	for _, child := range n.Children {
		s.inline(sb, child)
	}
}

func (s *htmlState) inline(sb *strings.Builder, n *doctree.Node) {
	switch n.Type {
	case doctree.Text:
		sb.WriteString(html.EscapeString(n.Value))
	case doctree.Strong:
		sb.WriteString("<strong>")
		s.inlineChildren(sb, n)
		sb.WriteString("</strong>")
	case doctree.Emphasis:
		sb.WriteString("<em>")
		s.inlineChildren(sb, n)
		sb.WriteString("</em>")
	case doctree.Delete:
		sb.WriteString("<del>")
		s.inlineChildren(sb, n)
		sb.WriteString("</del>")
	case doctree.InlineCode:
		sb.WriteString("<code>")
		sb.WriteString(html.EscapeString(n.Value))
		sb.WriteString("</code>")
	case doctree.Link:
		target := s.opts.linkURL(n.URL)
		if target == "" {
			s.inlineChildren(sb, n)
			return
		}
		sb.WriteString(`<a href="` + html.EscapeString(target) + `"`)
		if n.Title != "" {
			sb.WriteString(` title="` + html.EscapeString(n.Title) + `"`)
		}
		sb.WriteString(">")
		s.inlineChildren(sb, n)
		sb.WriteString("</a>")
	case doctree.ImageInline:
		s.img(sb, n)
	case doctree.MathInline:
		sb.WriteString(`<span class="math-inline" data-formula="`)
		sb.WriteString(html.EscapeString(n.Value))
		sb.WriteString(`"`)
		if n.Engine != "" {
			fmt.Fprintf(sb, ` data-engine="%s"`, html.EscapeString(n.Engine))
		}
		sb.WriteString(">$")
		sb.WriteString(html.EscapeString(n.Value))
		sb.WriteString("$</span>")
	case doctree.HardBreak:
		sb.WriteString("<br>\n")
	case doctree.HTMLInline:
		sb.WriteString(sanitizeFragment(n.Value))
	}
}

func (s *htmlState) img(sb *strings.Builder, n *doctree.Node) {
	target := s.opts.imageURL(s.manifest, n.AssetID)
	if target == "" {
		return
	}
	sb.WriteString(`<img src="` + html.EscapeString(target) + `"`)
	sb.WriteString(` alt="` + html.EscapeString(n.Alt) + `"`)
	if n.Title != "" {
		sb.WriteString(` title="` + html.EscapeString(n.Title) + `"`)
	}
	sb.WriteString(">")
}
