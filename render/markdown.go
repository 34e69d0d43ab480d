package render

import (
	"fmt"
	"strings"

	"github.com/clipdoc/clipdoc/assets"
	"github.com/clipdoc/clipdoc/doctree"
)

// Markdown serializes the tree to GFM markdown.
func Markdown(root *doctree.Node, manifest *assets.Manifest, opts Options) string {
	s := &mdState{manifest: manifest, opts: opts}

	var sb strings.Builder
	for _, child := range root.Children {
		sb.WriteString(s.block(child))
	}

	out := strings.TrimRight(sb.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

type mdState struct {
	manifest *assets.Manifest
	opts     Options
}

// block emits one block node, terminated by a blank line.
func (s *mdState) block(n *doctree.Node) string {
	switch n.Type {
	case doctree.Paragraph:
		content := s.inlineChildren(n)
		if content == "" {
			return ""
		}
		return content + "\n\n"

	case doctree.Heading:
		content := s.inlineChildren(n)
		if content == "" {
			return ""
		}
		// Headings don't support trailing hard breaks.
		content = strings.TrimSuffix(content, "\\")
		return strings.Repeat("#", clampDepth(n.Depth)) + " " + content + "\n\n"

	case doctree.Blockquote:
		content := s.blocks(n.Children)
		quoted := blockquoteContent(content)
		if quoted == "" {
			return ""
		}
		return quoted + "\n\n"

	case doctree.List:
		return s.list(n)

	case doctree.CodeBlock:
		if strings.TrimSpace(n.Value) == "" {
			return ""
		}
		return "```" + n.Lang + "\n" + strings.TrimRight(n.Value, "\n") + "\n```\n\n"

	case doctree.Table:
		return s.table(n)

	case doctree.ThematicBreak:
		return "---\n\n"

	case doctree.ImageBlock:
		image := s.image(n)
		if image == "" {
			return ""
		}
		if n.Caption != "" {
			return image + "\n\n*" + n.Caption + "*\n\n"
		}
		return image + "\n\n"

	case doctree.HTMLBlock:
		if n.Value == "" {
			return ""
		}
		return n.Value + "\n\n"

	case doctree.Embed:
		return s.embed(n)

	case doctree.MathBlock:
		if n.Value == "" {
			return ""
		}
		return "$$\n" + n.Value + "\n$$\n\n"

	default:
		if n.IsInline() {
			// Stray inline content; the normalizer prevents this, but
			// degrade gracefully anyway.
			if content := s.inline(n); content != "" {
				return content + "\n\n"
			}
		}
		return ""
	}
}

func (s *mdState) blocks(children []*doctree.Node) string {
	var sb strings.Builder
	for _, child := range children {
		sb.WriteString(s.block(child))
	}
	return sb.String()
}

func (s *mdState) inlineChildren(n *doctree.Node) string {
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(s.inline(child))
	}
	return sb.String()
}

func (s *mdState) inline(n *doctree.Node) string {
	switch n.Type {
	case doctree.Text:
		return n.Value
	case doctree.Strong:
		return wrapInline(s.inlineChildren(n), "**")
	case doctree.Emphasis:
		return wrapInline(s.inlineChildren(n), "*")
	case doctree.Delete:
		return wrapInline(s.inlineChildren(n), "~~")
	case doctree.InlineCode:
		if n.Value == "" {
			return ""
		}
		return "`" + strings.ReplaceAll(n.Value, "`", "\\`") + "`"
	case doctree.Link:
		text := s.inlineChildren(n)
		target := s.opts.linkURL(n.URL)
		if target == "" {
			return text
		}
		if text == "" {
			text = target
		}
		if n.Title != "" {
			return fmt.Sprintf("[%s](%s %q)", text, target, n.Title)
		}
		return fmt.Sprintf("[%s](%s)", text, target)
	case doctree.ImageInline:
		return s.image(n)
	case doctree.MathInline:
		if n.Value == "" {
			return ""
		}
		return "$" + n.Value + "$"
	case doctree.HardBreak:
		return "\\\n"
	case doctree.HTMLInline:
		return n.Value
	default:
		return ""
	}
}

func (s *mdState) image(n *doctree.Node) string {
	target := s.opts.imageURL(s.manifest, n.AssetID)
	if target == "" {
		return ""
	}
	if n.Title != "" {
		return fmt.Sprintf("![%s](%s %q)", n.Alt, target, n.Title)
	}
	return fmt.Sprintf("![%s](%s)", n.Alt, target)
}

func (s *mdState) embed(n *doctree.Node) string {
	target := s.opts.linkURL(n.URL)
	if target != "" {
		label := n.Provider
		if label == "" {
			label = target
		}
		return fmt.Sprintf("[%s](%s)\n\n", label, target)
	}
	if n.Value != "" {
		return n.Value + "\n\n"
	}
	return ""
}

func (s *mdState) list(n *doctree.Node) string {
	var sb strings.Builder

	number := n.Start
	if number < 1 {
		number = 1
	}

	for _, item := range n.Children {
		if item.Type != doctree.ListItem {
			continue
		}

		marker := "- "
		if n.Ordered {
			marker = fmt.Sprintf("%d. ", number)
			number++
		}
		if item.Checked != nil {
			if *item.Checked {
				marker += "[x] "
			} else {
				marker += "[ ] "
			}
		}

		content := strings.TrimRight(s.blocks(item.Children), "\n")
		sb.WriteString(indent(content, marker))
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return ""
	}
	return sb.String() + "\n"
}

func (s *mdState) table(n *doctree.Node) string {
	var rows [][]string
	headerFirst := false
	for i, row := range n.Children {
		if row.Type != doctree.TableRow {
			continue
		}
		var cells []string
		for _, cell := range row.Children {
			cells = append(cells, s.cellContent(cell))
		}
		if i == 0 && len(row.Children) > 0 && row.Children[0].Header {
			headerFirst = true
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}

	// Merged cells cannot be represented in a pipe table; fall back to a
	// flattened text rendition instead of emitting a lying table.
	if n.HasRowspan || n.HasColspan {
		var sb strings.Builder
		for _, cells := range rows {
			sb.WriteString(strings.Join(cells, " | "))
			sb.WriteString("\n")
		}
		return sb.String() + "\n"
	}

	colCount := 0
	for _, cells := range rows {
		if len(cells) > colCount {
			colCount = len(cells)
		}
	}

	var headerRow []string
	var dataRows [][]string
	if headerFirst {
		headerRow = rows[0]
		dataRows = rows[1:]
	} else {
		headerRow = make([]string, colCount)
		dataRows = rows
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := 0; i < colCount; i++ {
			sb.WriteString(" ")
			if i < len(cells) {
				sb.WriteString(cells[i])
			}
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(headerRow)

	sb.WriteString("|")
	for i := 0; i < colCount; i++ {
		sb.WriteString(" " + alignmentMarker(s.columnAlignment(n, i)) + " |")
	}
	sb.WriteString("\n")

	for _, cells := range dataRows {
		writeRow(cells)
	}

	return sb.String() + "\n"
}

// columnAlignment prefers the table-level colgroup hint and falls back to
// the first row's cell hint.
func (s *mdState) columnAlignment(table *doctree.Node, column int) doctree.Alignment {
	if column < len(table.Align) && table.Align[column] != doctree.AlignNone {
		return table.Align[column]
	}
	if len(table.Children) > 0 {
		first := table.Children[0]
		if column < len(first.Children) {
			return first.Children[column].CellAlign
		}
	}
	return doctree.AlignNone
}

func alignmentMarker(align doctree.Alignment) string {
	switch align {
	case doctree.AlignLeft:
		return ":---"
	case doctree.AlignCenter:
		return ":---:"
	case doctree.AlignRight:
		return "---:"
	default:
		return "---"
	}
}

// cellContent flattens a cell's blocks to a single line. Pipes are escaped
// here and only here, to avoid double escaping.
func (s *mdState) cellContent(cell *doctree.Node) string {
	var parts []string
	for _, child := range cell.Children {
		content := strings.TrimRight(s.block(child), "\n")
		if content == "" {
			continue
		}
		parts = append(parts, strings.Join(strings.Fields(content), " "))
	}
	joined := strings.Join(parts, "<br>")
	return strings.ReplaceAll(joined, "|", "\\|")
}

func clampDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if depth > 6 {
		return 6
	}
	return depth
}

func wrapInline(content, delimiter string) string {
	if content == "" {
		return ""
	}
	return delimiter + content + delimiter
}

// blockquoteContent prefixes every line with ">", stacking prefixes for
// nested quotes.
func blockquoteContent(content string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")
	quoted := make([]string, 0, len(lines))
	for _, line := range lines {
		switch {
		case line == "":
			quoted = append(quoted, "> ")
		case strings.HasPrefix(line, ">"):
			quoted = append(quoted, ">"+line)
		default:
			quoted = append(quoted, "> "+line)
		}
	}
	return strings.Join(quoted, "\n")
}

// indent prefixes the first line with the marker and continuation lines
// with spaces matching the marker's width.
func indent(content, marker string) string {
	if content == "" {
		return marker
	}

	lines := strings.Split(content, "\n")
	pad := strings.Repeat(" ", len(marker))

	out := make([]string, 0, len(lines))
	for i, line := range lines {
		switch {
		case i == 0:
			out = append(out, marker+line)
		case line == "":
			out = append(out, "")
		default:
			out = append(out, pad+line)
		}
	}
	return strings.Join(out, "\n")
}
