package converter

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"

	"github.com/clipdoc/clipdoc/doctree"
)

var textAlignRe = regexp.MustCompile(`(?i)text-align\s*:\s*(left|center|right)`)

func (s *state) convertTable(n *html.Node) []*doctree.Node {
	headerRows, bodyRows := tableRows(n)

	// With no explicit header section, a first row made entirely of
	// header-typed cells is retroactively promoted.
	if len(headerRows) == 0 && len(bodyRows) > 0 && allHeaderCells(bodyRows[0]) {
		headerRows = bodyRows[:1]
		bodyRows = bodyRows[1:]
	}

	table := &doctree.Node{Type: doctree.Table, Align: columnAlignments(n)}

	for _, tr := range headerRows {
		if row := s.convertTableRow(tr, true, table); row != nil {
			table.Children = append(table.Children, row)
		}
	}
	for _, tr := range bodyRows {
		if row := s.convertTableRow(tr, false, table); row != nil {
			table.Children = append(table.Children, row)
		}
	}

	if len(table.Children) == 0 {
		return nil
	}
	return []*doctree.Node{table}
}

// tableRows collects <tr> elements, separating head-section rows from body
// rows. Rows sitting directly under the table count as body rows.
func tableRows(table *html.Node) (header, body []*html.Node) {
	for section := table.FirstChild; section != nil; section = section.NextSibling {
		if section.Type != html.ElementNode {
			continue
		}
		switch dom.NodeName(section) {
		case "thead":
			header = append(header, directRows(section)...)
		case "tbody", "tfoot":
			body = append(body, directRows(section)...)
		case "tr":
			body = append(body, section)
		}
	}
	return header, body
}

func directRows(section *html.Node) []*html.Node {
	var rows []*html.Node
	for child := section.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && dom.NodeName(child) == "tr" {
			rows = append(rows, child)
		}
	}
	return rows
}

func allHeaderCells(tr *html.Node) bool {
	sawCell := false
	for child := tr.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch dom.NodeName(child) {
		case "th":
			sawCell = true
		case "td":
			return false
		}
	}
	return sawCell
}

// convertTableRow converts cells independently; a short row simply yields a
// row with fewer cells. Span declarations greater than one are surfaced as
// table-level flags so the serializer can pick a degraded representation.
func (s *state) convertTableRow(tr *html.Node, headerRow bool, table *doctree.Node) *doctree.Node {
	row := &doctree.Node{Type: doctree.TableRow}

	column := 0
	for child := tr.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		name := dom.NodeName(child)
		if name != "td" && name != "th" {
			continue
		}

		cell := &doctree.Node{
			Type:      doctree.TableCell,
			Header:    headerRow || name == "th",
			CellAlign: cellAlignment(child, table.Align, column),
			Children:  s.convertBlockChildren(child),
		}

		if span := intAttr(child, "rowspan", 1); span > 1 {
			cell.RowSpan = span
			table.HasRowspan = true
		}
		if span := intAttr(child, "colspan", 1); span > 1 {
			cell.ColSpan = span
			table.HasColspan = true
		}

		row.Children = append(row.Children, cell)
		column++
	}

	if len(row.Children) == 0 {
		return nil
	}
	return row
}

// columnAlignments extracts per-column alignment from colgroup hints.
func columnAlignments(table *html.Node) []doctree.Alignment {
	colgroup := findFirstElement(table, "colgroup")
	if colgroup == nil {
		return nil
	}

	var aligns []doctree.Alignment
	sawHint := false
	for col := colgroup.FirstChild; col != nil; col = col.NextSibling {
		if col.Type != html.ElementNode || dom.NodeName(col) != "col" {
			continue
		}
		align := alignmentOf(col)
		if align != doctree.AlignNone {
			sawHint = true
		}
		span := intAttr(col, "span", 1)
		for i := 0; i < span; i++ {
			aligns = append(aligns, align)
		}
	}

	if !sawHint {
		return nil
	}
	return aligns
}

// cellAlignment prefers the cell's own hint and falls back to the column
// hint.
func cellAlignment(cell *html.Node, columnAligns []doctree.Alignment, column int) doctree.Alignment {
	if align := alignmentOf(cell); align != doctree.AlignNone {
		return align
	}
	if column < len(columnAligns) {
		return columnAligns[column]
	}
	return doctree.AlignNone
}

// alignmentOf reads an element's align attribute or text-align style hint.
func alignmentOf(n *html.Node) doctree.Alignment {
	value := strings.ToLower(strings.TrimSpace(dom.GetAttributeOr(n, "align", "")))
	if value == "" {
		if m := textAlignRe.FindStringSubmatch(dom.GetAttributeOr(n, "style", "")); m != nil {
			value = strings.ToLower(m[1])
		}
	}

	switch value {
	case "left":
		return doctree.AlignLeft
	case "center":
		return doctree.AlignCenter
	case "right":
		return doctree.AlignRight
	default:
		return doctree.AlignNone
	}
}
