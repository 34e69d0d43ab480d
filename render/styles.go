package render

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// applyInlineStyles rewrites element start tags to carry inline style
// declarations, for destination editors that cannot load an external
// stylesheet. A pre-existing style attribute is appended after the rule so
// element-level declarations win.
func applyInlineStyles(fragment string, rules map[string]string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	selectors := make([]string, 0, len(rules))
	for selector := range rules {
		selectors = append(selectors, selector)
	}
	sort.Strings(selectors)

	for _, selector := range selectors {
		declaration := strings.TrimSuffix(strings.TrimSpace(rules[selector]), ";")
		if declaration == "" {
			continue
		}
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			merged := declaration
			if existing := strings.TrimSpace(sel.AttrOr("style", "")); existing != "" {
				merged = declaration + "; " + existing
			}
			sel.SetAttr("style", merged)
		})
	}

	return doc.Find("body").Html()
}

// sanitizeFragment strips script and style elements from raw markup before
// it is passed through to the hypertext output. Anything unparseable is
// dropped rather than emitted unvetted.
func sanitizeFragment(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()

	out, err := doc.Find("body").Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
