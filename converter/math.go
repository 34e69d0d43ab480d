package converter

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"

	"github.com/clipdoc/clipdoc/doctree"
)

// mathMatch is the outcome of a successful formula detection.
type mathMatch struct {
	tex     string
	display bool
	engine  string
}

// mathDetectors probe for the formula conventions of the known client-side
// renderers, in fixed priority order. Each returns (match, true) when the
// element carries its signature, even if the extracted formula text turns
// out empty.
var mathDetectors = []func(*html.Node) (mathMatch, bool){
	detectKatexWrapper,
	detectTexScript,
	detectMathJaxContainer,
	detectNativeMath,
	detectFormulaMarker,
}

// detectMath runs the detectors in order. The first one yielding non-empty
// formula text wins; a matched signature with empty text still claims the
// element so it can be dropped silently instead of falling through to
// generic dispatch.
func detectMath(n *html.Node) (mathMatch, bool) {
	matched := false
	for _, detect := range mathDetectors {
		match, ok := detect(n)
		if !ok {
			continue
		}
		matched = true
		if strings.TrimSpace(match.tex) != "" {
			match.tex = strings.TrimSpace(match.tex)
			return match, true
		}
	}
	if matched {
		return mathMatch{}, true
	}
	return mathMatch{}, false
}

// convertMath registers exactly one formula asset per successful match and
// yields a math node whose kind follows the display flag. Empty formula
// text converts to nothing.
func (s *state) convertMath(tag string, match mathMatch, inline bool) []*doctree.Node {
	if match.tex == "" {
		s.addWarning(WarningEmptyFormula, tag, "formula markup with empty source dropped")
		return nil
	}

	id := s.registry.RegisterFormula(match.tex, match.display, match.engine)

	nodeType := doctree.MathInline
	if match.display && !inline {
		nodeType = doctree.MathBlock
	}
	return []*doctree.Node{{
		Type:    nodeType,
		AssetID: id,
		Value:   match.tex,
		Display: match.display,
		Engine:  match.engine,
	}}
}

// detectKatexWrapper matches KaTeX output: a wrapper whose class names the
// renderer and whose MathML annotation carries the TeX source.
func detectKatexWrapper(n *html.Node) (mathMatch, bool) {
	if !hasClassWord(n, "katex") && !hasClassWord(n, "katex-display") {
		return mathMatch{}, false
	}
	return mathMatch{
		tex:     texAnnotation(n),
		display: hasClassWord(n, "katex-display"),
		engine:  "katex",
	}, true
}

// detectTexScript matches MathJax v2 source scripts, e.g.
// <script type="math/tex; mode=display">.
func detectTexScript(n *html.Node) (mathMatch, bool) {
	if dom.NodeName(n) != "script" {
		return mathMatch{}, false
	}
	scriptType := strings.ToLower(dom.GetAttributeOr(n, "type", ""))
	if !strings.Contains(scriptType, "math/tex") {
		return mathMatch{}, false
	}
	return mathMatch{
		tex:     textContent(n),
		display: strings.Contains(scriptType, "mode=display"),
		engine:  "mathjax",
	}, true
}

// detectMathJaxContainer matches MathJax v3 output: a custom container
// element wrapping a native <math>.
func detectMathJaxContainer(n *html.Node) (mathMatch, bool) {
	if dom.NodeName(n) != "mjx-container" {
		return mathMatch{}, false
	}
	math := findFirstElement(n, "math")
	if math == nil {
		return mathMatch{}, false
	}
	display := strings.EqualFold(dom.GetAttributeOr(n, "display", ""), "true") ||
		classContains(n, "display")
	return mathMatch{
		tex:     mathMLSource(math),
		display: display,
		engine:  "mathjax",
	}, true
}

// detectNativeMath matches a bare MathML <math> element that is not wrapped
// by a renderer container (those are claimed by the container detectors
// before the walk ever reaches the inner element).
func detectNativeMath(n *html.Node) (mathMatch, bool) {
	if dom.NodeName(n) != "math" {
		return mathMatch{}, false
	}
	return mathMatch{
		tex:     mathMLSource(n),
		display: strings.EqualFold(dom.GetAttributeOr(n, "display", ""), "block"),
		engine:  "mathml",
	}, true
}

// detectFormulaMarker matches this system's own round-trip markers written
// by the HTML serializer.
func detectFormulaMarker(n *html.Node) (mathMatch, bool) {
	if !hasAttr(n, "data-formula") {
		return mathMatch{}, false
	}
	return mathMatch{
		tex:     dom.GetAttributeOr(n, "data-formula", ""),
		display: strings.EqualFold(dom.GetAttributeOr(n, "data-display", ""), "true"),
		engine:  dom.GetAttributeOr(n, "data-engine", ""),
	}, true
}

// texAnnotation extracts the TeX source annotation from rendered math
// markup.
func texAnnotation(n *html.Node) string {
	annotation := dom.FindFirstNode(n, func(node *html.Node) bool {
		if node.Type != html.ElementNode || dom.NodeName(node) != "annotation" {
			return false
		}
		encoding := strings.ToLower(dom.GetAttributeOr(node, "encoding", ""))
		return strings.Contains(encoding, "tex")
	})
	if annotation == nil {
		return ""
	}
	return textContent(annotation)
}

// mathMLSource prefers the TeX annotation and falls back to the element's
// text content, which at least keeps the formula legible.
func mathMLSource(math *html.Node) string {
	if tex := texAnnotation(math); strings.TrimSpace(tex) != "" {
		return tex
	}
	return textContent(math)
}
