package converter

import (
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"

	"github.com/clipdoc/clipdoc/assets"
	"github.com/clipdoc/clipdoc/doctree"
)

// lazySrcAttrs are placeholder attributes used by common lazy-loading
// libraries, probed after src and srcset come up empty.
var lazySrcAttrs = []string{
	"data-src",
	"data-original",
	"data-actualsrc",
	"data-lazy-src",
	"data-echo",
}

func (s *state) convertImage(n *html.Node, inline bool, caption string) []*doctree.Node {
	src := imageSource(n)
	if src == "" {
		s.addWarning(WarningMissingSource, "img", "image without a usable source dropped")
		return nil
	}

	alt := dom.GetAttributeOr(n, "alt", "")
	title := dom.GetAttributeOr(n, "title", "")
	id := s.registry.RegisterImage(src, assets.ImageMeta{
		Alt:    alt,
		Title:  title,
		Width:  intAttr(n, "width", 0),
		Height: intAttr(n, "height", 0),
	})

	nodeType := doctree.ImageBlock
	if inline {
		nodeType = doctree.ImageInline
	}
	return []*doctree.Node{{
		Type:    nodeType,
		AssetID: id,
		Alt:     alt,
		Title:   title,
		Caption: caption,
	}}
}

// imageSource picks the image reference: the src attribute first, then the
// widest srcset candidate, then the known lazy-load placeholder attributes.
func imageSource(n *html.Node) string {
	if src := strings.TrimSpace(dom.GetAttributeOr(n, "src", "")); src != "" {
		return src
	}
	if best := bestSrcsetCandidate(dom.GetAttributeOr(n, "srcset", "")); best != "" {
		return best
	}
	for _, attr := range lazySrcAttrs {
		if src := strings.TrimSpace(dom.GetAttributeOr(n, attr, "")); src != "" {
			return src
		}
	}
	return ""
}

// bestSrcsetCandidate parses a srcset attribute and returns the candidate
// with the highest width descriptor. Candidates without a width descriptor
// count as width zero; a lone descriptorless candidate still wins over
// nothing.
func bestSrcsetCandidate(srcset string) string {
	best := ""
	bestWidth := -1

	for _, candidate := range strings.Split(srcset, ",") {
		fields := strings.Fields(candidate)
		if len(fields) == 0 {
			continue
		}
		candidateURL := fields[0]
		width := 0
		if len(fields) > 1 {
			descriptor := fields[1]
			if w, ok := strings.CutSuffix(descriptor, "w"); ok {
				if parsed, err := strconv.Atoi(w); err == nil {
					width = parsed
				}
			}
		}
		if width > bestWidth {
			best = candidateURL
			bestWidth = width
		}
	}

	return best
}
