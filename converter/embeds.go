package converter

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"

	"github.com/clipdoc/clipdoc/doctree"
)

// embedMatch is the outcome of a successful embed detection.
type embedMatch struct {
	kind string
	url  string
	raw  string
}

// cardClassRe matches the class names platforms use for link-preview card
// containers.
var cardClassRe = regexp.MustCompile(`(?i)(^|\s)(link-?card|embed-?card|bookmark(-card)?|card-container)(\s|$)`)

// providerPatterns resolves a provider tag from an embed URL. No match
// leaves the provider empty, never an error.
var providerPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"youtube", regexp.MustCompile(`(?i)(youtube\.com|youtu\.be)`)},
	{"vimeo", regexp.MustCompile(`(?i)vimeo\.com`)},
	{"bilibili", regexp.MustCompile(`(?i)bilibili\.com`)},
	{"twitter", regexp.MustCompile(`(?i)(twitter\.com|x\.com)`)},
	{"codepen", regexp.MustCompile(`(?i)codepen\.io`)},
	{"spotify", regexp.MustCompile(`(?i)open\.spotify\.com`)},
}

func providerFor(embedURL string) string {
	for _, pattern := range providerPatterns {
		if pattern.re.MatchString(embedURL) {
			return pattern.name
		}
	}
	return ""
}

// detectEmbed recognizes frame embeds, native audio/video, and card-style
// link-preview containers.
func detectEmbed(n *html.Node) (embedMatch, bool) {
	name := dom.NodeName(n)

	switch name {
	case "iframe":
		src := strings.TrimSpace(dom.GetAttributeOr(n, "src", ""))
		if src == "" {
			src = strings.TrimSpace(dom.GetAttributeOr(n, "data-src", ""))
		}
		return embedMatch{kind: "iframe", url: src, raw: renderNode(n)}, true

	case "video", "audio":
		src := strings.TrimSpace(dom.GetAttributeOr(n, "src", ""))
		if src == "" {
			if source := findFirstElement(n, "source"); source != nil {
				src = strings.TrimSpace(dom.GetAttributeOr(source, "src", ""))
			}
		}
		return embedMatch{kind: name, url: src, raw: renderNode(n)}, true
	}

	if n.Type == html.ElementNode && cardClassRe.MatchString(dom.GetAttributeOr(n, "class", "")) {
		cardURL := ""
		if anchor := findFirstElement(n, "a"); anchor != nil {
			cardURL = strings.TrimSpace(dom.GetAttributeOr(anchor, "href", ""))
		}
		return embedMatch{kind: "card", url: cardURL, raw: renderNode(n)}, true
	}

	return embedMatch{}, false
}

// convertEmbed registers the embed and yields its block node.
func (s *state) convertEmbed(match embedMatch) []*doctree.Node {
	resolved := s.registry.Resolve(match.url)
	provider := providerFor(resolved)
	id := s.registry.RegisterEmbed(match.kind, resolved, match.raw, provider)

	return []*doctree.Node{{
		Type:      doctree.Embed,
		AssetID:   id,
		EmbedType: match.kind,
		URL:       resolved,
		Provider:  provider,
		Value:     match.raw,
	}}
}
