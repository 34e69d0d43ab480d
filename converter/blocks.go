package converter

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"

	"github.com/clipdoc/clipdoc/doctree"
)

func (s *state) convertHeading(n *html.Node, depth int) []*doctree.Node {
	children := s.convertInlineChildren(n)
	if len(children) == 0 {
		return nil
	}
	return []*doctree.Node{{Type: doctree.Heading, Depth: depth, Children: children}}
}

// convertParagraph drops the paragraph entirely when it converts to zero
// inline children.
func (s *state) convertParagraph(n *html.Node) []*doctree.Node {
	children := s.convertInlineChildren(n)
	if len(children) == 0 {
		return nil
	}
	return []*doctree.Node{{Type: doctree.Paragraph, Children: children}}
}

func (s *state) convertBlockquote(n *html.Node) []*doctree.Node {
	children := s.convertBlockChildren(n)
	if len(children) == 0 {
		return nil
	}
	return []*doctree.Node{{Type: doctree.Blockquote, Children: children}}
}

// convertCodeBlock handles <pre>, taking the language tag from a
// language-*/lang-* class on the pre or its code child.
func (s *state) convertCodeBlock(n *html.Node) []*doctree.Node {
	content := textContent(n)
	if strings.TrimSpace(content) == "" {
		return nil
	}

	lang := codeLanguage(n)
	if lang == "" {
		if code := findFirstElement(n, "code"); code != nil {
			lang = codeLanguage(code)
		}
	}

	return []*doctree.Node{{
		Type:  doctree.CodeBlock,
		Lang:  lang,
		Value: strings.TrimRight(content, "\n"),
	}}
}

func codeLanguage(n *html.Node) string {
	for _, field := range strings.Fields(dom.GetAttributeOr(n, "class", "")) {
		lower := strings.ToLower(field)
		if lang, ok := strings.CutPrefix(lower, "language-"); ok {
			return lang
		}
		if lang, ok := strings.CutPrefix(lower, "lang-"); ok {
			return lang
		}
	}
	return ""
}

// convertFigure produces an image block with a caption when the figure
// wraps an image; otherwise the figure is a transparent container.
func (s *state) convertFigure(n *html.Node) []*doctree.Node {
	img := findFirstElement(n, "img")
	if img == nil {
		return s.convertBlockChildren(n)
	}

	caption := ""
	if figcaption := findFirstElement(n, "figcaption"); figcaption != nil {
		caption = strings.TrimSpace(textContent(figcaption))
	}

	return s.convertImage(img, false, caption)
}

// convertPicture unwraps a <picture> to its <img>.
func (s *state) convertPicture(n *html.Node, inline bool) []*doctree.Node {
	img := findFirstElement(n, "img")
	if img == nil {
		return nil
	}
	return s.convertImage(img, inline, "")
}

func (s *state) convertLink(n *html.Node) []*doctree.Node {
	children := s.convertInlineChildren(n)
	href := strings.TrimSpace(dom.GetAttributeOr(n, "href", ""))
	if href == "" {
		// Anchors without targets carry no link semantics.
		return children
	}
	if len(children) == 0 {
		resolved := s.registry.Resolve(href)
		children = []*doctree.Node{doctree.NewText(resolved)}
	}

	return []*doctree.Node{{
		Type:     doctree.Link,
		URL:      s.registry.Resolve(href),
		Title:    strings.TrimSpace(dom.GetAttributeOr(n, "title", "")),
		Children: children,
	}}
}

func (s *state) convertFormatting(n *html.Node, nodeType doctree.NodeType) []*doctree.Node {
	children := s.convertInlineChildren(n)
	if len(children) == 0 {
		return nil
	}
	return []*doctree.Node{{Type: nodeType, Children: children}}
}

func (s *state) convertInlineCode(n *html.Node) []*doctree.Node {
	content := textContent(n)
	if content == "" {
		return nil
	}
	return []*doctree.Node{{Type: doctree.InlineCode, Value: content}}
}
