// Package converter turns a loosely-structured HTML fragment into the
// canonical document tree plus an asset manifest enumerating every image,
// formula, and embedded object the fragment references.
//
// The walk never aborts on malformed input: per-node problems degrade into
// warnings on the Result, and the only error surfaced to callers is a
// structurally invalid configuration.
package converter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/clipdoc/clipdoc/assets"
	"github.com/clipdoc/clipdoc/doctree"
)

// ElementHandler overrides conversion for one tag name. It returns the
// replacement nodes and whether it handled the element; returning false
// falls through to the built-in classification.
type ElementHandler func(el *html.Node, c *Context) ([]*doctree.Node, bool)

// Config holds converter configuration.
type Config struct {
	// BaseURL resolves relative references. Empty leaves them unresolved.
	BaseURL string
	// PreserveUnknownHTML keeps unrecognized elements without convertible
	// children as opaque raw-markup nodes instead of dropping them.
	PreserveUnknownHTML bool
	// CustomHandlers is consulted before any built-in classification,
	// keyed by lowercase tag name.
	CustomHandlers map[string]ElementHandler
}

func (c Config) clone() Config {
	cloned := c
	if c.CustomHandlers != nil {
		cloned.CustomHandlers = make(map[string]ElementHandler, len(c.CustomHandlers))
		for key, handler := range c.CustomHandlers {
			cloned.CustomHandlers[key] = handler
		}
	}
	return cloned
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("invalid baseURL %q: %w", c.BaseURL, err)
		}
	}
	for tag, handler := range c.CustomHandlers {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("customHandlers contains empty tag name")
		}
		if handler == nil {
			return fmt.Errorf("customHandlers[%q] is nil", tag)
		}
	}
	return nil
}

// Converter converts HTML fragments into canonical trees. It is immutable
// after New and safe to reuse; each Convert call owns a fresh registry and
// tree.
type Converter struct {
	config Config
}

// New creates a Converter with the given config.
func New(config Config) (*Converter, error) {
	cfg := config.clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Converter{config: cfg}, nil
}

// Result holds the output of one conversion.
type Result struct {
	Document *doctree.Node    `json:"document"`
	Assets   *assets.Manifest `json:"assets"`
	Warnings []Warning        `json:"warnings,omitempty"`
}

// WarningType categorizes conversion warnings.
type WarningType string

const (
	WarningUnknownElement WarningType = "unknown_element"
	WarningEmptyFormula   WarningType = "empty_formula"
	WarningMissingSource  WarningType = "missing_source"
)

// Warning represents a non-fatal issue encountered during conversion.
type Warning struct {
	Type    WarningType `json:"type"`
	Tag     string      `json:"tag,omitempty"`
	Message string      `json:"message"`
}

// state carries per-conversion mutable data.
type state struct {
	config   Config
	registry *assets.Registry
	warnings []Warning
}

func (s *state) addWarning(warnType WarningType, tag, message string) {
	s.warnings = append(s.warnings, Warning{Type: warnType, Tag: tag, Message: message})
}

// Convert parses the fragment and returns the normalized canonical tree and
// the populated asset manifest. The manifest is read-only from the moment it
// is returned.
func (c *Converter) Convert(fragment string) (*Result, error) {
	registry, err := assets.NewRegistry(c.config.BaseURL)
	if err != nil {
		return nil, err
	}

	// The grammar is lenient: any byte sequence yields a tree.
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	scope := dom.FindFirstNode(doc, func(node *html.Node) bool {
		return node.DataAtom == atom.Body
	})
	if scope == nil {
		scope = doc
	}

	s := &state{config: c.config, registry: registry}
	root := &doctree.Node{Type: doctree.Root, Children: s.convertBlockChildren(scope)}
	root = doctree.Normalize(root)

	return &Result{
		Document: root,
		Assets:   registry.Manifest(),
		Warnings: s.warnings,
	}, nil
}

// Context exposes conversion services to custom element handlers.
type Context struct {
	s *state
}

// Registry returns the asset registry for the running conversion.
func (c *Context) Registry() *assets.Registry {
	return c.s.registry
}

// ConvertBlocks converts el's children in block context.
func (c *Context) ConvertBlocks(el *html.Node) []*doctree.Node {
	return c.s.convertBlockChildren(el)
}

// ConvertInline converts el's children in inline context.
func (c *Context) ConvertInline(el *html.Node) []*doctree.Node {
	return c.s.convertInlineChildren(el)
}

// convertBlockChildren converts all children of n in block context.
func (s *state) convertBlockChildren(n *html.Node) []*doctree.Node {
	var out []*doctree.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		out = append(out, s.convertNode(child, false)...)
	}
	return out
}

// convertInlineChildren converts all children of n in inline context.
func (s *state) convertInlineChildren(n *html.Node) []*doctree.Node {
	var out []*doctree.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		out = append(out, s.convertNode(child, true)...)
	}
	return out
}

func (s *state) convertNode(n *html.Node, inline bool) []*doctree.Node {
	switch n.Type {
	case html.TextNode:
		// Whitespace-only text is structural indentation; content text is
		// kept verbatim with no interior trimming.
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return []*doctree.Node{doctree.NewText(n.Data)}
	case html.ElementNode:
		return s.convertElement(n, inline)
	default:
		// Comments, doctypes.
		return nil
	}
}

func (s *state) convertElement(n *html.Node, inline bool) []*doctree.Node {
	name := dom.NodeName(n)

	if handler, ok := s.config.CustomHandlers[name]; ok {
		if nodes, handled := handler(n, &Context{s: s}); handled {
			return nodes
		}
	}

	// Detectors run before generic tag dispatch so that formula markup
	// hidden inside spans/scripts and embeds dressed as divs win over their
	// carrier tags.
	if match, ok := detectMath(n); ok {
		return s.convertMath(name, match, inline)
	}
	if !inline {
		if match, ok := detectEmbed(n); ok {
			return s.convertEmbed(match)
		}
	}

	if ignoredTags[name] {
		return nil
	}

	if inline {
		switch name {
		case "h1", "h2", "h3", "h4", "h5", "h6", "p", "blockquote",
			"ul", "ol", "li", "pre", "table", "hr", "figure":
			// Block structure nested inside inline formatting is invalid
			// markup; treat the wrapper as transparent rather than breaking
			// the block/inline purity of the output.
			return s.convertInlineChildren(n)
		}
	}

	switch name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return s.convertHeading(n, int(name[1]-'0'))
	case "p":
		return s.convertParagraph(n)
	case "blockquote":
		return s.convertBlockquote(n)
	case "ul", "ol":
		return s.convertList(n, name == "ol")
	case "li":
		return s.convertListItem(n)
	case "pre":
		return s.convertCodeBlock(n)
	case "table":
		return s.convertTable(n)
	case "hr":
		return []*doctree.Node{{Type: doctree.ThematicBreak}}
	case "figure":
		return s.convertFigure(n)
	case "img":
		return s.convertImage(n, inline, "")
	case "picture":
		return s.convertPicture(n, inline)
	case "br":
		return []*doctree.Node{{Type: doctree.HardBreak}}
	case "a":
		return s.convertLink(n)
	case "strong", "b":
		return s.convertFormatting(n, doctree.Strong)
	case "em", "i":
		return s.convertFormatting(n, doctree.Emphasis)
	case "del", "s", "strike":
		return s.convertFormatting(n, doctree.Delete)
	case "code", "kbd", "samp":
		return s.convertInlineCode(n)
	case "div", "section", "article", "main", "span", "font", "center",
		"details", "summary", "u", "mark", "small", "sub", "sup", "abbr",
		"time", "label", "body":
		// Transparent containers: children spliced in place.
		return s.convertChildren(n, inline)
	default:
		return s.convertUnknown(n, name, inline)
	}
}

// ignoredTags produce no node at all: scripting, styling, navigation, and
// structural chrome.
var ignoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"link":     true,
	"meta":     true,
	"title":    true,
	"head":     true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"aside":    true,
	"form":     true,
	"button":   true,
	"input":    true,
	"select":   true,
	"option":   true,
	"textarea": true,
	"svg":      true,
	"canvas":   true,
}

// convertChildren splices an element's children in the current context.
func (s *state) convertChildren(n *html.Node, inline bool) []*doctree.Node {
	if inline {
		return s.convertInlineChildren(n)
	}
	return s.convertBlockChildren(n)
}

// convertUnknown implements the fallback path for unrecognized elements:
// splice convertible children, otherwise preserve the raw markup when
// configured to, otherwise drop.
func (s *state) convertUnknown(n *html.Node, name string, inline bool) []*doctree.Node {
	children := s.convertChildren(n, inline)
	if len(children) > 0 {
		return children
	}

	if s.config.PreserveUnknownHTML {
		raw := renderNode(n)
		if raw != "" {
			nodeType := doctree.HTMLBlock
			if inline {
				nodeType = doctree.HTMLInline
			}
			return []*doctree.Node{{Type: nodeType, Value: raw}}
		}
	}

	s.addWarning(WarningUnknownElement, name, fmt.Sprintf("dropped unknown element <%s>", name))
	return nil
}
