// Package render serializes a normalized canonical tree, together with its
// asset manifest, into one of the supported textual output formats: GFM
// markdown, or sanitized HTML suitable for injection into a rich-text
// editing surface.
package render

import (
	"github.com/clipdoc/clipdoc/assets"
)

// Options carries caller-supplied serialization settings shared by both
// output formats.
type Options struct {
	// URLMap rewrites image and link references (original URL ->
	// replacement URL), typically filled in after the asset downloader has
	// re-hosted the images.
	URLMap map[string]string
	// StyleRules maps a selector (tag name or class selector) to CSS
	// declarations inlined into matching elements of the HTML output, for
	// destinations that cannot carry a stylesheet. Ignored by the markdown
	// target.
	StyleRules map[string]string
}

// imageURL picks the emitted URL for an image asset: the caller-supplied
// mapping first, then the asset's proxy URL, then the original URL.
func (o Options) imageURL(m *assets.Manifest, assetID string) string {
	entry := m.ImageByID(assetID)
	if entry == nil {
		return ""
	}
	if mapped, ok := o.URLMap[entry.OriginalURL]; ok && mapped != "" {
		return mapped
	}
	if entry.ProxyURL != "" {
		return entry.ProxyURL
	}
	return entry.OriginalURL
}

// linkURL applies the caller-supplied mapping to a link target.
func (o Options) linkURL(target string) string {
	if mapped, ok := o.URLMap[target]; ok && mapped != "" {
		return mapped
	}
	return target
}
