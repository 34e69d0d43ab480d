package assets

import (
	"net/url"
	"strings"
)

// opaqueSchemes are reference schemes that are never resolved against a base
// URL: inline data, ephemeral object references, and pseudo-URLs.
var opaqueSchemes = []string{"data:", "blob:", "about:", "javascript:"}

// Resolve turns a possibly-relative reference into an absolute URL against
// base. Opaque references are returned untouched, and a malformed reference
// is returned unchanged rather than failing: the converter must never abort
// because of one bad link.
func Resolve(base *url.URL, ref string) string {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return ref
	}

	lower := strings.ToLower(trimmed)
	for _, scheme := range opaqueSchemes {
		if strings.HasPrefix(lower, scheme) {
			return trimmed
		}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ref
	}
	if parsed.IsAbs() || base == nil {
		return trimmed
	}

	return base.ResolveReference(parsed).String()
}
