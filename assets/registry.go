// Package assets tracks every external resource referenced by a canonical
// tree: images, math formulas, and embedded objects. A Registry is created
// fresh for each conversion, populated while the converter walks the source
// markup, and handed to the caller read-only alongside the tree.
package assets

import (
	"fmt"
	"net/url"
)

// Status tracks an image's download lifecycle. The converter only ever
// produces StatusPending; the downstream downloader advances it.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusReady       Status = "ready"
	StatusFailed      Status = "failed"
)

// Image is a single manifest entry for an image reference. OriginalURL is
// unique per registry: registering the same resolved URL twice returns the
// existing entry's id.
type Image struct {
	ID          string `json:"id"`
	OriginalURL string `json:"originalUrl"`
	Alt         string `json:"alt,omitempty"`
	Title       string `json:"title,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Status      Status `json:"status"`

	// Written back in place by the download collaborator after handoff.
	ProxyURL  string `json:"proxyUrl,omitempty"`
	LocalBlob string `json:"localBlob,omitempty"`
}

// Formula is a manifest entry for one formula occurrence. Formulas are not
// deduplicated: identical source text appearing twice yields two entries,
// because downstream rendering may differ by position.
type Formula struct {
	ID      string `json:"id"`
	Tex     string `json:"tex"`
	Display bool   `json:"display"`
	Engine  string `json:"engine,omitempty"`
}

// Embed is a manifest entry for an embedded rich object.
type Embed struct {
	ID        string `json:"id"`
	EmbedType string `json:"embedType"`
	URL       string `json:"url,omitempty"`
	RawMarkup string `json:"rawMarkup,omitempty"`
	Provider  string `json:"provider,omitempty"`
}

// Manifest enumerates every asset a canonical tree references.
type Manifest struct {
	Images   []*Image   `json:"images,omitempty"`
	Formulas []*Formula `json:"formulas,omitempty"`
	Embeds   []*Embed   `json:"embeds,omitempty"`
}

// ImageByID returns the image entry with the given id, or nil.
func (m *Manifest) ImageByID(id string) *Image {
	for _, img := range m.Images {
		if img.ID == id {
			return img
		}
	}
	return nil
}

// FormulaByID returns the formula entry with the given id, or nil.
func (m *Manifest) FormulaByID(id string) *Formula {
	for _, f := range m.Formulas {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// ImageMeta carries optional metadata captured at registration time.
type ImageMeta struct {
	Alt    string
	Title  string
	Width  int
	Height int
}

// Registry assigns stable ids to assets during one conversion. It is not
// safe for concurrent use; every conversion call owns a fresh instance.
type Registry struct {
	base     *url.URL
	manifest Manifest
	imageIDs map[string]string // resolved URL -> id

	imageSeq   int
	formulaSeq int
	embedSeq   int
}

// NewRegistry creates a registry resolving references against baseURL. An
// empty baseURL leaves relative references unresolved. A baseURL that cannot
// be parsed at all is the one unrecoverable configuration error this
// library reports.
func NewRegistry(baseURL string) (*Registry, error) {
	r := &Registry{imageIDs: make(map[string]string)}
	if baseURL != "" {
		base, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
		r.base = base
	}
	return r, nil
}

// Resolve resolves a reference against the registry's base URL, failing soft
// on malformed input.
func (r *Registry) Resolve(ref string) string {
	return Resolve(r.base, ref)
}

// RegisterImage resolves the URL and returns the id of its manifest entry,
// deduplicating by resolved URL. New entries start out pending.
func (r *Registry) RegisterImage(rawURL string, meta ImageMeta) string {
	resolved := r.Resolve(rawURL)
	if id, ok := r.imageIDs[resolved]; ok {
		return id
	}

	r.imageSeq++
	id := fmt.Sprintf("img-%d", r.imageSeq)
	r.imageIDs[resolved] = id
	r.manifest.Images = append(r.manifest.Images, &Image{
		ID:          id,
		OriginalURL: resolved,
		Alt:         meta.Alt,
		Title:       meta.Title,
		Width:       meta.Width,
		Height:      meta.Height,
		Status:      StatusPending,
	})
	return id
}

// RegisterFormula appends a new formula entry and returns its id. Each
// occurrence gets its own entry even when the source text is identical.
func (r *Registry) RegisterFormula(tex string, display bool, engine string) string {
	r.formulaSeq++
	id := fmt.Sprintf("eq-%d", r.formulaSeq)
	r.manifest.Formulas = append(r.manifest.Formulas, &Formula{
		ID:      id,
		Tex:     tex,
		Display: display,
		Engine:  engine,
	})
	return id
}

// RegisterEmbed appends a new embed entry and returns its id.
func (r *Registry) RegisterEmbed(embedType, rawURL, rawMarkup, provider string) string {
	r.embedSeq++
	id := fmt.Sprintf("embed-%d", r.embedSeq)
	r.manifest.Embeds = append(r.manifest.Embeds, &Embed{
		ID:        id,
		EmbedType: embedType,
		URL:       r.Resolve(rawURL),
		RawMarkup: rawMarkup,
		Provider:  provider,
	})
	return id
}

// Manifest returns the manifest populated so far. The converter hands it to
// the caller once conversion finishes; it must not be mutated afterwards by
// this library.
func (r *Registry) Manifest() *Manifest {
	return &r.manifest
}
