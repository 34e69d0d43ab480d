package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipdoc/clipdoc/doctree"
)

func TestImageMetadataCaptured(t *testing.T) {
	fragment := `<img src="https://x/a.png" alt="diagram" title="Fig 1" width="800" height="600">`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Assets.Images, 1)
	entry := result.Assets.Images[0]
	assert.Equal(t, "diagram", entry.Alt)
	assert.Equal(t, "Fig 1", entry.Title)
	assert.Equal(t, 800, entry.Width)
	assert.Equal(t, 600, entry.Height)

	node := result.Document.Children[0]
	assert.Equal(t, doctree.ImageBlock, node.Type)
	assert.Equal(t, "diagram", node.Alt)
	assert.Equal(t, "Fig 1", node.Title)
}

func TestImageWithoutSourceDropped(t *testing.T) {
	result := convert(t, Config{}, `<img alt="nothing">`)

	assert.Empty(t, result.Document.Children)
	assert.Empty(t, result.Assets.Images)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningMissingSource, result.Warnings[0].Type)
}

func TestSrcsetWidestCandidateWins(t *testing.T) {
	fragment := `<img srcset="https://x/s.png 320w, https://x/l.png 1280w, https://x/m.png 640w">`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Assets.Images, 1)
	assert.Equal(t, "https://x/l.png", result.Assets.Images[0].OriginalURL)
}

func TestSrcBeatsSrcset(t *testing.T) {
	fragment := `<img src="https://x/src.png" srcset="https://x/l.png 1280w">`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Assets.Images, 1)
	assert.Equal(t, "https://x/src.png", result.Assets.Images[0].OriginalURL)
}

func TestLazyLoadPlaceholderAttrs(t *testing.T) {
	cases := []struct {
		name     string
		fragment string
	}{
		{"data-src", `<img data-src="https://x/lazy.png">`},
		{"data-original", `<img data-original="https://x/lazy.png">`},
		{"data-actualsrc", `<img data-actualsrc="https://x/lazy.png">`},
		{"data-lazy-src", `<img data-lazy-src="https://x/lazy.png">`},
		{"data-echo", `<img data-echo="https://x/lazy.png">`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := convert(t, Config{}, tc.fragment)
			require.Len(t, result.Assets.Images, 1)
			assert.Equal(t, "https://x/lazy.png", result.Assets.Images[0].OriginalURL)
		})
	}
}

func TestFigureCaption(t *testing.T) {
	fragment := `<figure><img src="https://x/a.png"><figcaption>A chart</figcaption></figure>`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Document.Children, 1)
	node := result.Document.Children[0]
	assert.Equal(t, doctree.ImageBlock, node.Type)
	assert.Equal(t, "A chart", node.Caption)
}

func TestFigureWithoutImageIsTransparent(t *testing.T) {
	fragment := `<figure><pre>code</pre></figure>`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Document.Children, 1)
	assert.Equal(t, doctree.CodeBlock, result.Document.Children[0].Type)
}

func TestPictureUsesInnerImg(t *testing.T) {
	fragment := `<picture><source srcset="https://x/a.webp"><img src="https://x/a.png"></picture>`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Assets.Images, 1)
	assert.Equal(t, "https://x/a.png", result.Assets.Images[0].OriginalURL)
}

func TestInvalidDimensionAttrsIgnored(t *testing.T) {
	fragment := `<img src="https://x/a.png" width="auto" height="-5">`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Assets.Images, 1)
	assert.Zero(t, result.Assets.Images[0].Width)
	assert.Zero(t, result.Assets.Images[0].Height)
}
