package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipdoc/clipdoc/doctree"
)

func firstEmbed(t *testing.T, result *Result) *doctree.Node {
	t.Helper()
	require.NotEmpty(t, result.Document.Children)
	embed := result.Document.Children[0]
	require.Equal(t, doctree.Embed, embed.Type)
	return embed
}

func TestIframeEmbed(t *testing.T) {
	result := convert(t, Config{}, `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe>`)
	embed := firstEmbed(t, result)

	assert.Equal(t, "iframe", embed.EmbedType)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", embed.URL)
	assert.Equal(t, "youtube", embed.Provider)

	require.Len(t, result.Assets.Embeds, 1)
	entry := result.Assets.Embeds[0]
	assert.Equal(t, embed.AssetID, entry.ID)
	assert.Equal(t, "youtube", entry.Provider)
}

func TestLazyIframeUsesDataSrc(t *testing.T) {
	result := convert(t, Config{}, `<iframe data-src="https://player.vimeo.com/video/1"></iframe>`)
	embed := firstEmbed(t, result)

	assert.Equal(t, "https://player.vimeo.com/video/1", embed.URL)
	assert.Equal(t, "vimeo", embed.Provider)
}

func TestVideoWithSourceChild(t *testing.T) {
	result := convert(t, Config{}, `<video><source src="https://cdn.example.com/clip.mp4"></video>`)
	embed := firstEmbed(t, result)

	assert.Equal(t, "video", embed.EmbedType)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", embed.URL)
	assert.Empty(t, embed.Provider)
}

func TestAudioEmbed(t *testing.T) {
	result := convert(t, Config{}, `<audio src="https://cdn.example.com/ep1.mp3"></audio>`)
	embed := firstEmbed(t, result)

	assert.Equal(t, "audio", embed.EmbedType)
	assert.Equal(t, "https://cdn.example.com/ep1.mp3", embed.URL)
}

func TestLinkCardContainer(t *testing.T) {
	fragment := `<div class="link-card"><a href="https://example.com/article">An article</a></div>`
	result := convert(t, Config{}, fragment)
	embed := firstEmbed(t, result)

	assert.Equal(t, "card", embed.EmbedType)
	assert.Equal(t, "https://example.com/article", embed.URL)
	assert.Contains(t, embed.Value, "link-card")
}

func TestCardClassVariants(t *testing.T) {
	for _, class := range []string{"linkcard", "embed-card", "bookmark", "bookmark-card", "card-container"} {
		t.Run(class, func(t *testing.T) {
			fragment := `<div class="` + class + `"><a href="https://example.com/x">x</a></div>`
			result := convert(t, Config{}, fragment)
			embed := firstEmbed(t, result)
			assert.Equal(t, "card", embed.EmbedType)
		})
	}
}

func TestPlainDivIsNotACard(t *testing.T) {
	result := convert(t, Config{}, `<div class="cardigan"><p>text</p></div>`)

	require.Len(t, result.Document.Children, 1)
	assert.Equal(t, doctree.Paragraph, result.Document.Children[0].Type)
}

func TestEmbedURLResolvedAgainstBase(t *testing.T) {
	cfg := Config{BaseURL: "https://example.com/post"}
	result := convert(t, cfg, `<iframe src="/embed/7"></iframe>`)
	embed := firstEmbed(t, result)

	assert.Equal(t, "https://example.com/embed/7", embed.URL)
}

func TestUnrecognizedProviderLeftEmpty(t *testing.T) {
	result := convert(t, Config{}, `<iframe src="https://maps.example.org/view"></iframe>`)
	embed := firstEmbed(t, result)

	assert.Empty(t, embed.Provider)
	assert.Equal(t, "https://maps.example.org/view", embed.URL)
}

func TestProviderPatterns(t *testing.T) {
	cases := map[string]string{
		"https://youtu.be/abc":                 "youtube",
		"https://www.youtube.com/embed/abc":    "youtube",
		"https://player.vimeo.com/video/1":     "vimeo",
		"https://www.bilibili.com/video/BV1":   "bilibili",
		"https://twitter.com/u/status/1":       "twitter",
		"https://x.com/u/status/1":             "twitter",
		"https://codepen.io/u/embed/abc":       "codepen",
		"https://open.spotify.com/embed/track": "spotify",
		"https://example.com/embed":            "",
	}
	for embedURL, want := range cases {
		assert.Equal(t, want, providerFor(embedURL), embedURL)
	}
}
