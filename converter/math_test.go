package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipdoc/clipdoc/doctree"
)

const katexInline = `<span class="katex">` +
	`<span class="katex-mathml"><math><semantics><mrow><mi>E</mi></mrow>` +
	`<annotation encoding="application/x-tex">E=mc^2</annotation>` +
	`</semantics></math></span>` +
	`<span class="katex-html">E=mc2</span></span>`

func TestKatexInlineFormula(t *testing.T) {
	result := convert(t, Config{}, `<p>mass energy: `+katexInline+`</p>`)

	para := result.Document.Children[0]
	require.Len(t, para.Children, 2)
	math := para.Children[1]
	assert.Equal(t, doctree.MathInline, math.Type)
	assert.Equal(t, "E=mc^2", math.Value)
	assert.Equal(t, "katex", math.Engine)
	assert.False(t, math.Display)

	require.Len(t, result.Assets.Formulas, 1)
	entry := result.Assets.Formulas[0]
	assert.Equal(t, math.AssetID, entry.ID)
	assert.Equal(t, "E=mc^2", entry.Tex)
}

func TestKatexDisplayFormula(t *testing.T) {
	fragment := `<span class="katex-display">` + katexInline + `</span>`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Document.Children, 1)
	math := result.Document.Children[0]
	assert.Equal(t, doctree.MathBlock, math.Type)
	assert.True(t, math.Display)
	assert.Equal(t, "E=mc^2", math.Value)
}

func TestTexScriptFormula(t *testing.T) {
	fragment := `<script type="math/tex; mode=display">\int_0^1 x\,dx</script>`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Document.Children, 1)
	math := result.Document.Children[0]
	assert.Equal(t, doctree.MathBlock, math.Type)
	assert.Equal(t, `\int_0^1 x\,dx`, math.Value)
	assert.Equal(t, "mathjax", math.Engine)
}

func TestTexScriptInlineMode(t *testing.T) {
	result := convert(t, Config{}, `<p><script type="math/tex">a^2</script></p>`)

	math := result.Document.Children[0].Children[0]
	assert.Equal(t, doctree.MathInline, math.Type)
	assert.False(t, math.Display)
}

func TestMathJaxContainerFormula(t *testing.T) {
	fragment := `<mjx-container display="true">` +
		`<math><semantics><mrow><mi>x</mi></mrow>` +
		`<annotation encoding="application/x-tex">x^2+1</annotation>` +
		`</semantics></math></mjx-container>`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Document.Children, 1)
	math := result.Document.Children[0]
	assert.Equal(t, doctree.MathBlock, math.Type)
	assert.Equal(t, "x^2+1", math.Value)
	assert.Equal(t, "mathjax", math.Engine)
}

func TestNativeMathFallsBackToTextContent(t *testing.T) {
	result := convert(t, Config{}, `<p><math><mi>y</mi></math></p>`)

	math := result.Document.Children[0].Children[0]
	assert.Equal(t, doctree.MathInline, math.Type)
	assert.Equal(t, "y", math.Value)
	assert.Equal(t, "mathml", math.Engine)
}

func TestFormulaMarkerRoundTrip(t *testing.T) {
	fragment := `<section data-formula="a+b" data-display="true" data-engine="katex">$$a+b$$</section>`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Document.Children, 1)
	math := result.Document.Children[0]
	assert.Equal(t, doctree.MathBlock, math.Type)
	assert.Equal(t, "a+b", math.Value)
	assert.Equal(t, "katex", math.Engine)
}

func TestEmptyFormulaDroppedSilently(t *testing.T) {
	result := convert(t, Config{}, `<span class="katex"><span class="katex-html">?</span></span>`)

	assert.Empty(t, result.Document.Children)
	assert.Empty(t, result.Assets.Formulas)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningEmptyFormula, result.Warnings[0].Type)
}

func TestRepeatedFormulaNotDeduplicated(t *testing.T) {
	fragment := `<p>` + katexInline + ` and again ` + katexInline + `</p>`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Assets.Formulas, 2)
	assert.NotEqual(t, result.Assets.Formulas[0].ID, result.Assets.Formulas[1].ID)
	assert.Equal(t, result.Assets.Formulas[0].Tex, result.Assets.Formulas[1].Tex)
}

func TestDetectorPriorityScriptBeatsMarker(t *testing.T) {
	fragment := `<script type="math/tex" data-formula="marker">script-source</script>`
	result := convert(t, Config{}, fragment)

	require.Len(t, result.Assets.Formulas, 1)
	assert.Equal(t, "script-source", result.Assets.Formulas[0].Tex)
	assert.Equal(t, "mathjax", result.Assets.Formulas[0].Engine)
}
