package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleParse(t *testing.T) {
	raw := `Compute the frobnication of two values.

    This runs in constant time.

    Args:
        alpha (int): The first value.
        beta (str): The second value,
            continued on a second line.

    Returns:
        bool: True when frobnication succeeds.

    Raises:
        ValueError: If alpha is negative.

    Examples:
        >>> frobnicate(1, "x")
        True
    `

	doc := For(StyleGoogle).Parse(raw)

	assert.Equal(t, StyleGoogle, doc.Style)
	assert.Equal(t, "Compute the frobnication of two values.\n\nThis runs in constant time.", doc.Summary)

	require.Len(t, doc.Params, 2)
	assert.Equal(t, ParamDoc{Name: "alpha", Type: "int", Description: "The first value."}, doc.Params[0])
	assert.Equal(t, ParamDoc{Name: "beta", Type: "str", Description: "The second value, continued on a second line."}, doc.Params[1])

	require.NotNil(t, doc.Returns)
	assert.Equal(t, "bool", doc.Returns.Type)
	assert.Equal(t, "True when frobnication succeeds.", doc.Returns.Description)

	require.Len(t, doc.Raises, 1)
	assert.Equal(t, "ValueError", doc.Raises[0].Type)
	assert.Equal(t, "If alpha is negative.", doc.Raises[0].Description)

	require.Len(t, doc.Examples, 1)
	assert.Contains(t, doc.Examples[0], ">>> frobnicate(1, \"x\")")
}

func TestGoogleParseUntypedParams(t *testing.T) {
	raw := `Do a thing.

    Args:
        name: Who to greet.
        *args: Extra positionals.
        **kwargs: Extra keywords.
    `

	doc := For(StyleGoogle).Parse(raw)

	require.Len(t, doc.Params, 3)
	assert.Equal(t, "name", doc.Params[0].Name)
	assert.Empty(t, doc.Params[0].Type)
	assert.Equal(t, "*args", doc.Params[1].Name)
	assert.Equal(t, "**kwargs", doc.Params[2].Name)
}

func TestGoogleParseSummaryOnly(t *testing.T) {
	doc := For(StyleGoogle).Parse("Just a summary line.")

	assert.Equal(t, "Just a summary line.", doc.Summary)
	assert.Empty(t, doc.Params)
	assert.Nil(t, doc.Returns)
}

func TestGoogleParseKeepsMalformedSectionText(t *testing.T) {
	// A section whose body matches no entry must fold back into the summary
	// so no input text is lost.
	raw := `Summary.

    Args:
        - not an entry line
        - also not one
    `

	doc := For(StyleGoogle).Parse(raw)

	assert.Empty(t, doc.Params)
	assert.Contains(t, doc.Summary, "Args:")
	assert.Contains(t, doc.Summary, "- not an entry line")
	assert.Contains(t, doc.Summary, "- also not one")
}

func TestGoogleParseReturnsWithoutType(t *testing.T) {
	raw := `Summary.

    Returns:
        The computed result.
    `

	doc := For(StyleGoogle).Parse(raw)

	require.NotNil(t, doc.Returns)
	assert.Empty(t, doc.Returns.Type)
	assert.Equal(t, "The computed result.", doc.Returns.Description)
}
