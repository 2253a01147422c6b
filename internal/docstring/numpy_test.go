package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumpyParse(t *testing.T) {
	raw := `Compute the frobnication of two values.

    This runs in constant time.

    Parameters
    ----------
    alpha : int
        The first value.
    beta : str
        The second value,
        continued on a second line.

    Returns
    -------
    bool
        True when frobnication succeeds.

    Raises
    ------
    ValueError
        If alpha is negative.

    Examples
    --------
    >>> frobnicate(1, "x")
    True
    `

	doc := For(StyleNumpy).Parse(raw)

	assert.Equal(t, StyleNumpy, doc.Style)
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
}

func TestNumpyParseUnknownUnderlinedTitle(t *testing.T) {
	// An underlined title outside the known section set is ordinary text.
	raw := `Summary.

    Notes
    -----
    Some note text.
    `

	doc := For(StyleNumpy).Parse(raw)

	assert.Contains(t, doc.Summary, "Notes")
	assert.Contains(t, doc.Summary, "Some note text.")
	assert.Empty(t, doc.Params)
}

func TestNumpyParseEntryWithoutType(t *testing.T) {
	raw := `Summary.

    Parameters
    ----------
    name
        Who to greet.
    `

	doc := For(StyleNumpy).Parse(raw)

	require.Len(t, doc.Params, 1)
	assert.Equal(t, "name", doc.Params[0].Name)
	assert.Empty(t, doc.Params[0].Type)
	assert.Equal(t, "Who to greet.", doc.Params[0].Description)
}
