package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pydoc-gen/internal/docstring"
	"github.com/example/pydoc-gen/internal/model"
)

const sampleSource = `"""Utilities for greeting people."""

import os


def greet(name: str, excited: bool = False) -> str:
    """Build a greeting line.

    Args:
        name (str): Who to greet.
        excited (bool): Whether to shout.

    Returns:
        str: The greeting line.
    """
    return name


async def fetch(url, *args, **kwargs):
    """Fetch a resource."""
    return url


class Greeter(BaseGreeter):
    """Greets people."""

    def __init__(self, prefix: str = "Hi"):
        """Set up the greeter.

        Args:
            prefix (str): Salutation prefix.
        """
        self.prefix = prefix

    def greet(self, name: str) -> str:
        """Greet by name."""
        return self.prefix + name

    @property
    def loud(self) -> bool:
        """Whether greetings shout."""
        return False

    @staticmethod
    def helper():
        return None
`

func extract(t *testing.T, src string) *model.FileResult {
	t.Helper()
	res := New(docstring.StyleGoogle).Extract(context.Background(), "pkg/greeting.py", []byte(src))
	require.NotNil(t, res)
	require.NotNil(t, res.Module)
	return res
}

func TestExtractModule(t *testing.T) {
	res := extract(t, sampleSource)

	assert.False(t, res.Failed)
	mod := res.Module
	assert.Equal(t, model.KindModule, mod.Kind)
	assert.Equal(t, "greeting", mod.Name)
	assert.Equal(t, "Utilities for greeting people.", mod.Doc.Summary)

	// Declarations arrive in source order.
	require.Len(t, mod.Children, 3)
	assert.Equal(t, "greet", mod.Children[0].Name)
	assert.Equal(t, "fetch", mod.Children[1].Name)
	assert.Equal(t, "Greeter", mod.Children[2].Name)
	assert.Equal(t, model.KindFunction, mod.Children[0].Kind)
	assert.Equal(t, model.KindClass, mod.Children[2].Kind)
}

func TestExtractFunctionSignature(t *testing.T) {
	res := extract(t, sampleSource)
	fn := res.Module.Children[0]

	assert.Equal(t, "greeting.greet", fn.QualifiedName)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "name", fn.Params[0].Name)
	assert.Equal(t, "str", fn.Params[0].DeclaredType)
	assert.Equal(t, "excited", fn.Params[1].Name)
	assert.Equal(t, "bool", fn.Params[1].DeclaredType)
	assert.Equal(t, "False", fn.Params[1].Default)

	require.NotNil(t, fn.Returns)
	assert.Equal(t, "str", fn.Returns.Annotation)
	assert.Equal(t, "str", fn.Returns.Effective)

	// Docstring reconciled into the signature records.
	assert.Equal(t, "Who to greet.", fn.Params[0].Description)
	assert.Equal(t, "The greeting line.", fn.Returns.Description)
}

func TestExtractAsyncAndStarParams(t *testing.T) {
	res := extract(t, sampleSource)
	fn := res.Module.Children[1]

	assert.True(t, fn.Async)
	require.Len(t, fn.Params, 3)
	assert.Equal(t, "url", fn.Params[0].Name)
	assert.Equal(t, "*args", fn.Params[1].Name)
	assert.Equal(t, "**kwargs", fn.Params[2].Name)
}

func TestExtractClass(t *testing.T) {
	res := extract(t, sampleSource)

	require.Len(t, res.Classes, 1)
	cls := res.Classes[0]
	assert.Equal(t, "Greeter", cls.Name)
	assert.Equal(t, "greeting.Greeter", cls.QualifiedName)
	assert.Equal(t, "Greets people.", cls.Doc.Summary)

	require.Len(t, cls.Bases, 1)
	assert.Equal(t, "BaseGreeter", cls.Bases[0].Name)

	require.Len(t, cls.Methods, 4)
	assert.Equal(t, "__init__", cls.Methods[0].Name)
	assert.True(t, cls.Methods[0].Special)
	assert.Equal(t, model.KindMethod, cls.Methods[0].Kind)

	loud := cls.Method("loud")
	require.NotNil(t, loud)
	assert.True(t, loud.Property)
	assert.Equal(t, []string{"property"}, loud.Decorators)

	helper := cls.Method("helper")
	require.NotNil(t, helper)
	assert.True(t, helper.Static)
}

func TestExtractSyntaxErrorIsDegraded(t *testing.T) {
	res := extract(t, "def broken(:\n    pass\n")

	assert.True(t, res.Failed)
	assert.Equal(t, ErrKindSyntax, res.ErrorKind)
	assert.ErrorIs(t, res.Err, ErrSyntax)
	require.NotNil(t, res.Module)
	assert.Equal(t, "greeting", res.Module.Name)
}

func TestExtractNoDocstring(t *testing.T) {
	res := extract(t, "def bare():\n    pass\n")

	require.Len(t, res.Module.Children, 1)
	fn := res.Module.Children[0]
	assert.Equal(t, docstring.StyleNone, fn.Doc.Style)
	assert.Empty(t, fn.Doc.Summary)
}

func TestModuleDocstringMustBeFirstStatement(t *testing.T) {
	res := extract(t, "import os\n\n\"\"\"Not a docstring.\"\"\"\n\n\ndef f():\n    pass\n")

	assert.Equal(t, docstring.StyleNone, res.Module.Doc.Style)
	assert.Empty(t, res.Module.Doc.Summary)
}

func TestModuleDocstringAfterComment(t *testing.T) {
	res := extract(t, "# coding: utf-8\n\"\"\"Real docstring.\"\"\"\n")

	assert.Equal(t, "Real docstring.", res.Module.Doc.Summary)
}

func TestExtractSubscriptedBase(t *testing.T) {
	src := "class Box(Generic[T], collections.UserList):\n    pass\n"
	res := extract(t, src)

	require.Len(t, res.Classes, 1)
	bases := res.Classes[0].Bases
	require.Len(t, bases, 2)
	assert.Equal(t, "Generic", bases[0].Name)
	assert.Equal(t, "UserList", bases[1].Name)
}

func TestExtractFileMissing(t *testing.T) {
	res := New(docstring.StyleGoogle).ExtractFile(context.Background(), "does/not/exist.py")

	assert.True(t, res.Failed)
	assert.Equal(t, ErrKindRead, res.ErrorKind)
	assert.Error(t, res.Err)
	require.NotNil(t, res.Module)
	assert.Equal(t, "exist", res.Module.Name)
}
