package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pydoc-gen/internal/docstring"
	"github.com/example/pydoc-gen/internal/model"
)

func TestApplyDeclaredTypeWins(t *testing.T) {
	decl := &model.Declaration{
		Kind: model.KindFunction,
		Name: "frobnicate",
		Params: []*model.Parameter{
			{Name: "alpha", DeclaredType: "int"},
		},
		Doc: &docstring.DocComment{
			Style: docstring.StyleGoogle,
			Params: []docstring.ParamDoc{
				{Name: "alpha", Type: "float", Description: "The first value."},
			},
		},
	}

	Apply(decl)

	p := decl.Params[0]
	assert.Equal(t, "int", p.Effective)
	assert.Equal(t, "float", p.DocType)
	assert.Equal(t, "The first value.", p.Description)
	require.Len(t, p.Notes, 1)
	assert.Equal(t, NoteTypeConflict, p.Notes[0].Code)
}

func TestApplyAgreementProducesNoNote(t *testing.T) {
	decl := &model.Declaration{
		Params: []*model.Parameter{{Name: "alpha", DeclaredType: "int"}},
		Doc: &docstring.DocComment{
			Params: []docstring.ParamDoc{{Name: "alpha", Type: "int", Description: "ok"}},
		},
	}

	Apply(decl)

	assert.Equal(t, "int", decl.Params[0].Effective)
	assert.Empty(t, decl.Params[0].Notes)
}

func TestApplyDocTypeFillsMissingAnnotation(t *testing.T) {
	decl := &model.Declaration{
		Params: []*model.Parameter{{Name: "alpha"}},
		Doc: &docstring.DocComment{
			Params: []docstring.ParamDoc{{Name: "alpha", Type: "str"}},
		},
	}

	Apply(decl)

	assert.Equal(t, "str", decl.Params[0].Effective)
	assert.Empty(t, decl.Params[0].Notes)
}

func TestApplyDocOnlyParameterIsFlagged(t *testing.T) {
	decl := &model.Declaration{
		Params: []*model.Parameter{{Name: "alpha"}},
		Doc: &docstring.DocComment{
			Params: []docstring.ParamDoc{
				{Name: "alpha", Description: "real"},
				{Name: "ghost", Type: "int", Description: "documented only"},
			},
		},
	}

	Apply(decl)

	require.Len(t, decl.Params, 2)
	assert.False(t, decl.Params[0].DocOnly)
	assert.True(t, decl.Params[1].DocOnly)
	assert.Equal(t, "ghost", decl.Params[1].Name)
}

func TestApplyUndocumentedParameterKeptEmpty(t *testing.T) {
	decl := &model.Declaration{
		Params: []*model.Parameter{{Name: "alpha", DeclaredType: "int"}},
		Doc:    &docstring.DocComment{},
	}

	Apply(decl)

	assert.Equal(t, "int", decl.Params[0].Effective)
	assert.Empty(t, decl.Params[0].Description)
}

func TestApplyStarParamsMatchWithoutStars(t *testing.T) {
	decl := &model.Declaration{
		Params: []*model.Parameter{{Name: "*args"}, {Name: "**kwargs"}},
		Doc: &docstring.DocComment{
			Params: []docstring.ParamDoc{
				{Name: "args", Description: "positionals"},
				{Name: "**kwargs", Description: "keywords"},
			},
		},
	}

	Apply(decl)

	require.Len(t, decl.Params, 2)
	assert.Equal(t, "positionals", decl.Params[0].Description)
	assert.Equal(t, "keywords", decl.Params[1].Description)
}

func TestApplyReturnReconciliation(t *testing.T) {
	decl := &model.Declaration{
		Returns: &model.ReturnInfo{Annotation: "bool"},
		Doc: &docstring.DocComment{
			Returns: &docstring.ReturnDoc{Type: "int", Description: "outcome"},
		},
	}

	Apply(decl)

	assert.Equal(t, "bool", decl.Returns.Effective)
	assert.Equal(t, "outcome", decl.Returns.Description)
	require.Len(t, decl.Returns.Notes, 1)
	assert.Equal(t, NoteTypeConflict, decl.Returns.Notes[0].Code)
}

func TestEffectiveOrAny(t *testing.T) {
	assert.Equal(t, "Any", EffectiveOrAny(""))
	assert.Equal(t, "int", EffectiveOrAny("int"))
}
