// Package reconcile merges source-level type annotations with the types
// mentioned in a docstring, producing the single effective type shown to the
// renderer. The declared type always wins; a disagreement is recorded as an
// advisory note, never as a failure.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/example/pydoc-gen/internal/model"
)

// NoteTypeConflict is the note code attached when declared and documented
// types disagree.
const NoteTypeConflict = "type-conflict"

// Apply folds decl.Doc's parameter and return documentation into the
// declaration's signature records. Parameters documented but not declared
// are appended flagged as documentation-only.
func Apply(decl *model.Declaration) {
	if decl.Doc == nil {
		return
	}

	byName := make(map[string]*model.Parameter, len(decl.Params))
	for _, p := range decl.Params {
		byName[strings.TrimLeft(p.Name, "*")] = p
	}

	for _, d := range decl.Doc.Params {
		p, ok := byName[strings.TrimLeft(d.Name, "*")]
		if !ok {
			decl.Params = append(decl.Params, &model.Parameter{
				Name:        d.Name,
				DocType:     d.Type,
				Effective:   d.Type,
				Description: d.Description,
				DocOnly:     true,
			})
			continue
		}
		p.DocType = d.Type
		p.Description = d.Description
	}

	for _, p := range decl.Params {
		if p.DocOnly {
			continue
		}
		p.Effective, p.Notes = effectiveType(p.DeclaredType, p.DocType, p.Notes)
	}

	if ret := decl.Doc.Returns; ret != nil {
		if decl.Returns == nil {
			decl.Returns = &model.ReturnInfo{}
		}
		decl.Returns.DocType = ret.Type
		decl.Returns.Description = ret.Description
	}
	if decl.Returns != nil {
		decl.Returns.Effective, decl.Returns.Notes = effectiveType(decl.Returns.Annotation, decl.Returns.DocType, decl.Returns.Notes)
	}
}

// ApplyAll reconciles a declaration and all of its descendants.
func ApplyAll(decl *model.Declaration) {
	Apply(decl)
	for _, child := range decl.Children {
		ApplyAll(child)
	}
}

// effectiveType picks the type to display: declared if present, else
// documented, else empty. A textual disagreement keeps the declared type and
// records exactly one reconciliation note.
func effectiveType(declared, documented string, notes []model.Note) (string, []model.Note) {
	declared = strings.TrimSpace(declared)
	documented = strings.TrimSpace(documented)

	if declared == "" {
		return documented, notes
	}
	if documented != "" && documented != declared {
		notes = append(notes, model.Note{
			Code:    NoteTypeConflict,
			Message: fmt.Sprintf("documented type %q differs from declared type %q", documented, declared),
		})
	}
	return declared, notes
}

// EffectiveOrAny renders an effective type, falling back to Any the way the
// generated documentation displays unspecified types.
func EffectiveOrAny(effective string) string {
	if effective == "" {
		return "Any"
	}
	return effective
}
