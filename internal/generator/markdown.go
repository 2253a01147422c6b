// Package generator renders the resolved declaration model into Markdown
// pages: one page per source file plus an index grouped by directory.
package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/pydoc-gen/internal/model"
	"github.com/example/pydoc-gen/internal/reconcile"
)

// Renderer produces Markdown documentation pages
type Renderer struct {
	// Now supplies the generation timestamp. Tests pin it.
	Now func() time.Time
}

// NewRenderer creates a renderer using wall-clock timestamps
func NewRenderer() *Renderer {
	return &Renderer{Now: time.Now}
}

// RenderFile renders the complete documentation page for one parsed file.
func (r *Renderer) RenderFile(res *model.FileResult) string {
	var b strings.Builder
	mod := res.Module

	fmt.Fprintf(&b, "# %s\n\n", mod.Name)
	fmt.Fprintf(&b, "**Source:** `%s`\n\n", res.Path)

	if res.Failed {
		fmt.Fprintf(&b, "> ⚠️ This file could not be fully parsed (%s). Documentation may be incomplete.\n\n", res.ErrorKind)
	}

	if s := mod.Doc.Summary; s != "" {
		b.WriteString(s)
		b.WriteString("\n\n")
	}

	r.renderTOC(&b, mod)

	var functions []*model.Declaration
	var classes []*model.ClassDeclaration
	classByName := map[string]*model.ClassDeclaration{}
	for _, cls := range res.Classes {
		classByName[cls.QualifiedName] = cls
	}
	for _, child := range mod.Children {
		switch child.Kind {
		case model.KindFunction:
			functions = append(functions, child)
		case model.KindClass:
			if cls, ok := classByName[child.QualifiedName]; ok {
				classes = append(classes, cls)
			}
		}
	}

	if len(functions) > 0 {
		b.WriteString("## Functions\n\n")
		for _, fn := range functions {
			r.renderFunction(&b, fn, 3, "", nil)
		}
	}

	if len(classes) > 0 {
		b.WriteString("## Classes\n\n")
		for _, cls := range classes {
			r.renderClass(&b, cls, cls.Name, classByName)
		}
	}

	fmt.Fprintf(&b, "---\n\n*Generated on %s*\n", r.Now().Format("2006-01-02 15:04:05"))
	return b.String()
}

// renderTOC writes a table of contents over the module's own declarations.
func (r *Renderer) renderTOC(b *strings.Builder, mod *model.Declaration) {
	if len(mod.Children) == 0 {
		return
	}
	b.WriteString("## Contents\n\n")
	for _, child := range mod.Children {
		switch child.Kind {
		case model.KindClass:
			fmt.Fprintf(b, "- [%s](#%s) (class)\n", child.Name, anchor(child.Name))
			r.renderNestedTOC(b, child, child.Name, 1)
		case model.KindFunction:
			fmt.Fprintf(b, "- [%s](#%s)\n", child.Name, anchor(child.Name))
		}
	}
	b.WriteString("\n")
}

// renderNestedTOC lists classes nested inside cls, indented under its entry.
func (r *Renderer) renderNestedTOC(b *strings.Builder, cls *model.Declaration, prefix string, depth int) {
	for _, child := range cls.Children {
		if child.Kind != model.KindClass {
			continue
		}
		name := prefix + "." + child.Name
		fmt.Fprintf(b, "%s- [%s](#%s) (class)\n", strings.Repeat("  ", depth), name, anchor(name))
		r.renderNestedTOC(b, child, name, depth+1)
	}
}

// renderClass writes a class section: chain diagram, resolution order,
// constructor, own methods, inherited groups and nested classes. Nested
// classes render as sibling sections titled with their dotted path, so
// title is the class name qualified up to the module.
func (r *Renderer) renderClass(b *strings.Builder, cls *model.ClassDeclaration, title string, byName map[string]*model.ClassDeclaration) {
	fmt.Fprintf(b, "### %s\n\n", title)

	if chain := cls.Chain(); len(chain) > 1 {
		fmt.Fprintf(b, "**Inheritance:** %s\n\n", strings.Join(chain, " ← "))
	} else if len(cls.Bases) > 0 {
		names := make([]string, len(cls.Bases))
		for i, base := range cls.Bases {
			names[i] = base.Name
		}
		fmt.Fprintf(b, "**Bases:** %s\n\n", strings.Join(names, ", "))
	}
	if len(cls.MRO) > 1 {
		fmt.Fprintf(b, "**Method resolution order:** %s\n\n", strings.Join(cls.MRO, ", "))
	}
	for _, note := range cls.Notes {
		fmt.Fprintf(b, "> Note: %s\n\n", note.Message)
	}

	if s := cls.Doc.Summary; s != "" {
		b.WriteString(s)
		b.WriteString("\n\n")
	}

	if init := cls.Method("__init__"); init != nil {
		b.WriteString("#### Constructor\n\n")
		ctor := *init
		ctor.Params = withoutReceiver(init.Params)
		r.renderSignature(b, &ctor, cls.Name)
		r.renderParams(b, init)
		r.renderRaises(b, init)
		r.renderExamples(b, init)
	}

	var regular, special []*model.Declaration
	for _, m := range cls.Methods {
		if m.Name == "__init__" {
			continue
		}
		if m.Special {
			special = append(special, m)
		} else {
			regular = append(regular, m)
		}
	}

	if len(regular) > 0 {
		b.WriteString("#### Methods\n\n")
		for _, m := range regular {
			r.renderFunction(b, m, 5, cls.Overrides[m.Name], cls.OverriddenBy[m.Name])
		}
	}
	if len(special) > 0 {
		b.WriteString("#### Special methods\n\n")
		for _, m := range special {
			r.renderFunction(b, m, 5, cls.Overrides[m.Name], cls.OverriddenBy[m.Name])
		}
	}

	for _, ancestor := range cls.InheritedOrder {
		group := cls.Inherited[ancestor]
		fmt.Fprintf(b, "#### Inherited from %s\n\n", ancestor)
		for _, m := range group {
			desc := m.Doc.Summary
			if desc == "" {
				desc = "*No description.*"
			} else if i := strings.IndexByte(desc, '\n'); i >= 0 {
				desc = desc[:i]
			}
			fmt.Fprintf(b, "- `%s`: %s\n", signatureText(m, ""), desc)
		}
		b.WriteString("\n")
	}

	for _, child := range cls.Children {
		if child.Kind != model.KindClass {
			continue
		}
		if nested, ok := byName[child.QualifiedName]; ok {
			r.renderClass(b, nested, title+"."+nested.Name, byName)
		}
	}
}

// renderFunction writes one function or method section at the given heading
// level. overrides names the ancestor the method shadows; overriddenBy lists
// descendants that redefine it.
func (r *Renderer) renderFunction(b *strings.Builder, fn *model.Declaration, level int, overrides string, overriddenBy []string) {
	heading := strings.Repeat("#", level)
	title := fn.Name
	if overrides != "" {
		title += fmt.Sprintf(" *(overrides %s.%s)*", overrides, fn.Name)
	}
	fmt.Fprintf(b, "%s %s\n\n", heading, title)

	if len(overriddenBy) > 0 {
		fmt.Fprintf(b, "*Overridden by %s.*\n\n", strings.Join(overriddenBy, ", "))
	}

	if badges := badgeLine(fn); badges != "" {
		b.WriteString(badges)
		b.WriteString("\n\n")
	}

	r.renderSignature(b, fn, "")

	if s := fn.Doc.Summary; s != "" {
		b.WriteString(s)
		b.WriteString("\n\n")
	}

	r.renderParams(b, fn)
	r.renderReturns(b, fn)
	r.renderRaises(b, fn)
	r.renderExamples(b, fn)
}

// renderSignature writes the fenced Python signature. asName replaces the
// function name, which turns __init__ into the class constructor form.
func (r *Renderer) renderSignature(b *strings.Builder, fn *model.Declaration, asName string) {
	fmt.Fprintf(b, "```python\n%s\n```\n\n", signatureText(fn, asName))
}

// renderParams lists parameters with effective types and descriptions. The
// self/cls receiver is never shown.
func (r *Renderer) renderParams(b *strings.Builder, fn *model.Declaration) {
	params := withoutReceiver(fn.Params)
	if len(params) == 0 {
		return
	}

	b.WriteString("**Parameters:**\n\n")
	for _, p := range params {
		fmt.Fprintf(b, "- `%s` (`%s`)", p.Name, reconcile.EffectiveOrAny(p.Effective))
		if p.Default != "" {
			fmt.Fprintf(b, ", default `%s`", p.Default)
		}
		if p.Description != "" {
			fmt.Fprintf(b, ": %s", p.Description)
		}
		for _, note := range p.Notes {
			fmt.Fprintf(b, " *(%s)*", note.Message)
		}
		if p.DocOnly {
			b.WriteString(" *(documented but not in signature)*")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (r *Renderer) renderReturns(b *strings.Builder, fn *model.Declaration) {
	ret := fn.Returns
	if ret == nil {
		return
	}
	if ret.Effective == "" && ret.Description == "" {
		return
	}
	fmt.Fprintf(b, "**Returns:** `%s`", reconcile.EffectiveOrAny(ret.Effective))
	if ret.Description != "" {
		fmt.Fprintf(b, ": %s", ret.Description)
	}
	b.WriteString("\n\n")
	for _, note := range ret.Notes {
		fmt.Fprintf(b, "*(%s)*\n\n", note.Message)
	}
}

func (r *Renderer) renderRaises(b *strings.Builder, fn *model.Declaration) {
	if len(fn.Doc.Raises) == 0 {
		return
	}
	b.WriteString("**Raises:**\n\n")
	for _, rs := range fn.Doc.Raises {
		if rs.Description != "" {
			fmt.Fprintf(b, "- `%s`: %s\n", rs.Type, rs.Description)
		} else {
			fmt.Fprintf(b, "- `%s`\n", rs.Type)
		}
	}
	b.WriteString("\n")
}

func (r *Renderer) renderExamples(b *strings.Builder, fn *model.Declaration) {
	if len(fn.Doc.Examples) == 0 {
		return
	}
	b.WriteString("**Examples:**\n\n")
	for _, ex := range fn.Doc.Examples {
		fmt.Fprintf(b, "```python\n%s\n```\n\n", ex)
	}
}

// withoutReceiver filters self and cls out of a parameter list.
func withoutReceiver(params []*model.Parameter) []*model.Parameter {
	out := make([]*model.Parameter, 0, len(params))
	for _, p := range params {
		if p.Name == "self" || p.Name == "cls" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// signatureText renders a Python signature from the reconciled model.
func signatureText(fn *model.Declaration, asName string) string {
	name := fn.Name
	if asName != "" {
		name = asName
	}
	parts := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.DocOnly {
			continue
		}
		s := p.Name
		if p.DeclaredType != "" {
			s += ": " + p.DeclaredType
		}
		if p.Default != "" {
			if p.DeclaredType != "" {
				s += " = " + p.Default
			} else {
				s += "=" + p.Default
			}
		}
		parts = append(parts, s)
	}
	sig := fmt.Sprintf("def %s(%s)", name, strings.Join(parts, ", "))
	if fn.Async {
		sig = "async " + sig
	}
	if fn.Returns != nil && fn.Returns.Annotation != "" {
		sig += " -> " + fn.Returns.Annotation
	}
	return sig
}

// badgeLine renders the decorator-derived badges for a method.
func badgeLine(fn *model.Declaration) string {
	var badges []string
	if fn.Property {
		badges = append(badges, "`@property`")
	}
	if fn.Static {
		badges = append(badges, "`@staticmethod`")
	}
	if fn.ClassMeth {
		badges = append(badges, "`@classmethod`")
	}
	if fn.Async {
		badges = append(badges, "**async**")
	}
	if len(badges) == 0 {
		return ""
	}
	return strings.Join(badges, " ")
}

// anchor lowercases a heading into its GitHub-style link anchor. Dots are
// dropped, spaces become hyphens.
func anchor(heading string) string {
	heading = strings.ReplaceAll(heading, ".", "")
	return strings.ToLower(strings.ReplaceAll(heading, " ", "-"))
}
