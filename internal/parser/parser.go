// Package parser walks tree-sitter Python syntax trees and builds the
// ordered Declaration forest for one file: a module root with classes,
// functions and methods in source order, each with its docstring attached
// and its signature reconciled against the documentation.
//
// A file that cannot be parsed never aborts a run. The extractor returns a
// degraded result carrying an error marker and a per-file failure flag, and
// the caller aggregates the outcome into run statistics.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/example/pydoc-gen/internal/docstring"
	"github.com/example/pydoc-gen/internal/model"
	"github.com/example/pydoc-gen/internal/reconcile"
)

// Error kinds recorded in run statistics.
const (
	ErrKindSyntax = "syntax-error"
	ErrKindRead   = "read-error"
	ErrKindParse  = "parse-error"
)

// ErrSyntax marks a file whose source contains syntax errors; a partial
// tree is still extracted.
var ErrSyntax = errors.New("source contains syntax errors")

// ErrNoTree marks a file for which the parser produced no tree at all.
var ErrNoTree = errors.New("no syntax tree produced")

// Extractor builds Declaration forests from Python source.
type Extractor struct {
	style docstring.Style
	doc   docstring.Parser
}

// New returns an extractor that parses docstrings under the given style.
func New(style docstring.Style) *Extractor {
	return &Extractor{style: style, doc: docstring.For(style)}
}

// ExtractFile reads and extracts one file from disk.
func (e *Extractor) ExtractFile(ctx context.Context, path string) *model.FileResult {
	src, err := os.ReadFile(path)
	if err != nil {
		return failedResult(path, ErrKindRead, fmt.Errorf("read %s: %w", path, err))
	}
	return e.Extract(ctx, path, src)
}

// Extract parses src and builds the file's Declaration forest. The returned
// result is never nil: on failure it carries a module declaration with an
// error marker and zero children so structural coverage is preserved.
func (e *Extractor) Extract(ctx context.Context, path string, src []byte) *model.FileResult {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return failedResult(path, ErrKindParse, fmt.Errorf("parse %s: %w", path, err))
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return failedResult(path, ErrKindParse, fmt.Errorf("parse %s: %w", path, ErrNoTree))
	}

	res := &model.FileResult{Path: path}
	if root.HasError() {
		// Partial tree: flag the file failed but keep whatever extracted.
		res.Failed = true
		res.ErrorKind = ErrKindSyntax
		res.Err = fmt.Errorf("parse %s: %w", path, ErrSyntax)
	}

	w := &walker{extractor: e, src: src, path: path, result: res}
	res.Module = w.module(root)
	return res
}

// failedResult builds the degraded single-declaration output for a file that
// produced no tree at all.
func failedResult(path, kind string, err error) *model.FileResult {
	name := moduleName(path)
	return &model.FileResult{
		Path:      path,
		Failed:    true,
		ErrorKind: kind,
		Err:       err,
		Module: &model.Declaration{
			Kind:          model.KindModule,
			Name:          name,
			QualifiedName: name,
			Location:      model.Location{File: path, StartLine: 1, EndLine: 1},
			Doc:           docstring.None(),
		},
	}
}

func moduleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".py")
}

// walker carries per-file extraction state.
type walker struct {
	extractor *Extractor
	src       []byte
	path      string
	result    *model.FileResult
}

func (w *walker) text(n *sitter.Node) string {
	return string(w.src[n.StartByte():n.EndByte()])
}

func (w *walker) location(n *sitter.Node) model.Location {
	return model.Location{
		File:      w.path,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
	}
}

// module builds the root declaration and its children in source order.
func (w *walker) module(root *sitter.Node) *model.Declaration {
	name := moduleName(w.path)
	mod := &model.Declaration{
		Kind:          model.KindModule,
		Name:          name,
		QualifiedName: name,
		Location:      w.location(root),
		Doc:           w.docComment(w.moduleDocstring(root)),
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "class_definition":
			if cls := w.class(child, mod.QualifiedName, nil); cls != nil {
				mod.Children = append(mod.Children, cls.Declaration)
			}
		case "function_definition":
			if fn := w.function(child, mod.QualifiedName, nil, false); fn != nil {
				mod.Children = append(mod.Children, fn)
			}
		case "decorated_definition":
			w.decorated(child, mod.QualifiedName, false, func(d *model.Declaration) {
				mod.Children = append(mod.Children, d)
			})
		}
	}
	return mod
}

// moduleDocstring finds the module-level docstring: the first statement of
// the module when it is a bare string literal. Comments are not statements
// and may precede it, but any real statement, imports included, ends the
// search.
func (w *walker) moduleDocstring(root *sitter.Node) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "expression_statement":
			if child.ChildCount() > 0 && child.Child(0).Type() == "string" {
				return stringContent(w.text(child.Child(0)))
			}
			return ""
		case "comment":
			continue
		default:
			return ""
		}
	}
	return ""
}

// decorated unwraps a decorated_definition, passing the decorator names to
// the inner class or function.
func (w *walker) decorated(node *sitter.Node, qualifier string, inClass bool, emit func(*model.Declaration)) {
	var decorators []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "decorator":
			if name := decoratorName(child, w.src); name != "" {
				decorators = append(decorators, name)
			}
		case "class_definition":
			if cls := w.class(child, qualifier, decorators); cls != nil {
				emit(cls.Declaration)
			}
		case "function_definition":
			if fn := w.function(child, qualifier, decorators, inClass); fn != nil {
				emit(fn)
			}
		}
	}
}

// class extracts a class definition together with its methods and nested
// classes, and registers it in the file result's class list.
func (w *walker) class(node *sitter.Node, qualifier string, decorators []string) *model.ClassDeclaration {
	var name string
	var bases []model.BaseRef
	var body *sitter.Node

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			if name == "" {
				name = w.text(child)
			}
		case "argument_list":
			bases = w.baseRefs(child)
		case "block":
			body = child
		}
	}
	if name == "" {
		return nil
	}

	raw := ""
	if body != nil {
		raw = w.blockDocstring(body)
	}

	cls := &model.ClassDeclaration{
		Declaration: &model.Declaration{
			Kind:          model.KindClass,
			Name:          name,
			QualifiedName: qualifier + "." + name,
			Location:      w.location(node),
			Doc:           w.docComment(raw),
			Decorators:    decorators,
		},
		Bases:     bases,
		Overrides: map[string]string{},
		Inherited: map[string][]*model.Declaration{},
	}

	if body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			child := body.Child(i)
			switch child.Type() {
			case "function_definition":
				if m := w.function(child, cls.QualifiedName, nil, true); m != nil {
					cls.Children = append(cls.Children, m)
					cls.Methods = append(cls.Methods, m)
				}
			case "decorated_definition":
				w.decorated(child, cls.QualifiedName, true, func(d *model.Declaration) {
					cls.Children = append(cls.Children, d)
					if d.Kind == model.KindMethod {
						cls.Methods = append(cls.Methods, d)
					}
				})
			case "class_definition":
				if nested := w.class(child, cls.QualifiedName, nil); nested != nil {
					cls.Children = append(cls.Children, nested.Declaration)
				}
			}
		}
	}

	w.result.Classes = append(w.result.Classes, cls)
	return cls
}

// baseRefs reads the direct base list in declaration order. Qualified names
// are stripped to their last segment and subscripted bases (Generic[T]) to
// the name before the bracket, matching how the class registry is keyed.
func (w *walker) baseRefs(args *sitter.Node) []model.BaseRef {
	var bases []model.BaseRef
	for i := 0; i < int(args.ChildCount()); i++ {
		arg := args.Child(i)
		switch arg.Type() {
		case "identifier":
			bases = append(bases, model.BaseRef{Name: w.text(arg)})
		case "attribute":
			full := w.text(arg)
			if idx := strings.LastIndex(full, "."); idx >= 0 {
				full = full[idx+1:]
			}
			bases = append(bases, model.BaseRef{Name: full})
		case "subscript":
			for j := 0; j < int(arg.ChildCount()); j++ {
				inner := arg.Child(j)
				if inner.Type() == "identifier" || inner.Type() == "attribute" {
					name := w.text(inner)
					if idx := strings.LastIndex(name, "."); idx >= 0 {
						name = name[idx+1:]
					}
					bases = append(bases, model.BaseRef{Name: name})
					break
				}
			}
		}
	}
	return bases
}

// function extracts a function or method definition.
func (w *walker) function(node *sitter.Node, qualifier string, decorators []string, inClass bool) *model.Declaration {
	var name string
	var params []*model.Parameter
	var returns *model.ReturnInfo
	var async bool
	var body *sitter.Node

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "async":
			async = true
		case "identifier":
			if name == "" {
				name = w.text(child)
			}
		case "parameters":
			params = w.parameters(child)
		case "type":
			returns = &model.ReturnInfo{Annotation: w.text(child)}
		case "block":
			body = child
		}
	}
	if name == "" {
		return nil
	}

	kind := model.KindFunction
	if inClass {
		kind = model.KindMethod
	}

	raw := ""
	if body != nil {
		raw = w.blockDocstring(body)
	}

	decl := &model.Declaration{
		Kind:          kind,
		Name:          name,
		QualifiedName: qualifier + "." + name,
		Location:      w.location(node),
		Doc:           w.docComment(raw),
		Params:        params,
		Returns:       returns,
		Decorators:    decorators,
		Async:         async,
		Special:       strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"),
	}
	for _, dec := range decorators {
		switch dec {
		case "property":
			decl.Property = true
		case "staticmethod":
			decl.Static = true
		case "classmethod":
			decl.ClassMeth = true
		}
	}

	reconcile.Apply(decl)
	return decl
}

// parameters reads a signature's parameter list in order. Star parameters
// keep their star prefix in the name, the way Python renders them.
func (w *walker) parameters(node *sitter.Node) []*model.Parameter {
	var params []*model.Parameter
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			params = append(params, &model.Parameter{Name: w.text(child)})
		case "list_splat_pattern", "dictionary_splat_pattern":
			params = append(params, &model.Parameter{Name: w.text(child)})
		case "typed_parameter":
			params = append(params, w.typedParameter(child))
		case "default_parameter", "typed_default_parameter":
			params = append(params, w.defaultParameter(child))
		}
	}
	return params
}

// typedParameter handles "name: type".
func (w *walker) typedParameter(node *sitter.Node) *model.Parameter {
	p := &model.Parameter{}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier", "list_splat_pattern", "dictionary_splat_pattern":
			if p.Name == "" {
				p.Name = w.text(child)
			}
		case "type":
			p.DeclaredType = w.text(child)
		}
	}
	return p
}

// defaultParameter handles "name=value" and "name: type = value". The
// default is kept as literal source text.
func (w *walker) defaultParameter(node *sitter.Node) *model.Parameter {
	p := &model.Parameter{}
	seenEq := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch {
		case child.Type() == "=":
			seenEq = true
		case child.Type() == "type":
			p.DeclaredType = w.text(child)
		case child.Type() == "identifier" && p.Name == "":
			p.Name = w.text(child)
		case seenEq && child.Type() != ",":
			p.Default = w.text(child)
		}
	}
	return p
}

// blockDocstring returns the docstring of a block: its first statement when
// that statement is a bare string literal.
func (w *walker) blockDocstring(block *sitter.Node) string {
	if block.ChildCount() == 0 {
		return ""
	}
	first := block.Child(0)
	if first.Type() != "expression_statement" || first.ChildCount() == 0 {
		return ""
	}
	str := first.Child(0)
	if str.Type() != "string" {
		return ""
	}
	return stringContent(w.text(str))
}

// docComment runs the configured docstring parser, or produces the
// none-style record when there is no docstring text.
func (w *walker) docComment(raw string) *docstring.DocComment {
	if strings.TrimSpace(raw) == "" {
		return docstring.None()
	}
	return w.extractor.doc.Parse(raw)
}

// stringContent strips quoting from a Python string literal, including
// r/b/f prefixes and triple quotes.
func stringContent(raw string) string {
	raw = strings.TrimLeft(raw, "rbufRBUF")
	for _, q := range []string{`"""`, `'''`} {
		if strings.HasPrefix(raw, q) {
			raw = strings.TrimPrefix(raw, q)
			raw = strings.TrimSuffix(raw, q)
			return raw
		}
	}
	return strings.Trim(raw, `"'`)
}

// decoratorName extracts the name of a decorator node: @name, @pkg.name or
// @name(args).
func decoratorName(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier", "attribute":
			return string(src[child.StartByte():child.EndByte()])
		case "call":
			for j := 0; j < int(child.ChildCount()); j++ {
				inner := child.Child(j)
				if inner.Type() == "identifier" || inner.Type() == "attribute" {
					return string(src[inner.StartByte():inner.EndByte()])
				}
			}
		}
	}
	return ""
}
