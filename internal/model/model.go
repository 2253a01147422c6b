// Package model holds the structural records produced by extraction and
// consumed by the inheritance resolver and the renderer. Declarations are
// immutable once extracted; only the resolution fields of ClassDeclaration
// are populated later, after every file is known.
package model

import "github.com/example/pydoc-gen/internal/docstring"

// Kind classifies a Declaration.
type Kind string

const (
	KindModule   Kind = "module"
	KindClass    Kind = "class"
	KindFunction Kind = "function"
	KindMethod   Kind = "method"
)

// Location is a source position range within one file.
type Location struct {
	File      string
	StartLine int
	EndLine   int
}

// Note is a non-fatal advisory attached during reconciliation or resolution.
type Note struct {
	Code    string // e.g. "type-conflict", "mro-ambiguous"
	Message string
}

// Parameter is one entry of a callable's signature, merged with whatever the
// docstring documented for it.
type Parameter struct {
	Name         string
	DeclaredType string // from the source annotation
	DocType      string // from the docstring
	Effective    string // reconciled type shown to the renderer
	Default      string // default value text, "" when none
	Description  string
	// DocOnly marks a parameter that appears in the docstring but not in
	// the signature.
	DocOnly bool
	Notes   []Note
}

// ReturnInfo is the reconciled return slot of a callable.
type ReturnInfo struct {
	Annotation  string // from the source annotation
	DocType     string // from the docstring
	Effective   string
	Description string
	Notes       []Note
}

// Declaration is the base structural unit: a module, class, function or
// method, with children in source order.
type Declaration struct {
	Kind          Kind
	Name          string
	QualifiedName string
	Location      Location
	Doc           *docstring.DocComment
	Children      []*Declaration

	// Callable fields, empty for modules and classes.
	Params     []*Parameter
	Returns    *ReturnInfo
	Decorators []string
	Async      bool
	Static     bool
	ClassMeth  bool
	Property   bool
	// Special marks dunder names such as __init__.
	Special bool
}

// ResolveState tracks a class through the resolution passes.
type ResolveState int

const (
	StateUnresolved ResolveState = iota
	StateBasesLinked
	StateOrderComputed
	StateOverridesTagged
	StateResolved
)

// BaseRef is a direct base-class reference, resolved lazily by name.
type BaseRef struct {
	Name string
	// External is set when the name is not found among the extracted
	// classes; such bases are rendered by name only.
	External bool
}

// ClassDeclaration specializes Declaration with inheritance data. The
// resolution fields are empty until the resolver has run over the complete
// class set.
type ClassDeclaration struct {
	*Declaration

	Bases   []BaseRef
	Methods []*Declaration

	State ResolveState
	// MRO is the linearized method-resolution order, the class itself first.
	MRO []string
	// Overrides maps an own-method name to the nearest ancestor it shadows.
	Overrides map[string]string
	// OverriddenBy maps an own-method name to the descendant classes that
	// redefine it.
	OverriddenBy map[string][]string
	// Inherited groups inherited, non-overridden methods by the ancestor
	// that provides the effective implementation.
	Inherited map[string][]*Declaration
	// InheritedOrder lists the keys of Inherited in resolution order.
	InheritedOrder []string
	Notes          []Note
}

// Method returns the class's own method with the given name, or nil.
func (c *ClassDeclaration) Method(name string) *Declaration {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Chain returns the ancestor names for "A ← B ← C" display: most distant
// ancestor first, the class itself last. External bases are included by name.
func (c *ClassDeclaration) Chain() []string {
	if len(c.MRO) < 2 {
		return nil
	}
	chain := make([]string, 0, len(c.MRO))
	for i := len(c.MRO) - 1; i >= 0; i-- {
		chain = append(chain, c.MRO[i])
	}
	return chain
}

// InheritanceEdge is a directed child → parent relation. Edges per child
// keep the declaration order of bases, which drives linearization.
type InheritanceEdge struct {
	Child  string
	Parent string
}

// FileResult is the outcome of extracting one source file.
type FileResult struct {
	Path   string
	Module *Declaration
	// Classes lists every class found in the file, in source order,
	// including nested ones.
	Classes []*ClassDeclaration
	// Failed is set when the file could not be parsed into a usable tree;
	// Module then carries the error marker with zero children.
	Failed    bool
	ErrorKind string
	Err       error
}

// RunStats aggregates per-file outcomes for the whole run.
type RunStats struct {
	FilesProcessed int
	FilesSucceeded int
	FilesFailed    int
	// ErrorTypes maps an error kind to its frequency.
	ErrorTypes map[string]int
}

// NewRunStats returns an empty statistics record.
func NewRunStats() *RunStats {
	return &RunStats{ErrorTypes: make(map[string]int)}
}

// Record folds one file result into the counters.
func (s *RunStats) Record(r *FileResult) {
	s.FilesProcessed++
	if r.Failed {
		s.FilesFailed++
		kind := r.ErrorKind
		if kind == "" {
			kind = "unknown"
		}
		s.ErrorTypes[kind]++
		return
	}
	s.FilesSucceeded++
}
