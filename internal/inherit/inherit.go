// Package inherit links the classes collected across a run into an
// inheritance graph, computes method resolution order with C3 linearization,
// and tags method overrides so the renderer can show where each member
// actually comes from.
package inherit

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/example/pydoc-gen/internal/model"
)

// Note codes attached to classes during resolution.
const (
	NoteMROAmbiguous = "mro-ambiguous"
	NoteNameShadowed = "name-shadowed"
)

// Special methods that stay visible in inherited-member grouping. All other
// dunders are treated as implementation plumbing and skipped.
var visibleDunders = map[string]bool{
	"__str__":  true,
	"__repr__": true,
}

// Registry maps bare class names to their declarations across every parsed
// file. Python base lists refer to classes by name, so the registry is keyed
// the same way. A duplicate name shadows the earlier entry and records a
// note on the winner.
type Registry struct {
	classes map[string]*model.ClassDeclaration
	order   []string
	logger  *slog.Logger
}

// NewRegistry returns an empty class registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{classes: map[string]*model.ClassDeclaration{}, logger: logger}
}

// Add registers every class from a file result, including nested classes.
func (r *Registry) Add(res *model.FileResult) {
	for _, cls := range res.Classes {
		if prev, ok := r.classes[cls.Name]; ok {
			r.logger.Debug("class name shadowed",
				"name", cls.Name,
				"kept", cls.Location.File,
				"shadowed", prev.Location.File)
			cls.Notes = append(cls.Notes, model.Note{
				Code:    NoteNameShadowed,
				Message: fmt.Sprintf("shadows %s declared in %s", cls.Name, prev.Location.File),
			})
		} else {
			r.order = append(r.order, cls.Name)
		}
		r.classes[cls.Name] = cls
	}
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*model.ClassDeclaration, bool) {
	cls, ok := r.classes[name]
	return cls, ok
}

// Edges returns the inheritance graph as child → parent edges, classes in
// first-seen order and each class's bases in declaration order.
func (r *Registry) Edges() []model.InheritanceEdge {
	var edges []model.InheritanceEdge
	for _, name := range r.order {
		for _, base := range r.classes[name].Bases {
			edges = append(edges, model.InheritanceEdge{Child: name, Parent: base.Name})
		}
	}
	return edges
}

// Classes returns all registered classes in first-seen order.
func (r *Registry) Classes() []*model.ClassDeclaration {
	out := make([]*model.ClassDeclaration, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.classes[name])
	}
	return out
}

// Resolver walks the registry through the resolution states: bases linked,
// linearization computed, overrides tagged, resolved.
type Resolver struct {
	registry *Registry
	memo     map[string][]string
	logger   *slog.Logger
}

// NewResolver returns a resolver over reg.
func NewResolver(reg *Registry, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{registry: reg, memo: map[string][]string{}, logger: logger}
}

// Resolve runs the full resolution pass. It must only be called after every
// file has been parsed and added to the registry.
func (r *Resolver) Resolve() {
	for _, cls := range r.registry.Classes() {
		r.linkBases(cls)
		cls.State = model.StateBasesLinked
	}
	for _, cls := range r.registry.Classes() {
		cls.MRO = r.linearize(cls.Name, map[string]bool{})
		cls.State = model.StateOrderComputed
	}
	for _, cls := range r.registry.Classes() {
		r.tagOverrides(cls)
		cls.State = model.StateOverridesTagged
		r.collectInherited(cls)
		cls.State = model.StateResolved
	}
}

// linkBases marks which bases resolve to known classes. Unknown names are
// kept as external references so the chain still displays them.
func (r *Resolver) linkBases(cls *model.ClassDeclaration) {
	for i := range cls.Bases {
		_, known := r.registry.Lookup(cls.Bases[i].Name)
		cls.Bases[i].External = !known
	}
}

// linearize computes the C3 method resolution order for name. External
// bases linearize to a single-element chain. When C3 merge fails, the
// resolver falls back to a depth-first left-to-right walk and records an
// ambiguity note on the class.
func (r *Resolver) linearize(name string, visiting map[string]bool) []string {
	if mro, ok := r.memo[name]; ok {
		return mro
	}
	cls, ok := r.registry.Lookup(name)
	if !ok {
		return []string{name}
	}
	if visiting[name] {
		// Inheritance cycle. Break it at the repeated class.
		return []string{name}
	}
	visiting[name] = true
	defer delete(visiting, name)

	seqs := make([][]string, 0, len(cls.Bases)+1)
	direct := make([]string, 0, len(cls.Bases))
	for _, base := range cls.Bases {
		seqs = append(seqs, append([]string(nil), r.linearize(base.Name, visiting)...))
		direct = append(direct, base.Name)
	}
	seqs = append(seqs, direct)

	merged, ok := c3Merge(seqs)
	if !ok {
		merged = r.depthFirst(name)
		cls.Notes = append(cls.Notes, model.Note{
			Code:    NoteMROAmbiguous,
			Message: "base order is contradictory, resolution order approximated depth first",
		})
		r.logger.Debug("mro ambiguous, using depth-first fallback", "class", name)
		r.memo[name] = merged
		return merged
	}

	mro := append([]string{name}, merged...)
	r.memo[name] = mro
	return mro
}

// c3Merge merges the base linearizations per the C3 rules: repeatedly take
// the first head that appears in no other sequence's tail. Reports false
// when no head qualifies.
func c3Merge(seqs [][]string) ([]string, bool) {
	var out []string
	for {
		remaining := false
		for _, s := range seqs {
			if len(s) > 0 {
				remaining = true
				break
			}
		}
		if !remaining {
			return out, true
		}

		picked := ""
		for _, s := range seqs {
			if len(s) == 0 {
				continue
			}
			head := s[0]
			inTail := false
			for _, other := range seqs {
				if len(other) == 0 {
					continue
				}
				for _, t := range other[1:] {
					if t == head {
						inTail = true
						break
					}
				}
				if inTail {
					break
				}
			}
			if !inTail {
				picked = head
				break
			}
		}
		if picked == "" {
			return nil, false
		}

		out = append(out, picked)
		for i, s := range seqs {
			if len(s) > 0 && s[0] == picked {
				seqs[i] = s[1:]
			}
		}
	}
}

// depthFirst is the fallback linearization: the class itself, then each
// base subtree left to right, first occurrence wins.
func (r *Resolver) depthFirst(name string) []string {
	seen := map[string]bool{name: true}
	out := []string{}
	var walk func(n string)
	walk = func(n string) {
		c, ok := r.registry.Lookup(n)
		if !ok {
			return
		}
		for _, b := range c.Bases {
			if !seen[b.Name] {
				seen[b.Name] = true
				out = append(out, b.Name)
				walk(b.Name)
			}
		}
	}
	walk(name)
	return append([]string{name}, out...)
}

// tagOverrides records, for each method defined on cls, the nearest ancestor
// in resolution order that also defines it. First occurrence along the MRO
// is the effective definition, so a method here overrides the next one. The
// ancestor gets the inverse marking.
func (r *Resolver) tagOverrides(cls *model.ClassDeclaration) {
	for _, m := range cls.Methods {
		for _, ancestor := range cls.MRO[1:] {
			anc, ok := r.registry.Lookup(ancestor)
			if !ok {
				continue
			}
			if anc.Method(m.Name) != nil {
				cls.Overrides[m.Name] = ancestor
				if anc.OverriddenBy == nil {
					anc.OverriddenBy = map[string][]string{}
				}
				anc.OverriddenBy[m.Name] = append(anc.OverriddenBy[m.Name], cls.Name)
				break
			}
		}
	}
}

// collectInherited groups methods reachable through the MRO but not defined
// on cls itself, keyed by the originating ancestor. Within a group, methods
// keep a stable sorted order. Shadowed definitions deeper in the MRO are
// skipped: only the first occurrence of each name is inherited.
func (r *Resolver) collectInherited(cls *model.ClassDeclaration) {
	defined := map[string]bool{}
	for _, m := range cls.Methods {
		defined[m.Name] = true
	}

	for _, ancestor := range cls.MRO[1:] {
		anc, ok := r.registry.Lookup(ancestor)
		if !ok {
			continue
		}
		var group []*model.Declaration
		for _, m := range anc.Methods {
			if defined[m.Name] {
				continue
			}
			if strings.HasPrefix(m.Name, "__") && strings.HasSuffix(m.Name, "__") && !visibleDunders[m.Name] {
				continue
			}
			defined[m.Name] = true
			group = append(group, m)
		}
		if len(group) > 0 {
			sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
			cls.Inherited[ancestor] = group
			cls.InheritedOrder = append(cls.InheritedOrder, ancestor)
		}
	}
}
