package docstring

import "strings"

// numpyParser implements the NumPy docstring grammar: section titles
// underlined with dashes, entries written as "name : type" with indented
// description lines beneath.
type numpyParser struct{}

func (p *numpyParser) Style() Style { return StyleNumpy }

func (p *numpyParser) Parse(raw string) *DocComment {
	doc := &DocComment{Style: StyleNumpy, Raw: raw}
	lines := dedent(raw)

	var summary []string
	i := 0
	for i < len(lines) {
		if !isUnderlinedTitle(lines, i) {
			summary = append(summary, lines[i])
			i++
			continue
		}

		name := sectionName(lines[i])
		if name == "" {
			// Underlined but not a section we know; ordinary text.
			summary = append(summary, lines[i], lines[i+1])
			i += 2
			continue
		}

		start := i
		i += 2 // skip title and underline
		var body []string
		for i < len(lines) && !isUnderlinedTitle(lines, i) {
			body = append(body, lines[i])
			i++
		}

		leftover, matched := p.applySection(doc, name, body)
		if !matched {
			summary = append(summary, lines[start:i]...)
			continue
		}
		summary = append(summary, leftover...)
	}

	doc.Summary = joinSummary(summary)
	return doc
}

// isUnderlinedTitle reports whether lines[i] is a non-blank unindented title
// whose following line is a dash or equals underline.
func isUnderlinedTitle(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	title := strings.TrimSpace(lines[i])
	if title == "" || indentOf(lines[i]) != 0 {
		return false
	}
	under := strings.TrimSpace(lines[i+1])
	if under == "" {
		return false
	}
	for _, r := range under {
		if r != '-' && r != '=' {
			return false
		}
	}
	return true
}

func (p *numpyParser) applySection(doc *DocComment, name string, body []string) (leftover []string, matched bool) {
	switch name {
	case "params":
		entries, left := parseNumpyEntries(body)
		for _, e := range entries {
			doc.Params = append(doc.Params, ParamDoc{Name: e.name, Type: e.extra, Description: e.desc})
		}
		return left, len(entries) > 0
	case "raises":
		entries, left := parseNumpyEntries(body)
		for _, e := range entries {
			doc.Raises = append(doc.Raises, RaiseDoc{Type: e.name, Description: e.desc})
		}
		return left, len(entries) > 0
	case "returns":
		ret := parseNumpyReturns(body)
		if ret == nil {
			return nil, false
		}
		doc.Returns = ret
		return nil, true
	case "examples":
		examples := parseExamples(body)
		doc.Examples = append(doc.Examples, examples...)
		return nil, len(examples) > 0
	}
	return nil, false
}

// parseNumpyEntries scans "name : type" entry lines at column zero; indented
// lines continue the preceding entry's description.
func parseNumpyEntries(body []string) ([]googleEntry, []string) {
	var entries []googleEntry
	var leftover []string

	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case indentOf(line) == 0:
			e := googleEntry{name: trimmed}
			if name, typ, ok := strings.Cut(trimmed, " : "); ok {
				e.name = strings.TrimSpace(name)
				e.extra = strings.TrimSpace(typ)
			}
			entries = append(entries, e)
		case len(entries) > 0:
			last := &entries[len(entries)-1]
			if last.desc == "" {
				last.desc = trimmed
			} else {
				last.desc += " " + trimmed
			}
		default:
			leftover = append(leftover, line)
		}
	}
	return entries, leftover
}

// parseNumpyReturns reads a Returns section. The first unindented line names
// the type ("bool" or "result : bool"); indented lines describe it.
func parseNumpyReturns(body []string) *ReturnDoc {
	ret := &ReturnDoc{}
	var desc []string

	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if indentOf(line) == 0 && ret.Type == "" {
			if _, typ, ok := strings.Cut(trimmed, " : "); ok {
				ret.Type = strings.TrimSpace(typ)
			} else {
				ret.Type = trimmed
			}
			continue
		}
		desc = append(desc, trimmed)
	}
	if ret.Type == "" && len(desc) == 0 {
		return nil
	}
	ret.Description = strings.Join(desc, " ")
	return ret
}
