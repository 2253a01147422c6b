package docstring

import (
	"regexp"
	"strings"
)

// googleParser implements the Google docstring grammar: section headers such
// as "Args:" or "Returns:" followed by indented entries.
type googleParser struct{}

func (p *googleParser) Style() Style { return StyleGoogle }

// googleEntryRe matches "name (type): description" and "name: description"
// entry lines inside Args and Raises sections.
var googleEntryRe = regexp.MustCompile(`^(\*{0,2}[A-Za-z_][\w.]*)(?:\s*\(([^)]*)\))?:\s?(.*)$`)

func (p *googleParser) Parse(raw string) *DocComment {
	doc := &DocComment{Style: StyleGoogle, Raw: raw}
	lines := dedent(raw)

	var summary []string
	i := 0
	for i < len(lines) {
		name := googleSectionHeader(lines[i])
		if name == "" {
			summary = append(summary, lines[i])
			i++
			continue
		}

		// Collect the indented body following the header. A non-blank line at
		// column zero closes the section.
		start := i
		i++
		var body []string
		for i < len(lines) {
			if strings.TrimSpace(lines[i]) != "" && indentOf(lines[i]) == 0 {
				break
			}
			body = append(body, lines[i])
			i++
		}

		leftover, matched := p.applySection(doc, name, body)
		if !matched {
			// Malformed section: nothing parsed, so nothing may be dropped.
			summary = append(summary, lines[start:i]...)
			continue
		}
		summary = append(summary, leftover...)
	}

	doc.Summary = joinSummary(summary)
	return doc
}

// googleSectionHeader returns the canonical section name when line is an
// unindented "Header:" line, or "" otherwise.
func googleSectionHeader(line string) string {
	if indentOf(line) != 0 {
		return ""
	}
	stripped := strings.TrimSpace(line)
	if !strings.HasSuffix(stripped, ":") {
		return ""
	}
	return sectionName(strings.TrimSuffix(stripped, ":"))
}

// applySection parses one section body. It reports the lines it could not
// place and whether the section produced any content at all.
func (p *googleParser) applySection(doc *DocComment, name string, body []string) (leftover []string, matched bool) {
	switch name {
	case "params":
		entries, left := parseGoogleEntries(body)
		for _, e := range entries {
			doc.Params = append(doc.Params, ParamDoc{Name: e.name, Type: e.extra, Description: e.desc})
		}
		return left, len(entries) > 0
	case "raises":
		entries, left := parseGoogleEntries(body)
		for _, e := range entries {
			doc.Raises = append(doc.Raises, RaiseDoc{Type: e.name, Description: e.desc})
		}
		return left, len(entries) > 0
	case "returns":
		ret := parseGoogleReturns(body)
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

type googleEntry struct {
	name  string
	extra string // parenthesized type for params, unused for raises
	desc  string
}

// parseGoogleEntries scans indented "name: description" entries. Lines that
// are indented deeper than the entry they follow continue its description;
// lines that fit no entry are returned for the caller to keep.
func parseGoogleEntries(body []string) ([]googleEntry, []string) {
	var entries []googleEntry
	var leftover []string
	entryIndent := -1

	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := indentOf(line)
		m := googleEntryRe.FindStringSubmatch(trimmed)
		isEntry := m != nil && (entryIndent < 0 || indent <= entryIndent)
		switch {
		case isEntry:
			if entryIndent < 0 {
				entryIndent = indent
			}
			entries = append(entries, googleEntry{name: m[1], extra: strings.TrimSpace(m[2]), desc: strings.TrimSpace(m[3])})
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

// parseGoogleReturns reads a Returns section: "type: description" on the
// first line when the prefix looks like a type, otherwise plain description.
func parseGoogleReturns(body []string) *ReturnDoc {
	var parts []string
	for _, line := range body {
		if t := strings.TrimSpace(line); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return nil
	}

	ret := &ReturnDoc{}
	first := parts[0]
	if idx := strings.Index(first, ":"); idx > 0 && !strings.ContainsAny(first[:idx], " \t") {
		ret.Type = strings.TrimSpace(first[:idx])
		parts[0] = strings.TrimSpace(first[idx+1:])
		if parts[0] == "" {
			parts = parts[1:]
		}
	}
	ret.Description = strings.Join(parts, " ")
	return ret
}
