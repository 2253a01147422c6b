// Package docstring parses raw Python docstring blocks into normalized
// documentation records. Three grammars are supported (Google, NumPy,
// reStructuredText); the active grammar is a caller-supplied configuration
// option, never auto-detected. Parsing is line-oriented and tolerant: text
// that does not match the selected grammar is folded into the summary
// instead of being dropped.
package docstring

import "strings"

// Style identifies a docstring grammar.
type Style string

const (
	StyleGoogle Style = "google"
	StyleNumpy  Style = "numpy"
	StyleRest   Style = "rest"
	// StyleNone marks a missing or unrecognized docstring. A DocComment
	// with this style carries only raw unparsed text.
	StyleNone Style = "none"
)

// ValidStyle reports whether s names one of the parseable grammars.
func ValidStyle(s Style) bool {
	return s == StyleGoogle || s == StyleNumpy || s == StyleRest
}

// ParamDoc is a parameter entry parsed from a docstring section.
type ParamDoc struct {
	Name        string
	Type        string
	Description string
}

// ReturnDoc describes a documented return value.
type ReturnDoc struct {
	Type        string
	Description string
}

// RaiseDoc describes a documented exception.
type RaiseDoc struct {
	Type        string
	Description string
}

// DocComment is the normalized documentation record produced by a parser.
type DocComment struct {
	Style    Style
	Summary  string
	Params   []ParamDoc
	Returns  *ReturnDoc
	Raises   []RaiseDoc
	Examples []string
	Raw      string
}

// Parser turns a raw docstring block into a DocComment.
type Parser interface {
	Parse(raw string) *DocComment
	Style() Style
}

// For returns the parser for the given style. Unknown styles get the
// pass-through parser, which records the text unparsed under StyleNone.
func For(style Style) Parser {
	switch style {
	case StyleGoogle:
		return &googleParser{}
	case StyleNumpy:
		return &numpyParser{}
	case StyleRest:
		return &restParser{}
	default:
		return &noneParser{}
	}
}

// noneParser records the raw text without interpreting it.
type noneParser struct{}

func (p *noneParser) Style() Style { return StyleNone }

func (p *noneParser) Parse(raw string) *DocComment {
	return &DocComment{Style: StyleNone, Raw: raw}
}

// None returns the DocComment used for declarations with no docstring at all.
func None() *DocComment {
	return &DocComment{Style: StyleNone}
}

// dedent normalizes a docstring block the way inspect.cleandoc does: CRLF
// folded to LF, outer blank lines dropped, the first line trimmed on its
// own, and the margin shared by the remaining non-blank lines removed. The
// first line sits right after the opening quotes and carries no margin, so
// it is excluded from the margin computation.
func dedent(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return lines
	}

	minIndent := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " \t")
	if minIndent > 0 {
		for i, line := range lines[1:] {
			if len(line) >= minIndent {
				lines[i+1] = line[minIndent:]
			} else {
				lines[i+1] = strings.TrimLeft(line, " \t")
			}
		}
	}
	return lines
}

// indentOf returns the count of leading spaces, treating a tab as one level.
func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// joinSummary assembles accumulated summary lines, trimming outer blank runs
// but keeping interior text byte-for-byte so no input is lost.
func joinSummary(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// parseExamples splits an examples section into code blocks. Doctest lines
// (">>>") and indented blocks count as code; a blank or unindented line closes
// the current block.
func parseExamples(lines []string) []string {
	var examples []string
	var current []string
	inBlock := false

	flush := func() {
		if len(current) > 0 {
			examples = append(examples, strings.Join(current, "\n"))
			current = nil
		}
		inBlock = false
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, ">>>"):
			inBlock = true
			current = append(current, trimmed)
		case inBlock && trimmed != "":
			current = append(current, trimmed)
		case trimmed == "":
			flush()
		default:
			inBlock = true
			current = append(current, trimmed)
		}
	}
	flush()
	return examples
}

// sectionName canonicalizes a section header, accepting both singular and
// plural forms the way CPython's ecosystem tools do.
func sectionName(header string) string {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case "args", "arguments", "parameters", "parameter", "param":
		return "params"
	case "returns", "return":
		return "returns"
	case "raises", "raise", "exceptions", "except", "exception":
		return "raises"
	case "examples", "example":
		return "examples"
	default:
		return ""
	}
}
