package docstring

import (
	"regexp"
	"strings"
)

// restParser implements the reStructuredText field-list grammar:
// ":param name: description", ":type name: type", ":returns:", ":rtype:",
// ":raises Exception: description".
type restParser struct{}

func (p *restParser) Style() Style { return StyleRest }

// restFieldRe matches a field marker line: ":field args: text".
var restFieldRe = regexp.MustCompile(`^:([A-Za-z]+)(?:\s+([^:]+?))?:\s?(.*)$`)

// restField accumulates one field while its continuation lines arrive.
type restField struct {
	kind string // canonical: param, type, returns, rtype, raises
	arg  string
	text string
}

func (p *restParser) Parse(raw string) *DocComment {
	doc := &DocComment{Style: StyleRest, Raw: raw}
	lines := dedent(raw)

	var summary []string
	var fields []restField
	var current *restField

	appendText := func(f *restField, text string) {
		if f.text == "" {
			f.text = text
		} else {
			f.text += " " + text
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := restFieldRe.FindStringSubmatch(trimmed); m != nil {
			kind := restFieldKind(m[1])
			if kind == "" {
				// A field we do not recognize is ordinary text.
				current = nil
				summary = append(summary, line)
				continue
			}
			fields = append(fields, restField{kind: kind, arg: strings.TrimSpace(m[2]), text: strings.TrimSpace(m[3])})
			current = &fields[len(fields)-1]
			continue
		}

		if current != nil && trimmed != "" && indentOf(line) > 0 {
			appendText(current, trimmed)
			continue
		}
		current = nil
		summary = append(summary, line)
	}

	p.assemble(doc, fields)
	doc.Summary = joinSummary(summary)
	return doc
}

// restFieldKind canonicalizes a field marker name.
func restFieldKind(name string) string {
	switch strings.ToLower(name) {
	case "param", "parameter", "arg", "argument":
		return "param"
	case "type":
		return "type"
	case "returns", "return":
		return "returns"
	case "rtype":
		return "rtype"
	case "raises", "raise", "except", "exception":
		return "raises"
	case "example", "examples":
		return "example"
	default:
		return ""
	}
}

// assemble merges the collected fields into the DocComment, pairing
// ":type name:" declarations with their ":param name:" entries.
func (p *restParser) assemble(doc *DocComment, fields []restField) {
	types := make(map[string]string)
	for _, f := range fields {
		if f.kind == "type" && f.arg != "" {
			types[f.arg] = f.text
		}
	}

	for _, f := range fields {
		switch f.kind {
		case "param":
			name, typ := restParamArg(f.arg)
			if typ == "" {
				typ = types[name]
			}
			doc.Params = append(doc.Params, ParamDoc{Name: name, Type: typ, Description: f.text})
		case "returns":
			if doc.Returns == nil {
				doc.Returns = &ReturnDoc{}
			}
			doc.Returns.Description = f.text
		case "rtype":
			if doc.Returns == nil {
				doc.Returns = &ReturnDoc{}
			}
			doc.Returns.Type = f.text
		case "raises":
			doc.Raises = append(doc.Raises, RaiseDoc{Type: f.arg, Description: f.text})
		case "example":
			doc.Examples = append(doc.Examples, parseExamples(strings.Split(f.text, "\n"))...)
		}
	}
}

// restParamArg splits a param field argument. The name is the last token;
// anything before it is an inline type ("int alpha" style).
func restParamArg(arg string) (name, typ string) {
	tokens := strings.Fields(arg)
	if len(tokens) == 0 {
		return "", ""
	}
	name = tokens[len(tokens)-1]
	if len(tokens) > 1 {
		typ = strings.Join(tokens[:len(tokens)-1], " ")
	}
	return name, typ
}
