// Package bibfile reads and writes BibTeX files at the entry level.
package bibfile

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/refsift/refsift/internal/record"
)

// Entry is one BibTeX entry with its raw fields in source order.
type Entry struct {
	Type   string // article, inproceedings, misc, ...
	Key    string // citation key
	Fields []record.Field
}

// Record builds a citation record from the entry's fields.
func (e Entry) Record() record.Record {
	return record.FromFields(e.Fields)
}

// SetField replaces the named field's value, or appends the field if the
// entry doesn't have it. Matching is case-insensitive on the field name.
func (e *Entry) SetField(name, value string) {
	for i, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			e.Fields[i].Value = value
			return
		}
	}
	e.Fields = append(e.Fields, record.Field{Name: name, Value: value})
}

// ParseFile parses a .bib file into entries.
func ParseFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bib file: %w", err)
	}
	entries, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}

// Parse parses BibTeX source into entries, preserving entry and field order.
// @comment, @preamble, and @string groups are skipped.
func Parse(src string) ([]Entry, error) {
	var entries []Entry
	p := &parser{src: src}

	for {
		if !p.seek('@') {
			return entries, nil
		}
		p.pos++ // consume '@'

		entryType := strings.ToLower(p.ident())
		switch entryType {
		case "comment", "preamble", "string":
			if err := p.skipGroup(); err != nil {
				return nil, err
			}
			continue
		case "":
			continue // stray '@'
		}

		entry, err := p.entry(entryType)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

type parser struct {
	src string
	pos int
}

// seek advances to the next occurrence of c, returning false at EOF.
func (p *parser) seek(c byte) bool {
	idx := strings.IndexByte(p.src[p.pos:], c)
	if idx < 0 {
		p.pos = len(p.src)
		return false
	}
	p.pos += idx
	return true
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

// ident reads a letter/digit/hyphen run.
func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

// skipGroup skips a balanced {...} or (...) group.
func (p *parser) skipGroup() error {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil
	}
	open, close := byte('{'), byte('}')
	if p.src[p.pos] == '(' {
		open, close = '(', ')'
	} else if p.src[p.pos] != '{' {
		return nil // bare @comment with no group
	}

	depth := 0
	for ; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
	}
	return fmt.Errorf("unterminated group at offset %d", p.pos)
}

// entry parses the body of one entry after its type has been read.
func (p *parser) entry(entryType string) (Entry, error) {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '{' {
		return Entry{}, fmt.Errorf("@%s: expected '{' at offset %d", entryType, p.pos)
	}
	p.pos++

	// Citation key runs to the first comma.
	keyStart := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ',' && p.src[p.pos] != '}' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return Entry{}, fmt.Errorf("@%s: unterminated entry", entryType)
	}
	entry := Entry{Type: entryType, Key: strings.TrimSpace(p.src[keyStart:p.pos])}
	if p.src[p.pos] == '}' {
		p.pos++
		return entry, nil // key-only entry
	}
	p.pos++ // consume ','

	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return Entry{}, fmt.Errorf("@%s{%s}: unterminated entry", entryType, entry.Key)
		}
		if p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.src[p.pos] == '}' {
			p.pos++
			return entry, nil
		}

		name := strings.TrimSpace(p.ident())
		if name == "" {
			return Entry{}, fmt.Errorf("@%s{%s}: expected field name at offset %d", entryType, entry.Key, p.pos)
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != '=' {
			return Entry{}, fmt.Errorf("@%s{%s}: expected '=' after %q", entryType, entry.Key, name)
		}
		p.pos++

		value, err := p.fieldValue()
		if err != nil {
			return Entry{}, fmt.Errorf("@%s{%s}: field %q: %w", entryType, entry.Key, name, err)
		}
		entry.Fields = append(entry.Fields, record.Field{Name: name, Value: value})
	}
}

// fieldValue parses a braced, quoted, or bare field value.
func (p *parser) fieldValue() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return "", fmt.Errorf("unterminated value")
	}

	switch p.src[p.pos] {
	case '{':
		depth := 0
		start := p.pos + 1
		for ; p.pos < len(p.src); p.pos++ {
			switch p.src[p.pos] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					value := p.src[start:p.pos]
					p.pos++
					return value, nil
				}
			}
		}
		return "", fmt.Errorf("unterminated braced value")

	case '"':
		p.pos++
		start := p.pos
		for ; p.pos < len(p.src); p.pos++ {
			if p.src[p.pos] == '"' {
				value := p.src[start:p.pos]
				p.pos++
				return value, nil
			}
		}
		return "", fmt.Errorf("unterminated quoted value")

	default:
		// Bare value (typically a number) runs to the next ',' or '}'.
		start := p.pos
		for ; p.pos < len(p.src); p.pos++ {
			if p.src[p.pos] == ',' || p.src[p.pos] == '}' {
				return strings.TrimSpace(p.src[start:p.pos]), nil
			}
		}
		return "", fmt.Errorf("unterminated bare value")
	}
}
