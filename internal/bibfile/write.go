package bibfile

import (
	"fmt"
	"os"
	"strings"
)

// Format renders one entry in the conventional layout.
func Format(e Entry) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", e.Type, e.Key))
	for _, f := range e.Fields {
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", f.Name, f.Value))
	}
	b.WriteString("}\n")

	return b.String()
}

// FormatList renders multiple entries separated by blank lines.
func FormatList(entries []Entry) string {
	rendered := make([]string, len(entries))
	for i, e := range entries {
		rendered[i] = Format(e)
	}
	return strings.Join(rendered, "\n")
}

// WriteFile writes entries to a .bib file, replacing any existing content.
func WriteFile(path string, entries []Entry) error {
	if err := os.WriteFile(path, []byte(FormatList(entries)), 0644); err != nil {
		return fmt.Errorf("writing bib file: %w", err)
	}
	return nil
}
