package parser

import (
	"strings"
)

// Format renders members back into Showdown export text. Parsing the output
// yields members with the same field values.
func Format(team []Member) string {
	entries := make([]string, 0, len(team))
	for _, m := range team {
		entries = append(entries, formatMember(m))
	}
	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, "\n\n") + "\n"
}

func formatMember(m Member) string {
	var lines []string
	lines = append(lines, HeaderLine(m))

	if m.Ability != nil {
		lines = append(lines, "Ability: "+*m.Ability)
	}
	if m.Level != nil {
		lines = append(lines, "Level: "+*m.Level)
	}
	if m.Shiny != nil {
		lines = append(lines, "Shiny: "+*m.Shiny)
	}
	if m.TeraType != nil {
		lines = append(lines, "Tera Type: "+*m.TeraType)
	}
	if m.EVs != nil {
		lines = append(lines, "EVs: "+*m.EVs)
	}
	if m.Nature != nil {
		lines = append(lines, *m.Nature+" Nature")
	}
	if m.IVs != nil {
		lines = append(lines, "IVs: "+*m.IVs)
	}
	for _, move := range m.Moves {
		lines = append(lines, "- "+move)
	}

	return strings.Join(lines, "\n")
}

// HeaderLine renders the first line of an entry:
// "Nickname (Species) (G) @ Item" with absent parts left out.
func HeaderLine(m Member) string {
	var b strings.Builder
	if m.Nickname != nil && *m.Nickname != "" {
		b.WriteString(*m.Nickname)
		b.WriteString(" (")
		b.WriteString(m.Species)
		b.WriteString(")")
	} else {
		b.WriteString(m.Species)
	}
	if m.Gender != GenderNone {
		b.WriteString(" (")
		b.WriteString(string(m.Gender))
		b.WriteString(")")
	}
	if m.Item != "" {
		b.WriteString(" @ ")
		b.WriteString(m.Item)
	}
	return b.String()
}
