package ui

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/team/internal/parser"
)

var ErrRenderInProgress = errors.New("render in progress")

const NoMembersMessage = "No valid Pokémon found in the input."

var (
	nameStyle   = lipgloss.NewStyle().Bold(true)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	shinyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	detailStyle = lipgloss.NewStyle().PaddingLeft(2)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Renderer draws teams to a terminal. A Renderer refuses to start a render
// while another is still writing.
type Renderer struct {
	mu        sync.Mutex
	rendering bool
}

// Render writes every member of team to w. It returns ErrRenderInProgress
// without writing when another Render on r has not finished.
func (r *Renderer) Render(w io.Writer, team []parser.Member) error {
	r.mu.Lock()
	if r.rendering {
		r.mu.Unlock()
		return ErrRenderInProgress
	}
	r.rendering = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.rendering = false
		r.mu.Unlock()
	}()

	if len(team) == 0 {
		fmt.Fprintln(w, NoMembersMessage)
		return nil
	}

	for i, m := range team {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderMember(w, m)
	}
	return nil
}

func renderMember(w io.Writer, m parser.Member) {
	name := nameStyle.Render(NameLine(m))
	if m.Item != "" {
		name += " @ " + itemStyle.Render(m.Item)
	}
	fmt.Fprintln(w, name)

	var details []string
	if m.Nickname != nil && *m.Nickname != "" {
		details = append(details, faintStyle.Render("Species: "+m.Species))
	}
	if m.Ability != nil {
		details = append(details, "Ability: "+*m.Ability)
	}
	if m.Level != nil {
		details = append(details, "Level: "+*m.Level)
	}
	if m.TeraType != nil {
		details = append(details, "Tera Type: "+*m.TeraType)
	}
	if m.IsShiny() {
		details = append(details, shinyStyle.Render("Shiny: Yes"))
	}
	if m.EVs != nil {
		details = append(details, "EVs: "+*m.EVs)
	}
	if m.IVs != nil {
		details = append(details, "IVs: "+*m.IVs)
	}
	if m.Nature != nil {
		details = append(details, *m.Nature+" Nature")
	}
	if len(m.Moves) == 0 {
		details = append(details, faintStyle.Render("- None"))
	}
	for _, move := range m.Moves {
		details = append(details, "- "+move)
	}

	for _, d := range details {
		fmt.Fprintln(w, detailStyle.Render(d))
	}
}

// NameLine is the display name with the gender suffix, e.g. "Sparky (M)".
func NameLine(m parser.Member) string {
	name := m.DisplayName()
	if m.Gender != parser.GenderNone {
		name += " (" + string(m.Gender) + ")"
	}
	return name
}

// Diagnostics writes one warning line per diagnostic.
func Diagnostics(w io.Writer, diags []parser.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, warnStyle.Render(d.String()))
	}
}

func SummaryLine(w io.Writer, members, errs int) {
	fmt.Fprintf(w, "parsed %d %s, %d %s\n", members, plural(members, "member", "members"), errs, plural(errs, "error", "errors"))
}

func SavedLine(w io.Writer, segment string, members int) {
	fmt.Fprintf(w, "%s  %d %s saved to %s\n", itemStyle.Render("ok"), members, plural(members, "member", "members"), segment)
}

// HistoryRow writes one stored version, padded to the given column widths.
func HistoryRow(w io.Writer, id int64, version string, members int, at string, idWidth, versionWidth int) {
	fmt.Fprintf(w, "%-*s  %-*s  %s  %d %s\n",
		idWidth, fmt.Sprintf("#%d", id),
		versionWidth, "v"+version,
		faintStyle.Render(at),
		members, plural(members, "member", "members"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
