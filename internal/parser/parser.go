package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	blockSeparator = regexp.MustCompile(`\n{2,}`)
	itemSeparator  = regexp.MustCompile(`\s*@\s*`)
	parenGroup     = regexp.MustCompile(`\([^()]*\)`)
	twoGroupHeader = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)\s*\(([MF])\)$`)
	oneGroupHeader = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)$`)
)

const (
	expectTwoGroups = `"nickname (species) (M/F)"`
	expectOneGroup  = `"species (M/F)" or "nickname (species)"`
)

// Segment splits exported team text into entry blocks. Blocks are separated
// by one or more blank lines; blocks that are empty after trimming are dropped
// and do not consume an index.
func Segment(text string) []Block {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []Block
	for _, raw := range blockSeparator.Split(text, -1) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		var lines []string
		for _, line := range strings.Split(raw, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
		blocks = append(blocks, Block{Index: len(blocks) + 1, Lines: lines})
	}
	return blocks
}

// Parse converts Showdown export text into team members. It never fails:
// malformed entries are dropped and reported in Result.Errors, and
// unrecognized attribute lines are reported without dropping their entry.
func Parse(text string) Result {
	res := Result{
		Team:   []Member{},
		Errors: []Diagnostic{},
	}

	for _, block := range Segment(text) {
		m, diags, ok := parseBlock(block)
		res.Errors = append(res.Errors, diags...)
		if ok {
			res.Team = append(res.Team, m)
		}
	}

	return res
}

func parseBlock(b Block) (Member, []Diagnostic, bool) {
	if len(b.Lines) == 0 {
		return Member{}, []Diagnostic{fatal(b, "", "Empty or invalid entry.")}, false
	}

	header := b.Header()
	m, diag, ok := parseHeader(b, header)
	if !ok {
		return Member{}, []Diagnostic{diag}, false
	}

	var diags []Diagnostic
	for _, raw := range b.Attributes() {
		line := strings.TrimSpace(raw)
		if !applyAttribute(&m, line) {
			diags = append(diags, Diagnostic{
				Entry:   b.Index,
				Kind:    KindLine,
				Line:    line,
				Message: fmt.Sprintf("Unrecognized line: %q.", line),
			})
		}
	}

	return m, diags, true
}

// parseHeader resolves "nickname (species) (gender) @ item" and its shorter
// forms. The number of parenthesised groups decides which shape is expected.
func parseHeader(b Block, header string) (Member, Diagnostic, bool) {
	var m Member

	parts := itemSeparator.Split(header, 2)
	namePart := strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		m.Item = strings.TrimSpace(parts[1])
	}

	switch len(parenGroup.FindAllString(namePart, -1)) {
	case 2:
		match := twoGroupHeader.FindStringSubmatch(namePart)
		if match == nil {
			return m, invalidHeader(b, header, expectTwoGroups), false
		}
		setNickname(&m, match[1])
		m.Species = strings.TrimSpace(match[2])
		m.Gender = Gender(match[3])
	case 1:
		match := oneGroupHeader.FindStringSubmatch(namePart)
		if match == nil {
			return m, invalidHeader(b, header, expectOneGroup), false
		}
		first := strings.TrimSpace(match[1])
		inner := strings.TrimSpace(match[2])
		if inner == string(GenderMale) || inner == string(GenderFemale) {
			m.Species = first
			m.Gender = Gender(inner)
		} else {
			setNickname(&m, first)
			m.Species = inner
		}
	default:
		m.Species = namePart
	}

	if m.Species == "" {
		return m, fatal(b, header, fmt.Sprintf("No valid species found in: %q.", header)), false
	}

	return m, Diagnostic{}, true
}

// applyAttribute sets the field named by line. Order matters: a line is
// tested against each rule in turn and the first match wins.
func applyAttribute(m *Member, line string) bool {
	switch {
	case strings.HasPrefix(line, "Ability: "):
		m.Ability = remainder(line, "Ability: ")
	case strings.HasPrefix(line, "EVs: "):
		m.EVs = remainder(line, "EVs: ")
	case strings.Contains(line, " Nature"):
		m.Nature = Ptr(strings.TrimSpace(strings.Replace(line, " Nature", "", 1)))
	case strings.HasPrefix(line, "IVs: "):
		m.IVs = remainder(line, "IVs: ")
	case strings.HasPrefix(line, "Level: "):
		m.Level = remainder(line, "Level: ")
	case strings.HasPrefix(line, "Tera Type: "):
		m.TeraType = remainder(line, "Tera Type: ")
	case strings.HasPrefix(line, "Shiny: "):
		m.Shiny = remainder(line, "Shiny: ")
	case strings.HasPrefix(line, "- "):
		m.Moves = append(m.Moves, strings.TrimSpace(strings.TrimPrefix(line, "- ")))
	default:
		return false
	}
	return true
}

func remainder(line, prefix string) *string {
	return Ptr(strings.TrimSpace(strings.TrimPrefix(line, prefix)))
}

func setNickname(m *Member, s string) {
	if s = strings.TrimSpace(s); s != "" {
		m.Nickname = Ptr(s)
	}
}

func invalidHeader(b Block, header, expected string) Diagnostic {
	return fatal(b, header, fmt.Sprintf("Invalid first line: %q. Expected %s.", header, expected))
}

func fatal(b Block, line, msg string) Diagnostic {
	return Diagnostic{Entry: b.Index, Kind: KindFatal, Line: line, Message: msg}
}
