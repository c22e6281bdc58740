package parser

// Layer 2: team members extracted from blocks

type Gender string

const (
	GenderNone   Gender = ""
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Member is one parsed team member. Optional attributes are pointers so an
// absent field and an explicitly empty one survive a JSON round trip.
type Member struct {
	Nickname *string  `json:"nickname,omitempty"`
	Species  string   `json:"species"`
	Gender   Gender   `json:"gender"`
	Item     string   `json:"item"`
	Ability  *string  `json:"ability,omitempty"`
	Level    *string  `json:"level,omitempty"`
	TeraType *string  `json:"teraType,omitempty"`
	Shiny    *string  `json:"shiny,omitempty"`
	EVs      *string  `json:"evs,omitempty"`
	IVs      *string  `json:"ivs,omitempty"`
	Nature   *string  `json:"nature,omitempty"`
	Moves    []string `json:"moves,omitempty"`
}

// DisplayName is the nickname when one was given, the species otherwise.
func (m Member) DisplayName() string {
	if m.Nickname != nil && *m.Nickname != "" {
		return *m.Nickname
	}
	return m.Species
}

// IsShiny reports whether the shiny flag reads "Yes".
func (m Member) IsShiny() bool {
	return Value(m.Shiny) == "Yes"
}

// Result is the output of a single Parse call.
type Result struct {
	Team   []Member     `json:"team"`
	Errors []Diagnostic `json:"errors"`
}

// Fatal counts diagnostics that dropped an entry.
func (r Result) Fatal() int {
	n := 0
	for _, d := range r.Errors {
		if d.Fatal() {
			n++
		}
	}
	return n
}

// Messages returns the display string of every diagnostic.
func (r Result) Messages() []string {
	out := make([]string, len(r.Errors))
	for i, d := range r.Errors {
		out[i] = d.String()
	}
	return out
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}

// Value dereferences p, returning "" for nil.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
