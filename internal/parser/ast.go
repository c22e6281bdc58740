package parser

import "fmt"

// Layer 1: raw entry blocks produced by segmentation

type Block struct {
	Index int      // 1-based position among non-empty blocks
	Lines []string // non-blank lines, header first
}

// Header returns the first line of the block, or "" for an empty block.
func (b Block) Header() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return b.Lines[0]
}

// Attributes returns every line after the header.
func (b Block) Attributes() []string {
	if len(b.Lines) < 2 {
		return nil
	}
	return b.Lines[1:]
}

type DiagnosticKind int

const (
	KindFatal DiagnosticKind = iota // entry dropped from the team
	KindLine                        // entry kept, one line ignored
)

type Diagnostic struct {
	Entry   int
	Kind    DiagnosticKind
	Line    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Entry %d: %s", d.Entry, d.Message)
}

func (d Diagnostic) Fatal() bool {
	return d.Kind == KindFatal
}

// MarshalText makes diagnostics encode as their display string.
func (d Diagnostic) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
