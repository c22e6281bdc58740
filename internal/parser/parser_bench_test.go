package parser

import (
	"bytes"
	"fmt"
	"testing"
)

func generateTeamText(memberCount int) string {
	var buf bytes.Buffer
	for i := 1; i <= memberCount; i++ {
		fmt.Fprintf(&buf, "Mon %d (Species%d) (M) @ Item %d\n", i, i, i)
		buf.WriteString("Ability: Pressure\n")
		buf.WriteString("Level: 50\n")
		buf.WriteString("Tera Type: Steel\n")
		buf.WriteString("EVs: 252 HP / 4 Atk / 252 Def\n")
		buf.WriteString("Impish Nature\n")
		buf.WriteString("IVs: 0 Spe\n")
		for j := 1; j <= 4; j++ {
			fmt.Fprintf(&buf, "- Move %d\n", j)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

func benchmarkParse(b *testing.B, memberCount int) {
	text := generateTeamText(memberCount)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res := Parse(text)
		if len(res.Team) != memberCount {
			b.Fatalf("parsed %d members, want %d", len(res.Team), memberCount)
		}
	}
}

func BenchmarkParse_6Members(b *testing.B)    { benchmarkParse(b, 6) }
func BenchmarkParse_100Members(b *testing.B)  { benchmarkParse(b, 100) }
func BenchmarkParse_1000Members(b *testing.B) { benchmarkParse(b, 1000) }

func BenchmarkFormat_100Members(b *testing.B) {
	team := Parse(generateTeamText(100)).Team
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Format(team)
	}
}
