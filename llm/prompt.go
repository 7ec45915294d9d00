package llm

import (
	"fmt"
	"strings"

	"github.com/padraicbc/batstats/models"
)

const systemPrompt = "You are a baseball analyst and historian. Write concise, engaging player " +
	"descriptions that highlight career achievements and statistical significance. " +
	"Keep descriptions to one paragraph (3-5 sentences)."

// Profile is the identity and statistics snapshot a description is written from.
// The generated text depends on nothing else.
type Profile struct {
	Name     string
	Position string

	Games          int
	AtBats         int
	Runs           int
	Hits           int
	Doubles        int
	HomeRuns       int
	RBI            int
	Walks          int
	Strikeouts     int
	StolenBases    int
	CaughtStealing *int

	Avg float64
	OBP float64
	SLG float64
	OPS float64
}

// ProfileOf copies the profile fields out of p.
func ProfileOf(p *models.Player) Profile {
	prof := Profile{
		Name:        p.Name,
		Games:       p.Games,
		AtBats:      p.AtBat,
		Runs:        p.Runs,
		Hits:        p.Hits,
		Doubles:     p.Doubles,
		HomeRuns:    p.HomeRuns,
		RBI:         p.RBI,
		Walks:       p.Walks,
		Strikeouts:  p.Strikeouts,
		StolenBases: p.StolenBases,
		Avg:         float64(p.Avg),
		OBP:         float64(p.OBP),
		SLG:         float64(p.SLG),
		OPS:         float64(p.OPS),
	}
	if p.Position != nil {
		prof.Position = *p.Position
	}
	if p.CaughtStealing != nil {
		cs := *p.CaughtStealing
		prof.CaughtStealing = &cs
	}
	return prof
}

// Prompt renders the user message for p.
func (p Profile) Prompt() string {
	position := p.Position
	if strings.TrimSpace(position) == "" {
		position = "Unknown"
	}
	caught := "Unknown"
	if p.CaughtStealing != nil {
		caught = fmt.Sprint(*p.CaughtStealing)
	}

	var b strings.Builder
	b.WriteString("Write a one-paragraph description for the following baseball player:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Position: %s\n", position)
	fmt.Fprintf(&b, "Games Played: %d\n", p.Games)
	fmt.Fprintf(&b, "At Bats: %d\n", p.AtBats)
	fmt.Fprintf(&b, "Runs: %d\n", p.Runs)
	fmt.Fprintf(&b, "Hits: %d\n", p.Hits)
	fmt.Fprintf(&b, "Doubles: %d\n", p.Doubles)
	fmt.Fprintf(&b, "Home Runs: %d\n", p.HomeRuns)
	fmt.Fprintf(&b, "RBIs: %d\n", p.RBI)
	fmt.Fprintf(&b, "Walks: %d\n", p.Walks)
	fmt.Fprintf(&b, "Strikeouts: %d\n", p.Strikeouts)
	fmt.Fprintf(&b, "Stolen Bases: %d\n", p.StolenBases)
	fmt.Fprintf(&b, "Caught Stealing: %s\n", caught)
	fmt.Fprintf(&b, "Batting Average: %.3f\n", p.Avg)
	fmt.Fprintf(&b, "On-Base Percentage: %.3f\n", p.OBP)
	fmt.Fprintf(&b, "Slugging Percentage: %.3f\n", p.SLG)
	fmt.Fprintf(&b, "OPS: %.3f\n", p.OPS)
	b.WriteString("\nFocus on their career highlights, statistical achievements, and historical significance in baseball.")
	return b.String()
}
