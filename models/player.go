package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Player holds one player's season batting line and an optional
// generated description.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID       int     `bun:"id,pk,autoincrement" json:"id"`
	Name     string  `bun:"player_name,notnull" json:"player_name"`
	Position *string `bun:"position" json:"position"`

	Games          int  `bun:"games,notnull,default:0" json:"games"`
	AtBat          int  `bun:"at_bat,notnull,default:0" json:"at_bat"`
	Runs           int  `bun:"runs,notnull,default:0" json:"runs"`
	Hits           int  `bun:"hits,notnull,default:0" json:"hits"`
	Doubles        int  `bun:"double_2b,notnull,default:0" json:"double_2b"`
	Triples        int  `bun:"third_baseman,notnull,default:0" json:"third_baseman"`
	HomeRuns       int  `bun:"home_run,notnull,default:0" json:"home_run"`
	RBI            int  `bun:"run_batted_in,notnull,default:0" json:"run_batted_in"`
	Walks          int  `bun:"a_walk,notnull,default:0" json:"a_walk"`
	Strikeouts     int  `bun:"strikeouts,notnull,default:0" json:"strikeouts"`
	StolenBases    int  `bun:"stolen_base,notnull,default:0" json:"stolen_base"`
	CaughtStealing *int `bun:"caught_stealing" json:"caught_stealing"`

	Avg Rate `bun:"avg,type:decimal(5,3),notnull,default:0" json:"avg"`
	OBP Rate `bun:"on_base_percentage,type:decimal(5,3),notnull,default:0" json:"on_base_percentage"`
	SLG Rate `bun:"slugging_percentage,type:decimal(5,3),notnull,default:0" json:"slugging_percentage"`
	OPS Rate `bun:"on_base_plus_slugging,type:decimal(5,3),notnull,default:0" json:"on_base_plus_slugging"`

	Description *string `bun:"description,type:text" json:"description"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// HasDescription reports whether a non-empty description is stored.
// Null and "" both count as missing.
func (p *Player) HasDescription() bool {
	return p.Description != nil && *p.Description != ""
}

// StatsPatch is a partial update of the editable counters. Nil fields are left alone.
type StatsPatch struct {
	Games      *int `json:"games"`
	AtBat      *int `json:"at_bat"`
	Runs       *int `json:"runs"`
	Hits       *int `json:"hits"`
	Doubles    *int `json:"double_2b"`
	HomeRuns   *int `json:"home_run"`
	RBI        *int `json:"run_batted_in"`
	Strikeouts *int `json:"strikeouts"`
}

// Columns returns the column/value pairs present in the patch, in a stable order.
func (s StatsPatch) Columns() []PatchColumn {
	all := []PatchColumn{
		{"games", s.Games},
		{"at_bat", s.AtBat},
		{"runs", s.Runs},
		{"hits", s.Hits},
		{"double_2b", s.Doubles},
		{"home_run", s.HomeRuns},
		{"run_batted_in", s.RBI},
		{"strikeouts", s.Strikeouts},
	}
	out := all[:0]
	for _, c := range all {
		if c.Value != nil {
			out = append(out, c)
		}
	}
	return out
}

// ErrNegativeStat is matched by every *StatError.
var ErrNegativeStat = errors.New("stat values must be non-negative")

// StatError names the counter that carries an unusable value.
type StatError struct {
	Field string
}

func (e *StatError) Error() string {
	return fmt.Sprintf("invalid value for %s: must be a non-negative whole number", e.Field)
}

func (e *StatError) Unwrap() error { return ErrNegativeStat }

// Validate rejects negative counters.
func (s StatsPatch) Validate() error {
	for _, c := range s.Columns() {
		if *c.Value < 0 {
			return &StatError{Field: c.Name}
		}
	}
	return nil
}

// PatchColumn is one column assignment from a StatsPatch.
type PatchColumn struct {
	Name  string
	Value *int
}
