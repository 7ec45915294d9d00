package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/padraicbc/batstats/models"
)

// datasetRow mirrors one entry of baseball_data.json.
type datasetRow struct {
	Name           string    `json:"Player name"`
	Position       string    `json:"position"`
	Games          flexInt   `json:"Games"`
	AtBat          flexInt   `json:"At-bat"`
	Runs           flexInt   `json:"Runs"`
	Hits           flexInt   `json:"Hits"`
	Doubles        flexInt   `json:"Double (2B)"`
	Triples        flexInt   `json:"third baseman"`
	HomeRuns       flexInt   `json:"home run"`
	RBI            flexInt   `json:"run batted in"`
	Walks          flexInt   `json:"a walk"`
	Strikeouts     flexInt   `json:"Strikeouts"`
	StolenBases    flexInt   `json:"stolen base"`
	CaughtStealing flexInt   `json:"Caught stealing"`
	Avg            flexFloat `json:"AVG"`
	OBP            flexFloat `json:"On-base Percentage"`
	SLG            flexFloat `json:"Slugging Percentage"`
	OPS            flexFloat `json:"On-base Plus Slugging"`
}

// flexInt accepts a JSON number or numeric string; "--", "" and null mean unknown.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s, ok := unquote(b)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	f.Value, f.Valid = n, true
	return nil
}

func (f flexInt) ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// flexFloat is the decimal counterpart of flexInt. ".301" is accepted.
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s, ok := unquote(b)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %q", s)
	}
	f.Value, f.Valid = v, true
	return nil
}

func unquote(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return "", false
	}
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "--" {
		return "", false
	}
	return s, true
}

// readDataset decodes the JSON array and converts rows to players with no description.
func readDataset(r io.Reader) ([]models.Player, error) {
	var rows []datasetRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	players := make([]models.Player, 0, len(rows))
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			return nil, fmt.Errorf("row %d: player name is required", i)
		}
		p := models.Player{
			Name:           name,
			Games:          row.Games.Value,
			AtBat:          row.AtBat.Value,
			Runs:           row.Runs.Value,
			Hits:           row.Hits.Value,
			Doubles:        row.Doubles.Value,
			Triples:        row.Triples.Value,
			HomeRuns:       row.HomeRuns.Value,
			RBI:            row.RBI.Value,
			Walks:          row.Walks.Value,
			Strikeouts:     row.Strikeouts.Value,
			StolenBases:    row.StolenBases.Value,
			CaughtStealing: row.CaughtStealing.ptr(),
			Avg:            models.Rate(row.Avg.Value),
			OBP:            models.Rate(row.OBP.Value),
			SLG:            models.Rate(row.SLG.Value),
			OPS:            models.Rate(row.OPS.Value),
		}
		if pos := strings.TrimSpace(row.Position); pos != "" {
			p.Position = &pos
		}
		players = append(players, p)
	}
	return players, nil
}
