/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/mikeb26/mcmahon-td/mcmahon"
	"gopkg.in/yaml.v3"
)

// tournamentDoc is the persisted form of a Tournament.
type tournamentDoc struct {
	Name           string                              `yaml:"name"`
	Date           string                              `yaml:"date,omitempty"`
	Scoring        string                              `yaml:"scoring"`
	Seeding        seedingDoc                          `yaml:"seeding"`
	IDCtr          mcmahon.PlayerID                    `yaml:"id_ctr"`
	Players        map[mcmahon.PlayerID]mcmahon.Player `yaml:"players"`
	Rounds         []*mcmahon.Round                    `yaml:"rounds"`
	OldPairs       [][2]mcmahon.PlayerID               `yaml:"old_pairs"`
	CurrentPlayers []mcmahon.PlayerID                  `yaml:"current_players"`
	DivisionNames  map[string]int                      `yaml:"division_names,omitempty"`
}

type seedingDoc struct {
	Enabled bool `yaml:"enabled"`
	Bar     int  `yaml:"bar"`
	Floor   int  `yaml:"floor"`
}

// Encode serializes t to YAML. Pairs and ids are written in ascending order
// so that unchanged tournaments encode identically.
func Encode(t *mcmahon.Tournament) ([]byte, error) {
	doc := tournamentDoc{
		Name:    t.Name,
		Scoring: t.Scoring.String(),
		Seeding: seedingDoc{
			Enabled: t.Seeding.Enabled,
			Bar:     t.Seeding.Bar,
			Floor:   t.Seeding.Floor,
		},
		IDCtr:          t.NextID,
		Players:        make(map[mcmahon.PlayerID]mcmahon.Player, len(t.Players)),
		Rounds:         t.Rounds,
		OldPairs:       make([][2]mcmahon.PlayerID, 0, len(t.History)),
		CurrentPlayers: t.ActiveIDs(),
		DivisionNames:  t.DivisionNames,
	}
	if doc.Rounds == nil {
		doc.Rounds = []*mcmahon.Round{}
	}
	if !t.Date.IsZero() {
		doc.Date = t.Date.Format(time.RFC3339)
	}
	for id, p := range t.Players {
		doc.Players[id] = *p
	}
	for pair := range t.History {
		doc.OldPairs = append(doc.OldPairs, [2]mcmahon.PlayerID{pair.A, pair.B})
	}
	sort.Slice(doc.OldPairs, func(i, j int) bool {
		if doc.OldPairs[i][0] != doc.OldPairs[j][0] {
			return doc.OldPairs[i][0] < doc.OldPairs[j][0]
		}
		return doc.OldPairs[i][1] < doc.OldPairs[j][1]
	})

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("store.encode: %w", err)
	}

	return data, nil
}

// Decode parses a tournament written by Encode and checks that every player
// id it references is registered.
func Decode(data []byte) (*mcmahon.Tournament, error) {
	var doc tournamentDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store.decode: %w", err)
	}

	scoring, err := mcmahon.ParseScoring(doc.Scoring)
	if err != nil {
		return nil, fmt.Errorf("store.decode: %w", err)
	}
	t := mcmahon.NewTournament(doc.Name, scoring)
	t.Seeding = mcmahon.Seeding{
		Enabled: doc.Seeding.Enabled,
		Bar:     doc.Seeding.Bar,
		Floor:   doc.Seeding.Floor,
	}
	if doc.Date != "" {
		t.Date, err = time.Parse(time.RFC3339, doc.Date)
		if err != nil {
			return nil, fmt.Errorf("store.decode: bad date %q: %w", doc.Date, err)
		}
	}

	t.NextID = doc.IDCtr
	for name, n := range doc.DivisionNames {
		t.DivisionNames[name] = n
	}
	for id, p := range doc.Players {
		if id < 0 || id >= t.NextID {
			return nil, fmt.Errorf("store.decode: player id %d outside counter %d",
				id, t.NextID)
		}
		player := p
		t.Players[id] = &player
	}
	known := func(id mcmahon.PlayerID) error {
		if _, ok := t.Players[id]; !ok {
			return fmt.Errorf("store.decode: %w: %d", mcmahon.ErrUnknownPlayer, id)
		}
		return nil
	}

	t.Rounds = doc.Rounds
	for ridx, r := range t.Rounds {
		if r == nil {
			return nil, fmt.Errorf("store.decode: round %d is empty", ridx+1)
		}
		for bidx, m := range r.Matches {
			if m == nil {
				return nil, fmt.Errorf("store.decode: round %d board %d is empty",
					ridx+1, bidx+1)
			}
			if err := known(m.White); err != nil {
				return nil, err
			}
			if err := known(m.Black); err != nil {
				return nil, err
			}
			if err := m.SetWinner(m.Winner); err != nil {
				return nil, fmt.Errorf("store.decode: round %d board %d: %w",
					ridx+1, bidx+1, err)
			}
		}
	}
	for _, pair := range doc.OldPairs {
		if err := known(pair[0]); err != nil {
			return nil, err
		}
		if err := known(pair[1]); err != nil {
			return nil, err
		}
		t.History[mcmahon.NewPair(pair[0], pair[1])] = struct{}{}
	}
	for _, id := range doc.CurrentPlayers {
		if err := known(id); err != nil {
			return nil, err
		}
		t.Active[id] = struct{}{}
	}

	return t, nil
}
