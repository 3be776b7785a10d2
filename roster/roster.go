/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package roster imports registered players from HTML registration tables.
package roster

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/mcmahon-td/internal"
	"github.com/mikeb26/mcmahon-td/mcmahon"
	"golang.org/x/sync/errgroup"
)

// Entry is one registration row. A division given by name is kept in
// DivisionName and numbered by Register.
type Entry struct {
	Name         string
	Rank         int
	AgaID        int
	Division     int
	DivisionName string
}

type columns struct {
	name     int
	rank     int
	aga      int
	division int
}

// Parse reads the first table in r whose header row has Name and Rank
// columns. AGA ID and Division columns are optional. Rows that cannot be
// parsed are logged and skipped.
func Parse(r io.Reader) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var table *goquery.Selection
	var cols columns
	doc.Find("table").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		c, ok := findColumns(s.Find("tr").First())
		if ok {
			table, cols = s, c
			return false
		}
		return true
	})
	if table == nil {
		return nil, fmt.Errorf("registration table not found")
	}

	var entries []Entry
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		e, err := parseRow(cells, cols)
		if err != nil {
			log.Printf("roster.parse: skipping row %d: %v", i, err)
			return
		}
		entries = append(entries, e)
	})

	return entries, nil
}

func findColumns(header *goquery.Selection) (columns, bool) {
	cols := columns{name: -1, rank: -1, aga: -1, division: -1}
	header.Find("th,td").Each(func(i int, cell *goquery.Selection) {
		switch strings.ToLower(strings.TrimSpace(cell.Text())) {
		case "name", "player":
			cols.name = i
		case "rank":
			cols.rank = i
		case "aga id", "aga", "aga #", "id":
			cols.aga = i
		case "division", "div":
			cols.division = i
		}
	})

	return cols, cols.name >= 0 && cols.rank >= 0
}

func cellText(cells *goquery.Selection, idx int) string {
	if idx < 0 || idx >= cells.Length() {
		return ""
	}
	return strings.TrimSpace(cells.Eq(idx).Text())
}

func parseRow(cells *goquery.Selection, cols columns) (Entry, error) {

	e := Entry{Name: cellText(cells, cols.name)}
	if e.Name == "" {
		return e, fmt.Errorf("missing name")
	}
	var err error
	e.Rank, err = mcmahon.ParseRank(cellText(cells, cols.rank))
	if err != nil {
		return e, fmt.Errorf("%v: %w", e.Name, err)
	}
	if raw := cellText(cells, cols.aga); raw != "" {
		e.AgaID, err = strconv.Atoi(raw)
		if err != nil {
			return e, fmt.Errorf("%v: bad AGA id %q", e.Name, raw)
		}
	}
	if raw := cellText(cells, cols.division); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			e.Division = n
		} else {
			e.DivisionName = raw
		}
	}

	return e, nil
}

// Loader fetches registration tables from URLs or local files.
type Loader struct {
	Client *http.Client
}

func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{Client: client}
}

func isURL(src string) bool {
	u, err := url.Parse(src)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Load reads a single source, which is either an http(s) URL or a path.
func (l *Loader) Load(ctx context.Context, src string) ([]Entry, error) {
	if !isURL(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("unable to open roster %v: %w", src, err)
		}
		defer f.Close()
		return Parse(f)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch roster %v (new): %w", src, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch roster %v (do): %w", src, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to fetch roster %v: %v", src, resp.Status)
	}

	return Parse(resp.Body)
}

// LoadAll fetches every source concurrently and returns their entries in
// source order.
func (l *Loader) LoadAll(ctx context.Context, srcs []string) ([]Entry, error) {
	results := make([][]Entry, len(srcs))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			entries, err := l.Load(ctx, src)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = entries
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Entry
	for _, entries := range results {
		all = append(all, entries...)
	}
	return all, nil
}

// Register adds each entry to t as a new player seeded by t's McMahon bar
// and floor, returning the assigned ids. Named divisions resolve through
// t's division table so that every import agrees on their numbers. Entries
// whose AGA id is already registered are skipped.
func Register(t *mcmahon.Tournament, entries []Entry) []mcmahon.PlayerID {
	seen := make(map[int]struct{})
	for _, p := range t.Players {
		if p.AgaID != 0 {
			seen[p.AgaID] = struct{}{}
		}
	}

	var ids []mcmahon.PlayerID
	for _, e := range entries {
		if e.AgaID != 0 {
			if _, ok := seen[e.AgaID]; ok {
				log.Printf("roster.register: %v (AGA %d) already registered",
					e.Name, e.AgaID)
				continue
			}
			seen[e.AgaID] = struct{}{}
		}
		div := e.Division
		if e.DivisionName != "" {
			div = t.DivisionFor(e.DivisionName)
		}
		p := mcmahon.NewPlayer(e.Name, e.Rank, e.AgaID, div, t.SeedFor(e.Rank))
		ids = append(ids, t.AddPlayer(p))
	}

	return ids
}
