package auction

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/crichub/portal-sync/pkg/auctioncsv"
)

//go:embed assets/*.csv
var assets embed.FS

var ErrUnknownTournament = errors.New("unknown auction tournament")

// SectionData is one section's records plus whether its title row was ever
// seen, so "section missing" can be reported separately from "section
// empty".
type SectionData struct {
	Found    bool
	Warnings []auctioncsv.Warning
}

// AuctionService serves the auction and historical-winners pages from the
// CSV files bundled with the binary. Each file is parsed once at startup
// and the result is immutable afterwards.
type AuctionService struct {
	tables map[string]*auctioncsv.Result
}

func NewAuctionService() (*AuctionService, error) {
	entries, err := fs.Glob(assets, "assets/*.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to list auction assets: %w", err)
	}

	tables := make(map[string]*auctioncsv.Result, len(entries))
	for _, name := range entries {
		data, err := assets.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read auction asset %s: %w", name, err)
		}
		tag := strings.TrimSuffix(path.Base(name), ".csv")
		result := auctioncsv.ParseString(string(data))
		for _, w := range result.Warnings {
			log.Printf("Auction data %s line %d: %s\n", tag, w.Line, w.Reason)
		}
		tables[tag] = result
	}
	return &AuctionService{tables: tables}, nil
}

// Tournaments lists the tags with bundled auction data, sorted.
func (s *AuctionService) Tournaments() []string {
	tags := make([]string, 0, len(s.tables))
	for tag := range s.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (s *AuctionService) table(tag string) (*auctioncsv.Result, error) {
	table, ok := s.tables[tag]
	if !ok {
		return nil, ErrUnknownTournament
	}
	return table, nil
}

func (s *AuctionService) Sold(tag string) ([]auctioncsv.SoldPlayer, SectionData, error) {
	table, err := s.table(tag)
	if err != nil {
		return nil, SectionData{}, err
	}
	return table.Sold, s.sectionData(table, auctioncsv.SoldPlayers), nil
}

func (s *AuctionService) Unsold(tag string) ([]auctioncsv.UnsoldPlayer, SectionData, error) {
	table, err := s.table(tag)
	if err != nil {
		return nil, SectionData{}, err
	}
	return table.Unsold, s.sectionData(table, auctioncsv.UnsoldPlayers), nil
}

func (s *AuctionService) Budgets(tag string) ([]auctioncsv.TeamBudget, SectionData, error) {
	table, err := s.table(tag)
	if err != nil {
		return nil, SectionData{}, err
	}
	return table.Budgets, s.sectionData(table, auctioncsv.TeamBudgets), nil
}

// Winners returns the historical winners sorted by year ascending. Sorting
// is presentation only; the parse keeps source order.
func (s *AuctionService) Winners(tag string) ([]auctioncsv.SeasonWinner, SectionData, error) {
	table, err := s.table(tag)
	if err != nil {
		return nil, SectionData{}, err
	}

	winners := make([]auctioncsv.SeasonWinner, len(table.Winners))
	copy(winners, table.Winners)
	sort.Slice(winners, func(i, j int) bool {
		return winners[i].Year < winners[j].Year
	})
	return winners, s.sectionData(table, auctioncsv.Winners), nil
}

func (s *AuctionService) sectionData(table *auctioncsv.Result, kind auctioncsv.SectionKind) SectionData {
	var warnings []auctioncsv.Warning
	for _, row := range table.Rows {
		if row.Kind == kind && !row.Accepted() {
			warnings = append(warnings, auctioncsv.Warning{Line: row.Line, Reason: row.Reason})
		}
	}
	return SectionData{
		Found:    !table.SectionMissing(kind),
		Warnings: warnings,
	}
}
