// Package auctioncsv parses the hand-maintained auction data files bundled
// with the portal. The files are comma separated and organized into named
// sections, each with its own header row. The data is edited by humans, so
// the parser never gives up on the whole file: bad rows are skipped with a
// warning and everything salvageable is returned.
package auctioncsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

type parserState int

const (
	noSection parserState = iota
	awaitingHeader
	inSection
)

type parser struct {
	state  parserState
	kind   SectionKind
	header []string
	result *Result
}

// Parse reads the whole input and returns every valid record it found. The
// returned error is non-nil only for I/O failures on r; malformed content is
// reported through Result.Warnings instead.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	p := &parser{
		state: noSection,
		result: &Result{
			SectionsSeen: make(map[SectionKind]bool),
		},
	}

	line := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				p.warn(parseErr.Line, fmt.Sprintf("unreadable row: %v", parseErr.Err))
				line = parseErr.Line
				continue
			}
			return nil, fmt.Errorf("error reading auction data: %w", err)
		}
		line++

		cells := trimCells(record)
		if isBlank(cells) {
			continue
		}
		p.row(line, cells)
	}

	return p.result, nil
}

// ParseString is a convenience wrapper for the embedded assets, which are
// read from memory and cannot fail on I/O.
func ParseString(data string) *Result {
	result, _ := Parse(strings.NewReader(data))
	return result
}

func (p *parser) row(line int, cells []string) {
	if len(cells) == 1 {
		p.titleRow(line, cells[0])
		return
	}

	switch p.state {
	case noSection:
		p.warn(line, "data row outside any section")
	case awaitingHeader:
		p.headerRow(line, cells)
	case inSection:
		p.dataRow(line, cells)
	}
}

func (p *parser) titleRow(line int, cell string) {
	kind, ok := sectionNames[normalize(cell)]
	if !ok {
		// Noise, not a section switch. Stay in the current state.
		p.warn(line, fmt.Sprintf("unrecognized section title %q", cell))
		return
	}
	p.state = awaitingHeader
	p.kind = kind
	p.header = nil
	p.result.SectionsSeen[kind] = true
}

func (p *parser) headerRow(line int, cells []string) {
	normalized := make([]string, len(cells))
	for i, c := range cells {
		normalized[i] = normalize(c)
	}
	for _, field := range requiredFields[p.kind] {
		if indexOf(normalized, field) == -1 {
			p.warn(line, fmt.Sprintf("row is not a valid %s header, missing %q", p.kind, field))
			return
		}
	}
	p.state = inSection
	p.header = normalized
}

func (p *parser) dataRow(line int, cells []string) {
	if len(cells) < len(p.header) {
		p.skip(line, fmt.Sprintf("row has %d columns, header has %d", len(cells), len(p.header)))
		return
	}

	fields := make(map[string]string, len(p.header))
	for i, name := range p.header {
		fields[name] = cells[i]
	}

	record, reason := buildRecord(p.kind, fields)
	if record == nil {
		p.skip(line, reason)
		return
	}

	p.result.Rows = append(p.result.Rows, RowResult{Line: line, Kind: p.kind, Record: record})
	switch rec := record.(type) {
	case SoldPlayer:
		p.result.Sold = append(p.result.Sold, rec)
	case UnsoldPlayer:
		p.result.Unsold = append(p.result.Unsold, rec)
	case TeamBudget:
		p.result.Budgets = append(p.result.Budgets, rec)
	case SeasonWinner:
		p.result.Winners = append(p.result.Winners, rec)
	}
}

func buildRecord(kind SectionKind, fields map[string]string) (interface{}, string) {
	switch kind {
	case SoldPlayers:
		base, err := parsePrice(fields["baseprice"])
		if err != nil {
			return nil, fmt.Sprintf("basePrice: %v", err)
		}
		purchased, err := parsePrice(fields["purchasedprice"])
		if err != nil {
			return nil, fmt.Sprintf("purchasedPrice: %v", err)
		}
		return SoldPlayer{
			ID:             fields["id"],
			Name:           fields["name"],
			BasePrice:      base,
			PurchasedPrice: purchased,
			Team:           fields["team"],
		}, ""
	case UnsoldPlayers:
		base, err := parsePrice(fields["baseprice"])
		if err != nil {
			return nil, fmt.Sprintf("basePrice: %v", err)
		}
		return UnsoldPlayer{
			ID:        fields["id"],
			Name:      fields["name"],
			BasePrice: base,
		}, ""
	case TeamBudgets:
		total, err := parsePrice(fields["totalbudget"])
		if err != nil {
			return nil, fmt.Sprintf("totalBudget: %v", err)
		}
		remaining, err := parsePrice(fields["remainingbudget"])
		if err != nil {
			return nil, fmt.Sprintf("remainingBudget: %v", err)
		}
		return TeamBudget{
			Team:            fields["team"],
			TotalBudget:     total,
			RemainingBudget: remaining,
		}, ""
	case Winners:
		year, err := strconv.Atoi(fields["year"])
		if err != nil {
			return nil, fmt.Sprintf("year: %q is not an integer", fields["year"])
		}
		return SeasonWinner{
			Year:     year,
			Winner:   fields["winner"],
			RunnerUp: fields["runnerup"],
		}, ""
	}
	return nil, fmt.Sprintf("unknown section kind %d", kind)
}

func parsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", raw)
	}
	return v, nil
}

func (p *parser) warn(line int, reason string) {
	p.result.Warnings = append(p.result.Warnings, Warning{Line: line, Reason: reason})
}

// skip records both a warning and a tagged row outcome.
func (p *parser) skip(line int, reason string) {
	p.warn(line, reason)
	p.result.Rows = append(p.result.Rows, RowResult{Line: line, Kind: p.kind, Reason: reason})
}

// normalize lowercases and strips everything outside [a-z0-9], so
// "# Sold Players" and "soldPlayers" both resolve to "soldplayers".
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func trimCells(record []string) []string {
	cells := make([]string, len(record))
	for i, c := range record {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func indexOf(list []string, want string) int {
	for i, v := range list {
		if v == want {
			return i
		}
	}
	return -1
}
