package auctioncsv

// SectionKind identifies one named block of the auction data file.
type SectionKind int

const (
	SoldPlayers SectionKind = iota
	UnsoldPlayers
	TeamBudgets
	Winners
)

func (k SectionKind) String() string {
	switch k {
	case SoldPlayers:
		return "Sold Players"
	case UnsoldPlayers:
		return "Unsold Players"
	case TeamBudgets:
		return "Team Budgets"
	case Winners:
		return "Winners"
	}
	return "Unknown"
}

// sectionNames maps normalized title-row text to a kind.
var sectionNames = map[string]SectionKind{
	"soldplayers":   SoldPlayers,
	"unsoldplayers": UnsoldPlayers,
	"teambudgets":   TeamBudgets,
	"winners":       Winners,
}

// requiredFields lists the header names a section must carry, normalized.
var requiredFields = map[SectionKind][]string{
	SoldPlayers:   {"id", "name", "baseprice", "purchasedprice", "team"},
	UnsoldPlayers: {"id", "name", "baseprice"},
	TeamBudgets:   {"team", "totalbudget", "remainingbudget"},
	Winners:       {"year", "winner", "runnerup"},
}

type SoldPlayer struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	BasePrice      float64 `json:"basePrice"`
	PurchasedPrice float64 `json:"purchasedPrice"`
	Team           string  `json:"team"`
}

type UnsoldPlayer struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"basePrice"`
}

type TeamBudget struct {
	Team            string  `json:"team"`
	TotalBudget     float64 `json:"totalBudget"`
	RemainingBudget float64 `json:"remainingBudget"`
}

type SeasonWinner struct {
	Year     int    `json:"year"`
	Winner   string `json:"winner"`
	RunnerUp string `json:"runnerUp"`
}

// Warning records one skipped row or unrecognized header, with the 1-based
// source line it came from.
type Warning struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// RowResult is the tagged outcome of one data row: either an accepted,
// typed record or a skip reason. Exactly one of Record and Reason is set.
type RowResult struct {
	Line   int
	Kind   SectionKind
	Record interface{}
	Reason string
}

func (r RowResult) Accepted() bool { return r.Record != nil }

// Result holds whatever valid records the parse found. A section absent
// from SectionsSeen was never announced by a title row, which is distinct
// from a section that was announced but produced no records.
type Result struct {
	Sold     []SoldPlayer
	Unsold   []UnsoldPlayer
	Budgets  []TeamBudget
	Winners  []SeasonWinner
	Rows     []RowResult
	Warnings []Warning

	SectionsSeen map[SectionKind]bool
}

// SectionMissing reports whether no title row for kind appeared anywhere in
// the input.
func (r *Result) SectionMissing(kind SectionKind) bool {
	return !r.SectionsSeen[kind]
}
