package auctioncsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSoldPlayersDropsBadRow(t *testing.T) {
	data := "# Sold Players\n" +
		"id,name,basePrice,purchasedPrice,team\n" +
		"1,A,100,250,TeamX\n" +
		"2,B,100,notanumber,TeamY\n"

	result := ParseString(data)

	assert.Len(t, result.Sold, 1)
	assert.Equal(t, SoldPlayer{ID: "1", Name: "A", BasePrice: 100, PurchasedPrice: 250, Team: "TeamX"}, result.Sold[0])
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Reason, "purchasedPrice")
}

func TestParseMissingSectionDistinctFromEmpty(t *testing.T) {
	data := "# Sold Players\n" +
		"id,name,basePrice,purchasedPrice,team\n" +
		"1,A,100,250,TeamX\n" +
		"# Winners\n" +
		"year,winner,runnerUp\n"

	result := ParseString(data)

	assert.Empty(t, result.Winners)
	assert.False(t, result.SectionMissing(Winners), "winners header was present, just empty")
	assert.True(t, result.SectionMissing(UnsoldPlayers), "unsold section never appeared")
}

func TestParseWinnersYearValidation(t *testing.T) {
	data := "# Winners\n" +
		"year,winner,runnerUp\n" +
		"abc,TeamX,TeamY\n" +
		"2023,TeamX,TeamY\n"

	result := ParseString(data)

	assert.Len(t, result.Winners, 1)
	assert.Equal(t, 2023, result.Winners[0].Year)
	assert.Len(t, result.Warnings, 1)
}

func TestParsePreservesRowOrder(t *testing.T) {
	data := "# Winners\n" +
		"year,winner,runnerUp\n" +
		"2024,TeamB,TeamC\n" +
		"2022,TeamA,TeamB\n" +
		"2023,TeamC,TeamA\n"

	result := ParseString(data)

	years := []int{}
	for _, w := range result.Winners {
		years = append(years, w.Year)
	}
	assert.Equal(t, []int{2024, 2022, 2023}, years)
}

func TestParseUnknownTitleRowIsNoise(t *testing.T) {
	data := "# Sold Players\n" +
		"id,name,basePrice,purchasedPrice,team\n" +
		"1,A,100,250,TeamX\n" +
		"some stray note\n" +
		"2,B,100,300,TeamY\n"

	result := ParseString(data)

	// The stray single-cell row is warned about but does not end the
	// section; the following data row still lands in Sold Players.
	assert.Len(t, result.Sold, 2)
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Reason, "unrecognized section title")
}

func TestParseHeaderMustMatchSection(t *testing.T) {
	data := "# Team Budgets\n" +
		"id,name,basePrice\n" +
		"team,totalBudget,remainingBudget\n" +
		"TeamX,12000,450\n"

	result := ParseString(data)

	assert.Len(t, result.Budgets, 1)
	assert.Equal(t, TeamBudget{Team: "TeamX", TotalBudget: 12000, RemainingBudget: 450}, result.Budgets[0])
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Reason, "not a valid Team Budgets header")
}

func TestParseShortRowIsSkipped(t *testing.T) {
	data := "# Unsold Players\n" +
		"id,name,basePrice\n" +
		"1,OnlyTwoCells\n" +
		"2,B,150\n"

	result := ParseString(data)

	assert.Len(t, result.Unsold, 1)
	assert.Equal(t, "2", result.Unsold[0].ID)
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Reason, "columns")
}

func TestParseDataOutsideSection(t *testing.T) {
	data := "1,A,100\n" +
		"# Unsold Players\n" +
		"id,name,basePrice\n" +
		"2,B,150\n"

	result := ParseString(data)

	assert.Len(t, result.Unsold, 1)
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Reason, "outside any section")
}

func TestParseHeaderSupersetAndReordered(t *testing.T) {
	data := "# Unsold Players\n" +
		"name,id,basePrice,notes\n" +
		"A,1,100,left out of the final list\n"

	result := ParseString(data)

	assert.Len(t, result.Unsold, 1)
	assert.Equal(t, UnsoldPlayer{ID: "1", Name: "A", BasePrice: 100}, result.Unsold[0])
	assert.Empty(t, result.Warnings)
}

func TestParseQuotedFieldsAndWhitespace(t *testing.T) {
	data := "# Sold Players\n" +
		"id, name, basePrice, purchasedPrice, team\n" +
		"1, \"Kohli, Virat\", 200, 1500, \"Royal Challengers\"\n"

	result := ParseString(data)

	assert.Len(t, result.Sold, 1)
	assert.Equal(t, "Kohli, Virat", result.Sold[0].Name)
	assert.Equal(t, "Royal Challengers", result.Sold[0].Team)
}

func TestParseSectionTitleNormalization(t *testing.T) {
	cases := []string{"# Winners", "winners", "WINNERS", "Winners:", "  winners  "}
	for _, title := range cases {
		data := title + "\n" +
			"year,winner,runnerUp\n" +
			"2023,TeamX,TeamY\n"

		result := ParseString(data)
		assert.Len(t, result.Winners, 1, "title %q", title)
	}
}

func TestParseRowOutcomesAreTagged(t *testing.T) {
	data := "# Winners\n" +
		"year,winner,runnerUp\n" +
		"2023,TeamX,TeamY\n" +
		"abc,TeamZ,TeamW\n"

	result := ParseString(data)

	assert.Len(t, result.Rows, 2)
	assert.True(t, result.Rows[0].Accepted())
	assert.False(t, result.Rows[1].Accepted())
	assert.Contains(t, result.Rows[1].Reason, "year")
	assert.Equal(t, Winners, result.Rows[1].Kind)
}

func TestParseMultipleSections(t *testing.T) {
	data := "# Sold Players\n" +
		"id,name,basePrice,purchasedPrice,team\n" +
		"1,A,100,250,TeamX\n" +
		"\n" +
		"# Unsold Players\n" +
		"id,name,basePrice\n" +
		"2,B,150\n" +
		"# Team Budgets\n" +
		"team,totalBudget,remainingBudget\n" +
		"TeamX,12000,450\n" +
		"# Winners\n" +
		"year,winner,runnerUp\n" +
		"2023,TeamX,TeamY\n"

	result := ParseString(data)

	assert.Len(t, result.Sold, 1)
	assert.Len(t, result.Unsold, 1)
	assert.Len(t, result.Budgets, 1)
	assert.Len(t, result.Winners, 1)
	assert.Empty(t, result.Warnings)
	for _, kind := range []SectionKind{SoldPlayers, UnsoldPlayers, TeamBudgets, Winners} {
		assert.False(t, result.SectionMissing(kind))
	}
}

func TestParseEmptyInput(t *testing.T) {
	result := ParseString("")

	assert.Empty(t, result.Sold)
	assert.Empty(t, result.Warnings)
	assert.True(t, result.SectionMissing(SoldPlayers))
}

func TestParseNonFiniteNumbersRejected(t *testing.T) {
	data := "# Unsold Players\n" +
		"id,name,basePrice\n" +
		"1,A,NaN\n" +
		"2,B,+Inf\n" +
		"3,C,150\n"

	result := ParseString(data)

	assert.Len(t, result.Unsold, 1)
	assert.Equal(t, "3", result.Unsold[0].ID)
	assert.Len(t, result.Warnings, 2)
}
