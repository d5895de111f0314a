package auction

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceLoadsEmbeddedAssets(t *testing.T) {
	s, err := NewAuctionService()
	assert.NoError(t, err)
	assert.Equal(t, []string{"ipl", "wpl"}, s.Tournaments())

	sold, section, err := s.Sold("ipl")
	assert.NoError(t, err)
	assert.True(t, section.Found)
	assert.NotEmpty(t, sold)
	assert.Empty(t, section.Warnings)

	budgets, section, err := s.Budgets("wpl")
	assert.NoError(t, err)
	assert.True(t, section.Found)
	assert.Len(t, budgets, 5)
}

func TestWinnersSortedByYearAscending(t *testing.T) {
	s, err := NewAuctionService()
	assert.NoError(t, err)

	winners, section, err := s.Winners("ipl")
	assert.NoError(t, err)
	assert.True(t, section.Found)
	assert.NotEmpty(t, winners)
	assert.True(t, sort.SliceIsSorted(winners, func(i, j int) bool {
		return winners[i].Year < winners[j].Year
	}))
	assert.Equal(t, 2008, winners[0].Year)
}

func TestUnknownTournament(t *testing.T) {
	s, err := NewAuctionService()
	assert.NoError(t, err)

	_, _, err = s.Sold("bbl")
	assert.Equal(t, ErrUnknownTournament, err)
}
