package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turyasin/collections/generic"
)

func TestNewPeriod(t *testing.T) {
	start := generic.MustParseDate("2024-03-04")

	p, err := generic.NewPeriod(start, start)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())

	_, err = generic.NewPeriod(start, start.AddDays(-1))
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

func TestPeriod_ContainsIsInclusive(t *testing.T) {
	p := generic.WeekOf(generic.MustParseDate("2024-03-06"))

	assert.Equal(t, "[2024-03-04, 2024-03-10]", p.String())
	assert.True(t, p.Contains(generic.MustParseDate("2024-03-04")))
	assert.True(t, p.Contains(generic.MustParseDate("2024-03-10")))
	assert.False(t, p.Contains(generic.MustParseDate("2024-03-11")))
	assert.False(t, p.Contains(generic.MustParseDate("2024-03-03")))
	assert.Len(t, p.Days(), 7)
}

func TestPeriod_NextAndPrevious(t *testing.T) {
	p := generic.WeekOf(generic.MustParseDate("2024-03-04"))

	next := p.NextPeriod()
	assert.Equal(t, "2024-03-11", next.Start.String())
	assert.Equal(t, "2024-03-17", next.End.String())

	prev := p.PreviousPeriod()
	assert.Equal(t, "2024-02-26", prev.Start.String())
	assert.Equal(t, "2024-03-03", prev.End.String())
}

func TestMonthAndQuarterOf(t *testing.T) {
	d := generic.MustParseDate("2024-02-14")

	m := generic.MonthOf(d)
	assert.Equal(t, "2024-02-01", m.Start.String())
	assert.Equal(t, "2024-02-29", m.End.String())
	assert.Equal(t, 29, m.Len())

	q := generic.QuarterOf(d)
	assert.Equal(t, "2024-01-01", q.Start.String())
	assert.Equal(t, "2024-03-31", q.End.String())

	q4 := generic.QuarterOf(generic.MustParseDate("2024-12-31"))
	assert.Equal(t, "2024-10-01", q4.Start.String())
	assert.Equal(t, "2024-12-31", q4.End.String())

	assert.Equal(t, m, generic.MonthPeriod(2024, time.February))
}

func TestWeeks_ContiguousAndCovering(t *testing.T) {
	// GIVEN: A Thursday reference date
	// WHEN: Four weeks are generated
	// THEN: They start on the Monday before, touch end to start, and span 28 days

	weeks := generic.Weeks(generic.MustParseDate("2024-02-29"), 4)
	require.Len(t, weeks, 4)

	assert.Equal(t, "2024-02-26", weeks[0].Start.String())
	for i := 1; i < len(weeks); i++ {
		assert.Equal(t, weeks[i-1].End.AddDays(1), weeks[i].Start)
		assert.Equal(t, time.Monday, weeks[i].Start.Weekday())
		assert.Equal(t, 7, weeks[i].Len())
	}
	assert.Equal(t, "2024-03-24", weeks[3].End.String())

	assert.Empty(t, generic.Weeks(generic.MustParseDate("2024-02-29"), 0))
}
