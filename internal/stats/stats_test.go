package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobradar/jobradar/internal/model"
)

func ts(year int, month time.Month, day, hour int) *time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestCompute_EmptyCorpus(t *testing.T) {
	snap := Compute(time.Now(), nil)

	assert.Equal(t, 0, snap.TotalJobs)
	assert.Equal(t, 0.0, snap.RemotePercent)
	assert.Empty(t, snap.TopCities)
	assert.Empty(t, snap.EmploymentTypes)
	assert.Equal(t, 0, snap.ComputerJobs)
	assert.Equal(t, 0, snap.JobsToday)
	assert.Empty(t, snap.JobsByDay)

	// Empty slices, not nil: the JSON payload must carry [] rather than null.
	require.NotNil(t, snap.TopCities)
	require.NotNil(t, snap.EmploymentTypes)
	require.NotNil(t, snap.JobsByDay)
}

func TestCompute_RemotePercent(t *testing.T) {
	var jobs []model.Job
	for i := 0; i < 10; i++ {
		jobs = append(jobs, model.Job{ID: string(rune('a' + i)), IsRemote: i < 3})
	}

	snap := Compute(time.Now(), jobs)

	assert.Equal(t, 10, snap.TotalJobs)
	assert.Equal(t, 30.0, snap.RemotePercent)
}

func TestCompute_RemotePercentRounding(t *testing.T) {
	// 1 remote of 3 = 33.333…%, rounded to one decimal place.
	jobs := []model.Job{
		{ID: "a", IsRemote: true},
		{ID: "b"},
		{ID: "c"},
	}

	snap := Compute(time.Now(), jobs)
	assert.Equal(t, 33.3, snap.RemotePercent)
}

func TestCompute_TopCities(t *testing.T) {
	jobs := []model.Job{
		{ID: "1", City: "Toronto"},
		{ID: "2", City: "Vancouver"},
		{ID: "3", City: "Toronto"},
		{ID: "4", City: "Montreal"},
		{ID: "5", City: "Vancouver"},
		{ID: "6", City: "Toronto"},
		{ID: "7", City: ""}, // absent city is excluded
		{ID: "8", City: "Calgary"},
		{ID: "9", City: "Ottawa"},
		{ID: "10", City: "Halifax"},
	}

	snap := Compute(time.Now(), jobs)

	require.Len(t, snap.TopCities, 5)
	assert.Equal(t, NameCount{Name: "Toronto", Count: 3}, snap.TopCities[0])
	assert.Equal(t, NameCount{Name: "Vancouver", Count: 2}, snap.TopCities[1])
	// Ties (1 each) keep first-encountered order; Halifax falls off the top 5.
	assert.Equal(t, NameCount{Name: "Montreal", Count: 1}, snap.TopCities[2])
	assert.Equal(t, NameCount{Name: "Calgary", Count: 1}, snap.TopCities[3])
	assert.Equal(t, NameCount{Name: "Ottawa", Count: 1}, snap.TopCities[4])
}

func TestCompute_EmploymentTypes(t *testing.T) {
	jobs := []model.Job{
		{ID: "1", EmploymentType: "FULLTIME"},
		{ID: "2", EmploymentType: "CONTRACTOR"},
		{ID: "3", EmploymentType: "FULLTIME"},
		{ID: "4"}, // absent type is excluded
	}

	snap := Compute(time.Now(), jobs)

	require.Len(t, snap.EmploymentTypes, 2)
	assert.Contains(t, snap.EmploymentTypes, TypeCount{Type: "FULLTIME", Count: 2})
	assert.Contains(t, snap.EmploymentTypes, TypeCount{Type: "CONTRACTOR", Count: 1})
}

func TestCompute_ComputerJobs(t *testing.T) {
	jobs := []model.Job{
		{ID: "1", Title: "Computer Vision Engineer"},
		{ID: "2", Title: "Senior COMPUTER Scientist"},
		{ID: "3", Title: "Data Engineer"},
	}

	snap := Compute(time.Now(), jobs)
	assert.Equal(t, 2, snap.ComputerJobs)
}

func TestCompute_JobsByDay(t *testing.T) {
	now := time.Date(2026, 8, 22, 15, 30, 0, 0, time.UTC)
	jobs := []model.Job{
		{ID: "1", PostedAt: ts(2026, 8, 22, 9)},
		{ID: "2", PostedAt: ts(2026, 8, 20, 10)},
		{ID: "3", PostedAt: ts(2026, 8, 22, 23)},
		{ID: "4", PostedAt: ts(2026, 8, 21, 0)},
		{ID: "5"}, // no posted-at: counted in totals, excluded from the series
	}

	snap := Compute(now, jobs)

	assert.Equal(t, 5, snap.TotalJobs)
	require.Len(t, snap.JobsByDay, 3)
	assert.Equal(t, []NameCount{
		{Name: "2026-08-20", Count: 1},
		{Name: "2026-08-21", Count: 1},
		{Name: "2026-08-22", Count: 2},
	}, snap.JobsByDay)

	total := 0
	for _, d := range snap.JobsByDay {
		total += d.Count
	}
	assert.Equal(t, 4, total)

	assert.Equal(t, 2, snap.JobsToday)
}

func TestCompute_JobsTodayUsesUTCCalendarDate(t *testing.T) {
	// 2026-08-23 01:00 in UTC+10 is still 2026-08-22 in UTC.
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2026, 8, 23, 1, 0, 0, 0, loc)

	jobs := []model.Job{{ID: "1", PostedAt: ts(2026, 8, 22, 12)}}

	snap := Compute(now, jobs)
	assert.Equal(t, 1, snap.JobsToday)
}

func TestCompute_Deterministic(t *testing.T) {
	now := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)
	jobs := []model.Job{
		{ID: "1", City: "Toronto", EmploymentType: "FULLTIME", PostedAt: ts(2026, 8, 21, 8), IsRemote: true},
		{ID: "2", City: "Vancouver", EmploymentType: "PARTTIME", PostedAt: ts(2026, 8, 22, 8)},
		{ID: "3", City: "Toronto", PostedAt: ts(2026, 8, 22, 9)},
	}

	first := Compute(now, jobs)
	second := Compute(now, jobs)
	assert.Equal(t, first, second)
}
