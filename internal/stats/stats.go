// Package stats computes derived statistics over the stored corpus. Every
// snapshot is recomputed from scratch; there is deliberately no cached or
// incremental state, so identical store contents always produce identical
// snapshots.
package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jobradar/jobradar/internal/model"
)

const topCitiesLimit = 5

// NameCount is a generic {name, count} pair used for city and per-day
// rankings.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TypeCount pairs an employment type with its frequency.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Snapshot is the analytics payload served by /analytics. Field names are
// the wire contract consumed by the dashboard.
type Snapshot struct {
	TotalJobs       int         `json:"total_jobs"`
	RemotePercent   float64     `json:"remote_percent"`
	TopCities       []NameCount `json:"top_cities"`
	EmploymentTypes []TypeCount `json:"employment_types"`
	ComputerJobs    int         `json:"number_computer_jobs"`
	JobsToday       int         `json:"number_of_jobs_today"`
	JobsByDay       []NameCount `json:"number_of_jobs_by_days"`
}

// Compute derives a Snapshot from the full corpus. It is a pure function of
// its arguments: jobs in, snapshot out, no I/O. Records without a posted-at
// timestamp count toward totals but are excluded from the per-day series.
func Compute(now time.Time, jobs []model.Job) Snapshot {
	snap := Snapshot{
		TotalJobs:       len(jobs),
		TopCities:       []NameCount{},
		EmploymentTypes: []TypeCount{},
		JobsByDay:       []NameCount{},
	}

	var (
		remote     int
		cityCounts = map[string]int{}
		cityOrder  []string
		typeCounts = map[string]int{}
		typeOrder  []string
		dayCounts  = map[string]int{}
	)

	for _, job := range jobs {
		if job.IsRemote {
			remote++
		}
		if job.City != "" {
			if _, seen := cityCounts[job.City]; !seen {
				cityOrder = append(cityOrder, job.City)
			}
			cityCounts[job.City]++
		}
		if job.EmploymentType != "" {
			if _, seen := typeCounts[job.EmploymentType]; !seen {
				typeOrder = append(typeOrder, job.EmploymentType)
			}
			typeCounts[job.EmploymentType]++
		}
		if strings.Contains(strings.ToLower(job.Title), "computer") {
			snap.ComputerJobs++
		}
		if job.PostedAt != nil {
			dayCounts[job.PostedAt.UTC().Format(time.DateOnly)]++
		}
	}

	if len(jobs) > 0 {
		pct := 100 * float64(remote) / float64(len(jobs))
		snap.RemotePercent = math.Round(pct*10) / 10
	}

	// Top cities: stable count-descending sort over first-encountered
	// order, so ties keep their ingestion order.
	cities := make([]NameCount, 0, len(cityOrder))
	for _, c := range cityOrder {
		cities = append(cities, NameCount{Name: c, Count: cityCounts[c]})
	}
	sort.SliceStable(cities, func(i, j int) bool {
		return cities[i].Count > cities[j].Count
	})
	if len(cities) > topCitiesLimit {
		cities = cities[:topCitiesLimit]
	}
	snap.TopCities = cities

	for _, et := range typeOrder {
		snap.EmploymentTypes = append(snap.EmploymentTypes, TypeCount{Type: et, Count: typeCounts[et]})
	}

	// Per-day series sorted ascending by date. DateOnly strings sort
	// chronologically.
	days := make([]string, 0, len(dayCounts))
	for d := range dayCounts {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		snap.JobsByDay = append(snap.JobsByDay, NameCount{Name: d, Count: dayCounts[d]})
	}

	snap.JobsToday = dayCounts[now.UTC().Format(time.DateOnly)]

	return snap
}
