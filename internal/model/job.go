package model

import (
	"context"
	"encoding/json"
	"time"
)

// Job is the canonical stored representation of one listing, normalized from
// the upstream search API. The JSON tags are the wire names served by the
// /jobs endpoint.
type Job struct {
	ID             string     `json:"id"` // upstream stable identifier, primary key
	Title          string     `json:"title"`
	Employer       string     `json:"employer"`
	Logo           string     `json:"logo"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Country        string     `json:"country"`
	Description    string     `json:"description"`
	ApplyLink      string     `json:"apply_link"`
	IsRemote       bool       `json:"is_remote"`
	EmploymentType string     `json:"employment_type"`
	PostedAt       *time.Time `json:"posted_at"` // nullable (upstream often omits or mangles it)
	RawData        string     `json:"raw_data"`  // full upstream record, kept verbatim for debugging
}

// Filter holds the optional, AND-combined criteria for a listing query.
// Zero values mean "not filtered". Search matches title, description, or
// employer; Location matches city, state, or country. All matching is
// case-insensitive substring.
type Filter struct {
	Search         string
	Location       string
	Remote         *bool
	EmploymentType string
}

// JobStore is the durable keyed store for canonical jobs.
type JobStore interface {
	// Upsert inserts the record or, when a row with the same ID exists,
	// replaces every field with the incoming values. Whole-record replace
	// is the contract: a re-fetch with fewer populated fields clears the
	// previously stored ones.
	Upsert(ctx context.Context, job Job) error

	// Query returns records matching the filter, in insertion order.
	Query(ctx context.Context, f Filter) ([]Job, error)

	// All returns the full corpus. Used by the aggregation engine.
	All(ctx context.Context) ([]Job, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	Close() error
}

// JobSource fetches raw listing records for one query. Implemented by the
// jsearch client; abstracted so the ingest cycle can be tested with a fake.
type JobSource interface {
	FetchAll(ctx context.Context, query string, maxPages int) []json.RawMessage
}
