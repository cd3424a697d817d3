package normalize

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jobradar/jobradar/internal/model"
)

func TestJob_FullRecord(t *testing.T) {
	raw := json.RawMessage(`{
		"job_id": "abc123",
		"job_title": "Data Engineer",
		"employer_name": "Acme Corp",
		"employer_logo": "https://example.com/logo.png",
		"job_city": "Toronto",
		"job_state": "ON",
		"job_country": "CA",
		"job_description": "Build pipelines.",
		"job_apply_link": "https://example.com/apply",
		"job_is_remote": true,
		"job_employment_type": "FULLTIME",
		"job_posted_at_datetime_utc": "2026-08-20T12:00:00Z",
		"job_salary_currency": "CAD"
	}`)

	job, err := Job(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID != "abc123" {
		t.Errorf("ID = %q", job.ID)
	}
	if job.Title != "Data Engineer" || job.Employer != "Acme Corp" {
		t.Errorf("Title/Employer = %q/%q", job.Title, job.Employer)
	}
	if job.City != "Toronto" || job.State != "ON" || job.Country != "CA" {
		t.Errorf("location = %q/%q/%q", job.City, job.State, job.Country)
	}
	if !job.IsRemote {
		t.Error("expected IsRemote true")
	}
	if job.EmploymentType != "FULLTIME" {
		t.Errorf("EmploymentType = %q", job.EmploymentType)
	}
	if job.PostedAt == nil {
		t.Fatal("expected PostedAt to be set")
	}
	want := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	if !job.PostedAt.Equal(want) {
		t.Errorf("PostedAt = %v, want %v", job.PostedAt, want)
	}
	// The raw record is retained verbatim, including fields the canonical
	// schema does not model.
	if job.RawData != string(raw) {
		t.Error("RawData does not match original record")
	}
}

func TestJob_MissingIDRejected(t *testing.T) {
	raw := json.RawMessage(`{"job_title": "Ghost Listing"}`)

	_, err := Job(raw)
	if !errors.Is(err, model.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestJob_PartialRecordUsesDefaults(t *testing.T) {
	raw := json.RawMessage(`{"job_id": "only-id"}`)

	job, err := Job(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Title != "" || job.Employer != "" || job.City != "" {
		t.Errorf("expected empty strings for absent fields, got %+v", job)
	}
	if job.IsRemote {
		t.Error("expected IsRemote to default to false")
	}
	if job.PostedAt != nil {
		t.Error("expected PostedAt nil when absent")
	}
}

func TestJob_BadTimestampStillAccepted(t *testing.T) {
	raw := json.RawMessage(`{"job_id": "x", "job_posted_at_datetime_utc": "two weeks ago"}`)

	job, err := Job(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.PostedAt != nil {
		t.Error("expected PostedAt nil on parse failure")
	}
}

func TestJob_MalformedJSON(t *testing.T) {
	_, err := Job(json.RawMessage(`{"job_id": truncated`))
	if err == nil {
		t.Fatal("expected error for malformed record")
	}
}
