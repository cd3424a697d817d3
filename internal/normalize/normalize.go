// Package normalize maps raw upstream records into the canonical Job model.
package normalize

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jobradar/jobradar/internal/model"
)

// rawJob mirrors the JSearch record fields this system extracts. Absent
// fields decode to zero values; the upstream schema is otherwise open-ended
// and everything beyond these fields survives only inside RawData.
type rawJob struct {
	JobID             string `json:"job_id"`
	JobTitle          string `json:"job_title"`
	EmployerName      string `json:"employer_name"`
	EmployerLogo      string `json:"employer_logo"`
	JobCity           string `json:"job_city"`
	JobState          string `json:"job_state"`
	JobCountry        string `json:"job_country"`
	JobDescription    string `json:"job_description"`
	JobApplyLink      string `json:"job_apply_link"`
	JobIsRemote       bool   `json:"job_is_remote"`
	JobEmploymentType string `json:"job_employment_type"`
	JobPostedAtUTC    string `json:"job_posted_at_datetime_utc"`
}

// Job converts one raw upstream record into a canonical Job. A record with
// no job_id is rejected with model.ErrMissingID; a record whose posted-at
// timestamp does not parse is still accepted, with PostedAt left nil. The
// full raw record is retained verbatim in RawData.
func Job(raw json.RawMessage) (model.Job, error) {
	var r rawJob
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.Job{}, fmt.Errorf("decode raw record: %w", err)
	}

	if r.JobID == "" {
		return model.Job{}, model.ErrMissingID
	}

	job := model.Job{
		ID:             r.JobID,
		Title:          r.JobTitle,
		Employer:       r.EmployerName,
		Logo:           r.EmployerLogo,
		City:           r.JobCity,
		State:          r.JobState,
		Country:        r.JobCountry,
		Description:    r.JobDescription,
		ApplyLink:      r.JobApplyLink,
		IsRemote:       r.JobIsRemote,
		EmploymentType: r.JobEmploymentType,
		RawData:        string(raw),
	}

	if r.JobPostedAtUTC != "" {
		if t, err := time.Parse(time.RFC3339, r.JobPostedAtUTC); err == nil {
			job.PostedAt = &t
		}
	}

	return job, nil
}
