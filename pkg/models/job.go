package models

import (
	"time"
)

// JobProvider names an upstream that runs generation as a long-running job.
type JobProvider string

const (
	JobProviderRunway JobProvider = "runway"
	JobProviderSieve  JobProvider = "sieve"
)

// JobState is the gateway-wide status vocabulary every provider maps onto.
type JobState string

const (
	JobStateRunning   JobState = "running"
	JobStateSucceeded JobState = "succeeded"
	JobStateFailed    JobState = "failed"
)

// JobHandle tracks an async provider job. The API returns it on submit; the client
// polls with the id until the status is succeeded or failed. The gateway keeps no
// record of it between calls.
type JobHandle struct {
	ID          string      `json:"id"`
	Provider    JobProvider `json:"provider"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

// JobStatus is the result of a poll. Result is set only when State is succeeded,
// Reason only when it is failed.
type JobStatus struct {
	State  JobState        `json:"state"`
	Result *ProviderResult `json:"result,omitempty"`
	Reason string          `json:"reason,omitempty"`
}

// Terminal reports whether no further transitions are possible.
func (s JobStatus) Terminal() bool {
	return s.State == JobStateSucceeded || s.State == JobStateFailed
}

// Running is the non-terminal status.
func Running() JobStatus {
	return JobStatus{State: JobStateRunning}
}

// Succeeded is the terminal success status carrying the rehosted result.
func Succeeded(result *ProviderResult) JobStatus {
	return JobStatus{State: JobStateSucceeded, Result: result}
}

// Failed is the terminal failure status.
func Failed(reason string) JobStatus {
	return JobStatus{State: JobStateFailed, Reason: reason}
}

// RemoteJob is a provider's own job status after mapping its vocabulary, before
// the gateway has rehosted anything.
type RemoteJob struct {
	State     JobState
	OutputURL string
	Reason    string
}
