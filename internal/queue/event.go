// Package queue defines message payloads exchanged over the message broker.
package queue

// ApplicationSubmittedEvent is published when a candidate successfully
// applies to a job. It contains enough information for downstream
// consumers to log, notify recruiters, or trigger analytics without
// querying the primary database.
type ApplicationSubmittedEvent struct {
    ApplicationID uint64 `json:"application_id"`
    UserID        uint64 `json:"user_id"`
    JobID         uint64 `json:"job_id"`
    JobTitle      string `json:"job_title"`
    CompanyID     uint64 `json:"company_id"`
    CompanyName   string `json:"company_name"`
    ResumeName    string `json:"resume_name"`
    AppliedAt     string `json:"applied_at"`
}
