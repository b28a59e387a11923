package constants

// ProgressStatus is reported through the optional progress sink while a
// document moves through the analysis pipeline.
type ProgressStatus string

const (
	StatusProcessing ProgressStatus = "processing"
	StatusComplete   ProgressStatus = "complete"
	StatusError      ProgressStatus = "error"
)

// JobStatus is the canonical status for queued analysis jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued   JobStatus = "QUEUED"   // waiting for a worker
	JobStatusRunning  JobStatus = "RUNNING"  // analysis in progress
	JobStatusAnalyzed JobStatus = "ANALYZED" // pipeline finished, result stored
	JobStatusFailed   JobStatus = "FAILED"   // terminal failure
)

// Qualification is the categorical outcome of contractor scoring.
type Qualification string

const (
	Preferred      Qualification = "PREFERRED"
	Qualified      Qualification = "QUALIFIED"
	Conditional    Qualification = "CONDITIONAL"
	ReviewRequired Qualification = "REVIEW_REQUIRED"
	NotQualified   Qualification = "NOT_QUALIFIED"
)

// RiskRating is the categorical risk outcome of COI assessment. Critical is
// part of the declared scale but the current scoring formula cannot reach it.
type RiskRating string

const (
	RiskLow      RiskRating = "Low"
	RiskMedium   RiskRating = "Medium"
	RiskHigh     RiskRating = "High"
	RiskCritical RiskRating = "Critical"
)
