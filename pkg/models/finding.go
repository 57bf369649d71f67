package models

import "time"

// Level is the severity of a validation finding
type Level string

const (
	LevelError Level = "ERROR"
	LevelWarn  Level = "WARN"
)

// FindingType is always "configuration" for property validators
const FindingType = "configuration"

// Finding is an advisory problem with a proposed or existing property value
type Finding struct {
	Type       string `json:"type" yaml:"type"`
	Level      Level  `json:"level" yaml:"level"`
	Message    string `json:"message" yaml:"message"`
	ConfigType string `json:"config_type" yaml:"config_type"`
	ConfigName string `json:"config_name" yaml:"config_name"`
}

// Action is what an advisory run computed
type Action string

const (
	ActionRecommend Action = "recommend"
	ActionValidate  Action = "validate"
)

// AdvisoryRun is the persisted outcome of one advisory request
type AdvisoryRun struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty"`
	ClusterName  string `json:"cluster_name" yaml:"cluster_name"`
	StackName    string `json:"stack_name" yaml:"stack_name"`
	StackVersion string `json:"stack_version" yaml:"stack_version"`
	Action       Action `json:"action" yaml:"action"`

	Writes     []PropertyWrite  `json:"writes" yaml:"writes"`
	Attributes []AttributeWrite `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Findings   []Finding        `json:"findings,omitempty" yaml:"findings,omitempty"`

	// Errors holds per-service recommender failures; they never abort a run
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// WarningCount returns the number of WARN findings
func (r *AdvisoryRun) WarningCount() int {
	return r.countLevel(LevelWarn)
}

// ErrorCount returns the number of ERROR findings
func (r *AdvisoryRun) ErrorCount() int {
	return r.countLevel(LevelError)
}

func (r *AdvisoryRun) countLevel(level Level) int {
	n := 0
	for _, f := range r.Findings {
		if f.Level == level {
			n++
		}
	}
	return n
}

// Lifecycle audit actions and statuses
const (
	AuditStart = "START"
	AuditStop  = "STOP"

	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
	StatusSkipped = "SKIPPED"
)

// AuditEntry records a lifecycle action taken against a service daemon
type AuditEntry struct {
	ID           string    `json:"id" yaml:"id"`
	Service      string    `json:"service" yaml:"service"`
	Action       string    `json:"action" yaml:"action"` // START, STOP
	Status       string    `json:"status" yaml:"status"` // SUCCESS, FAILED, SKIPPED
	ErrorMessage string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	ExecutedBy   string    `json:"executed_by" yaml:"executed_by"`
	ExecutedAt   time.Time `json:"executed_at" yaml:"executed_at"`
}
