package domain

import (
	"time"
)

// RunStatus represents the overall status of a bump run
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusRunning    RunStatus = "running"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
	RunStatusRolledBack RunStatus = "rolled_back"
)

// OperationStatus represents the status of an individual operation
type OperationStatus string

const (
	OperationStatusPending    OperationStatus = "pending"
	OperationStatusRunning    OperationStatus = "running"
	OperationStatusCompleted  OperationStatus = "completed"
	OperationStatusFailed     OperationStatus = "failed"
	OperationStatusRolledBack OperationStatus = "rolled_back"
)

// OperationType identifies the type of operation
type OperationType string

const (
	OperationTypeWriteManifest   OperationType = "write_manifest"
	OperationTypeVerifyManifests OperationType = "verify_manifests"
	OperationTypeMarkBranch      OperationType = "mark_branch"
	OperationTypeStageManifests  OperationType = "stage_manifests"
)

// BumpJournal records what a single bump run did, so completed operations can
// be compensated in reverse order when a later one fails.
type BumpJournal struct {
	RunID       string            `json:"run_id"`
	StartedAt   time.Time         `json:"started_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Branch      string            `json:"branch"`
	FromVersion string            `json:"from_version"`
	ToVersion   string            `json:"to_version"`
	Operations  []OperationRecord `json:"operations"`
	Status      RunStatus         `json:"status"`
	Error       string            `json:"error,omitempty"`
}

// OperationRecord represents a single operation in the run. Name is unique
// within a journal.
type OperationRecord struct {
	Name         string          `json:"name"`
	Type         OperationType   `json:"type"`
	Status       OperationStatus `json:"status"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	RollbackData map[string]any  `json:"rollback_data,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// NewBumpJournal creates an empty journal for a run
func NewBumpJournal(runID string) *BumpJournal {
	now := time.Now()
	return &BumpJournal{
		RunID:      runID,
		StartedAt:  now,
		UpdatedAt:  now,
		Operations: []OperationRecord{},
		Status:     RunStatusPending,
	}
}

// AddOperation appends a pending operation
func (j *BumpJournal) AddOperation(name string, opType OperationType) {
	j.Operations = append(j.Operations, OperationRecord{
		Name:   name,
		Type:   opType,
		Status: OperationStatusPending,
	})
	j.UpdatedAt = time.Now()
}

// Operation returns the record with the given name, or nil
func (j *BumpJournal) Operation(name string) *OperationRecord {
	for i := range j.Operations {
		if j.Operations[i].Name == name {
			return &j.Operations[i]
		}
	}
	return nil
}

// CompletedOperations returns completed operations, most recent first
func (j *BumpJournal) CompletedOperations() []OperationRecord {
	var completed []OperationRecord
	for i := len(j.Operations) - 1; i >= 0; i-- {
		if j.Operations[i].Status == OperationStatusCompleted {
			completed = append(completed, j.Operations[i])
		}
	}
	return completed
}

// MarkStarted moves a pending operation to running
func (j *BumpJournal) MarkStarted(name string) {
	if op := j.Operation(name); op != nil && op.Status == OperationStatusPending {
		op.Status = OperationStatusRunning
		op.StartedAt = time.Now()
		j.UpdatedAt = op.StartedAt
	}
}

// MarkCompleted records a finished operation with the data needed to undo it
func (j *BumpJournal) MarkCompleted(name string, rollbackData map[string]any) {
	now := time.Now()
	if op := j.Operation(name); op != nil && op.Status == OperationStatusRunning {
		op.Status = OperationStatusCompleted
		op.CompletedAt = &now
		op.RollbackData = rollbackData
		j.UpdatedAt = now
	}
}

// MarkFailed records a failed operation and fails the run
func (j *BumpJournal) MarkFailed(name string, err error) {
	now := time.Now()
	if op := j.Operation(name); op != nil && op.Status == OperationStatusRunning {
		op.Status = OperationStatusFailed
		op.CompletedAt = &now
		op.Error = err.Error()
	}
	j.UpdatedAt = now
	j.Status = RunStatusFailed
	j.Error = err.Error()
}

// MarkRolledBack records a compensated operation
func (j *BumpJournal) MarkRolledBack(name string) {
	if op := j.Operation(name); op != nil && op.Status == OperationStatusCompleted {
		op.Status = OperationStatusRolledBack
		j.UpdatedAt = time.Now()
	}
}
