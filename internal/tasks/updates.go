package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Dispatch Phase = iota
	Export
	Manifest
)

func (p Phase) String() string {
	switch p {
	case Dispatch:
		return "dispatch"
	case Export:
		return "export"
	case Manifest:
		return "manifest"
	default:
		return ""
	}
}

func dispatchUpdate(step, total int, job Job) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Dispatch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, job),
		Data:    job,
	}
}

func exportCompletedUpdate(step, total int, res JobResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Export,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d items)", step, total, res.Job, res.Items),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res JobResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Export,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Job, res.Err),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Manifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
