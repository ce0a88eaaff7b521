package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors shared by the staging engine, the services and the adapters.
var (
	ErrNotFound                = errors.New("not found")
	ErrValidation              = errors.New("validation failed")
	ErrAuthRequired            = errors.New("authentication required")
	ErrCommitRejected          = errors.New("commit rejected")
	ErrNetworkFailure          = errors.New("network failure")
	ErrUpstreamFailure         = errors.New("storage service failure")
	ErrMissingEvent            = errors.New("event context is missing")
	ErrCommitInFlight          = errors.New("a commit is already in progress")
	ErrNothingToCommit         = errors.New("nothing to commit")
	ErrPOCConfirmationRequired = errors.New("point of contact transfer needs confirmation")
	ErrEditorClosed            = errors.New("editor is not open")
	ErrEditorOpen              = errors.New("editor is already open")
	ErrUnsavedChanges          = errors.New("editor has unsaved changes")
	ErrDeleteRejected          = errors.New("delete rejected")
)

// DefaultCommitErrorMessage is surfaced when the storage service rejects a commit without a message.
const DefaultCommitErrorMessage = "Failed to save guest list changes"

// ValidationError lists the fields that block a save. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// CommitRejectedError carries the message returned with a rejected commit. It matches ErrCommitRejected.
type CommitRejectedError struct {
	StatusCode int
	Message    string
}

func (e *CommitRejectedError) Error() string {
	return fmt.Sprintf("commit rejected (status %d): %s", e.StatusCode, e.Message)
}

func (e *CommitRejectedError) Is(target error) bool { return target == ErrCommitRejected }

// POCConflictError reports the guest currently holding the point-of-contact role.
// It matches ErrPOCConfirmationRequired.
type POCConflictError struct {
	GroupID   ID
	Incumbent Guest
}

func (e *POCConflictError) Error() string {
	return fmt.Sprintf("group %s already has %q as point of contact", e.GroupID, e.Incumbent.Name)
}

func (e *POCConflictError) Is(target error) bool { return target == ErrPOCConfirmationRequired }
