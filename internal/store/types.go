package store

import "errors"

// Sentinel errors the core translates into its domain taxonomy. The store
// never exposes driver-specific error codes past this boundary.
var (
	// ErrAlreadySubmitted: the conditional submitted-flag update matched
	// zero rows, meaning a concurrent submission won the race.
	ErrAlreadySubmitted = errors.New("form access already submitted")
	// ErrDuplicate: a unique constraint rejected an insert.
	ErrDuplicate = errors.New("duplicate row")
)

// SnapshotFilter narrows a snapshot scan. Zero values mean "any". Soft-delete
// mirror flags are always filtered regardless of what is set here.
type SnapshotFilter struct {
	AcademicYearID string
	DepartmentID   string
	SubjectID      string
	SemesterID     string
	DivisionID     string
	FacultyID      string
	SemesterNumber int
	StudentBatch   string
	From           int64
	To             int64
	// LiveStudentsOnly additionally drops rows whose student has since been
	// soft-deleted, re-checking the live students table.
	LiveStudentsOnly bool
}
