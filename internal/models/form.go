package models

const (
	FormStatusDraft  = "draft"
	FormStatusActive = "active"
	FormStatusClosed = "closed"

	// BatchNone marks a lecture-context question; any other batch value
	// denotes a lab batch.
	BatchNone = "None"
)

// FeedbackForm ties a feedback round to a subject allocation: which faculty
// teaches which subject in which division. Created and lifecycle-managed by
// the excluded form service; the core only reads it.
type FeedbackForm struct {
	ID         string `db:"id" json:"id"`
	Title      string `db:"title" json:"title"`
	Status     string `db:"status" json:"status"`
	FacultyID  string `db:"faculty_id" json:"faculty_id"`
	SubjectID  string `db:"subject_id" json:"subject_id"`
	DivisionID string `db:"division_id" json:"division_id"`
	StartDate  int64  `db:"start_date" json:"start_date"`
	EndDate    int64  `db:"end_date" json:"end_date"`
	IsDeleted  bool   `db:"is_deleted" json:"-"`
}

// FormAccess is a one-time-use capability to answer one form. Exactly one of
// StudentID / OverrideStudentID is set; the submitted flag flips false->true
// exactly once and never back.
type FormAccess struct {
	AccessToken       string  `db:"access_token" json:"access_token"`
	FormID            string  `db:"form_id" json:"form_id"`
	StudentID         *string `db:"student_id" json:"student_id,omitempty"`
	OverrideStudentID *string `db:"override_student_id" json:"override_student_id,omitempty"`
	Submitted         bool    `db:"submitted" json:"submitted"`
}

type FeedbackQuestion struct {
	ID        string `db:"id" json:"id"`
	FormID    string `db:"form_id" json:"form_id"`
	Text      string `db:"text" json:"text"`
	Type      string `db:"type" json:"type"`
	Category  string `db:"category" json:"category"`
	Batch     string `db:"batch" json:"batch"`
	FacultyID string `db:"faculty_id" json:"faculty_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
	IsDeleted bool   `db:"is_deleted" json:"-"`
}
