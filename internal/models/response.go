package models

// StudentResponse is the normalized record of one answer. Written exactly
// once per (respondent, question) and never updated; administrative flows
// may later soft-delete it. ResponseValue is always JSON-serialized text,
// whatever the native type of the answer was.
type StudentResponse struct {
	ID                string  `db:"id" json:"id"`
	StudentID         *string `db:"student_id" json:"student_id,omitempty"`
	OverrideStudentID *string `db:"override_student_id" json:"override_student_id,omitempty"`
	QuestionID        string  `db:"question_id" json:"question_id"`
	FormID            string  `db:"form_id" json:"form_id"`
	ResponseValue     string  `db:"response_value" json:"response_value"`
	SubmittedAt       int64   `db:"submitted_at" json:"submitted_at"`
	IsDeleted         bool    `db:"is_deleted" json:"-"`
}

// FeedbackSnapshot is the denormalized, point-in-time copy of one response
// plus every dimension the analytics layer groups on. The *_deleted columns
// mirror the referenced entity's soft-delete flag as of write time; queries
// trust these mirrors instead of re-joining live tables.
type FeedbackSnapshot struct {
	ID                   string  `db:"id" json:"id"`
	OriginalResponseID   string  `db:"original_response_id" json:"original_response_id"`
	FormID               string  `db:"form_id" json:"form_id"`
	FormStatus           string  `db:"form_status" json:"form_status"`
	FormDeleted          bool    `db:"form_deleted" json:"-"`
	AcademicYearID       *string `db:"academic_year_id" json:"academic_year_id,omitempty"`
	AcademicYear         string  `db:"academic_year" json:"academic_year"`
	AcademicYearDeleted  bool    `db:"academic_year_deleted" json:"-"`
	DepartmentID         *string `db:"department_id" json:"department_id,omitempty"`
	DepartmentName       string  `db:"department_name" json:"department_name"`
	DepartmentAbbr       string  `db:"department_abbr" json:"department_abbr"`
	DepartmentDeleted    bool    `db:"department_deleted" json:"-"`
	SemesterID           *string `db:"semester_id" json:"semester_id,omitempty"`
	SemesterNumber       int     `db:"semester_number" json:"semester_number"`
	SemesterDeleted      bool    `db:"semester_deleted" json:"-"`
	DivisionID           *string `db:"division_id" json:"division_id,omitempty"`
	DivisionName         string  `db:"division_name" json:"division_name"`
	DivisionDeleted      bool    `db:"division_deleted" json:"-"`
	SubjectID            *string `db:"subject_id" json:"subject_id,omitempty"`
	SubjectName          string  `db:"subject_name" json:"subject_name"`
	SubjectAbbr          string  `db:"subject_abbr" json:"subject_abbr"`
	SubjectCode          string  `db:"subject_code" json:"subject_code"`
	SubjectDeleted       bool    `db:"subject_deleted" json:"-"`
	FacultyID            *string `db:"faculty_id" json:"faculty_id,omitempty"`
	FacultyName          string  `db:"faculty_name" json:"faculty_name"`
	FacultyAbbr          string  `db:"faculty_abbr" json:"faculty_abbr"`
	StudentID            *string `db:"student_id" json:"student_id,omitempty"`
	OverrideStudentID    *string `db:"override_student_id" json:"override_student_id,omitempty"`
	RespondentName       string  `db:"respondent_name" json:"respondent_name"`
	RespondentEmail      string  `db:"respondent_email" json:"respondent_email"`
	StudentBatch         string  `db:"student_batch" json:"student_batch"`
	QuestionID           string  `db:"question_id" json:"question_id"`
	QuestionText         string  `db:"question_text" json:"question_text"`
	QuestionType         string  `db:"question_type" json:"question_type"`
	QuestionCategory     string  `db:"question_category" json:"question_category"`
	QuestionBatch        string  `db:"question_batch" json:"question_batch"`
	QuestionDeleted      bool    `db:"question_deleted" json:"-"`
	ResponseValue        string  `db:"response_value" json:"response_value"`
	SubmittedAt          int64   `db:"submitted_at" json:"submitted_at"`
}

// AnalyticsRollup is one pre-aggregated row written by the scheduled rollup
// worker. The annual-trend query groups these by the calendar year of
// CalculatedAt.
type AnalyticsRollup struct {
	ID             string  `db:"id" json:"id"`
	CalculatedAt   int64   `db:"calculated_at" json:"calculated_at"`
	AverageRating  float64 `db:"average_rating" json:"average_rating"`
	CompletionRate float64 `db:"completion_rate" json:"completion_rate"`
	ResponseCount  int64   `db:"response_count" json:"response_count"`
}
