package models

import (
	"github.com/go-playground/validator/v10"
)

// AnalyticsFilter is the caller-supplied slice of the dimension space. Every
// field is optional; empty means "do not filter on this dimension".
type AnalyticsFilter struct {
	AcademicYearID string `json:"academic_year_id,omitempty" validate:"omitempty,uuid4"`
	DepartmentID   string `json:"department_id,omitempty" validate:"omitempty,uuid4"`
	SubjectID      string `json:"subject_id,omitempty" validate:"omitempty,uuid4"`
	SemesterID     string `json:"semester_id,omitempty" validate:"omitempty,uuid4"`
	DivisionID     string `json:"division_id,omitempty" validate:"omitempty,uuid4"`
	FacultyID      string `json:"faculty_id,omitempty" validate:"omitempty,uuid4"`
	LectureType    string `json:"lecture_type,omitempty" validate:"omitempty,oneof=LECTURE LAB"`
	Batch          string `json:"batch,omitempty"`
}

var validate = validator.New()

func (f *AnalyticsFilter) Validate() error {
	return validate.Struct(f)
}
