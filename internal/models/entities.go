package models

// Hierarchy entities are owned by external CRUD services. This process only
// reads them (always filtered on is_deleted) to resolve submission context
// and to denormalize snapshot dimensions.

type AcademicYear struct {
	ID        string `db:"id" json:"id"`
	Year      string `db:"year" json:"year"`
	IsDeleted bool   `db:"is_deleted" json:"-"`
}

type Department struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
	IsDeleted    bool   `db:"is_deleted" json:"-"`
}

type Semester struct {
	ID             string `db:"id" json:"id"`
	Number         int    `db:"number" json:"number"`
	DepartmentID   string `db:"department_id" json:"department_id"`
	AcademicYearID string `db:"academic_year_id" json:"academic_year_id"`
	IsDeleted      bool   `db:"is_deleted" json:"-"`
}

type Division struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	SemesterID string `db:"semester_id" json:"semester_id"`
	IsDeleted  bool   `db:"is_deleted" json:"-"`
}

type Subject struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
	Code         string `db:"code" json:"code"`
	SemesterID   string `db:"semester_id" json:"semester_id"`
	IsDeleted    bool   `db:"is_deleted" json:"-"`
}

type Faculty struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
	DepartmentID string `db:"department_id" json:"department_id"`
	IsDeleted    bool   `db:"is_deleted" json:"-"`
}

// Student carries its full academic placement so snapshot denormalization
// reads no further than the placement entities themselves.
type Student struct {
	ID             string `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	EnrollmentNo   string `db:"enrollment_no" json:"enrollment_no"`
	Batch          string `db:"batch" json:"batch"`
	DivisionID     string `db:"division_id" json:"division_id"`
	SemesterID     string `db:"semester_id" json:"semester_id"`
	DepartmentID   string `db:"department_id" json:"department_id"`
	AcademicYearID string `db:"academic_year_id" json:"academic_year_id"`
	IsDeleted      bool   `db:"is_deleted" json:"-"`
}

// OverrideStudent is a respondent without a full Student record, e.g. a
// manually added guest. It has no placement relations of its own, only
// free-text department/semester hints used as a fallback when the form's
// allocation chain cannot be resolved.
type OverrideStudent struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
	Department string `db:"department" json:"department"`
	Semester   string `db:"semester" json:"semester"`
	Batch      string `db:"batch" json:"batch"`
	IsDeleted  bool   `db:"is_deleted" json:"-"`
}
