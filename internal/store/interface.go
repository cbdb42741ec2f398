package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campuspulse/campuspulse/internal/models"
)

type FeedbackStore interface {
	Close() error
	ApplyMigrations(dir string) error

	GetFormAccess(token string) (*models.FormAccess, error)
	GetForm(id string) (*models.FeedbackForm, error)
	GetQuestionsForForm(formID string, ids []string) ([]models.FeedbackQuestion, error)

	GetStudent(id string) (*models.Student, error)
	GetOverrideStudent(id string) (*models.OverrideStudent, error)
	GetAcademicYear(id string) (*models.AcademicYear, error)
	GetDepartment(id string) (*models.Department, error)
	GetSemester(id string) (*models.Semester, error)
	GetDivision(id string) (*models.Division, error)
	GetSubject(id string) (*models.Subject, error)
	GetFaculty(id string) (*models.Faculty, error)

	CreateSubmission(token string, responses []models.StudentResponse, snapshots []models.FeedbackSnapshot) error

	ListSnapshots(f SnapshotFilter) ([]models.FeedbackSnapshot, error)
	ListRollups() ([]models.AnalyticsRollup, error)
	InsertRollup(rollup models.AnalyticsRollup) error
	CountFormAccesses() (total, submitted int64, err error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB *sqlx.DB
	// Converter rewrites ? placeholders into the dialect's form.
	Converter func(string) string
	// IsUniqueViolation recognizes the driver's unique-constraint error.
	IsUniqueViolation func(error) bool
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) GetFormAccess(token string) (*models.FormAccess, error) {
	var access models.FormAccess
	query := s.Converter(`
		SELECT access_token, form_id, student_id, override_student_id, submitted
		FROM form_accesses
		WHERE access_token = ?
	`)

	err := s.DB.Get(&access, query, token)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get form access: %w", err)
	}
	return &access, nil
}

func (s *BaseStore) GetForm(id string) (*models.FeedbackForm, error) {
	var form models.FeedbackForm
	query := s.Converter(`
		SELECT id, title, status, faculty_id, subject_id, division_id,
		       start_date, end_date, is_deleted
		FROM feedback_forms
		WHERE id = ?
	`)

	err := s.DB.Get(&form, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	return &form, nil
}

// GetQuestionsForForm returns the live questions of a form restricted to the
// given ids. Ids pointing at deleted questions or other forms simply do not
// come back.
func (s *BaseStore) GetQuestionsForForm(formID string, ids []string) ([]models.FeedbackQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, form_id, text, type, category, batch, faculty_id, subject_id, is_deleted
		FROM feedback_questions
		WHERE form_id = ?
		AND is_deleted = FALSE
		AND id IN (?)
	`, formID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build question query: %w", err)
	}

	var questions []models.FeedbackQuestion
	err = s.DB.Select(&questions, s.Converter(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	return questions, nil
}

func (s *BaseStore) GetStudent(id string) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id, name, email, enrollment_no, batch,
		       division_id, semester_id, department_id, academic_year_id, is_deleted
		FROM students
		WHERE id = ? AND is_deleted = FALSE
	`)

	err := s.DB.Get(&student, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) GetOverrideStudent(id string) (*models.OverrideStudent, error) {
	var override models.OverrideStudent
	query := s.Converter(`
		SELECT id, name, email, department, semester, batch, is_deleted
		FROM override_students
		WHERE id = ? AND is_deleted = FALSE
	`)

	err := s.DB.Get(&override, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override student: %w", err)
	}
	return &override, nil
}

func (s *BaseStore) GetAcademicYear(id string) (*models.AcademicYear, error) {
	var year models.AcademicYear
	query := s.Converter(`
		SELECT id, year, is_deleted FROM academic_years WHERE id = ? AND is_deleted = FALSE
	`)

	err := s.DB.Get(&year, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get academic year: %w", err)
	}
	return &year, nil
}

func (s *BaseStore) GetDepartment(id string) (*models.Department, error) {
	var dept models.Department
	query := s.Converter(`
		SELECT id, name, abbreviation, is_deleted FROM departments WHERE id = ? AND is_deleted = FALSE
	`)

	err := s.DB.Get(&dept, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

func (s *BaseStore) GetSemester(id string) (*models.Semester, error) {
	var sem models.Semester
	query := s.Converter(`
		SELECT id, number, department_id, academic_year_id, is_deleted
		FROM semesters
		WHERE id = ? AND is_deleted = FALSE
	`)

	err := s.DB.Get(&sem, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get semester: %w", err)
	}
	return &sem, nil
}

func (s *BaseStore) GetDivision(id string) (*models.Division, error) {
	var div models.Division
	query := s.Converter(`
		SELECT id, name, semester_id, is_deleted FROM divisions WHERE id = ? AND is_deleted = FALSE
	`)

	err := s.DB.Get(&div, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get division: %w", err)
	}
	return &div, nil
}

func (s *BaseStore) GetSubject(id string) (*models.Subject, error) {
	var subject models.Subject
	query := s.Converter(`
		SELECT id, name, abbreviation, code, semester_id, is_deleted
		FROM subjects
		WHERE id = ? AND is_deleted = FALSE
	`)

	err := s.DB.Get(&subject, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return &subject, nil
}

func (s *BaseStore) GetFaculty(id string) (*models.Faculty, error) {
	var faculty models.Faculty
	query := s.Converter(`
		SELECT id, name, abbreviation, department_id, is_deleted
		FROM faculty
		WHERE id = ? AND is_deleted = FALSE
	`)

	err := s.DB.Get(&faculty, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get faculty: %w", err)
	}
	return &faculty, nil
}

// CreateSubmission writes the normalized responses, their snapshots, and the
// submitted-flag flip in one transaction. The flip is a conditional update:
// zero rows affected means a concurrent submission already claimed the token,
// reported as ErrAlreadySubmitted. Everything commits or nothing does.
func (s *BaseStore) CreateSubmission(token string, responses []models.StudentResponse, snapshots []models.FeedbackSnapshot) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin submission transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range responses {
		_, err := tx.NamedExec(`
			INSERT INTO student_responses (
				id, student_id, override_student_id, question_id, form_id,
				response_value, submitted_at, is_deleted
			) VALUES (
				:id, :student_id, :override_student_id, :question_id, :form_id,
				:response_value, :submitted_at, :is_deleted
			)
		`, &responses[i])
		if err != nil {
			if s.IsUniqueViolation != nil && s.IsUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to insert response: %w", err)
		}
	}

	for i := range snapshots {
		_, err := tx.NamedExec(`
			INSERT INTO feedback_snapshots (
				id, original_response_id, form_id, form_status, form_deleted,
				academic_year_id, academic_year, academic_year_deleted,
				department_id, department_name, department_abbr, department_deleted,
				semester_id, semester_number, semester_deleted,
				division_id, division_name, division_deleted,
				subject_id, subject_name, subject_abbr, subject_code, subject_deleted,
				faculty_id, faculty_name, faculty_abbr,
				student_id, override_student_id, respondent_name, respondent_email, student_batch,
				question_id, question_text, question_type, question_category, question_batch, question_deleted,
				response_value, submitted_at
			) VALUES (
				:id, :original_response_id, :form_id, :form_status, :form_deleted,
				:academic_year_id, :academic_year, :academic_year_deleted,
				:department_id, :department_name, :department_abbr, :department_deleted,
				:semester_id, :semester_number, :semester_deleted,
				:division_id, :division_name, :division_deleted,
				:subject_id, :subject_name, :subject_abbr, :subject_code, :subject_deleted,
				:faculty_id, :faculty_name, :faculty_abbr,
				:student_id, :override_student_id, :respondent_name, :respondent_email, :student_batch,
				:question_id, :question_text, :question_type, :question_category, :question_batch, :question_deleted,
				:response_value, :submitted_at
			)
		`, &snapshots[i])
		if err != nil {
			if s.IsUniqueViolation != nil && s.IsUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}

	result, err := tx.Exec(s.Converter(`
		UPDATE form_accesses SET submitted = TRUE
		WHERE access_token = ? AND submitted = FALSE
	`), token)
	if err != nil {
		return fmt.Errorf("failed to mark access submitted: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check submitted update: %w", err)
	}
	if affected == 0 {
		return ErrAlreadySubmitted
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit submission: %w", err)
	}
	return nil
}

// ListSnapshots scans snapshot rows matching the filter. Soft-delete mirror
// flags are filtered at every level unconditionally; the caller-supplied
// dimensions narrow further.
func (s *BaseStore) ListSnapshots(f SnapshotFilter) ([]models.FeedbackSnapshot, error) {
	query := `
		SELECT *
		FROM feedback_snapshots
		WHERE form_deleted = FALSE
		AND question_deleted = FALSE
		AND academic_year_deleted = FALSE
		AND department_deleted = FALSE
		AND semester_deleted = FALSE
		AND division_deleted = FALSE
		AND subject_deleted = FALSE
	`
	var args []any

	if f.AcademicYearID != "" {
		query += " AND academic_year_id = ?"
		args = append(args, f.AcademicYearID)
	}
	if f.DepartmentID != "" {
		query += " AND department_id = ?"
		args = append(args, f.DepartmentID)
	}
	if f.SubjectID != "" {
		query += " AND subject_id = ?"
		args = append(args, f.SubjectID)
	}
	if f.SemesterID != "" {
		query += " AND semester_id = ?"
		args = append(args, f.SemesterID)
	}
	if f.SemesterNumber != 0 {
		query += " AND semester_number = ?"
		args = append(args, f.SemesterNumber)
	}
	if f.DivisionID != "" {
		query += " AND division_id = ?"
		args = append(args, f.DivisionID)
	}
	if f.FacultyID != "" {
		query += " AND faculty_id = ?"
		args = append(args, f.FacultyID)
	}
	if f.StudentBatch != "" {
		query += " AND student_batch = ?"
		args = append(args, f.StudentBatch)
	}
	if f.From != 0 {
		query += " AND submitted_at >= ?"
		args = append(args, f.From)
	}
	if f.To != 0 {
		query += " AND submitted_at < ?"
		args = append(args, f.To)
	}
	if f.LiveStudentsOnly {
		query += ` AND (student_id IS NULL
			OR student_id IN (SELECT id FROM students WHERE is_deleted = FALSE))`
	}
	query += " ORDER BY submitted_at ASC"

	var snapshots []models.FeedbackSnapshot
	err := s.DB.Select(&snapshots, s.Converter(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

func (s *BaseStore) ListRollups() ([]models.AnalyticsRollup, error) {
	var rollups []models.AnalyticsRollup
	err := s.DB.Select(&rollups, `
		SELECT id, calculated_at, average_rating, completion_rate, response_count
		FROM analytics_rollups
		ORDER BY calculated_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rollups: %w", err)
	}
	return rollups, nil
}

func (s *BaseStore) InsertRollup(rollup models.AnalyticsRollup) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO analytics_rollups (id, calculated_at, average_rating, completion_rate, response_count)
		VALUES (:id, :calculated_at, :average_rating, :completion_rate, :response_count)
	`, &rollup)
	if err != nil {
		return fmt.Errorf("failed to insert rollup: %w", err)
	}
	return nil
}

func (s *BaseStore) CountFormAccesses() (int64, int64, error) {
	var counts struct {
		Total     int64 `db:"total"`
		Submitted int64 `db:"submitted"`
	}
	err := s.DB.Get(&counts, `
		SELECT COUNT(*) AS total,
		       COUNT(CASE WHEN submitted THEN 1 END) AS submitted
		FROM form_accesses
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count form accesses: %w", err)
	}
	return counts.Total, counts.Submitted, nil
}
