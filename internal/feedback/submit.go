package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuspulse/campuspulse/internal/cache"
	"github.com/campuspulse/campuspulse/internal/metrics"
	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/store"
)

// SubmissionService runs the ingestion pipeline: access guard, question
// filtering, then one transaction writing the normalized responses, their
// denormalized snapshots, and the submitted-flag flip.
type SubmissionService struct {
	store store.FeedbackStore
	cache *cache.EntityCache
	now   func() time.Time
	newID func() string
}

func NewSubmissionService(st store.FeedbackStore, c *cache.EntityCache) *SubmissionService {
	return &SubmissionService{
		store: st,
		cache: c,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// SubmitResponses records a batch of question/answer pairs for the token's
// respondent. Answers keyed to questions that are deleted or not on this
// form are silently skipped: the form's live question set may have shrunk
// between page load and submission, and partial acceptance beats rejecting
// the whole batch. Everything that survives is written atomically.
func (s *SubmissionService) SubmitResponses(token string, answers map[string]any) ([]models.StudentResponse, error) {
	actx, err := s.ValidateSubmission(token)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	questions, err := s.store.GetQuestionsForForm(actx.Form.ID, ids)
	if err != nil {
		return nil, Wrap(KindInternal, "failed to load form questions", err)
	}

	questionByID := make(map[string]models.FeedbackQuestion, len(questions))
	for _, q := range questions {
		questionByID[q.ID] = q
	}

	dims, err := s.resolveDimensions(actx)
	if err != nil {
		return nil, err
	}

	submittedAt := s.now().Unix()
	var responses []models.StudentResponse
	var snapshots []models.FeedbackSnapshot

	for _, id := range ids {
		question, ok := questionByID[id]
		if !ok {
			logger.Debug.Printf("Skipping answer to unknown or deleted question %s on form %s", id, actx.Form.ID)
			continue
		}

		value, err := json.Marshal(answers[id])
		if err != nil {
			return nil, Wrap(KindInvalidInput, "response value is not serializable", err)
		}

		response := models.StudentResponse{
			ID:                s.newID(),
			StudentID:         actx.Access.StudentID,
			OverrideStudentID: actx.Access.OverrideStudentID,
			QuestionID:        question.ID,
			FormID:            actx.Form.ID,
			ResponseValue:     string(value),
			SubmittedAt:       submittedAt,
		}
		responses = append(responses, response)

		snapshot := dims
		snapshot.ID = s.newID()
		snapshot.OriginalResponseID = response.ID
		snapshot.QuestionID = question.ID
		snapshot.QuestionText = question.Text
		snapshot.QuestionType = question.Type
		snapshot.QuestionCategory = question.Category
		snapshot.QuestionBatch = question.Batch
		snapshot.ResponseValue = response.ResponseValue
		snapshot.SubmittedAt = submittedAt
		s.fillQuestionIdentity(&snapshot, question)
		snapshots = append(snapshots, snapshot)

		if score, ok := ParseScore(answers[id]); ok {
			metrics.ResponseScores.WithLabelValues(snapshot.SubjectName).Observe(score)
		}
	}

	if err := s.store.CreateSubmission(token, responses, snapshots); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		switch {
		case errors.Is(err, store.ErrAlreadySubmitted):
			return nil, E(KindConflict, "feedback has already been submitted for this token")
		case errors.Is(err, store.ErrDuplicate):
			return nil, E(KindConflict, "duplicate feedback response")
		default:
			return nil, Wrap(KindInternal, "failed to record feedback submission", err)
		}
	}

	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()
	metrics.AnswersRecorded.Add(float64(len(responses)))

	return responses, nil
}

// resolveDimensions builds the snapshot prototype carrying every dimension
// shared by this submission's rows. Regular students resolve through their
// own placement relations. Override respondents have no placement, so the
// chain is re-resolved from the form's subject allocation
// (division -> semester -> department -> academic year), falling back to the
// override record's free-text department/semester when the chain is
// incomplete. A placement entity that cannot be read back (it was
// soft-deleted after the access was issued) keeps its id with the deleted
// mirror flag set.
func (s *SubmissionService) resolveDimensions(actx *AccessContext) (models.FeedbackSnapshot, error) {
	snapshot := models.FeedbackSnapshot{
		FormID:            actx.Form.ID,
		FormStatus:        actx.Form.Status,
		StudentID:         actx.Access.StudentID,
		OverrideStudentID: actx.Access.OverrideStudentID,
	}

	if actx.Faculty != nil {
		snapshot.FacultyID = &actx.Faculty.ID
		snapshot.FacultyName = actx.Faculty.Name
		snapshot.FacultyAbbr = actx.Faculty.Abbreviation
	}
	if actx.Subject != nil {
		snapshot.SubjectID = &actx.Subject.ID
		snapshot.SubjectName = actx.Subject.Name
		snapshot.SubjectAbbr = actx.Subject.Abbreviation
		snapshot.SubjectCode = actx.Subject.Code
	}

	switch actx.Respondent.Kind {
	case RespondentStudent:
		student := actx.Respondent.Student
		snapshot.RespondentName = student.Name
		snapshot.RespondentEmail = student.Email
		snapshot.StudentBatch = student.Batch
		s.fillStudentPlacement(&snapshot, student)
	case RespondentOverride:
		override := actx.Respondent.Override
		snapshot.RespondentName = override.Name
		snapshot.RespondentEmail = override.Email
		snapshot.StudentBatch = override.Batch
		s.fillAllocationPlacement(&snapshot, actx.Form, override)
	}

	return snapshot, nil
}

// fillQuestionIdentity stamps the faculty and subject the question itself
// names onto the snapshot. One form can host questions for several faculty,
// so the per-question allocation wins; the form-level allocation resolved at
// guard time stays only for questions that name none.
func (s *SubmissionService) fillQuestionIdentity(snapshot *models.FeedbackSnapshot, question models.FeedbackQuestion) {
	if question.FacultyID != "" && (snapshot.FacultyID == nil || *snapshot.FacultyID != question.FacultyID) {
		facultyID := question.FacultyID
		snapshot.FacultyID = &facultyID
		snapshot.FacultyName = ""
		snapshot.FacultyAbbr = ""
		if faculty := s.lookupFaculty(facultyID); faculty != nil {
			snapshot.FacultyName = faculty.Name
			snapshot.FacultyAbbr = faculty.Abbreviation
		}
	}
	if question.SubjectID != "" && (snapshot.SubjectID == nil || *snapshot.SubjectID != question.SubjectID) {
		subjectID := question.SubjectID
		snapshot.SubjectID = &subjectID
		snapshot.SubjectName = ""
		snapshot.SubjectAbbr = ""
		snapshot.SubjectCode = ""
		snapshot.SubjectDeleted = false
		if subject := s.lookupSubject(subjectID); subject != nil {
			snapshot.SubjectName = subject.Name
			snapshot.SubjectAbbr = subject.Abbreviation
			snapshot.SubjectCode = subject.Code
		} else {
			snapshot.SubjectDeleted = true
		}
	}
}

func (s *SubmissionService) fillStudentPlacement(snapshot *models.FeedbackSnapshot, student *models.Student) {
	if student.DivisionID != "" {
		snapshot.DivisionID = &student.DivisionID
		if div := s.lookupDivision(student.DivisionID); div != nil {
			snapshot.DivisionName = div.Name
		} else {
			snapshot.DivisionDeleted = true
		}
	}
	if student.SemesterID != "" {
		snapshot.SemesterID = &student.SemesterID
		if sem := s.lookupSemester(student.SemesterID); sem != nil {
			snapshot.SemesterNumber = sem.Number
		} else {
			snapshot.SemesterDeleted = true
		}
	}
	if student.DepartmentID != "" {
		snapshot.DepartmentID = &student.DepartmentID
		if dept := s.lookupDepartment(student.DepartmentID); dept != nil {
			snapshot.DepartmentName = dept.Name
			snapshot.DepartmentAbbr = dept.Abbreviation
		} else {
			snapshot.DepartmentDeleted = true
		}
	}
	if student.AcademicYearID != "" {
		snapshot.AcademicYearID = &student.AcademicYearID
		if year := s.lookupAcademicYear(student.AcademicYearID); year != nil {
			snapshot.AcademicYear = year.Year
		} else {
			snapshot.AcademicYearDeleted = true
		}
	}
}

func (s *SubmissionService) fillAllocationPlacement(snapshot *models.FeedbackSnapshot, form *models.FeedbackForm, override *models.OverrideStudent) {
	var semester *models.Semester

	if form.DivisionID != "" {
		if div := s.lookupDivision(form.DivisionID); div != nil {
			snapshot.DivisionID = &div.ID
			snapshot.DivisionName = div.Name
			semester = s.lookupSemester(div.SemesterID)
		}
	}

	if semester != nil {
		snapshot.SemesterID = &semester.ID
		snapshot.SemesterNumber = semester.Number

		if dept := s.lookupDepartment(semester.DepartmentID); dept != nil {
			snapshot.DepartmentID = &dept.ID
			snapshot.DepartmentName = dept.Name
			snapshot.DepartmentAbbr = dept.Abbreviation
		}
		if year := s.lookupAcademicYear(semester.AcademicYearID); year != nil {
			snapshot.AcademicYearID = &year.ID
			snapshot.AcademicYear = year.Year
		}
	}

	// Free-text fallback for whatever the allocation chain could not fill.
	if snapshot.DepartmentName == "" && override.Department != "" {
		snapshot.DepartmentName = override.Department
	}
	if snapshot.SemesterNumber == 0 && override.Semester != "" {
		if n, err := strconv.Atoi(override.Semester); err == nil {
			snapshot.SemesterNumber = n
		}
	}
}

func (s *SubmissionService) lookupDivision(id string) *models.Division {
	var div models.Division
	if s.cache.Get(context.Background(), "division", id, &div) {
		return &div
	}
	found, err := s.store.GetDivision(id)
	if err != nil {
		logger.Error.Printf("Division lookup failed for %s: %v", id, err)
		return nil
	}
	if found != nil {
		s.cache.Put(context.Background(), "division", id, found)
	}
	return found
}

func (s *SubmissionService) lookupSemester(id string) *models.Semester {
	var sem models.Semester
	if s.cache.Get(context.Background(), "semester", id, &sem) {
		return &sem
	}
	found, err := s.store.GetSemester(id)
	if err != nil {
		logger.Error.Printf("Semester lookup failed for %s: %v", id, err)
		return nil
	}
	if found != nil {
		s.cache.Put(context.Background(), "semester", id, found)
	}
	return found
}

func (s *SubmissionService) lookupDepartment(id string) *models.Department {
	var dept models.Department
	if s.cache.Get(context.Background(), "department", id, &dept) {
		return &dept
	}
	found, err := s.store.GetDepartment(id)
	if err != nil {
		logger.Error.Printf("Department lookup failed for %s: %v", id, err)
		return nil
	}
	if found != nil {
		s.cache.Put(context.Background(), "department", id, found)
	}
	return found
}

func (s *SubmissionService) lookupFaculty(id string) *models.Faculty {
	var faculty models.Faculty
	if s.cache.Get(context.Background(), "faculty", id, &faculty) {
		return &faculty
	}
	found, err := s.store.GetFaculty(id)
	if err != nil {
		logger.Error.Printf("Faculty lookup failed for %s: %v", id, err)
		return nil
	}
	if found != nil {
		s.cache.Put(context.Background(), "faculty", id, found)
	}
	return found
}

func (s *SubmissionService) lookupSubject(id string) *models.Subject {
	var subject models.Subject
	if s.cache.Get(context.Background(), "subject", id, &subject) {
		return &subject
	}
	found, err := s.store.GetSubject(id)
	if err != nil {
		logger.Error.Printf("Subject lookup failed for %s: %v", id, err)
		return nil
	}
	if found != nil {
		s.cache.Put(context.Background(), "subject", id, found)
	}
	return found
}

func (s *SubmissionService) lookupAcademicYear(id string) *models.AcademicYear {
	var year models.AcademicYear
	if s.cache.Get(context.Background(), "academic_year", id, &year) {
		return &year
	}
	found, err := s.store.GetAcademicYear(id)
	if err != nil {
		logger.Error.Printf("Academic year lookup failed for %s: %v", id, err)
		return nil
	}
	if found != nil {
		s.cache.Put(context.Background(), "academic_year", id, found)
	}
	return found
}
