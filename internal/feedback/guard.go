package feedback

import (
	"github.com/campuspulse/campuspulse/internal/models"
)

type RespondentKind int

const (
	RespondentStudent RespondentKind = iota
	RespondentOverride
)

// Respondent is the resolved submitter of a form access: either a full
// Student with academic placement, or an OverrideStudent without one. It is
// resolved exactly once, at guard time, so downstream code switches on Kind
// instead of re-checking which foreign key happens to be set.
type Respondent struct {
	Kind     RespondentKind
	Student  *models.Student
	Override *models.OverrideStudent
}

// AccessContext is everything the materializer needs about a validated
// submission: the form, its subject allocation, and the respondent. Faculty
// or Subject may be nil when the allocated entity has since been
// soft-deleted; the snapshot then carries an empty identity for it.
type AccessContext struct {
	Access  *models.FormAccess
	Form    *models.FeedbackForm
	Faculty *models.Faculty
	Subject *models.Subject

	Respondent Respondent
}

// ValidateSubmission checks an access token against form lifecycle state
// before any write is attempted. Failure order: unknown token, deleted form,
// inactive or expired form, already submitted.
func (s *SubmissionService) ValidateSubmission(token string) (*AccessContext, error) {
	access, err := s.store.GetFormAccess(token)
	if err != nil {
		return nil, Wrap(KindInternal, "failed to look up form access", err)
	}
	if access == nil {
		return nil, E(KindNotFound, "no feedback access matches this token")
	}

	form, err := s.store.GetForm(access.FormID)
	if err != nil {
		return nil, Wrap(KindInternal, "failed to look up feedback form", err)
	}
	if form == nil {
		return nil, E(KindNotFound, "feedback form not found")
	}
	if form.IsDeleted {
		return nil, E(KindGone, "feedback form has been removed")
	}
	if form.Status != models.FormStatusActive {
		return nil, E(KindForbidden, "feedback form is not accepting responses")
	}
	if s.now().Unix() > form.EndDate {
		return nil, E(KindForbidden, "feedback window has closed")
	}
	if access.Submitted {
		return nil, E(KindConflict, "feedback has already been submitted for this token")
	}

	respondent, err := s.resolveRespondent(access)
	if err != nil {
		return nil, err
	}

	faculty, err := s.store.GetFaculty(form.FacultyID)
	if err != nil {
		return nil, Wrap(KindInternal, "failed to look up allocated faculty", err)
	}
	subject, err := s.store.GetSubject(form.SubjectID)
	if err != nil {
		return nil, Wrap(KindInternal, "failed to look up allocated subject", err)
	}

	return &AccessContext{
		Access:     access,
		Form:       form,
		Faculty:    faculty,
		Subject:    subject,
		Respondent: respondent,
	}, nil
}

// resolveRespondent enforces the student-XOR-override invariant. A form
// access pointing at both respondent kinds, neither, or a missing record
// means the access row was created broken.
func (s *SubmissionService) resolveRespondent(access *models.FormAccess) (Respondent, error) {
	hasStudent := access.StudentID != nil && *access.StudentID != ""
	hasOverride := access.OverrideStudentID != nil && *access.OverrideStudentID != ""

	switch {
	case hasStudent && hasOverride:
		return Respondent{}, E(KindInconsistency, "form access references both a student and an override respondent")
	case hasStudent:
		student, err := s.store.GetStudent(*access.StudentID)
		if err != nil {
			return Respondent{}, Wrap(KindInternal, "failed to look up student", err)
		}
		if student == nil {
			return Respondent{}, E(KindInconsistency, "form access references a missing student")
		}
		return Respondent{Kind: RespondentStudent, Student: student}, nil
	case hasOverride:
		override, err := s.store.GetOverrideStudent(*access.OverrideStudentID)
		if err != nil {
			return Respondent{}, Wrap(KindInternal, "failed to look up override respondent", err)
		}
		if override == nil {
			return Respondent{}, E(KindInconsistency, "form access references a missing override respondent")
		}
		return Respondent{Kind: RespondentOverride, Override: override}, nil
	default:
		return Respondent{}, E(KindInconsistency, "form access has no respondent assigned")
	}
}

// CheckSubmissionStatus reports whether the access token's feedback has been
// submitted. Unknown tokens are NotFound, matching the guard.
func (s *SubmissionService) CheckSubmissionStatus(token string) (bool, error) {
	access, err := s.store.GetFormAccess(token)
	if err != nil {
		return false, Wrap(KindInternal, "failed to look up form access", err)
	}
	if access == nil {
		return false, E(KindNotFound, "no feedback access matches this token")
	}
	return access.Submitted, nil
}
