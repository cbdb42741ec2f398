package feedback

import (
	"github.com/stretchr/testify/mock"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/store"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) ApplyMigrations(dir string) error {
	return nil
}

func (m *MockStore) GetFormAccess(token string) (*models.FormAccess, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormAccess), args.Error(1)
}

func (m *MockStore) GetForm(id string) (*models.FeedbackForm, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeedbackForm), args.Error(1)
}

func (m *MockStore) GetQuestionsForForm(formID string, ids []string) ([]models.FeedbackQuestion, error) {
	args := m.Called(formID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FeedbackQuestion), args.Error(1)
}

func (m *MockStore) GetStudent(id string) (*models.Student, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStore) GetOverrideStudent(id string) (*models.OverrideStudent, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OverrideStudent), args.Error(1)
}

func (m *MockStore) GetAcademicYear(id string) (*models.AcademicYear, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AcademicYear), args.Error(1)
}

func (m *MockStore) GetDepartment(id string) (*models.Department, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockStore) GetSemester(id string) (*models.Semester, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Semester), args.Error(1)
}

func (m *MockStore) GetDivision(id string) (*models.Division, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Division), args.Error(1)
}

func (m *MockStore) GetSubject(id string) (*models.Subject, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subject), args.Error(1)
}

func (m *MockStore) GetFaculty(id string) (*models.Faculty, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Faculty), args.Error(1)
}

func (m *MockStore) CreateSubmission(token string, responses []models.StudentResponse, snapshots []models.FeedbackSnapshot) error {
	args := m.Called(token, responses, snapshots)
	return args.Error(0)
}

func (m *MockStore) ListSnapshots(f store.SnapshotFilter) ([]models.FeedbackSnapshot, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FeedbackSnapshot), args.Error(1)
}

func (m *MockStore) ListRollups() ([]models.AnalyticsRollup, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnalyticsRollup), args.Error(1)
}

func (m *MockStore) InsertRollup(rollup models.AnalyticsRollup) error {
	args := m.Called(rollup)
	return args.Error(0)
}

func (m *MockStore) CountFormAccesses() (int64, int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}
