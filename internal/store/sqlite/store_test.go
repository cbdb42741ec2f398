// internal/store/sqlite/store_test.go
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/store"
)

// setupTestDB creates an in-memory SQLite database with the real migrations,
// exercising the dialect translation on the way.
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:", "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

func seedSubmissionFixtures(t *testing.T, s *SQLiteStore) {
	_, err := s.DB.Exec(`
		INSERT INTO feedback_forms (id, title, status, faculty_id, subject_id, division_id, start_date, end_date, is_deleted)
		VALUES ('form1', 'Feedback', 'active', 'fac1', 'sub1', 'div1', 0, 4102444800, 0)`)
	require.NoError(t, err)

	_, err = s.DB.Exec(`
		INSERT INTO form_accesses (access_token, form_id, student_id, submitted)
		VALUES ('tok-1', 'form1', 'stu1', 0)`)
	require.NoError(t, err)

	_, err = s.DB.Exec(`
		INSERT INTO feedback_questions (id, form_id, text, type, category, batch, faculty_id, subject_id, is_deleted) VALUES
		('q1', 'form1', 'Clarity of lectures', 'rating', 'Teaching', 'None', 'fac1', 'sub1', 0),
		('q2', 'form1', 'Lab guidance', 'rating', 'Laboratory', 'B1', 'fac1', 'sub1', 0),
		('q3', 'form1', 'Removed question', 'rating', 'Teaching', 'None', 'fac1', 'sub1', 1),
		('q9', 'form9', 'Question on another form', 'rating', 'Teaching', 'None', 'fac1', 'sub1', 0)`)
	require.NoError(t, err)

	_, err = s.DB.Exec(`
		INSERT INTO students (id, name, email, enrollment_no, batch, division_id, semester_id, department_id, academic_year_id, is_deleted) VALUES
		('stu1', 'Asha Rao', 'asha@example.edu', 'EN001', 'B1', 'div1', 'sem1', 'dep1', 'ay1', 0),
		('stu2', 'Departed Student', 'gone@example.edu', 'EN002', 'B2', 'div1', 'sem1', 'dep1', 'ay1', 1)`)
	require.NoError(t, err)
}

func submissionRows(id string) ([]models.StudentResponse, []models.FeedbackSnapshot) {
	stu := "stu1"
	responses := []models.StudentResponse{
		{
			ID:            "resp-" + id,
			StudentID:     &stu,
			QuestionID:    "q1",
			FormID:        "form1",
			ResponseValue: `"4"`,
			SubmittedAt:   1700000000,
		},
	}
	snapshots := []models.FeedbackSnapshot{
		{
			ID:                 "snap-" + id,
			OriginalResponseID: "resp-" + id,
			FormID:             "form1",
			FormStatus:         "active",
			StudentID:          &stu,
			RespondentName:     "Asha Rao",
			StudentBatch:       "B1",
			QuestionID:         "q1",
			QuestionText:       "Clarity of lectures",
			QuestionCategory:   "Teaching",
			QuestionBatch:      "None",
			ResponseValue:      `"4"`,
			SubmittedAt:        1700000000,
		},
	}
	return responses, snapshots
}

func TestGetFormAccess(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedSubmissionFixtures(t, s)

	access, err := s.GetFormAccess("tok-1")
	require.NoError(t, err)
	require.NotNil(t, access)
	assert.Equal(t, "form1", access.FormID)
	require.NotNil(t, access.StudentID)
	assert.Equal(t, "stu1", *access.StudentID)
	assert.False(t, access.Submitted)

	missing, err := s.GetFormAccess("unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetQuestionsForForm(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedSubmissionFixtures(t, s)

	questions, err := s.GetQuestionsForForm("form1", []string{"q1", "q2", "q3", "q9", "q-nope"})
	require.NoError(t, err)

	// Deleted questions and questions belonging to other forms are dropped.
	require.Len(t, questions, 2)
	ids := []string{questions[0].ID, questions[1].ID}
	assert.ElementsMatch(t, []string{"q1", "q2"}, ids)
}

func TestCreateSubmission(t *testing.T) {
	t.Run("happy path persists rows and flips the flag", func(t *testing.T) {
		s, cleanup := setupTestDB(t)
		defer cleanup()
		seedSubmissionFixtures(t, s)

		responses, snapshots := submissionRows("1")
		err := s.CreateSubmission("tok-1", responses, snapshots)
		require.NoError(t, err)

		access, err := s.GetFormAccess("tok-1")
		require.NoError(t, err)
		assert.True(t, access.Submitted)

		var responseCount, snapshotCount int
		require.NoError(t, s.DB.Get(&responseCount, "SELECT COUNT(*) FROM student_responses"))
		require.NoError(t, s.DB.Get(&snapshotCount, "SELECT COUNT(*) FROM feedback_snapshots"))
		assert.Equal(t, 1, responseCount)
		assert.Equal(t, 1, snapshotCount)
	})

	t.Run("second submission conflicts and writes nothing", func(t *testing.T) {
		s, cleanup := setupTestDB(t)
		defer cleanup()
		seedSubmissionFixtures(t, s)

		responses, snapshots := submissionRows("1")
		require.NoError(t, s.CreateSubmission("tok-1", responses, snapshots))

		responses2, snapshots2 := submissionRows("2")
		err := s.CreateSubmission("tok-1", responses2, snapshots2)
		require.ErrorIs(t, err, store.ErrAlreadySubmitted)

		var responseCount int
		require.NoError(t, s.DB.Get(&responseCount, "SELECT COUNT(*) FROM student_responses"))
		assert.Equal(t, 1, responseCount, "losing submission must not add rows")
	})

	t.Run("unknown token leaves no rows behind", func(t *testing.T) {
		s, cleanup := setupTestDB(t)
		defer cleanup()
		seedSubmissionFixtures(t, s)

		responses, snapshots := submissionRows("1")
		err := s.CreateSubmission("tok-ghost", responses, snapshots)
		require.ErrorIs(t, err, store.ErrAlreadySubmitted)

		var responseCount int
		require.NoError(t, s.DB.Get(&responseCount, "SELECT COUNT(*) FROM student_responses"))
		assert.Equal(t, 0, responseCount)
	})
}

type snapshotSeed struct {
	id              string
	semesterID      string
	semesterNumber  int
	studentID       string
	questionDeleted bool
}

func seedSnapshot(t *testing.T, s *SQLiteStore, seed snapshotSeed) {
	_, err := s.DB.Exec(`
		INSERT INTO feedback_snapshots (
			id, original_response_id, form_id, semester_id, semester_number,
			faculty_id, subject_id, subject_name, student_id, student_batch,
			question_id, question_deleted, response_value, submitted_at
		) VALUES (?, ?, 'form1', ?, ?, 'fac1', 'sub1', 'Data Structures', ?, 'B1', 'q1', ?, '"4"', 1700000000)`,
		seed.id, "resp-"+seed.id, seed.semesterID, seed.semesterNumber, seed.studentID, seed.questionDeleted)
	require.NoError(t, err)
}

func TestListSnapshots(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedSubmissionFixtures(t, s)

	seedSnapshot(t, s, snapshotSeed{id: "a", semesterID: "sem1", semesterNumber: 4, studentID: "stu1"})
	seedSnapshot(t, s, snapshotSeed{id: "b", semesterID: "sem2", semesterNumber: 5, studentID: "stu1"})
	seedSnapshot(t, s, snapshotSeed{id: "c", semesterID: "sem1", semesterNumber: 4, studentID: "stu1", questionDeleted: true})
	seedSnapshot(t, s, snapshotSeed{id: "d", semesterID: "sem1", semesterNumber: 4, studentID: "stu2"})

	t.Run("filters by semester and skips deleted mirrors", func(t *testing.T) {
		snaps, err := s.ListSnapshots(store.SnapshotFilter{SemesterID: "sem1"})
		require.NoError(t, err)
		// a and d; c is dropped by its deleted-question mirror
		assert.Len(t, snaps, 2)
	})

	t.Run("live students only drops deleted students", func(t *testing.T) {
		snaps, err := s.ListSnapshots(store.SnapshotFilter{SemesterID: "sem1", LiveStudentsOnly: true})
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, "a", snaps[0].ID)
	})

	t.Run("no filter returns everything live", func(t *testing.T) {
		snaps, err := s.ListSnapshots(store.SnapshotFilter{})
		require.NoError(t, err)
		assert.Len(t, snaps, 3)
	})
}

func TestRollups(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, s.InsertRollup(models.AnalyticsRollup{
		ID: "r1", CalculatedAt: 1700000000, AverageRating: 4.2, CompletionRate: 0.8, ResponseCount: 120,
	}))
	require.NoError(t, s.InsertRollup(models.AnalyticsRollup{
		ID: "r2", CalculatedAt: 1700086400, AverageRating: 3.9, CompletionRate: 0.75, ResponseCount: 80,
	}))

	rollups, err := s.ListRollups()
	require.NoError(t, err)
	require.Len(t, rollups, 2)
	assert.Equal(t, "r1", rollups[0].ID)
	assert.Equal(t, 4.2, rollups[0].AverageRating)
}

func TestIsUniqueViolation(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := s.DB.Exec(`INSERT INTO departments (id, name) VALUES ('dep1', 'Physics')`)
	require.NoError(t, err)

	t.Run("duplicate primary key is a unique violation", func(t *testing.T) {
		_, err := s.DB.Exec(`INSERT INTO departments (id, name) VALUES ('dep1', 'Physics')`)
		require.Error(t, err)
		assert.True(t, isUniqueViolation(err))
	})

	t.Run("not null violation is not", func(t *testing.T) {
		_, err := s.DB.Exec(`INSERT INTO departments (id, name) VALUES ('dep2', NULL)`)
		require.Error(t, err)
		assert.False(t, isUniqueViolation(err))
	})
}

func TestCountFormAccesses(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedSubmissionFixtures(t, s)

	_, err := s.DB.Exec(`
		INSERT INTO form_accesses (access_token, form_id, student_id, submitted)
		VALUES ('tok-2', 'form1', 'stu2', 1)`)
	require.NoError(t, err)

	total, submitted, err := s.CountFormAccesses()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(1), submitted)
}
