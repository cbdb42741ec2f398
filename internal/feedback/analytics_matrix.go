package feedback

import (
	"fmt"
	"sort"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/store"
)

// The year matrix is a fixed 8-semester pivot.
const matrixSemesters = 8

// FacultyYearMatrix pivots one faculty member's responses into per-semester
// averages. A semester slot is nil when it has zero numeric responses —
// callers must distinguish "no data" from a measured zero.
type FacultyYearMatrix struct {
	FacultyID    string              `json:"faculty_id"`
	Faculty      string              `json:"faculty"`
	Semesters    map[string]*float64 `json:"semesters"`
	TotalAverage *float64            `json:"total_average"`
}

func buildYearMatrix(facultyID string, snapshots []models.FeedbackSnapshot) FacultyYearMatrix {
	matrix := FacultyYearMatrix{
		FacultyID: facultyID,
		Semesters: make(map[string]*float64, matrixSemesters),
	}
	if len(snapshots) > 0 {
		matrix.Faculty = snapshots[0].FacultyName
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	var totalSum float64
	var totalCount int

	for _, snap := range snapshots {
		score, ok := ParseScore(snap.ResponseValue)
		if !ok {
			continue
		}
		sums[snap.SemesterNumber] += score
		counts[snap.SemesterNumber]++
		totalSum += score
		totalCount++
	}

	for i := 1; i <= matrixSemesters; i++ {
		slot := fmt.Sprintf("semester_%d", i)
		if counts[i] == 0 {
			matrix.Semesters[slot] = nil
			continue
		}
		average := Round2(sums[i] / float64(counts[i]))
		matrix.Semesters[slot] = &average
	}

	if totalCount > 0 {
		total := Round2(totalSum / float64(totalCount))
		matrix.TotalAverage = &total
	}

	return matrix
}

// FacultyYearMatrix computes the 8-semester pivot for one faculty member,
// optionally scoped to an academic year.
func (a *AnalyticsService) FacultyYearMatrix(facultyID, academicYearID string) (*FacultyYearMatrix, error) {
	if facultyID == "" {
		return nil, E(KindInvalidInput, "faculty id is required")
	}

	snapshots, err := a.store.ListSnapshots(store.SnapshotFilter{
		FacultyID:      facultyID,
		AcademicYearID: academicYearID,
	})
	if err != nil {
		return nil, Wrap(KindInternal, "failed to scan feedback snapshots", err)
	}
	if len(snapshots) == 0 {
		return nil, E(KindNotFound, "no feedback responses found for this faculty")
	}

	matrix := buildYearMatrix(facultyID, snapshots)
	if matrix.TotalAverage == nil {
		return nil, E(KindNotFound, "no numeric feedback responses found for this faculty")
	}
	return &matrix, nil
}

// AllFacultyYearMatrix computes the pivot for every faculty member with
// responses in scope, sorted by faculty name.
func (a *AnalyticsService) AllFacultyYearMatrix(academicYearID string) ([]FacultyYearMatrix, error) {
	snapshots, err := a.store.ListSnapshots(store.SnapshotFilter{
		AcademicYearID: academicYearID,
	})
	if err != nil {
		return nil, Wrap(KindInternal, "failed to scan feedback snapshots", err)
	}
	if len(snapshots) == 0 {
		return nil, E(KindNotFound, "no feedback responses found")
	}

	key := func(snap models.FeedbackSnapshot) string {
		if snap.FacultyID == nil {
			return ""
		}
		return *snap.FacultyID
	}
	groups := GroupBy(snapshots, key)

	var matrices []FacultyYearMatrix
	for _, facultyID := range GroupKeys(snapshots, key) {
		if facultyID == "" {
			continue
		}
		matrix := buildYearMatrix(facultyID, groups[facultyID])
		if matrix.TotalAverage == nil {
			continue
		}
		matrices = append(matrices, matrix)
	}
	if len(matrices) == 0 {
		return nil, E(KindNotFound, "no numeric feedback responses found")
	}

	sort.Slice(matrices, func(i, j int) bool { return matrices[i].Faculty < matrices[j].Faculty })
	return matrices, nil
}
