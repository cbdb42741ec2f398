package feedback

import (
	"sort"
	"strconv"
	"time"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/store"
)

// Low-rating detection policy. A question becomes high-impact when at least
// significanceThreshold of its responses score below lowRatingThreshold.
// These are policy constants, not configuration.
const (
	lowRatingThreshold    = 3.0
	significanceThreshold = 5
)

// AnalyticsService is the read side: every query scans snapshot rows (or the
// pre-aggregated rollup table), parses response values, groups on a derived
// key and reduces each group to a rounded average plus a count.
type AnalyticsService struct {
	store store.FeedbackStore
}

func NewAnalyticsService(st store.FeedbackStore) *AnalyticsService {
	return &AnalyticsService{store: st}
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type SubjectRating struct {
	Subject     string  `json:"subject"`
	LectureType string  `json:"lecture_type"`
	Average     float64 `json:"average"`
	Count       int     `json:"count"`
}

type HighImpactArea struct {
	QuestionID     string  `json:"question_id"`
	Question       string  `json:"question"`
	Average        float64 `json:"average"`
	LowRatingCount int     `json:"low_rating_count"`
	ResponseCount  int     `json:"response_count"`
}

type TrendPoint struct {
	SemesterNumber int     `json:"semester_number"`
	Subject        string  `json:"subject"`
	Average        float64 `json:"average"`
	Count          int     `json:"count"`
}

type AnnualTrendPoint struct {
	Year                  int     `json:"year"`
	AverageRating         float64 `json:"average_rating"`
	AverageCompletionRate float64 `json:"average_completion_rate"`
	RollupCount           int     `json:"rollup_count"`
}

type BatchRating struct {
	Division string  `json:"division"`
	Batch    string  `json:"batch"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

type LectureTypeRating struct {
	LectureType string  `json:"lecture_type"`
	Average     float64 `json:"average"`
	Count       int     `json:"count"`
}

// summarize reduces raw stored response values to a rounded mean, skipping
// whatever does not parse numerically.
func summarize(snapshots []models.FeedbackSnapshot) (float64, int) {
	var sum float64
	var count int
	for _, snap := range snapshots {
		if score, ok := ParseScore(snap.ResponseValue); ok {
			sum += score
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return Round2(sum / float64(count)), count
}

func lectureTypeOf(snap models.FeedbackSnapshot) LectureType {
	return ClassifyLectureType(snap.QuestionCategory, snap.QuestionBatch)
}

// filterLectureType narrows rows to one lecture type, classified the same way
// the grouping queries classify them. Empty means no narrowing. Applied after
// the scan because the type is derived, not stored.
func filterLectureType(snapshots []models.FeedbackSnapshot, lectureType string) []models.FeedbackSnapshot {
	if lectureType == "" {
		return snapshots
	}
	want := LectureType(lectureType)
	var filtered []models.FeedbackSnapshot
	for _, snap := range snapshots {
		if lectureTypeOf(snap) == want {
			filtered = append(filtered, snap)
		}
	}
	return filtered
}

// OverallSemesterRating averages every numeric response for a semester,
// optionally narrowed to one division and/or student batch.
func (a *AnalyticsService) OverallSemesterRating(semesterID, divisionID, batch string) (*RatingSummary, error) {
	if semesterID == "" {
		return nil, E(KindInvalidInput, "semester id is required")
	}

	snapshots, err := a.store.ListSnapshots(store.SnapshotFilter{
		SemesterID:   semesterID,
		DivisionID:   divisionID,
		StudentBatch: batch,
	})
	if err != nil {
		return nil, Wrap(KindInternal, "failed to scan feedback snapshots", err)
	}
	if len(snapshots) == 0 {
		return nil, E(KindNotFound, "no feedback responses found for this semester")
	}

	average, count := summarize(snapshots)
	if count == 0 {
		return nil, E(KindNotFound, "no numeric feedback responses found for this semester")
	}

	return &RatingSummary{Average: average, Count: count}, nil
}

// SubjectWiseRating splits one semester's responses by subject and
// lecture/lab, sorted alphabetically by subject.
func (a *AnalyticsService) SubjectWiseRating(semesterID string) ([]SubjectRating, error) {
	if semesterID == "" {
		return nil, E(KindInvalidInput, "semester id is required")
	}

	snapshots, err := a.store.ListSnapshots(store.SnapshotFilter{SemesterID: semesterID})
	if err != nil {
		return nil, Wrap(KindInternal, "failed to scan feedback snapshots", err)
	}
	if len(snapshots) == 0 {
		return nil, E(KindNotFound, "no feedback responses found for this semester")
	}

	key := func(snap models.FeedbackSnapshot) string {
		return JoinKey(snap.SubjectName, string(lectureTypeOf(snap)))
	}
	groups := GroupBy(snapshots, key)

	var ratings []SubjectRating
	for _, k := range GroupKeys(snapshots, key) {
		average, count := summarize(groups[k])
		if count == 0 {
			continue
		}
		parts := SplitKey(k)
		ratings = append(ratings, SubjectRating{
			Subject:     parts[0],
			LectureType: parts[1],
			Average:     average,
			Count:       count,
		})
	}
	if len(ratings) == 0 {
		return nil, E(KindNotFound, "no numeric feedback responses found for this semester")
	}

	sort.Slice(ratings, func(i, j int) bool {
		if ratings[i].Subject != ratings[j].Subject {
			return ratings[i].Subject < ratings[j].Subject
		}
		return ratings[i].LectureType < ratings[j].LectureType
	})
	return ratings, nil
}

// HighImpactAreas flags questions whose below-threshold response count meets
// the significance threshold, reporting the question's overall average
// alongside. The boundary is inclusive: exactly significanceThreshold low
// ratings flags the question.
func (a *AnalyticsService) HighImpactAreas(filter models.AnalyticsFilter) ([]HighImpactArea, error) {
	if err := filter.Validate(); err != nil {
		return nil, Wrap(KindInvalidInput, "invalid analytics filter", err)
	}

	snapshots, err := a.store.ListSnapshots(store.SnapshotFilter{
		AcademicYearID: filter.AcademicYearID,
		DepartmentID:   filter.DepartmentID,
		SubjectID:      filter.SubjectID,
		SemesterID:     filter.SemesterID,
		DivisionID:     filter.DivisionID,
		FacultyID:      filter.FacultyID,
	})
	if err != nil {
		return nil, Wrap(KindInternal, "failed to scan feedback snapshots", err)
	}
	snapshots = filterLectureType(snapshots, filter.LectureType)
	if len(snapshots) == 0 {
		return nil, E(KindNotFound, "no feedback responses found")
	}

	key := func(snap models.FeedbackSnapshot) string { return snap.QuestionID }
	groups := GroupBy(snapshots, key)

	var areas []HighImpactArea
	for _, questionID := range GroupKeys(snapshots, key) {
		group := groups[questionID]

		var sum float64
		var count, lowCount int
		for _, snap := range group {
			score, ok := ParseScore(snap.ResponseValue)
			if !ok {
				continue
			}
			sum += score
			count++
			if score < lowRatingThreshold {
				lowCount++
			}
		}
		if lowCount < significanceThreshold {
			continue
		}

		areas = append(areas, HighImpactArea{
			QuestionID:     questionID,
			Question:       group[0].QuestionText,
			Average:        Round2(sum / float64(count)),
			LowRatingCount: lowCount,
			ResponseCount:  count,
		})
	}

	sort.Slice(areas, func(i, j int) bool {
		if areas[i].LowRatingCount != areas[j].LowRatingCount {
			return areas[i].LowRatingCount > areas[j].LowRatingCount
		}
		return areas[i].Question < areas[j].Question
	})
	return areas, nil
}

// SemesterTrend groups all matching responses by semester number and
// subject, optionally scoped to one subject and/or academic year. Sorted by
// semester number, then subject name.
func (a *AnalyticsService) SemesterTrend(subjectID, academicYearID string) ([]TrendPoint, error) {
	snapshots, err := a.store.ListSnapshots(store.SnapshotFilter{
		SubjectID:      subjectID,
		AcademicYearID: academicYearID,
	})
	if err != nil {
		return nil, Wrap(KindInternal, "failed to scan feedback snapshots", err)
	}
	if len(snapshots) == 0 {
		return nil, E(KindNotFound, "no feedback responses found")
	}

	key := func(snap models.FeedbackSnapshot) string {
		return JoinKey(strconv.Itoa(snap.SemesterNumber), snap.SubjectName)
	}
	groups := GroupBy(snapshots, key)

	var points []TrendPoint
	for _, k := range GroupKeys(snapshots, key) {
		average, count := summarize(groups[k])
		if count == 0 {
			continue
		}
		parts := SplitKey(k)
		number, _ := strconv.Atoi(parts[0])
		points = append(points, TrendPoint{
			SemesterNumber: number,
			Subject:        parts[1],
			Average:        average,
			Count:          count,
		})
	}
	if len(points) == 0 {
		return nil, E(KindNotFound, "no numeric feedback responses found")
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].SemesterNumber != points[j].SemesterNumber {
			return points[i].SemesterNumber < points[j].SemesterNumber
		}
		return points[i].Subject < points[j].Subject
	})
	return points, nil
}

// AnnualTrend averages the pre-aggregated rollup rows per calendar year. The
// rollup table is populated by the scheduled worker, not by this query.
func (a *AnalyticsService) AnnualTrend() ([]AnnualTrendPoint, error) {
	rollups, err := a.store.ListRollups()
	if err != nil {
		return nil, Wrap(KindInternal, "failed to list analytics rollups", err)
	}
	if len(rollups) == 0 {
		return nil, E(KindNotFound, "no analytics rollups recorded yet")
	}

	key := func(r models.AnalyticsRollup) string {
		return strconv.Itoa(time.Unix(r.CalculatedAt, 0).UTC().Year())
	}
	groups := GroupBy(rollups, key)

	var points []AnnualTrendPoint
	for _, k := range GroupKeys(rollups, key) {
		group := groups[k]
		var ratingSum, completionSum float64
		for _, r := range group {
			ratingSum += r.AverageRating
			completionSum += r.CompletionRate
		}
		year, _ := strconv.Atoi(k)
		n := float64(len(group))
		points = append(points, AnnualTrendPoint{
			Year:                  year,
			AverageRating:         Round2(ratingSum / n),
			AverageCompletionRate: Round2(completionSum / n),
			RollupCount:           len(group),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points, nil
}

// DivisionBatchComparison compares average ratings per division and student
// batch. Responses from since-deleted students are dropped by re-checking
// the live students table.
func (a *AnalyticsService) DivisionBatchComparison(filter models.AnalyticsFilter) ([]BatchRating, error) {
	if err := filter.Validate(); err != nil {
		return nil, Wrap(KindInvalidInput, "invalid analytics filter", err)
	}

	snapshots, err := a.store.ListSnapshots(store.SnapshotFilter{
		AcademicYearID:   filter.AcademicYearID,
		DepartmentID:     filter.DepartmentID,
		SemesterID:       filter.SemesterID,
		LiveStudentsOnly: true,
	})
	if err != nil {
		return nil, Wrap(KindInternal, "failed to scan feedback snapshots", err)
	}
	snapshots = filterLectureType(snapshots, filter.LectureType)
	if len(snapshots) == 0 {
		return nil, E(KindNotFound, "no feedback responses found")
	}

	key := func(snap models.FeedbackSnapshot) string {
		batch := snap.StudentBatch
		if batch == "" {
			batch = models.BatchNone
		}
		return JoinKey(snap.DivisionName, batch)
	}
	groups := GroupBy(snapshots, key)

	var ratings []BatchRating
	for _, k := range GroupKeys(snapshots, key) {
		average, count := summarize(groups[k])
		if count == 0 {
			continue
		}
		parts := SplitKey(k)
		ratings = append(ratings, BatchRating{
			Division: parts[0],
			Batch:    parts[1],
			Average:  average,
			Count:    count,
		})
	}
	if len(ratings) == 0 {
		return nil, E(KindNotFound, "no numeric feedback responses found")
	}

	sort.Slice(ratings, func(i, j int) bool {
		if ratings[i].Division != ratings[j].Division {
			return ratings[i].Division < ratings[j].Division
		}
		return ratings[i].Batch < ratings[j].Batch
	})
	return ratings, nil
}

// LectureLabComparison splits matching responses into lecture vs lab
// averages, dropping responses from since-deleted students.
func (a *AnalyticsService) LectureLabComparison(filter models.AnalyticsFilter) ([]LectureTypeRating, error) {
	if err := filter.Validate(); err != nil {
		return nil, Wrap(KindInvalidInput, "invalid analytics filter", err)
	}

	snapshots, err := a.store.ListSnapshots(store.SnapshotFilter{
		AcademicYearID:   filter.AcademicYearID,
		DepartmentID:     filter.DepartmentID,
		SubjectID:        filter.SubjectID,
		SemesterID:       filter.SemesterID,
		FacultyID:        filter.FacultyID,
		LiveStudentsOnly: true,
	})
	if err != nil {
		return nil, Wrap(KindInternal, "failed to scan feedback snapshots", err)
	}
	snapshots = filterLectureType(snapshots, filter.LectureType)
	if len(snapshots) == 0 {
		return nil, E(KindNotFound, "no feedback responses found")
	}

	key := func(snap models.FeedbackSnapshot) string { return string(lectureTypeOf(snap)) }
	groups := GroupBy(snapshots, key)

	var ratings []LectureTypeRating
	for _, k := range GroupKeys(snapshots, key) {
		average, count := summarize(groups[k])
		if count == 0 {
			continue
		}
		ratings = append(ratings, LectureTypeRating{
			LectureType: k,
			Average:     average,
			Count:       count,
		})
	}
	if len(ratings) == 0 {
		return nil, E(KindNotFound, "no numeric feedback responses found")
	}

	sort.Slice(ratings, func(i, j int) bool { return ratings[i].LectureType < ratings[j].LectureType })
	return ratings, nil
}
