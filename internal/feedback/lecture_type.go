package feedback

import (
	"strings"

	"github.com/campuspulse/campuspulse/internal/models"
)

type LectureType string

const (
	Lecture LectureType = "LECTURE"
	Lab     LectureType = "LAB"
)

// ClassifyLectureType derives the lecture/lab split for rows whose question
// predates an explicit lecture-type field. Category name wins over batch:
// anything mentioning lab is LAB no matter the batch; otherwise a real batch
// marker (not "None") means LAB.
func ClassifyLectureType(category, batch string) LectureType {
	c := strings.ToLower(category)
	if strings.Contains(c, "laboratory") || strings.Contains(c, "lab") {
		return Lab
	}
	if batch != "" && !strings.EqualFold(batch, models.BatchNone) {
		return Lab
	}
	return Lecture
}
