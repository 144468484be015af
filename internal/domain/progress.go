package domain

import "time"

// CourseProgress tracks a user's progress through a course.
// One record per (user, course) pair.
type CourseProgress struct {
	UserID              string    `json:"user_id"`
	CourseID            string    `json:"course_id"`
	CompletedLectureIDs []string  `json:"completed_lecture_ids,omitempty"`
	Completed           bool      `json:"completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// MarkLectureCompleted records a lecture as completed.
// Returns false if the lecture was already recorded.
func (p *CourseProgress) MarkLectureCompleted(lectureID string) bool {
	for _, id := range p.CompletedLectureIDs {
		if id == lectureID {
			return false
		}
	}
	p.CompletedLectureIDs = append(p.CompletedLectureIDs, lectureID)
	return true
}
