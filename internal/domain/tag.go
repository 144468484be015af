package domain

import "time"

// Tag represents a global catalog tag for categorizing courses.
// Tags are shared across all courses; there is no ownership model.
// Name is globally unique and is the identity used for taste aggregation:
// two tag records with the same name are interchangeable for scoring.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CourseCount int       `json:"course_count"` // Denormalized count of courses with this tag
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}
