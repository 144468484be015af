package domain

import "time"

// Role represents the user's role on the platform.
type Role string

const (
	// RoleStudent is the default role for new users.
	RoleStudent Role = "student"
	// RoleEducator grants course authoring access.
	RoleEducator Role = "educator"
)

// User represents a platform user. Identity resolution happens upstream;
// the server only stores the resolved account record.
type User struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              Role      `json:"role"`
	EnrolledCourseIDs []string  `json:"enrolled_course_ids,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsEducator returns true if the user can author courses.
func (u *User) IsEducator() bool {
	return u.Role == RoleEducator
}

// IsEnrolledIn reports whether the user is enrolled in the given course.
func (u *User) IsEnrolledIn(courseID string) bool {
	for _, id := range u.EnrolledCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}
