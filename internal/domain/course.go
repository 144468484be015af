// Package domain contains the core business entities and domain logic for the SkillForge course platform.
package domain

import "time"

// Course represents a course in the catalog.
type Course struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Thumbnail       string    `json:"thumbnail,omitempty"`
	Price           float64   `json:"price"`
	Discount        float64   `json:"discount"` // Percentage, 0-100
	EducatorID      string    `json:"educator_id"`
	TagIDs          []string  `json:"tag_ids,omitempty"`
	Ratings         []Rating  `json:"ratings,omitempty"`
	EnrolledUserIDs []string  `json:"enrolled_user_ids,omitempty"`
	Published       bool      `json:"published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Rating is a single user's rating of a course.
// A user has at most one rating per course; re-rating replaces the old entry.
type Rating struct {
	UserID string `json:"user_id"`
	Score  int    `json:"score"` // 1-5
	Review string `json:"review,omitempty"`
}

// AverageRating returns the mean rating score, or 0 for unrated courses.
func (c *Course) AverageRating() float64 {
	if len(c.Ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range c.Ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(c.Ratings))
}

// EnrollmentCount returns the number of enrolled users.
func (c *Course) EnrollmentCount() int {
	return len(c.EnrolledUserIDs)
}

// DiscountedPrice returns the effective price after discount.
func (c *Course) DiscountedPrice() float64 {
	return c.Price - c.Price*c.Discount/100
}

// IsEnrolled reports whether the given user is enrolled in the course.
func (c *Course) IsEnrolled(userID string) bool {
	for _, id := range c.EnrolledUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// SetRating adds or replaces the user's rating.
// Returns true if an existing rating was replaced.
func (c *Course) SetRating(r Rating) bool {
	for i := range c.Ratings {
		if c.Ratings[i].UserID == r.UserID {
			c.Ratings[i] = r
			return true
		}
	}
	c.Ratings = append(c.Ratings, r)
	return false
}

// HasTag reports whether the course references the given tag ID.
func (c *Course) HasTag(tagID string) bool {
	for _, id := range c.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// RemoveTag removes a tag reference from the course.
// Returns true if the tag was present.
func (c *Course) RemoveTag(tagID string) bool {
	for i, id := range c.TagIDs {
		if id == tagID {
			c.TagIDs = append(c.TagIDs[:i], c.TagIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Touch updates the UpdatedAt timestamp.
func (c *Course) Touch() {
	c.UpdatedAt = time.Now()
}
