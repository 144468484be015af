// Package search provides full-text course search backed by Bleve.
package search

import (
	"github.com/skillforge/skillforge-server/internal/domain"
)

// CourseDocument is the flattened, indexable form of a course.
// Tag names are denormalized in so tag filters work without a join.
type CourseDocument struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	TagNames      []string `json:"tag_names"`
	Price         float64  `json:"price"`
	Enrollments   int      `json:"enrollments"`
	AverageRating float64  `json:"average_rating"`
	Published     bool     `json:"published"`
	CreatedAt     int64    `json:"created_at"`
	UpdatedAt     int64    `json:"updated_at"`
}

// NewCourseDocument builds a search document from a course and its
// resolved tag names.
func NewCourseDocument(course *domain.Course, tagNames []string) *CourseDocument {
	return &CourseDocument{
		ID:            course.ID,
		Title:         course.Title,
		Description:   course.Description,
		TagNames:      tagNames,
		Price:         course.DiscountedPrice(),
		Enrollments:   course.EnrollmentCount(),
		AverageRating: course.AverageRating(),
		Published:     course.Published,
		CreatedAt:     course.CreatedAt.UnixMilli(),
		UpdatedAt:     course.UpdatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map so field names match the index
// mapping exactly.
func (d *CourseDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":             d.ID,
		"title":          d.Title,
		"description":    d.Description,
		"price":          d.Price,
		"enrollments":    d.Enrollments,
		"average_rating": d.AverageRating,
		"published":      d.Published,
		"created_at":     d.CreatedAt,
		"updated_at":     d.UpdatedAt,
	}
	if len(d.TagNames) > 0 {
		m["tag_names"] = d.TagNames
	}
	return m
}
