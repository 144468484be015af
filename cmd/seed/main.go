// Package main provides a tool to seed the database with the default tag
// catalog and, optionally, demo data for trying the recommendation API.
//
// Usage:
//
//	DB_PATH=~/skillforge/db go run ./cmd/seed
//	DB_PATH=~/skillforge/db go run ./cmd/seed --demo  # Also create demo users and courses
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/skillforge/skillforge-server/internal/domain"
	"github.com/skillforge/skillforge-server/internal/id"
	"github.com/skillforge/skillforge-server/internal/store"
)

// defaultTags is the tag catalog a fresh installation starts with.
var defaultTags = []string{
	"JavaScript",
	"TypeScript",
	"React",
	"Next.js",
	"Node.js",
	"Express",
	"MongoDB",
	"SQL",
	"PostgreSQL",
	"Python",
	"Django",
	"Flask",
	"Data Science",
	"Machine Learning",
	"Artificial Intelligence",
	"DevOps",
	"Docker",
	"Kubernetes",
	"AWS",
	"Azure",
	"Firebase",
	"CSS",
	"HTML",
	"Git",
	"Testing",
	"REST",
	"GraphQL",
	"Mobile",
	"iOS",
	"Android",
	"Business",
	"Marketing",
	"Design",
}

var demo = flag.Bool("demo", false, "Create demo users, courses, and enrollments")

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/skillforge/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	tagIDs := seedTags(ctx, s)

	if *demo {
		seedDemoData(ctx, s, tagIDs)
	}

	fmt.Println("Seeding complete")
}

// seedTags creates the default tags, skipping any that already exist.
// Returns name -> ID for all default tags.
func seedTags(ctx context.Context, s *store.Store) map[string]string {
	tagIDs := make(map[string]string, len(defaultTags))
	var created, skipped int

	for _, name := range defaultTags {
		existing, err := s.GetTagByName(ctx, name)
		if err == nil {
			tagIDs[name] = existing.ID
			skipped++
			continue
		}
		if !errors.Is(err, store.ErrTagNotFound) {
			log.Fatalf("Failed to look up tag %q: %v", name, err)
		}

		tagID, err := id.Generate("tag")
		if err != nil {
			log.Fatalf("Failed to generate tag ID: %v", err)
		}

		now := time.Now()
		tag := &domain.Tag{
			ID:        tagID,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateTag(ctx, tag); err != nil {
			log.Fatalf("Failed to create tag %q: %v", name, err)
		}
		tagIDs[name] = tagID
		created++
	}

	fmt.Printf("Tags: %d created, %d already existed\n", created, skipped)
	return tagIDs
}

// seedDemoData creates an educator with a small catalog plus a handful of
// students with enrollments and ratings, enough to exercise every
// recommendation tier.
func seedDemoData(ctx context.Context, s *store.Store, tagIDs map[string]string) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	educatorID := seedUser(ctx, s, "Dana Mentor", "dana@skillforge.dev", domain.RoleEducator)

	demoCourses := []struct {
		title string
		price float64
		tags  []string
	}{
		{"JavaScript Fundamentals", 39.99, []string{"JavaScript", "HTML", "CSS"}},
		{"React from Scratch", 59.99, []string{"React", "JavaScript"}},
		{"Node.js APIs in Practice", 49.99, []string{"Node.js", "Express", "REST"}},
		{"Python for Data Science", 69.99, []string{"Python", "Data Science"}},
		{"Machine Learning Foundations", 79.99, []string{"Machine Learning", "Python"}},
		{"Docker and Kubernetes", 54.99, []string{"Docker", "Kubernetes", "DevOps"}},
		{"Marketing Essentials", 29.99, []string{"Marketing", "Business"}},
		{"Design Systems", 44.99, []string{"Design", "CSS"}},
	}

	courseIDs := make([]string, 0, len(demoCourses))
	for _, dc := range demoCourses {
		courseID, err := id.Generate("course")
		if err != nil {
			log.Fatalf("Failed to generate course ID: %v", err)
		}

		ids := make([]string, 0, len(dc.tags))
		for _, name := range dc.tags {
			ids = append(ids, tagIDs[name])
		}

		now := time.Now()
		course := &domain.Course{
			ID:          courseID,
			Title:       dc.title,
			Description: "A hands-on course covering " + strings.Join(dc.tags, ", ") + ".",
			Price:       dc.price,
			Discount:    float64(rng.Intn(4)) * 10,
			EducatorID:  educatorID,
			TagIDs:      ids,
			Published:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.CreateCourse(ctx, course); err != nil {
			log.Fatalf("Failed to create course %q: %v", dc.title, err)
		}
		courseIDs = append(courseIDs, courseID)
	}
	fmt.Printf("Courses: %d created\n", len(demoCourses))

	students := []struct {
		name  string
		email string
	}{
		{"Avery Learner", "avery@example.com"},
		{"Blake Novice", "blake@example.com"},
		{"Casey Tinkerer", "casey@example.com"},
		{"Devon Browser", "devon@example.com"},
	}

	var enrollments int
	for _, st := range students {
		userID := seedUser(ctx, s, st.name, st.email, domain.RoleStudent)

		// Each student enrolls in 2-4 random courses and rates some of them.
		n := 2 + rng.Intn(3)
		perm := rng.Perm(len(courseIDs))
		for _, idx := range perm[:n] {
			courseID := courseIDs[idx]
			if err := s.AddEnrollment(ctx, userID, courseID); err != nil {
				log.Fatalf("Failed to enroll %s in %s: %v", userID, courseID, err)
			}
			enrollments++

			if rng.Float32() < 0.6 {
				course, err := s.GetCourse(ctx, courseID)
				if err != nil {
					log.Fatalf("Failed to load course %s: %v", courseID, err)
				}
				course.SetRating(domain.Rating{UserID: userID, Score: 3 + rng.Intn(3)})
				course.Touch()
				if err := s.UpdateCourse(ctx, course); err != nil {
					log.Fatalf("Failed to rate course %s: %v", courseID, err)
				}
			}
		}
	}
	fmt.Printf("Students: %d created, %d enrollments\n", len(students), enrollments)
}

func seedUser(ctx context.Context, s *store.Store, name, email string, role domain.Role) string {
	existing, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return existing.ID
	}

	userID, err := id.Generate("user")
	if err != nil {
		log.Fatalf("Failed to generate user ID: %v", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:        userID,
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create user %q: %v", email, err)
	}
	return userID
}
