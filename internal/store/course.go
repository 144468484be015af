package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/skillforge/skillforge-server/internal/domain"
)

const (
	coursePrefix           = "course:"
	courseByEducatorPrefix = "idx:courses:educator:" // For educator dashboard listings
)

var (
	// ErrCourseNotFound is returned when a course cannot be found by ID.
	ErrCourseNotFound = errors.New("course not found")
	// ErrCourseExists is returned when attempting to create a course with an existing ID.
	ErrCourseExists = errors.New("course already exists")
)

// PublishedFilter narrows the published-course listing. A nil ExcludeIDs
// set means no exclusions.
type PublishedFilter struct {
	// ExcludeIDs removes specific courses from the listing, e.g. a
	// viewer's own enrollments when building a candidate pool.
	ExcludeIDs map[string]struct{}
}

// CreateCourse persists a new course and its educator index entry.
func (s *Store) CreateCourse(ctx context.Context, course *domain.Course) error {
	key := []byte(coursePrefix + course.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check course exists: %w", err)
	}
	if exists {
		return ErrCourseExists
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, key, course); err != nil {
			return err
		}
		if course.EducatorID != "" {
			idxKey := []byte(courseByEducatorPrefix + course.EducatorID + ":" + course.ID)
			if err := txn.Set(idxKey, []byte(course.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.indexCourseForSearch(ctx, course)
	return nil
}

// GetCourse retrieves a course by ID.
func (s *Store) GetCourse(_ context.Context, id string) (*domain.Course, error) {
	var course domain.Course
	err := s.get([]byte(coursePrefix+id), &course)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &course, nil
}

// UpdateCourse persists an updated course. The educator index entry is
// rewritten in the same transaction when the educator changed.
func (s *Store) UpdateCourse(ctx context.Context, course *domain.Course) error {
	key := []byte(coursePrefix + course.ID)

	err := s.db.Update(func(txn *badger.Txn) error {
		var existing domain.Course
		err := getInTxn(txn, key, &existing)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrCourseNotFound
		}
		if err != nil {
			return fmt.Errorf("get course: %w", err)
		}

		if existing.EducatorID != course.EducatorID {
			if existing.EducatorID != "" {
				oldIdx := []byte(courseByEducatorPrefix + existing.EducatorID + ":" + course.ID)
				if err := txn.Delete(oldIdx); err != nil {
					return err
				}
			}
			if course.EducatorID != "" {
				newIdx := []byte(courseByEducatorPrefix + course.EducatorID + ":" + course.ID)
				if err := txn.Set(newIdx, []byte(course.ID)); err != nil {
					return err
				}
			}
		}

		return setInTxn(txn, key, course)
	})
	if err != nil {
		return err
	}

	s.indexCourseForSearch(ctx, course)
	return nil
}

// DeleteCourse removes a course and its educator index entry.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	key := []byte(coursePrefix + id)

	err := s.db.Update(func(txn *badger.Txn) error {
		var course domain.Course
		err := getInTxn(txn, key, &course)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrCourseNotFound
		}
		if err != nil {
			return fmt.Errorf("get course: %w", err)
		}

		if course.EducatorID != "" {
			idxKey := []byte(courseByEducatorPrefix + course.EducatorID + ":" + id)
			if err := txn.Delete(idxKey); err != nil {
				return err
			}
		}

		return txn.Delete(key)
	})
	if err != nil {
		return err
	}

	if s.searchIndexer != nil {
		if err := s.searchIndexer.DeleteCourse(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove course from search index", "course_id", id, "error", err)
		}
	}
	return nil
}

// ListCourses returns every course in the store, published or not.
func (s *Store) ListCourses(_ context.Context) ([]*domain.Course, error) {
	return s.scanCourses(func(*domain.Course) bool { return true })
}

// ListPublishedCourses returns published courses matching the filter,
// in key order.
func (s *Store) ListPublishedCourses(_ context.Context, filter PublishedFilter) ([]*domain.Course, error) {
	return s.scanCourses(func(c *domain.Course) bool {
		if !c.Published {
			return false
		}
		if filter.ExcludeIDs != nil {
			if _, excluded := filter.ExcludeIDs[c.ID]; excluded {
				return false
			}
		}
		return true
	})
}

// SampleRandomPublished returns up to n published courses drawn uniformly
// without replacement. When n meets or exceeds the published pool the
// whole pool is returned, shuffled.
func (s *Store) SampleRandomPublished(ctx context.Context, n int) ([]*domain.Course, error) {
	if n <= 0 {
		return []*domain.Course{}, nil
	}

	pool, err := s.ListPublishedCourses(ctx, PublishedFilter{})
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if n < len(pool) {
		pool = pool[:n]
	}
	return pool, nil
}

// ListCoursesByEducator returns all courses owned by the given educator,
// resolved through the educator index.
func (s *Store) ListCoursesByEducator(_ context.Context, educatorID string) ([]*domain.Course, error) {
	courses := []*domain.Course{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(courseByEducatorPrefix + educatorID + ":")
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var courseID string
			if err := it.Item().Value(func(val []byte) error {
				courseID = string(val)
				return nil
			}); err != nil {
				return err
			}

			var course domain.Course
			err := getInTxn(txn, []byte(coursePrefix+courseID), &course)
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Stale index entry; skip rather than fail the listing.
				continue
			}
			if err != nil {
				return err
			}
			courses = append(courses, &course)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list courses by educator: %w", err)
	}
	return courses, nil
}

// scanCourses iterates the course prefix and collects entries passing keep.
func (s *Store) scanCourses(keep func(*domain.Course) bool) ([]*domain.Course, error) {
	courses := []*domain.Course{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(coursePrefix)
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			// The index keys share no prefix with course:, but guard
			// against any malformed keys anyway.
			if strings.Count(string(it.Item().Key()), ":") != 1 {
				continue
			}

			var course domain.Course
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &course)
			}); err != nil {
				return err
			}

			if keep(&course) {
				c := course
				courses = append(courses, &c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan courses: %w", err)
	}
	return courses, nil
}

// indexCourseForSearch pushes the course into the search index, logging
// rather than failing on indexer errors so writes never depend on search.
func (s *Store) indexCourseForSearch(ctx context.Context, course *domain.Course) {
	if s.searchIndexer == nil {
		return
	}

	tagNames, err := s.resolveTagNames(course.TagIDs)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to resolve tag names for search indexing", "course_id", course.ID, "error", err)
		}
		tagNames = nil
	}

	if err := s.searchIndexer.IndexCourse(ctx, course, tagNames); err != nil && s.logger != nil {
		s.logger.Warn("failed to index course for search", "course_id", course.ID, "error", err)
	}
}
