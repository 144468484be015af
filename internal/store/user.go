package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/skillforge/skillforge-server/internal/domain"
)

const (
	userPrefix        = "user:"
	userByEmailPrefix = "idx:users:email:" // For email uniqueness and lookups
)

var (
	// ErrUserNotFound is returned when a user cannot be found by ID or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when attempting to create a user with an existing ID.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailExists is returned when attempting to create a user with an email that's already in use.
	ErrEmailExists = errors.New("email already in use")
)

// normalizeEmail lowercases and trims an email for index lookups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser persists a new user, enforcing email uniqueness.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	key := []byte(userPrefix + user.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	emailKey := []byte(userByEmailPrefix + normalizeEmail(user.Email))

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(emailKey)
		if err == nil {
			return ErrEmailExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check email exists: %w", err)
		}

		if err := setInTxn(txn, key, user); err != nil {
			return err
		}
		return txn.Set(emailKey, []byte(user.ID))
	})
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.get([]byte(userPrefix+id), &user)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var userID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userByEmailPrefix + normalizeEmail(email)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return s.GetUser(ctx, userID)
}

// UpdateUser persists an updated user. Email changes rewrite the index.
func (s *Store) UpdateUser(_ context.Context, user *domain.User) error {
	key := []byte(userPrefix + user.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		var existing domain.User
		err := getInTxn(txn, key, &existing)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		oldEmail := normalizeEmail(existing.Email)
		newEmail := normalizeEmail(user.Email)
		if oldEmail != newEmail {
			newEmailKey := []byte(userByEmailPrefix + newEmail)
			_, err := txn.Get(newEmailKey)
			if err == nil {
				return ErrEmailExists
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check email exists: %w", err)
			}

			if err := txn.Delete([]byte(userByEmailPrefix + oldEmail)); err != nil {
				return err
			}
			if err := txn.Set(newEmailKey, []byte(user.ID)); err != nil {
				return err
			}
		}

		return setInTxn(txn, key, user)
	})
}

// ListUsers returns all users in key order.
func (s *Store) ListUsers(_ context.Context) ([]*domain.User, error) {
	users := []*domain.User{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(userPrefix)
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var user domain.User
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			}); err != nil {
				return err
			}
			u := user
			users = append(users, &u)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUserEnrollments resolves the user's enrolled courses. The user must
// exist; a dangling course reference is skipped rather than failing the
// whole listing.
func (s *Store) GetUserEnrollments(ctx context.Context, userID string) ([]*domain.Course, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses := make([]*domain.Course, 0, len(user.EnrolledCourseIDs))
	err = s.db.View(func(txn *badger.Txn) error {
		for _, courseID := range user.EnrolledCourseIDs {
			var course domain.Course
			err := getInTxn(txn, []byte(coursePrefix+courseID), &course)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			c := course
			courses = append(courses, &c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get user enrollments: %w", err)
	}
	return courses, nil
}

// AddEnrollment records an enrollment on both sides of the relation in a
// single transaction: the course ID on the user and the user ID on the
// course. Enrolling twice is a no-op.
func (s *Store) AddEnrollment(_ context.Context, userID, courseID string) error {
	userKey := []byte(userPrefix + userID)
	courseKey := []byte(coursePrefix + courseID)

	return s.db.Update(func(txn *badger.Txn) error {
		var user domain.User
		err := getInTxn(txn, userKey, &user)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		var course domain.Course
		err = getInTxn(txn, courseKey, &course)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrCourseNotFound
		}
		if err != nil {
			return fmt.Errorf("get course: %w", err)
		}

		if user.IsEnrolledIn(courseID) {
			return nil
		}

		user.EnrolledCourseIDs = append(user.EnrolledCourseIDs, courseID)
		user.Touch()
		if !course.IsEnrolled(userID) {
			course.EnrolledUserIDs = append(course.EnrolledUserIDs, userID)
			course.Touch()
		}

		if err := setInTxn(txn, userKey, &user); err != nil {
			return err
		}
		return setInTxn(txn, courseKey, &course)
	})
}
