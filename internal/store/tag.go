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
	tagPrefix       = "tag:"
	tagByNamePrefix = "idx:tags:name:" // For uniqueness checks and name lookups
)

var (
	// ErrTagNotFound is returned when a tag cannot be found by ID or name.
	ErrTagNotFound = errors.New("tag not found")
	// ErrTagExists is returned when attempting to create a tag with an existing ID.
	ErrTagExists = errors.New("tag already exists")
	// ErrTagNameExists is returned when a tag name is already in use.
	ErrTagNameExists = errors.New("tag name already in use")
)

// normalizeTagName lowercases and trims a tag name for index lookups.
// Display names keep their original casing on the entity itself.
func normalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CreateTag persists a new tag, enforcing name uniqueness via the name index.
func (s *Store) CreateTag(_ context.Context, tag *domain.Tag) error {
	key := []byte(tagPrefix + tag.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check tag exists: %w", err)
	}
	if exists {
		return ErrTagExists
	}

	nameKey := []byte(tagByNamePrefix + normalizeTagName(tag.Name))

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(nameKey)
		if err == nil {
			return ErrTagNameExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check tag name exists: %w", err)
		}

		if err := setInTxn(txn, key, tag); err != nil {
			return err
		}
		return txn.Set(nameKey, []byte(tag.ID))
	})
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(_ context.Context, id string) (*domain.Tag, error) {
	var tag domain.Tag
	err := s.get([]byte(tagPrefix+id), &tag)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &tag, nil
}

// GetTagByName retrieves a tag by its case-insensitive name.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	var tagID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tagByNamePrefix + normalizeTagName(name)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			tagID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag by name: %w", err)
	}
	return s.GetTag(ctx, tagID)
}

// ListTags returns all tags in key order.
func (s *Store) ListTags(_ context.Context) ([]*domain.Tag, error) {
	tags := []*domain.Tag{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(tagPrefix)
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var tag domain.Tag
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &tag)
			}); err != nil {
				return err
			}
			t := tag
			tags = append(tags, &t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// UpdateTag persists an updated tag, rewriting the name index when the
// name changed and enforcing uniqueness against the new name.
func (s *Store) UpdateTag(_ context.Context, tag *domain.Tag) error {
	key := []byte(tagPrefix + tag.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		var existing domain.Tag
		err := getInTxn(txn, key, &existing)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTagNotFound
		}
		if err != nil {
			return fmt.Errorf("get tag: %w", err)
		}

		oldName := normalizeTagName(existing.Name)
		newName := normalizeTagName(tag.Name)
		if oldName != newName {
			newNameKey := []byte(tagByNamePrefix + newName)
			_, err := txn.Get(newNameKey)
			if err == nil {
				return ErrTagNameExists
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check tag name exists: %w", err)
			}

			if err := txn.Delete([]byte(tagByNamePrefix + oldName)); err != nil {
				return err
			}
			if err := txn.Set(newNameKey, []byte(tag.ID)); err != nil {
				return err
			}
		}

		return setInTxn(txn, key, tag)
	})
}

// DeleteTag removes a tag, its name index entry, and the tag reference
// from every course that carries it, all in one transaction.
func (s *Store) DeleteTag(_ context.Context, id string) error {
	key := []byte(tagPrefix + id)

	err := s.db.Update(func(txn *badger.Txn) error {
		var tag domain.Tag
		err := getInTxn(txn, key, &tag)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTagNotFound
		}
		if err != nil {
			return fmt.Errorf("get tag: %w", err)
		}

		// Cascade: pull the tag off every course referencing it so no
		// course carries a dangling tag ID.
		opts := badger.DefaultIteratorOptions
		prefix := []byte(coursePrefix)
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var course domain.Course
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &course)
			}); err != nil {
				return err
			}

			if !course.HasTag(id) {
				continue
			}
			course.RemoveTag(id)
			course.Touch()
			if err := setInTxn(txn, []byte(coursePrefix+course.ID), &course); err != nil {
				return err
			}
		}

		if err := txn.Delete([]byte(tagByNamePrefix + normalizeTagName(tag.Name))); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	return err
}

// resolveTagNames maps tag IDs to display names, skipping unknown IDs.
func (s *Store) resolveTagNames(tagIDs []string) ([]string, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(tagIDs))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range tagIDs {
			var tag domain.Tag
			err := getInTxn(txn, []byte(tagPrefix+id), &tag)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			names = append(names, tag.Name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve tag names: %w", err)
	}
	return names, nil
}
