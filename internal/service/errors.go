package service

import (
	"errors"

	domainerrors "github.com/skillforge/skillforge-server/internal/errors"
	"github.com/skillforge/skillforge-server/internal/store"
)

// mapUserErr converts store user errors into coded domain errors so
// handlers get the right HTTP status without knowing store sentinels.
func mapUserErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrUserNotFound):
		return domainerrors.NotFound("user not found")
	case errors.Is(err, store.ErrEmailExists):
		return domainerrors.AlreadyExists("email already in use")
	default:
		return err
	}
}
