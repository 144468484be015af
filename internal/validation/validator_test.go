package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/skillforge/skillforge-server/internal/errors"
	"github.com/skillforge/skillforge-server/internal/validation"
)

type createCourseRequest struct {
	Title string  `json:"title" validate:"required,min=3,max=200"`
	Price float64 `json:"price" validate:"gte=0"`
	Email string  `json:"email" validate:"required,email"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := createCourseRequest{
		Title: "Go Fundamentals",
		Price: 49.99,
		Email: "educator@example.com",
	}

	assert.NoError(t, v.Validate(req))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       createCourseRequest
		wantField string
	}{
		{
			name:      "missing required field",
			req:       createCourseRequest{Price: 10, Email: "a@b.com"},
			wantField: "title",
		},
		{
			name:      "title too short",
			req:       createCourseRequest{Title: "Go", Price: 10, Email: "a@b.com"},
			wantField: "title",
		},
		{
			name:      "negative price",
			req:       createCourseRequest{Title: "Go Fundamentals", Price: -1, Email: "a@b.com"},
			wantField: "price",
		},
		{
			name:      "invalid email",
			req:       createCourseRequest{Title: "Go Fundamentals", Price: 10, Email: "not-an-email"},
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			// Field errors use JSON tag names
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}
