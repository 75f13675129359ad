package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %T", err)
	require.ErrorIs(t, err, apperror.ErrValidation)

	out := make(map[string]string, len(appErr.Fields))
	for _, f := range appErr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestStruct_ValidRegistration(t *testing.T) {
	v := New()
	err := v.Struct(model.RegisterInput{
		Username: "fan123",
		Email:    "fan@example.com",
		Password: "secret1",
	})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Struct(model.RegisterInput{
		Username: "ab",
		Email:    "not-an-email",
		Password: "",
	})

	got := fieldMessages(t, err)
	assert.Equal(t, "must be at least 3 characters", got["username"])
	assert.Equal(t, "must be a valid email address", got["email"])
	assert.Equal(t, "is required", got["password"])
}

func TestStruct_OneOf(t *testing.T) {
	v := New()
	now := time.Now()
	status := "postponed"
	err := v.Struct(model.MatchInput{
		SportType: "tennis",
		Team1:     "A",
		Team2:     "B",
		MatchTime: &now,
		Status:    &status,
	})

	got := fieldMessages(t, err)
	assert.Equal(t, "must be one of: football, cricket", got["sportType"])
	assert.Equal(t, "must be one of: upcoming, live, completed", got["status"])
}

func TestStruct_MissingMatchTime(t *testing.T) {
	v := New()
	err := v.Struct(model.MatchInput{SportType: "football", Team1: "A", Team2: "B"})

	got := fieldMessages(t, err)
	assert.Equal(t, "is required", got["matchTime"])
}

func TestStruct_OptionalPointersSkippedWhenNil(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(model.ProfileInput{}))
}

func TestStruct_NonStructIsPlainError(t *testing.T) {
	v := New()
	err := v.Struct(42)
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperror.ErrValidation))
}
