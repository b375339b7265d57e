package validation

import (
	"testing"

	apperrors "lumbung/internal/errors"
	"lumbung/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructAcceptsValidInput(t *testing.T) {
	in := models.CreateWasteInput{Title: "Used oil", Category: "Minyak", Weight: 10, Price: 1000}
	assert.NoError(t, Struct(&in))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	in := models.CreateWasteInput{Category: "Minyak", Weight: 0}

	err := Struct(&in)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "weight must be greater than 0")
}

func TestStructRejectsUnknownRole(t *testing.T) {
	in := models.CreateUserInput{Email: "a@b.co", Password: "secret1", Name: "A", Role: "admin"}

	err := Struct(&in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role must be one of [producer recycler]")
}
