package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
)

type sample struct {
	Name   string `json:"name" validate:"min=2"`
	Email  string `json:"email" validate:"omitempty,email"`
	Status string `json:"status" validate:"oneof=Pending Critical Urgent Complete"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     sample
		wantField string
		wantMsg   string
	}{
		{"valid", sample{Name: "ok", Status: "Pending"}, "", ""},
		{"short name", sample{Name: "A", Status: "Pending"}, "name", "at least 2 characters"},
		{"bad email", sample{Name: "ok", Email: "nope", Status: "Urgent"}, "email", "valid email"},
		{"bad status", sample{Name: "ok", Status: "Done"}, "status", "Pending, Critical, Urgent, Complete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantField, appErr.Field)
			assert.Contains(t, appErr.Message, tt.wantMsg)
		})
	}
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("code", "123456", "len=6,numeric"))

	err := Var("code", "12a456", "len=6,numeric")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestStructAtPrefixesField(t *testing.T) {
	err := StructAt("boards[2]", sample{Name: "x", Status: "Pending"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "boards[2].name", appErr.Field)
}
