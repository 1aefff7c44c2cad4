package contactbook

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ContactError
		want string
	}{
		{
			name: "code and message",
			err:  NewContactError(ErrCodeEmptyName, "name cannot be empty"),
			want: "[EMPTY_NAME] name cannot be empty",
		},
		{
			name: "with key",
			err:  NewContactError(ErrCodeInvalidEmail, "email is not valid").WithKey("nope"),
			want: "[INVALID_EMAIL] email is not valid (contact: nope)",
		},
		{
			name: "with key and cause",
			err:  NewConsistencyError("Bogdan", "add set 1 fields, expected 2").WithCause(errors.New("boom")),
			want: "[BACKEND_CONSISTENCY] add set 1 fields, expected 2 (contact: Bogdan): boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestContactError_IsMatchesByCode(t *testing.T) {
	err := NewContactError(ErrCodeInvalidPhone, "some other message").WithKey("123")

	assert.ErrorIs(t, err, ErrInvalidPhone)
	assert.NotErrorIs(t, err, ErrInvalidEmail)
	assert.NotErrorIs(t, err, os.ErrNotExist)

	wrapped := fmt.Errorf("adding contact: %w", err)
	assert.ErrorIs(t, wrapped, ErrInvalidPhone)
}

func TestContactError_Unwrap(t *testing.T) {
	err := NewIOError("/tmp/contacts.json", os.ErrPermission)

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "/tmp/contacts.json")

	decodeErr := NewDecodeError("/tmp/contacts.json", errors.New("unexpected EOF"))
	assert.ErrorIs(t, decodeErr, ErrDecode)
	assert.NotErrorIs(t, decodeErr, ErrIO)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotANumber, ErrorCode(ErrNotANumber))
	assert.Equal(t, ErrCodeConsistency, ErrorCode(fmt.Errorf("wrapped: %w", NewConsistencyError("k", "m"))))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.Equal(t, "", ErrorCode(nil))
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		err         error
		validation  bool
		consistency bool
	}{
		{ErrEmptyName, true, false},
		{ErrInvalidEmail, true, false},
		{ErrInvalidPhone, true, false},
		{ErrNotANumber, true, false},
		{ErrIO, false, false},
		{ErrDecode, false, false},
		{ErrConsistency, false, true},
		{errors.New("plain"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.validation, IsValidationError(tt.err))
			assert.Equal(t, tt.consistency, IsConsistencyError(tt.err))
		})
	}
}
