package cli

import (
	"errors"

	"github.com/aidanlsb/noted/internal/index"
	"github.com/aidanlsb/noted/internal/syncer"
	"github.com/aidanlsb/noted/internal/vault"
)

// Error codes for structured error responses. These codes are stable.
const (
	ErrConfigInvalid      = "CONFIG_INVALID"
	ErrNotesNotConfigured = "NOTES_NOT_CONFIGURED"
	ErrInvalidDirectory   = "INVALID_DIRECTORY"

	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileExists     = "FILE_EXISTS"
	ErrFileUnreadable = "FILE_UNREADABLE"
	ErrFileWriteError = "FILE_WRITE_ERROR"
	ErrNotANote       = "NOT_A_NOTE"

	ErrDatabaseError = "DATABASE_ERROR"
	ErrIndexLocked   = "INDEX_LOCKED"

	ErrInvalidInput     = "INVALID_INPUT"
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrInternal         = "INTERNAL_ERROR"
)

// Warning codes.
const (
	WarnAlreadyStored = "ALREADY_STORED"
	WarnLint          = "LINT"
)

// codeFor maps errors returned by the core packages to error codes.
func codeFor(err error) string {
	var unreadable *vault.UnreadableFileError
	switch {
	case errors.As(err, &unreadable):
		return ErrFileUnreadable
	case errors.Is(err, syncer.ErrInvalidDirectory):
		return ErrInvalidDirectory
	case errors.Is(err, syncer.ErrNotNote):
		return ErrNotANote
	case errors.Is(err, vault.ErrNoteExists):
		return ErrFileExists
	case errors.Is(err, index.ErrIndexLocked):
		return ErrIndexLocked
	case errors.Is(err, index.ErrOverwriteAttempt):
		return ErrDatabaseError
	}
	return ErrInternal
}
