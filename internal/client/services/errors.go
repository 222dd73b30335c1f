package services

import "errors"

var (
	ErrNotebookNotEmpty = errors.New("notebook still has notes")
	ErrNoteTrashed      = errors.New("note is in trash")

	ErrNoteEncrypted      = errors.New("note is encrypted")
	ErrNoteNotEncrypted   = errors.New("note is not encrypted")
	ErrVaultLocked        = errors.New("vault is locked")
	ErrVaultExists        = errors.New("vault is already set up")
	ErrVaultNotConfigured = errors.New("vault is not set up")
	ErrWrongPIN           = errors.New("wrong PIN")
	ErrPINTooShort        = errors.New("PIN must have at least 4 characters")
)
