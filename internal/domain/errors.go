package domain

import "errors"

var (
	ErrPatchExists        = errors.New("patch entry already exists")
	ErrPatchNoteNotFound  = errors.New("patch note not found")
	ErrCharacterNotFound  = errors.New("character not found")
	ErrPatchEntryNotFound = errors.New("patch entry not found")
)
