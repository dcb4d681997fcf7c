package service

import "errors"

var (
	// ErrEmptyOutfitID guards mutation entry points.
	ErrEmptyOutfitID = errors.New("empty outfit id")
	// ErrInvalidPreferences is returned when a preferences update carries
	// no user id.
	ErrInvalidPreferences = errors.New("invalid preferences")
)
