package domain

import "errors"

// Named precondition violations. These are never retried and each maps
// to a dedicated localized message at the handler boundary; everything
// else propagates unchanged.
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrAlreadyVoted       = errors.New("user has already voted")
	ErrHasNotVoted        = errors.New("user has not voted")
	ErrWarzoneRequired    = errors.New("profile has no warzone")
	ErrDeviceAlreadyVoted = errors.New("device already holds an active vote")
	ErrDeviceIDRequired   = errors.New("device id is required")
	ErrInvalidStance      = errors.New("invalid stance")
	ErrDuplicateRequest   = errors.New("duplicate submission request")
	ErrInvalidReasons     = errors.New("invalid reasons for stance")
	ErrInvalidAgeGroup    = errors.New("invalid age group")
	ErrInvalidGender      = errors.New("invalid gender")
	ErrInvalidWarzone     = errors.New("invalid warzone")
)
