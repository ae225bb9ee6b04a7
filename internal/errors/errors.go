// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrCampaignNotFound is returned when a campaign id does not exist for the owner.
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrFollowUpNotFound is returned when a follow-up record is missing.
type ErrFollowUpNotFound struct {
	FollowUpID string
}

func (e *ErrFollowUpNotFound) Error() string {
	return fmt.Sprintf("follow-up with ID %s not found", e.FollowUpID)
}

func NewFollowUpNotFound(id string) error {
	return &ErrFollowUpNotFound{FollowUpID: id}
}

// ErrNotFound covers the directory entities (contacts, companies).
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

func NewNotFound(entity, id string) error {
	return &ErrNotFound{Entity: entity, ID: id}
}

// ValidationError reports missing or invalid input. Operations that return it
// have not mutated anything.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreError wraps a failed record store call.
type StoreError struct {
	Op     string
	Entity string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStore wraps err, leaving nil and already-classified errors untouched.
func NewStore(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsValidation(err) || IsStore(err) {
		return err
	}
	return &StoreError{Op: op, Entity: entity, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsStore(err error) bool {
	var s *StoreError
	return errors.As(err, &s)
}

func IsNotFound(err error) bool {
	var c *ErrCampaignNotFound
	var f *ErrFollowUpNotFound
	var n *ErrNotFound
	return errors.As(err, &c) || errors.As(err, &f) || errors.As(err, &n)
}
