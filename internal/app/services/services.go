// Package services holds the domain operations behind the HTTP handlers and
// the admin CLI.
package services

import (
	"errors"
	"strings"

	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
)

// Listing caps for the public endpoints
const (
	TeacherReviewLimit = 50
	DiscussionLimit    = 100
)

// notFound replaces a bare repository miss with a message naming the resource
func notFound(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NewNotFoundError(what + " not found")
	}
	return err
}

// requireID rejects blank path or body identifiers before they reach the store
func requireID(field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperrors.NewValidationError(field + " is required")
	}
	return id, nil
}
