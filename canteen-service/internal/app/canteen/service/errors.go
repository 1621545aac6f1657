package service

import (
	"errors"
	"fmt"

	"canteenscore/canteen-service/internal/app/canteen/repository"
)

// Виды ошибок. Handler выбирает HTTP статус по виду через errors.Is
var (
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrValidation            = errors.New("validation error")
	ErrForbidden             = errors.New("access forbidden")
	ErrUnexpected            = errors.New("unexpected error")
	ErrClassifierUnavailable = errors.New("classifier unavailable")
)

// Конкретные ошибки бизнес-логики, каждая оборачивает свой вид
var (
	ErrSiteNotFound        = fmt.Errorf("site %w", ErrNotFound)
	ErrSubLocationNotFound = fmt.Errorf("sub-location %w", ErrNotFound)
	ErrItemNotFound        = fmt.Errorf("item %w", ErrNotFound)
	ErrReviewNotFound      = fmt.Errorf("review %w", ErrNotFound)
	ErrReplyNotFound       = fmt.Errorf("reply %w", ErrNotFound)

	ErrSiteNameTaken        = fmt.Errorf("%w: site with this name already exists", ErrConflict)
	ErrSubLocationNameTaken = fmt.Errorf("%w: sub-location with this name already exists in the site", ErrConflict)
	ErrItemNameTaken        = fmt.Errorf("%w: item with this name already exists in the sub-location", ErrConflict)
	ErrSiteHasSubLocations  = fmt.Errorf("%w: site still has sub-locations", ErrConflict)
	ErrSubLocationHasItems  = fmt.Errorf("%w: sub-location still has items", ErrConflict)
	ErrAlreadyReviewed      = fmt.Errorf("%w: you have already reviewed this item", ErrConflict)
	ErrItemHasDependents    = fmt.Errorf("%w: item received new reviews while being deleted", ErrConflict)
	ErrReviewHasDependents  = fmt.Errorf("%w: review received new likes or replies while being deleted", ErrConflict)

	ErrNotReviewAuthor = fmt.Errorf("%w: only the author can modify this review", ErrForbidden)
	ErrNotReplyAuthor  = fmt.Errorf("%w: only the author can modify this reply", ErrForbidden)
)

// ValidationError указывает поле запроса, не прошедшее проверку
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// unexpected оборачивает сбой хранилища, наружу уходит только вид ошибки и операция
func unexpected(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", ErrUnexpected, op, err)
}

// repositoryErrors сопоставляет ошибки репозиториев ошибкам сервиса
var repositoryErrors = []struct {
	repo    error
	service error
}{
	{repository.ErrSiteNotFound, ErrSiteNotFound},
	{repository.ErrSiteAlreadyExists, ErrSiteNameTaken},
	{repository.ErrSiteHasSubLocations, ErrSiteHasSubLocations},
	{repository.ErrSubLocationNotFound, ErrSubLocationNotFound},
	{repository.ErrSubLocationExists, ErrSubLocationNameTaken},
	{repository.ErrSubLocationHasItems, ErrSubLocationHasItems},
	{repository.ErrItemNotFound, ErrItemNotFound},
	{repository.ErrItemAlreadyExists, ErrItemNameTaken},
	{repository.ErrItemHasDependents, ErrItemHasDependents},
	{repository.ErrReviewNotFound, ErrReviewNotFound},
	{repository.ErrReviewAlreadyExists, ErrAlreadyReviewed},
	{repository.ErrReviewHasDependents, ErrReviewHasDependents},
	{repository.ErrReplyNotFound, ErrReplyNotFound},
}

// translate переводит ошибку репозитория в ошибку сервиса; неизвестное - Unexpected
func translate(op string, err error) error {
	for _, pair := range repositoryErrors {
		if errors.Is(err, pair.repo) {
			return pair.service
		}
	}
	return unexpected(op, err)
}
