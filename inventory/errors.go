package inventory

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to inventory errors.
const (
	CodeItemNotFound       = "ITEM_NOT_FOUND"
	CodeInvalidItem        = "INVALID_ITEM"
	CodeInvalidCategory    = "INVALID_CATEGORY"
	CodeCategoryExists     = "CATEGORY_EXISTS"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
)

// ErrBackendUnavailable is the default failure returned by fault injection.
var ErrBackendUnavailable = goerrors.New("inventory backend unavailable", goerrors.CategoryInternal).
	WithTextCode(CodeBackendUnavailable)

func itemNotFound(id string) error {
	return goerrors.New(fmt.Sprintf("inventory item %q not found", id), goerrors.CategoryNotFound).
		WithTextCode(CodeItemNotFound)
}

func invalid(err error, code, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(code)
}

func categoryExists(name string) error {
	return goerrors.New(fmt.Sprintf("category %q already exists", name), goerrors.CategoryConflict).
		WithTextCode(CodeCategoryExists)
}

func hasCategory(err error, category goerrors.Category) bool {
	var e *goerrors.Error
	return errors.As(err, &e) && e.Category == category
}

// IsNotFound reports whether err is a missing item error.
func IsNotFound(err error) bool {
	return hasCategory(err, goerrors.CategoryNotFound)
}

// IsValidation reports whether err was caused by an invalid payload.
func IsValidation(err error) bool {
	return hasCategory(err, goerrors.CategoryValidation)
}

// IsConflict reports whether err was caused by a duplicate category.
func IsConflict(err error) bool {
	return hasCategory(err, goerrors.CategoryConflict)
}

// TextCode returns the text code carried by err, or "" when none.
func TextCode(err error) string {
	var e *goerrors.Error
	if errors.As(err, &e) {
		return e.TextCode
	}
	return ""
}
