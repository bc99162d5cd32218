package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxCategoryLen bounds category names accepted from files and URLs.
const MaxCategoryLen = 128

// ValidateCategoryName checks that name is usable as a category label.
// Names arrive from data files and from the /drill/{category} route, so
// control characters and path separators are rejected.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidCategory, "category name cannot be empty")
	}
	if !utf8.ValidString(name) {
		return New(ErrCodeInvalidCategory, "category name is not valid UTF-8")
	}
	if utf8.RuneCountInString(name) > MaxCategoryLen {
		return New(ErrCodeInvalidCategory, "category name too long (max %d characters)", MaxCategoryLen)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCategory, "category name contains control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidCategory, "category name cannot contain path separators")
	}
	return nil
}

// ValidatePath validates an input or output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > 1024 {
		return New(ErrCodeInvalidPath, "path too long (max 1024 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}
