package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 5000
	MaxReasonLength      = 1000
	MaxNotesLength       = 5000
	MaxCommentLength     = 2000
	MaxImageRefLength    = 500
	MaxImagesCount       = 20
)

// ValidateLength checks the rune length of value. A zero bound is not enforced.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateRequiredText trims value and checks it is present and within max.
func ValidateRequiredText(fieldName, value string, max int) error {
	if err := ValidateNonEmpty(fieldName, value); err != nil {
		return err
	}
	return ValidateLength(fieldName, strings.TrimSpace(value), 0, max)
}

// ValidateOptionalText checks only the upper bound.
func ValidateOptionalText(fieldName, value string, max int) error {
	return ValidateLength(fieldName, strings.TrimSpace(value), 0, max)
}

// validateLink accepts absolute http(s) URLs and bare object keys such as
// "maintenance/2024/pond.jpg".
func validateLink(link string) error {
	if err := ValidateLength("image reference", link, 1, MaxImageRefLength); err != nil {
		return err
	}
	if !strings.Contains(link, "://") {
		if strings.ContainsAny(link, " \t\n") {
			return fmt.Errorf("image reference %q contains whitespace", link)
		}
		return nil
	}

	parsedURL, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("image reference %q is not a valid URL", link)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("image reference %q must use http or https", link)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("image reference %q has no host", link)
	}
	return nil
}
