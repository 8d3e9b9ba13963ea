package catalog

import (
	"regexp"
	"strings"

	"github.com/batchtrack/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// batchCodePattern is two uppercase letters followed by uppercase alphanumerics
var batchCodePattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]+$`)

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

var upper = cases.Upper(language.Und)

// DeriveBatchCode builds the batch code for a product/package pair.
// The code is the first two characters of the product name followed by the
// package name with everything except A-Z and 0-9 removed, all uppercased.
// The result is deterministic: the same pair always yields the same code.
func DeriveBatchCode(productName, packageName string) (string, error) {
	productName = strings.TrimSpace(productName)
	packageName = strings.TrimSpace(packageName)
	if productName == "" {
		return "", shared.NewValidationError("Product name is required to derive a batch code")
	}
	if packageName == "" {
		return "", shared.NewValidationError("Package name is required to derive a batch code")
	}

	prefix := []rune(productName)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}

	suffix := nonAlphanumeric.ReplaceAllString(upper.String(packageName), "")
	code := upper.String(string(prefix)) + suffix

	if !ValidateBatchCodeFormat(code) {
		return "", shared.NewValidationError("Cannot derive a valid batch code from product " +
			productName + " and package " + packageName)
	}
	return code, nil
}

// ValidateBatchCodeFormat reports whether code is a well-formed batch code
func ValidateBatchCodeFormat(code string) bool {
	return batchCodePattern.MatchString(code)
}

// NormalizeBatchCode trims and uppercases a code entered by a person
func NormalizeBatchCode(code string) string {
	return upper.String(strings.TrimSpace(code))
}

// ResolveBatchCode picks the code for a new batch.
// With no explicit code the code is derived from the product and package
// names. An explicit code is normalized and must pass the format check.
func ResolveBatchCode(explicit *string, productName, packageName string) (string, error) {
	if explicit == nil {
		return DeriveBatchCode(productName, packageName)
	}

	code := NormalizeBatchCode(*explicit)
	if code == "" {
		return "", shared.NewValidationError("Batch code cannot be empty")
	}
	if !ValidateBatchCodeFormat(code) {
		return "", shared.NewValidationError("Batch code must be two letters followed by letters or digits, e.g. PE100MG")
	}
	return code, nil
}
