package domain

import dErrors "missionsuivi/pkg/domain-errors"

// CategoryCode identifies an evaluation category (volet) by its stable code.
// Invariant: the value must be one of the known codes.
//
// Construct via ParseCategoryCode at trust boundaries; direct casting bypasses
// the allowlist.
type CategoryCode string

const (
	CategoryFI   CategoryCode = "FI"
	CategoryFQS  CategoryCode = "F_QS"
	CategoryFGAB CategoryCode = "F_GAB"
)

// sheetPrefixes maps each category to the prefix used for its report sheets.
var sheetPrefixes = map[CategoryCode]string{
	CategoryFI:   "Moy_FI_",
	CategoryFQS:  "Moy_QS_",
	CategoryFGAB: "Moy_GAB_",
}

// ParseCategoryCode constructs a CategoryCode from external input.
//
// Errors: returns CodeValidation when the value is empty or unknown.
func ParseCategoryCode(s string) (CategoryCode, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "volet code is required")
	}
	c := CategoryCode(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown volet code: "+s)
	}
	return c, nil
}

func (c CategoryCode) IsValid() bool {
	_, ok := sheetPrefixes[c]
	return ok
}

// SheetPrefix returns the report sheet prefix, or "" for unknown codes.
func (c CategoryCode) SheetPrefix() string {
	return sheetPrefixes[c]
}

func (c CategoryCode) String() string {
	return string(c)
}

// KnownCategoryCodes lists every supported code in display order.
func KnownCategoryCodes() []CategoryCode {
	return []CategoryCode{CategoryFI, CategoryFQS, CategoryFGAB}
}
