package report

import (
	"strconv"
	"strings"
	"unicode/utf8"

	id "missionsuivi/pkg/domain"
)

// MaxSheetNameLength is the workbook format limit on sheet names.
const MaxSheetNameLength = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// SheetName builds prefix + upper(first four runes of city) + "_" + branch,
// cut to 31 runes. Two branches equal up to the cut produce the same name;
// the renderer resolves such collisions.
func SheetName(code id.CategoryCode, city, branch string) string {
	name := code.SheetPrefix() + strings.ToUpper(firstRunes(city, 4)) + "_" + branch
	name = sheetNameReplacer.Replace(name)
	return trimQuotes(firstRunes(name, MaxSheetNameLength))
}

// trimQuotes drops the apostrophes a cut can leave at the end ("d'", "l'");
// workbook sheet names may not end with one.
func trimQuotes(name string) string {
	return strings.TrimRight(name, "'")
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// uniqueSheetName appends "~2", "~3"... to a colliding name, trimming the
// base so the result stays within the length limit. Sheet names compare
// case-insensitively.
func uniqueSheetName(name string, taken map[string]struct{}) string {
	key := strings.ToLower(name)
	if _, ok := taken[key]; !ok {
		taken[key] = struct{}{}
		return name
	}
	for n := 2; ; n++ {
		suffix := "~" + strconv.Itoa(n)
		candidate := trimQuotes(firstRunes(name, MaxSheetNameLength-utf8.RuneCountInString(suffix))) + suffix
		key := strings.ToLower(candidate)
		if _, ok := taken[key]; !ok {
			taken[key] = struct{}{}
			return candidate
		}
	}
}
