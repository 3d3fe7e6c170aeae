package importer

import (
	"regexp"
	"strconv"
	"strings"

	"missionsuivi/internal/evaluation/models"
)

// headerScanRows is how many leading rows are searched for column headers.
const headerScanRows = 5

var (
	singleNote       = regexp.MustCompile(`^[1-5]$`)
	leadingNumero    = regexp.MustCompile(`^(\d+)\s*[–\-.]`)
	leadingNumbering = regexp.MustCompile(`^\d+\s*[–\-.]\s*`)
	digitsOnly       = regexp.MustCompile(`^\d+$`)
)

func containsAny(cell string, needles ...string) bool {
	lower := strings.ToLower(cell)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

func indexOf(row []string, match func(string) bool) int {
	for i, cell := range row {
		if cell != "" && match(cell) {
			return i
		}
	}
	return -1
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// ParseScale reads note and label columns from a BAREME sheet. Headers are
// searched in the first rows; without them the first cell holding 1..5 is
// the note column and the next one the label. Invalid notes are skipped.
func ParseScale(rows [][]string) []models.ScaleItem {
	noteCol, labelCol, start := -1, -1, 0
	for r := 0; r < len(rows) && r < headerScanRows; r++ {
		n := indexOf(rows[r], func(c string) bool {
			return containsAny(c, "note", "n°") || singleNote.MatchString(c)
		})
		l := indexOf(rows[r], func(c string) bool {
			return containsAny(c, "libellé", "libelle", "appréciation", "appreciation")
		})
		if n >= 0 && l >= 0 {
			noteCol, labelCol, start = n, l, r+1
			break
		}
	}
	if noteCol < 0 {
		noteCol, labelCol = 0, 1
		if len(rows) > 0 {
			if n := indexOf(rows[0], singleNote.MatchString); n >= 0 {
				noteCol, labelCol = n, n+1
			}
		}
	}

	byNote := make(map[int]models.ScaleItem)
	var order []int
	for _, row := range rows[min(start, len(rows)):] {
		label := cellAt(row, labelCol)
		note, err := strconv.Atoi(cellAt(row, noteCol))
		if err != nil || label == "" || note < 1 || note > 5 {
			continue
		}
		if _, seen := byNote[note]; !seen {
			order = append(order, note)
		}
		byNote[note] = models.ScaleItem{Note: note, Label: label, Description: label}
	}
	items := make([]models.ScaleItem, 0, len(order))
	for _, n := range order {
		items = append(items, byNote[n])
	}
	return items
}

// ParseRubrics reads one category sheet. It returns ok=false when the
// component, criteria and verification headers are not all found.
func ParseRubrics(rows [][]string) (rubrics []models.Rubric, skipped []string, ok bool) {
	compCol, critCol, modeCol, start := -1, -1, -1, 0
	for r := 0; r < len(rows) && r < headerScanRows; r++ {
		c := indexOf(rows[r], func(s string) bool { return containsAny(s, "composante") })
		k := indexOf(rows[r], func(s string) bool { return containsAny(s, "critère", "critere", "indicateur") })
		m := indexOf(rows[r], func(s string) bool { return containsAny(s, "mode", "vérification", "verification") })
		if c >= 0 && k >= 0 && m >= 0 {
			compCol, critCol, modeCol, start = c, k, m, r+1
			break
		}
	}
	if compCol < 0 {
		return nil, nil, false
	}

	next := 1
	for _, row := range rows[start:] {
		component := cellAt(row, compCol)
		if component == "" {
			continue
		}
		numero := next
		if m := leadingNumero.FindStringSubmatch(component); m != nil {
			numero, _ = strconv.Atoi(m[1])
		} else if first := cellAt(row, 0); digitsOnly.MatchString(first) {
			numero, _ = strconv.Atoi(first)
		}
		if numero < 1 || numero > 12 {
			skipped = append(skipped, component)
			continue
		}
		next = numero + 1

		label := leadingNumbering.ReplaceAllString(component, "")
		rubrics = append(rubrics, models.Rubric{
			Numero:           numero,
			Label:            label,
			Component:        component,
			Criteria:         cellAt(row, critCol),
			VerificationMode: cellAt(row, modeCol),
		})
	}
	return rubrics, skipped, true
}
