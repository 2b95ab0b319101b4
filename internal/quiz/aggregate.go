package quiz

import "sort"

// aggregate collects validated records into the final ordered set:
// duplicate ids (possible only after a false-positive marker match)
// are dropped keeping the first occurrence, the rest sorted by id
// ascending. The gap report is every expected id with no record.
func aggregate(records []Question, maxQuestions int) ([]Question, []int, []Warning) {
	seen := make(map[int]bool, len(records))
	questions := make([]Question, 0, len(records))
	var warnings []Warning

	for _, r := range records {
		if seen[r.ID] {
			warnings = append(warnings, Warning{ID: r.ID, Kind: WarnDuplicateID})
			continue
		}
		seen[r.ID] = true
		questions = append(questions, r)
	}

	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })

	var missing []int
	for id := 1; id <= maxQuestions; id++ {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return questions, missing, warnings
}
