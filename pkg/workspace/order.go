package workspace

import "sort"

// OrderNotesByDate recomputes the column's display order by descending
// creation time, most recent first. Ties break by ascending note id so the
// result is deterministic. Only the order list is touched.
func OrderNotesByDate(col *Column) {
	sort.Slice(col.Order, func(i, j int) bool {
		a, b := col.Notes[col.Order[i]], col.Notes[col.Order[j]]
		if a.CreationS != b.CreationS {
			return a.CreationS > b.CreationS
		}
		return a.ID < b.ID
	})
}

// OrderNotesByScore recomputes the column's display order by descending
// relevance score, treating an absent score as 0. Ties break by ascending
// note id. Only the order list is touched.
func OrderNotesByScore(col *Column) {
	sort.Slice(col.Order, func(i, j int) bool {
		a, b := col.Notes[col.Order[i]], col.Notes[col.Order[j]]
		if a.ScoreOrZero() != b.ScoreOrZero() {
			return a.ScoreOrZero() > b.ScoreOrZero()
		}
		return a.ID < b.ID
	})
}
