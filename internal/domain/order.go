package domain

import "github.com/google/uuid"

// PlanOrder returns the ids of current in their new display sequence.
// current must already be sorted by Order. Requested ids come first in the
// given order; duplicates and ids not present in current are skipped. The
// remaining links keep their relative order after them.
func PlanOrder(current []Link, requested []uuid.UUID) []uuid.UUID {
	owned := make(map[uuid.UUID]struct{}, len(current))
	for _, l := range current {
		owned[l.ID] = struct{}{}
	}

	out := make([]uuid.UUID, 0, len(current))
	placed := make(map[uuid.UUID]struct{}, len(current))

	for _, id := range requested {
		if _, ok := owned[id]; !ok {
			continue
		}

		if _, dup := placed[id]; dup {
			continue
		}

		placed[id] = struct{}{}
		out = append(out, id)
	}

	for _, l := range current {
		if _, ok := placed[l.ID]; ok {
			continue
		}

		out = append(out, l.ID)
	}

	return out
}
