package views

// IndexPath addresses one item inside a snapshot.
type IndexPath struct {
	Section int
	Item    int
}

// SectionMove relocates a whole section; indices are old-side for From and
// new-side for To.
type SectionMove struct {
	From int
	To   int
}

// ItemMove relocates one item, possibly across sections.
type ItemMove struct {
	From IndexPath
	To   IndexPath
}

// Changes is the minimal edit script between two snapshots. Removal
// indices address the old snapshot, insertion and update indices the new
// one. Identity is compared by id, never by value: an entity mutated in
// place surfaces as an update, not a remove-insert pair, which is what
// keeps list animations attached to the right cells.
type Changes struct {
	SectionsInserted []int
	SectionsRemoved  []int
	SectionsMoved    []SectionMove

	ItemsInserted []IndexPath
	ItemsRemoved  []IndexPath
	ItemsMoved    []ItemMove
	ItemsUpdated  []IndexPath
}

// Empty reports whether applying the changes would be a no-op.
func (c Changes) Empty() bool {
	return len(c.SectionsInserted) == 0 && len(c.SectionsRemoved) == 0 &&
		len(c.SectionsMoved) == 0 && len(c.ItemsInserted) == 0 &&
		len(c.ItemsRemoved) == 0 && len(c.ItemsMoved) == 0 &&
		len(c.ItemsUpdated) == 0
}

// Diff computes the keyed edit script turning old into new. Surviving
// entities off the longest common subsequence of their ordering are
// reported as moves; surviving items whose display fingerprint changed at
// a stable position are reported as updates. Either snapshot may be empty.
func Diff(old, new Snapshot) Changes {
	var changes Changes

	oldSections := make(map[string]int, len(old))
	for i, section := range old {
		oldSections[section.ID] = i
	}
	newSections := make(map[string]int, len(new))
	for i, section := range new {
		newSections[section.ID] = i
	}

	var oldCommon, newCommon []string
	for _, section := range old {
		if _, ok := newSections[section.ID]; ok {
			oldCommon = append(oldCommon, section.ID)
		} else {
			changes.SectionsRemoved = append(changes.SectionsRemoved, oldSections[section.ID])
		}
	}
	for _, section := range new {
		if _, ok := oldSections[section.ID]; ok {
			newCommon = append(newCommon, section.ID)
		} else {
			changes.SectionsInserted = append(changes.SectionsInserted, newSections[section.ID])
		}
	}

	stableSections := lcs(oldCommon, newCommon)
	for _, id := range oldCommon {
		if !stableSections[id] {
			changes.SectionsMoved = append(changes.SectionsMoved, SectionMove{
				From: oldSections[id],
				To:   newSections[id],
			})
		}
	}

	oldItems := itemPaths(old)
	newItems := itemPaths(new)

	for _, section := range old {
		for _, item := range section.Items {
			if _, ok := newItems[item.ID]; !ok {
				changes.ItemsRemoved = append(changes.ItemsRemoved, oldItems[item.ID])
			}
		}
	}
	for _, section := range new {
		for _, item := range section.Items {
			if _, ok := oldItems[item.ID]; !ok {
				changes.ItemsInserted = append(changes.ItemsInserted, newItems[item.ID])
			}
		}
	}

	// Cross-section survivors always move; same-section survivors move
	// only when they fall off that section's common subsequence.
	for _, id := range newCommon {
		oldSection := old[oldSections[id]]
		newSection := new[newSections[id]]

		var oldOrder, newOrder []string
		for _, item := range oldSection.Items {
			if path, ok := newItems[item.ID]; ok && new[path.Section].ID == id {
				oldOrder = append(oldOrder, item.ID)
			}
		}
		for _, item := range newSection.Items {
			if path, ok := oldItems[item.ID]; ok && old[path.Section].ID == id {
				newOrder = append(newOrder, item.ID)
			}
		}

		stable := lcs(oldOrder, newOrder)
		for _, itemID := range newOrder {
			from := oldItems[itemID]
			to := newItems[itemID]
			if !stable[itemID] {
				changes.ItemsMoved = append(changes.ItemsMoved, ItemMove{From: from, To: to})
				continue
			}
			if old[from.Section].Items[from.Item].Fingerprint != new[to.Section].Items[to.Item].Fingerprint {
				changes.ItemsUpdated = append(changes.ItemsUpdated, to)
			}
		}
	}

	for _, section := range new {
		for _, item := range section.Items {
			from, survived := oldItems[item.ID]
			if !survived {
				continue
			}
			if old[from.Section].ID != section.ID {
				changes.ItemsMoved = append(changes.ItemsMoved, ItemMove{
					From: from,
					To:   newItems[item.ID],
				})
			}
		}
	}

	return changes
}

func itemPaths(snapshot Snapshot) map[string]IndexPath {
	paths := make(map[string]IndexPath)
	for s, section := range snapshot {
		for i, item := range section.Items {
			paths[item.ID] = IndexPath{Section: s, Item: i}
		}
	}
	return paths
}

// lcs returns the members of the longest common subsequence of a and b.
// Elements are assumed unique within each slice.
func lcs(a, b []string) map[string]bool {
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}

	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else if table[i+1][j] >= table[i][j+1] {
				table[i][j] = table[i+1][j]
			} else {
				table[i][j] = table[i][j+1]
			}
		}
	}

	kept := make(map[string]bool)
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] == b[j]:
			kept[a[i]] = true
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			i++
		default:
			j++
		}
	}
	return kept
}
