package convert

// BuildChapterTree nests subsections under their parent chapter, keeping order.
// Entries whose parent is unknown stay at the top level.
func BuildChapterTree(flat []Section) []Section {
	children := make(map[int][]Section)
	known := make(map[int]bool, len(flat))
	for _, s := range flat {
		known[s.ID] = true
	}
	var roots []int
	byID := make(map[int]Section, len(flat))
	for _, s := range flat {
		byID[s.ID] = s
		if s.Parent == 0 || !known[s.Parent] || s.Parent == s.ID {
			roots = append(roots, s.ID)
			continue
		}
		children[s.Parent] = append(children[s.Parent], s)
	}

	var attach func(s Section, seen map[int]bool) Section
	attach = func(s Section, seen map[int]bool) Section {
		if seen[s.ID] {
			return s
		}
		seen[s.ID] = true
		s.Children = nil
		for _, c := range children[s.ID] {
			s.Children = append(s.Children, attach(c, seen))
		}
		return s
	}

	seen := make(map[int]bool, len(flat))
	out := make([]Section, 0, len(roots))
	for _, id := range roots {
		out = append(out, attach(byID[id], seen))
	}
	return out
}
