package nav

// ForPage returns a copy of the sidebar with the item for slug marked
// current and every group on its path expanded. The shared tree is never
// modified, so one Sidebar can serve concurrent page renders.
func (s *Sidebar) ForPage(slug string) []*Item {
	out, _ := markCurrent(s.Items, slug)
	return out
}

func markCurrent(items []*Item, slug string) ([]*Item, bool) {
	if items == nil {
		return nil, false
	}
	out := make([]*Item, len(items))
	found := false
	for i, it := range items {
		cp := *it
		if it.IsGroup() {
			children, inside := markCurrent(it.Items, slug)
			cp.Items = children
			if inside {
				cp.Collapsed = false
				found = true
			}
		} else if it.Page && it.Slug == slug && !found {
			cp.Current = true
			found = true
		}
		out[i] = &cp
	}
	return out, found
}

// Pages returns the page items in sidebar order.
func (s *Sidebar) Pages() []*Item {
	return append([]*Item(nil), s.pages...)
}

// PrevNext returns the pages before and after slug in sidebar order. Either
// is nil at the ends of the list or when slug is not in the sidebar.
func (s *Sidebar) PrevNext(slug string) (prev, next *Item) {
	for i, p := range s.pages {
		if p.Slug != slug {
			continue
		}
		if i > 0 {
			prev = s.pages[i-1]
		}
		if i+1 < len(s.pages) {
			next = s.pages[i+1]
		}
		return prev, next
	}
	return nil, nil
}
