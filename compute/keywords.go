package compute

// SetKeywordsByArray enables keywords[selected] and disables every other
// entry. A selected index outside the array disables the whole family.
func SetKeywordsByArray(p Program, keywords []string, selected int) {
	for i, kw := range keywords {
		if i == selected {
			if !p.IsKeywordEnabled(kw) {
				p.EnableKeyword(kw)
			}
			continue
		}
		p.DisableKeyword(kw)
	}
}

// SetKeyword enables or disables a standalone keyword.
func SetKeyword(p Program, keyword string, enabled bool) {
	if enabled {
		p.EnableKeyword(keyword)
	} else {
		p.DisableKeyword(keyword)
	}
}
