package theme

import "strings"

// KeyBinding is one entry of a help bar.
type KeyBinding struct {
	Key  string
	Desc string
}

// HelpBar renders key bindings on one line.
func HelpBar(bindings ...KeyBinding) string {
	s := Default()
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, s.HelpKey.Render(kb.Key)+s.Muted.Render(":"+kb.Desc))
	}
	return strings.Join(parts, " ")
}
