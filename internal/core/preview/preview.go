// Package preview derives the short-form excerpt shown for a topic before the
// reader opens the full body
package preview

import "strings"

// Preview is the lines to show plus how they relate to the full content.
// Continuable means there is more to read behind the excerpt; Trimmed means
// the lines were cut from the content itself (show a "keep reading" tail).
type Preview struct {
	Lines       []string `json:"lines"`
	Continuable bool     `json:"continuable"`
	Trimmed     bool     `json:"trimmed"`
}

// Smart picks the excerpt for a topic. An explicit preface wins outright;
// otherwise the content is used, cut to maxLines when it runs longer.
func Smart(content, preface string, maxLines int) Preview {
	if strings.TrimSpace(preface) != "" {
		return Preview{Lines: strings.Split(preface, "\n"), Continuable: true}
	}
	full := strings.Split(content, "\n")
	if len(full) <= maxLines {
		return Preview{Lines: full}
	}
	return Preview{Lines: full[:maxLines], Continuable: true, Trimmed: true}
}
