package report

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const (
	itemIndent         = "        "
	continuationIndent = "            "
)

// WrapCycle wraps a rendered cycle to width columns. The first line is
// indented by eight spaces and continuation lines by twelve. Lines only
// break between words, so a component name is never split.
func WrapCycle(s string, width int) string {
	if width <= len(continuationIndent) {
		width = DefaultWidth
	}
	s = strings.Join(strings.Fields(s), " ")

	first, rest, _ := strings.Cut(wordwrap.WrapString(s, uint(width-len(itemIndent))), "\n")
	lines := []string{itemIndent + first}
	if rest != "" {
		rest = strings.Join(strings.Fields(rest), " ")
		for _, line := range strings.Split(wordwrap.WrapString(rest, uint(width-len(continuationIndent))), "\n") {
			lines = append(lines, continuationIndent+line)
		}
	}
	return strings.Join(lines, "\n")
}
