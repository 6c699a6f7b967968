package main

import "strings"

// splitPhrases turns a comma-separated -phrases flag value into the slice
// webworld.Config.TargetPhrases expects, trimming whitespace and dropping
// empty entries.
func splitPhrases(s string) []string {
	var out []string
	for _, phrase := range strings.Split(s, ",") {
		phrase = strings.TrimSpace(phrase)
		if phrase != "" {
			out = append(out, phrase)
		}
	}
	return out
}
