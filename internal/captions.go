package internal

import (
	"regexp"
	"strings"
)

// inlineTagPattern matches HTML-like inline markup in caption lines,
// e.g. <c> color spans and <00:00:01.920> word timestamps in auto captions.
var inlineTagPattern = regexp.MustCompile(`<[^>]+>`)

// Normalize converts raw WebVTT or SRT caption content into one flat
// plain-text blob. Format banners, cue metadata, timing lines and sequence
// numbers are dropped, inline markup is stripped, and consecutive duplicate
// lines are collapsed (auto-generated captions re-emit overlapping windows).
// Sentence and paragraph structure is deliberately not preserved; the output
// is meant for keyword search, not reading.
func Normalize(raw string) string {
	var kept []string
	last := ""

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if skipCaptionLine(line) {
			continue
		}

		line = strings.TrimSpace(inlineTagPattern.ReplaceAllString(line, ""))
		if line == "" || line == last {
			continue
		}

		kept = append(kept, line)
		last = line
	}

	return strings.Join(kept, " ")
}

// skipCaptionLine reports whether a line is caption structure rather than
// spoken text: blank lines, the WEBVTT banner, header metadata, cue timing
// lines and bare SRT sequence numbers.
func skipCaptionLine(line string) bool {
	switch {
	case line == "":
		return true
	case strings.HasPrefix(line, "WEBVTT"):
		return true
	case strings.HasPrefix(line, "Kind:"):
		return true
	case strings.HasPrefix(line, "Language:"):
		return true
	case strings.Contains(line, "-->"):
		return true
	}
	return isDigits(line)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
