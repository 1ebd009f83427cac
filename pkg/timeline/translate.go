package timeline

import "strings"

// Markers appended by Translate to lines lacking a translation.
const (
	MissingTextMarker = "#MISSINGTEXT"
	MissingSyncMarker = "#MISSINGSYNC"
)

// lineEdit records where a timed line's name and sync payload sit in the
// source so Translate can swap them without touching other bytes.
type lineEdit struct {
	nameStart, nameEnd int
	name, text         string

	// syncOrig is searched for after the name and replaced by syncText.
	syncOrig, syncText string

	missingText, missingSync bool
}

// Translate reproduces text, the source tl was parsed from, with event
// names and sync patterns replaced by their translated forms. Lines whose
// name or sync had no translation get MissingTextMarker or
// MissingSyncMarker appended. Every other byte is preserved.
//
// Lines that do not match what was parsed are returned unchanged.
func Translate(tl *Timeline, text string) string {
	if tl == nil || len(tl.edits) == 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if edit, ok := tl.edits[i+1]; ok {
			lines[i] = edit.apply(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (e lineEdit) apply(line string) string {
	body, crlf := strings.CutSuffix(line, "\r")
	if e.nameStart > e.nameEnd || e.nameEnd > len(body) || body[e.nameStart:e.nameEnd] != e.name {
		return line
	}

	tail := body[e.nameEnd:]
	if e.syncOrig != "" && e.syncOrig != e.syncText {
		if i := strings.Index(tail, e.syncOrig); i >= 0 {
			tail = tail[:i] + e.syncText + tail[i+len(e.syncOrig):]
		}
	}

	var b strings.Builder
	b.Grow(len(line) + len(e.text) + 32)
	b.WriteString(body[:e.nameStart])
	b.WriteString(e.text)
	b.WriteString(tail)
	if e.missingText {
		b.WriteString(" " + MissingTextMarker)
	}
	if e.missingSync {
		b.WriteString(" " + MissingSyncMarker)
	}
	if crlf {
		b.WriteByte('\r')
	}
	return b.String()
}

// rewriteParams replaces quoted values in a structured sync's params text.
func rewriteParams(src string, replaced [][2]string) string {
	for _, r := range replaced {
		for _, q := range []string{"'", `"`} {
			if strings.Contains(r[1], q) {
				continue
			}
			src = strings.ReplaceAll(src, q+r[0]+q, q+r[1]+q)
		}
	}
	return src
}
