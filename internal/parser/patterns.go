package parser

import "regexp"

// Number formats used by the timeline grammar.
const (
	number       = `[0-9]+(?:\.[0-9]+)?`
	signedNumber = `-?[0-9]+(?:\.[0-9]+)?`

	// trailingComment allows a comment at the end of a directive.
	trailingComment = `(?:\s*#.*)?$`

	// commandPrefix skips any text before a command, but never past a
	// comment marker.
	commandPrefix = `^(?:[^#]*?\s)?`
)

// Compiled regex patterns for directive classification, in precedence order.
var (
	// Matches: # anything
	commentPattern = regexp.MustCompile(`^\s*#`)

	// Matches: hideall "--sync--"
	// Captures: id
	ignorePattern = regexp.MustCompile(
		`^hideall\s+"(?P<id>[^"]+)"` + trailingComment,
	)

	// Matches: alertall "Cleave" before 3 speak "voice" "Tank buster"
	// Matches: alertall "Cleave" before 3 sound "alarm.ogg"
	// Captures: id, before, command, text
	ttsPattern = regexp.MustCompile(
		`^alertall\s+"(?P<id>[^"]*)"\s+before\s+(?P<before>` + signedNumber + `)\s+` +
			`(?P<command>sound|speak\s+"[^"]*")\s+"(?P<text>[^"]*)"` + trailingComment,
	)

	// Matches: define soundalert "name" "file.ogg"
	soundAlertPattern = regexp.MustCompile(
		`^define\s+soundalert\s+"[^"]*"\s+"[^"]*"` + trailingComment,
	)

	// Matches: define speaker "name" "voice" 100 1
	// Captures: voice (optional), volume, speed
	speakerPattern = regexp.MustCompile(
		`^define\s+speaker\s+"[^"]*"(?:\s+"(?P<voice>[^"]*)")?\s+(?P<volume>` + signedNumber + `)\s+(?P<speed>` + signedNumber + `)` + trailingComment,
	)

	// Matches: alerttext "Cleave" before 5 "Move!"
	// Captures: type, id, before, text (optional)
	popupPattern = regexp.MustCompile(
		`^(?P<type>[a-z]+)text\s+"(?P<id>[^"]+)"\s+before\s+(?P<before>` + signedNumber + `)(?:\s+"(?P<text>[^"]*)")?` + trailingComment,
	)

	// Matches: 120 label "phase2"
	// Captures: time, label
	labelPattern = regexp.MustCompile(
		`^(?P<time>` + number + `)\s+label\s+"(?P<label>[^"]+)"` + trailingComment,
	)

	// Matches: 10.5 "Cleave" sync /.../ window 5,5
	// Matches: 80 "Cleave"# comment
	// Captures: time, name, rest | comment (optional)
	timedPattern = regexp.MustCompile(
		`^(?P<time>` + number + `)\s+"(?P<name>[^"]*)"(?:\s+(?P<rest>.*)|(?P<comment>#.*))?$`,
	)
)

// Compiled regex patterns for the commands trailing a timed line.
var (
	// Matches: duration 5.5
	// Captures: text, seconds
	durationPattern = regexp.MustCompile(
		commandPrefix + `(?P<text>duration\s+(?P<seconds>` + number + `))(?:\s.*)?$`,
	)

	// Matches: sync /Boss starts using/
	// Captures: text, regex, args (optional)
	syncPattern = regexp.MustCompile(
		commandPrefix + `(?P<text>sync\s*/(?P<regex>.*)/)(?P<args>\s.*)?$`,
	)

	// Matches: StartsUsing { id: '4DB8' }
	// Captures: text, type, params, args (optional)
	netRegexPattern = regexp.MustCompile(
		commandPrefix + `(?P<text>(?P<type>[A-Z][A-Za-z]+)\s*(?P<params>\{.*\}))(?P<args>\s.*)?$`,
	)

	// Matches: window 10 / window 5,10
	// Captures: text, start (optional), end
	windowPattern = regexp.MustCompile(
		commandPrefix + `(?P<text>window\s+(?:(?P<start>` + number + `),)?(?P<end>` + number + `))(?:\s.*)?$`,
	)

	// Matches: jump 100 / forcejump "phase2"
	// Captures: text, command, label | seconds
	jumpPattern = regexp.MustCompile(
		commandPrefix + `(?P<text>(?P<command>jump|forcejump)\s+(?:"(?P<label>[^"]+)"|(?P<seconds>` + signedNumber + `)))(?:\s.*)?$`,
	)
)

// popupTypes are the popup text types that produce output. Other types are
// recognized and dropped.
var popupTypes = map[string]bool{
	"info":  true,
	"alert": true,
	"alarm": true,
}
