// Package timeline compiles raid timeline files into a read-only model for
// a playback scheduler.
//
// A timeline is a line-oriented text file. Each line is one construct:
//
//	# comment
//	hideall "--sync--"
//	infotext "Cleave" before 3 "Tank buster"
//	alertall "Cleave" before 2 speak "voice" "Buster"
//	0 "Start"
//	10.5 "Cleave" sync /Boss starts using Cleave/ window 10,5
//	20 label "loop"
//	30 "Raidwide" StartsUsing { id: '4DB8', source: 'Boss' } jump "loop"
//	40 "--sync--" sync /Boss:4DB9/ forcejump 10 # restart
//
// # Basic Usage
//
//	tl, err := timeline.Parse(src)
//	if err != nil {
//	    log.Fatal(err) // option error or *timeline.InternalError
//	}
//	for _, e := range tl.Errors {
//	    fmt.Printf("line %d: %s\n", e.LineNumber, e.Message)
//	}
//	for _, ev := range tl.Events {
//	    fmt.Printf("%6.1f %s\n", ev.Time, ev.Text)
//	}
//
// # Output
//
// Timeline exposes the parsed events sorted by time, the callout texts
// sorted by time, every Sync twice (SyncStarts sorted by window start and
// SyncEnds sorted by window end, so a scheduler can binary search the open
// windows) and the forced jumps sorted by time.
//
// # Errors
//
// Problems with the content never fail a parse. Each one is an [Error] in
// Timeline.Errors carrying the line number and a message; the offending line
// is skipped. [Error] unwraps to a sentinel such as [ErrExtraText] or
// [ErrUnknownLabel]. Parse only returns an error for bad options or an
// [*InternalError], which reports a bug in the parser itself.
//
// # Localization
//
// [WithLanguage] and [WithReplacements] translate event names and sync
// patterns. [Translate] rewrites the source for the selected language and
// flags lines lacking a translation.
//
// # Thread Safety
//
// A [Parser] is immutable and may be shared between goroutines. The returned
// Timeline must not be modified.
package timeline
