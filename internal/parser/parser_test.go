package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Line
	}{
		// Ignore directives
		{
			name:  "hideall",
			input: `hideall "--sync--"`,
			want:  Line{Kind: Ignore, ID: "--sync--"},
		},
		{
			name:  "hideall with comment",
			input: `hideall "Attack" # auto attacks`,
			want:  Line{Kind: Ignore, ID: "Attack"},
		},

		// TTS directives
		{
			name:  "tts speak",
			input: `alertall "Cleave" before 3 speak "voice" "Tank buster"`,
			want:  Line{Kind: TTS, ID: "Cleave", Before: 3, Speak: true, TextType: "tts", Text: "Tank buster", HasText: true},
		},
		{
			name:  "tts sound",
			input: `alertall "Cleave" before 1.5 sound "alarm.ogg"`,
			want:  Line{Kind: TTS, ID: "Cleave", Before: 1.5},
		},

		// Stubs
		{
			name:  "sound alert",
			input: `define soundalert "alarm" "alarm.ogg"`,
			want:  Line{Kind: SoundAlert},
		},
		{
			name:  "speaker with voice",
			input: `define speaker "voice" "Microsoft Zira" 100 1`,
			want:  Line{Kind: Speaker},
		},
		{
			name:  "speaker without voice",
			input: `define speaker "voice" 100 -2`,
			want:  Line{Kind: Speaker},
		},

		// Popup texts
		{
			name:  "alerttext with text",
			input: `alerttext "Cleave" before 5 "Move!"`,
			want:  Line{Kind: Popup, TextType: "alert", ID: "Cleave", Before: 5, Text: "Move!", HasText: true},
		},
		{
			name:  "infotext without text",
			input: `infotext "Cleave" before 2.5`,
			want:  Line{Kind: Popup, TextType: "info", ID: "Cleave", Before: 2.5},
		},
		{
			name:  "negative before",
			input: `alarmtext "Enrage" before -1`,
			want:  Line{Kind: Popup, TextType: "alarm", ID: "Enrage", Before: -1},
		},
		{
			name:  "unsupported popup type",
			input: `bannertext "Cleave" before 1`,
			want:  Line{Kind: Popup, TextType: "banner", ID: "Cleave", Before: 1},
		},

		// Labels
		{
			name:  "label",
			input: `120 label "phase2"`,
			want:  Line{Kind: Label, Time: 120, Label: "phase2"},
		},
		{
			name:  "label with comment",
			input: `20.5 label "X" # loop`,
			want:  Line{Kind: Label, Time: 20.5, Label: "X"},
		},

		// Timed lines
		{
			name:  "timed without commands",
			input: `10 "Cast A"`,
			want:  Line{Kind: Timed, Time: 10, Name: "Cast A", NameStart: 4, NameEnd: 10, RestStart: 11},
		},
		{
			name:  "timed with commands",
			input: `10.5 "Cleave" sync /Boss/`,
			want:  Line{Kind: Timed, Time: 10.5, Name: "Cleave", NameStart: 6, NameEnd: 12, Rest: "sync /Boss/", RestStart: 14},
		},
		{
			name:  "timed with hash in name",
			input: `3 "Attack #2" # second`,
			want:  Line{Kind: Timed, Time: 3, Name: "Attack #2", NameStart: 3, NameEnd: 12, Rest: "# second", RestStart: 14},
		},
		{
			name:  "timed with comment after name",
			input: `80 "Cast F"# tight comment`,
			want:  Line{Kind: Timed, Time: 80, Name: "Cast F", NameStart: 4, NameEnd: 10, Rest: "# tight comment", RestStart: 11},
		},
		{
			name:  "timed empty name",
			input: `0 ""`,
			want:  Line{Kind: Timed, Time: 0, Name: "", NameStart: 3, NameEnd: 3, RestStart: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.want.Kind == Timed {
				assert.Equal(t, tt.want.Name, tt.input[got.NameStart:got.NameEnd])
			}
		})
	}
}

func TestClassify_InvalidFormat(t *testing.T) {
	inputs := []string{
		`hello world`,
		`-5 "Negative"`,
		`10 Cast A`,
		`10 "Cast A"sync /x/`,
		`hideall`,
		`alerttext "Cleave"`,
		`label "X"`,
		`define speaker "voice"`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Classify(input)
			assert.True(t, errors.Is(err, ErrInvalidFormat))
		})
	}
}

func TestLine_Emits(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`hideall "x"`, true},
		{`alertall "x" before 1 speak "v" "t"`, true},
		{`alertall "x" before 1 sound "s.ogg"`, false},
		{`define soundalert "a" "b"`, false},
		{`define speaker "a" 1 1`, false},
		{`infotext "x" before 1`, true},
		{`alerttext "x" before 1`, true},
		{`alarmtext "x" before 1`, true},
		{`bannertext "x" before 1`, false},
		{`1 label "x"`, true},
		{`1 "x"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l, err := Classify(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Emits())
		})
	}
}

func TestIsComment(t *testing.T) {
	assert.True(t, IsComment(""))
	assert.True(t, IsComment("# comment"))
	assert.True(t, IsComment("#"))
	assert.False(t, IsComment(`10 "A" # comment`))
}

func TestSubmatch_MissingGroupIsFault(t *testing.T) {
	m := find(labelPattern, `1 label "x"`)
	require.NotNil(t, m)
	assert.Panics(t, func() { m.group("nope") })
}

func FuzzClassify(f *testing.F) {
	// Seed corpus
	f.Add(`10 "Cast A" sync /Foo/ window 5,7 jump 15`)
	f.Add(`20 label "X"`)
	f.Add(`hideall "--sync--"`)
	f.Add(`alertall "Cleave" before 3 speak "voice" "Tank buster"`)
	f.Add(`alerttext "Cleave" before 5 "Move!"`)
	f.Add(`30 "B" StartsUsing { id: '4DB8' } forcejump "X"`)
	f.Add("")

	f.Fuzz(func(t *testing.T, line string) {
		// Should not panic
		l, err := Classify(line)
		if err != nil || l.Kind != Timed {
			return
		}
		_, _ = ParseCommands(l.Rest)
	})
}
