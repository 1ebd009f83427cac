// Package bundle loads parser resources from a single file: locale
// replacement tables, trigger definitions, per-trigger overrides and event
// styles.
//
// A bundle may be written in YAML, JSON or TOML. Every document is checked
// against an embedded JSON schema before it is decoded.
package bundle

import (
	"github.com/raidtimeline/timeline-go/pkg/timeline/locale"
)

// Bundle is the decoded content of a bundle file.
//
// Example YAML file:
//
//	version: 1
//	locales:
//	  de:
//	    locale: de
//	    replace_sync:
//	      Boss: Chef
//	    replace_text:
//	      Cleave: Spalter
//	triggers:
//	  - id: cleave
//	    regex: '^Cleave$'
//	    before_seconds: 4
//	trigger_options:
//	  cleave:
//	    before_seconds: 6
//	styles:
//	  - regex: 'Raidwide'
//	    style:
//	      color: red
type Bundle struct {
	// Version is the bundle format version. Only version 1 is supported.
	Version int `json:"version" yaml:"version" toml:"version"`

	// Locales holds replacement tables keyed by language code.
	Locales locale.Table `json:"locales,omitempty" yaml:"locales,omitempty" toml:"locales,omitempty"`

	// Triggers are matched against event names.
	Triggers []TriggerDef `json:"triggers,omitempty" yaml:"triggers,omitempty" toml:"triggers,omitempty"`

	// TriggerOptions override trigger settings, keyed by trigger ID.
	TriggerOptions map[string]TriggerOptionDef `json:"trigger_options,omitempty" yaml:"trigger_options,omitempty" toml:"trigger_options,omitempty"`

	// Styles assign display attributes to matching events.
	Styles []StyleDef `json:"styles,omitempty" yaml:"styles,omitempty" toml:"styles,omitempty"`
}

// TriggerDef is the file form of a timeline.Trigger.
type TriggerDef struct {
	ID            string  `json:"id" yaml:"id" toml:"id"`
	Regex         string  `json:"regex" yaml:"regex" toml:"regex"`
	BeforeSeconds float64 `json:"before_seconds,omitempty" yaml:"before_seconds,omitempty" toml:"before_seconds,omitempty"`
}

// TriggerOptionDef is the file form of a timeline.TriggerOption.
type TriggerOptionDef struct {
	BeforeSeconds *float64 `json:"before_seconds,omitempty" yaml:"before_seconds,omitempty" toml:"before_seconds,omitempty"`
}

// StyleDef is the file form of a timeline.Style.
type StyleDef struct {
	Regex string            `json:"regex" yaml:"regex" toml:"regex"`
	Style map[string]string `json:"style" yaml:"style" toml:"style"`
}
