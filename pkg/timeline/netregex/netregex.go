// Package netregex describes the structured network log lines a timeline sync
// can match, and turns typed key/value parameters into regular expressions.
//
// A structured sync is written in a timeline as a log line type name followed
// by a parameter object:
//
//	StartsUsing { id: '4DB8', source: 'Boss' }
//
// Each type carries a positional field schema. Parameters name fields of that
// schema; every unspecified field matches any value.
package netregex

import (
	"sort"
)

// Type identifies a supported structured log line kind.
type Type int

const (
	GameLog Type = iota + 1
	ChangeZone
	ChangedPlayer
	AddedCombatant
	RemovedCombatant
	StartsUsing
	Ability
	NetworkAOEAbility
	NetworkCancelAbility
	WasDefeated
	GainsEffect
	HeadMarker
	LosesEffect
	ActorControl
	Tether
	MapEffect
	InCombat
	CombatantMemory
	StartsUsingExtra
	AbilityExtra
)

// allTypes is the canonical list of registered types.
var allTypes = []Type{
	GameLog, ChangeZone, ChangedPlayer, AddedCombatant, RemovedCombatant,
	StartsUsing, Ability, NetworkAOEAbility, NetworkCancelAbility, WasDefeated,
	GainsEffect, HeadMarker, LosesEffect, ActorControl, Tether, MapEffect,
	InCombat, CombatantMemory, StartsUsingExtra, AbilityExtra,
}

// Repeating describes a variable-length run of fields at the end of a line,
// made of fixed-width entries such as key/value pairs.
type Repeating struct {
	// Label is the parameter key holding the list of entries.
	Label string
	// StartIndex is the field position of the first entry.
	StartIndex int
	// Names are the per-entry field names, in line order.
	Names []string
	// PrimaryKey is the entry field every parameter entry must set.
	PrimaryKey string
	// PossibleKeys restricts the values PrimaryKey may take.
	PossibleKeys []string
}

// Schema is the field layout of one log line type.
type Schema struct {
	Type Type
	// Name is the identifier used in timeline files.
	Name string
	// ID is the numeric line type as it appears in field 0.
	ID string
	// Fields are field names by position. Empty names are placeholders
	// that cannot be set from parameters.
	Fields    []string
	Repeating *Repeating

	build func(Schema, Params, bool) string
}

// String returns the timeline name of the type.
func (t Type) String() string {
	if s, ok := Lookup(t); ok {
		return s.Name
	}
	return "Unknown"
}

// HasField reports whether name is a settable field of the schema.
func (s Schema) HasField(name string) bool {
	return s.fieldIndex(name) >= 0
}

func (s Schema) fieldIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, f := range s.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// Common leading fields of every line.
var header = []string{"type", "timestamp"}

func fields(names ...string) []string {
	return append(append([]string{}, header...), names...)
}

// placeholders returns n unnamed positions.
func placeholders(n int) []string {
	return make([]string, n)
}

var combatantFields = fields(
	"id", "name", "job", "level", "ownerId", "worldId", "world", "npcNameId",
	"npcBaseId", "currentHp", "hp", "currentMp", "mp", "", "", "x", "y", "z", "heading",
)

var abilityFields = func() []string {
	f := fields("sourceId", "source", "id", "ability", "targetId", "target", "flags", "damage")
	f = append(f, placeholders(14)...)
	f = append(f,
		"targetCurrentHp", "targetMaxHp", "targetCurrentMp", "targetMaxMp", "", "",
		"targetX", "targetY", "targetZ", "targetHeading",
		"currentHp", "maxHp", "currentMp", "maxMp", "", "",
		"x", "y", "z", "heading", "sequence", "targetIndex", "targetCount",
	)
	return f
}()

// memoryKeys are the attributes a CombatantMemory line may report.
var memoryKeys = []string{
	"AggressionStatus", "BNpcID", "BNpcNameID", "CastBuffID", "CastDurationCurrent",
	"CastDurationMax", "CastGroundTargetX", "CastGroundTargetY", "CastGroundTargetZ",
	"CastTargetID", "CurrentCP", "CurrentGP", "CurrentHP", "CurrentMP", "CurrentWorldID",
	"Distance", "EffectiveDistance", "Heading", "ID", "IsCasting1", "IsCasting2",
	"IsTargetable", "Job", "Level", "MaxCP", "MaxGP", "MaxHP", "MaxMP", "ModelStatus",
	"MonsterType", "NPCTargetID", "Name", "OwnerID", "PCTargetID", "PartyType", "PosX",
	"PosY", "PosZ", "Radius", "Status", "TargetID", "TransformationId", "Type",
	"WeaponId", "WorldID", "WorldName",
}

// Lookup returns the schema registered for t.
func Lookup(t Type) (Schema, bool) {
	switch t {
	case GameLog:
		return Schema{Type: t, Name: "GameLog", ID: "00", Fields: fields("code", "name", "line"), build: buildFields}, true
	case ChangeZone:
		return Schema{Type: t, Name: "ChangeZone", ID: "01", Fields: fields("id", "name"), build: buildFields}, true
	case ChangedPlayer:
		return Schema{Type: t, Name: "ChangedPlayer", ID: "02", Fields: fields("id", "name"), build: buildFields}, true
	case AddedCombatant:
		return Schema{Type: t, Name: "AddedCombatant", ID: "03", Fields: combatantFields, build: buildFields}, true
	case RemovedCombatant:
		return Schema{Type: t, Name: "RemovedCombatant", ID: "04", Fields: combatantFields, build: buildFields}, true
	case StartsUsing:
		return Schema{Type: t, Name: "StartsUsing", ID: "20", Fields: fields(
			"sourceId", "source", "id", "ability", "targetId", "target", "castTime", "x", "y", "z", "heading",
		), build: buildFields}, true
	case Ability:
		return Schema{Type: t, Name: "Ability", ID: "21", Fields: abilityFields, build: buildFields}, true
	case NetworkAOEAbility:
		return Schema{Type: t, Name: "NetworkAOEAbility", ID: "22", Fields: abilityFields, build: buildFields}, true
	case NetworkCancelAbility:
		return Schema{Type: t, Name: "NetworkCancelAbility", ID: "23", Fields: fields(
			"sourceId", "source", "id", "name", "reason",
		), build: buildFields}, true
	case WasDefeated:
		return Schema{Type: t, Name: "WasDefeated", ID: "25", Fields: fields(
			"targetId", "target", "sourceId", "source",
		), build: buildFields}, true
	case GainsEffect:
		return Schema{Type: t, Name: "GainsEffect", ID: "26", Fields: fields(
			"effectId", "effect", "duration", "sourceId", "source", "targetId", "target",
			"count", "targetMaxHp", "sourceMaxHp",
		), build: buildFields}, true
	case HeadMarker:
		return Schema{Type: t, Name: "HeadMarker", ID: "27", Fields: fields(
			"targetId", "target", "", "", "id",
		), build: buildFields}, true
	case LosesEffect:
		return Schema{Type: t, Name: "LosesEffect", ID: "30", Fields: fields(
			"effectId", "effect", "", "sourceId", "source", "targetId", "target", "count",
		), build: buildFields}, true
	case ActorControl:
		return Schema{Type: t, Name: "ActorControl", ID: "33", Fields: fields(
			"instance", "command", "data0", "data1", "data2", "data3",
		), build: buildFields}, true
	case Tether:
		return Schema{Type: t, Name: "Tether", ID: "35", Fields: fields(
			"sourceId", "source", "targetId", "target", "", "", "id",
		), build: buildFields}, true
	case MapEffect:
		return Schema{Type: t, Name: "MapEffect", ID: "257", Fields: fields(
			"instance", "flags", "location", "data0", "data1",
		), build: buildFields}, true
	case InCombat:
		return Schema{Type: t, Name: "InCombat", ID: "260", Fields: fields(
			"inACTCombat", "inGameCombat", "isACTChanged", "isGameChanged",
		), build: buildFields}, true
	case CombatantMemory:
		return Schema{Type: t, Name: "CombatantMemory", ID: "261", Fields: fields("change", "id"),
			Repeating: &Repeating{
				Label:        "pair",
				StartIndex:   4,
				Names:        []string{"key", "value"},
				PrimaryKey:   "key",
				PossibleKeys: memoryKeys,
			},
			build: buildRepeating,
		}, true
	case StartsUsingExtra:
		return Schema{Type: t, Name: "StartsUsingExtra", ID: "263", Fields: fields(
			"sourceId", "id", "x", "y", "z", "heading",
		), build: buildFields}, true
	case AbilityExtra:
		return Schema{Type: t, Name: "AbilityExtra", ID: "264", Fields: fields(
			"sourceId", "id", "globalEffectCounter", "dataFlag", "x", "y", "z", "heading", "animationTargetId",
		), build: buildFields}, true
	}
	return Schema{}, false
}

// typeByName maps timeline names to types. Built once from allTypes.
var typeByName = func() map[string]Type {
	m := make(map[string]Type, len(allTypes))
	for _, t := range allTypes {
		s, _ := Lookup(t)
		m[s.Name] = t
	}
	return m
}()

// ParseType converts a timeline type name such as "StartsUsing" to a Type.
// Names are case-sensitive.
func ParseType(name string) (Type, bool) {
	t, ok := typeByName[name]
	return t, ok
}

// TypeNames returns the sorted names of all registered types.
func TypeNames() []string {
	names := make([]string, 0, len(typeByName))
	for name := range typeByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
