// Package identity defines the Identity Map, the named-value dataset every
// selfmap chart is drawn from.
//
// # Overview
//
// An Identity Map associates unique category names ("Leadership",
// "Personal Growth", ...) with a [Record] holding a strength score and
// optional descriptive text. The map preserves insertion order: the layout
// engine places each category at an angle derived from its position, so two
// maps with the same entries in a different order produce different charts.
//
//	m := identity.New()
//	m.Set("Leadership", identity.Record{Strength: 5, Title: "Emerging Leader"})
//	m.Set("Personal Growth", identity.Record{Strength: 7})
//
// # Strength Range
//
// Strength is intended to lie in [0, 10]. Values outside that range are kept
// as-is; [Map.OutOfRange] reports them so callers can warn.
//
// # File Formats
//
// [ReadJSON] and [ReadTOML] decode a top-level object/table keyed by category
// name, preserving the order keys appear in the document:
//
//	{
//	  "Creative Expression": {"Strength": 8, "Title": "Creative Lead"},
//	  "Leadership":          {"Strength": 5}
//	}
//
// Field names are matched case-insensitively, so both "Strength" and
// "strength" are accepted. [Load] picks the decoder from the file extension.
package identity
