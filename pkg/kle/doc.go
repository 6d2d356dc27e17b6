// Package kle loads keyboard-layout-editor (KLE) layout descriptions into an
// ordered list of positioned keys.
//
// # Overview
//
// A KLE layout is a JSON array of rows. Each row is an array whose string
// items are keys (their newline-separated labels) and whose object items
// change the properties of the keys that follow:
//
//	[
//	  {"name": "macro pad"},
//	  ["Esc", {"w": 2}, "Space"],
//	  [{"r": 15, "rx": 1, "ry": 2}, "A", "B"]
//	]
//
// Properties carry across keys until changed, with a few exceptions: width,
// height, the secondary rectangle and the stepped/nub/decal flags reset after
// every key. Each row ends by moving one unit down and back to the current
// rotation cluster's x origin.
//
// # Dialects
//
// [Parse] accepts strict JSON as well as the "raw data" form the KLE editor
// shows, where the outer brackets are omitted and property names are
// unquoted:
//
//	["Esc",{x:1},"F1","F2"],
//	["`","1","2"]
//
// # Labels
//
// A key holds up to 12 labels on a 3×4 grid. The "a" property selects one of
// eight alignment maps that decide where the newline-separated labels land;
// see [Key.Labels] for the grid order. Per-label text sizes and colors that
// equal the key's default are cleared so renderers only see real overrides.
package kle
