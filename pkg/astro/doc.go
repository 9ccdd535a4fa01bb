// Package astro holds the static classical tables and the chart data model
// shared by every computation package.
//
// # Bodies, signs and mansions
//
// [Graha] enumerates the nine bodies in canonical order (Sun through Ketu).
// [Sign] is numbered 1–12 from Aries and carries its element, quality and
// lord. [Nakshatra] is numbered 1–27; its lord is derived from the
// Vimshottari sequence so the two tables cannot drift apart.
//
// All tables are package-level arrays initialized once and never mutated.
// Accessors return copies of slices so callers cannot alter shared data.
//
// # Chart model
//
// A [Variant] is one chart frame: a division number, its [Ascendant], and
// one [Position] per graha. The natal chart is the D1
// variant; divisional charts are further variants derived from it.
//
// Positions satisfy the invariants
//
//	sign      = floor(longitude/30) + 1
//	nakshatra = floor(longitude/(360/27)) + 1
//	house     = ((sign - ascendantSign + 12) mod 12) + 1
//
// Helpers [SignOf], [NakshatraOf] and [Normalize] implement them; nothing
// else in the module recomputes these quantities by hand.
package astro
