// Package domain models the ambient scene of the portfolio site: where the
// sun or moon sits in the sky, how dark it is, what the weather looks like,
// and which decorative layers should be active.
//
// # Solar Day Model
//
// A solar day is partitioned into six named phases:
//
//	dawn, morning, day, afternoon, dusk, night
//
// Phases are anchored on sunrise and sunset for the observer's location, as
// reported by a SolarCalendar. Around each of sunrise and sunset sits a padded
// transition window of ±1 hour:
//
//	dawnStart = sunrise − 1h    dawnEnd = sunrise + 1h
//	duskStart = sunset  − 1h    duskEnd = sunset  + 1h
//
// Classification tests the bands in order: dawn window, then "within 3h after
// sunrise" (morning), the middle of the day, "within 3h before sunset"
// (afternoon), the dusk window, and night for everything else. On extreme
// high-latitude dates where total daylight is shorter than 6 hours the
// morning/day/afternoon bands can collapse or invert; the calculator does not
// special-case this. The output is still well-defined (the first matching band
// wins), just visually odd.
//
// # Glow Arc
//
// The glow disc (sun by day, a moon-like body by night) travels a half-sine
// arch described by a normalized arc progress in [0,1]. Daylight phases share
// one arc from sunrise to sunset. The night arc spans the whole night — from
// the previous dusk-window end to the next dawn-window start — so the glow
// does not snap back at midnight. Progress is clamped to [0,1] as a guard
// against cross-midnight and DST edge instants.
//
// # Weather
//
// Provider condition strings collapse into four kinds via substring matching
// with a fixed priority: snow beats rain/drizzle beats clouds beats clear.
// Season is derived from the calendar month alone using Northern-hemisphere
// boundaries (Dec–Feb winter, Mar–May spring, Jun–Aug summer, Sep–Nov
// autumn), independent of both the weather payload and the observer's
// hemisphere. Southern-hemisphere visitors get Northern seasons; known
// limitation, kept as-is.
//
// # Scene Resolution
//
// ResolveScene folds celestial state, the (possibly absent) weather snapshot,
// season, manual overrides, and a per-session seed into one EffectiveScene
// that every presentation layer agrees on. Precedence, highest first:
//
//	manual weather override > autumn season ("fall") > live weather > clear
//
// A "clouds" reading escalates to precipitation when the session seed is
// below 0.6 — snow in winter, rain otherwise. The seed is drawn once per
// session and reused for every resolution, so a visit's weather never
// flickers between renders while distinct visits still differ.
package domain
