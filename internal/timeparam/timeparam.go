// Package timeparam maps wall-clock instants to the angles that drive the
// globe and the clock face.
//
// Every function here is pure: the result depends only on the instant passed
// in (and its location, for the local clock hands). Angles are not reduced
// modulo 2π; the trigonometry that consumes them wraps implicitly.
package timeparam

import (
	"math"
	"time"
)

const (
	// SecondsPerDay is the period of the globe rotation and the hour hand.
	SecondsPerDay = 86400

	// SecondsPerHour is the period of the minute hand.
	SecondsPerHour = 3600

	// DaysPerYear is the period used for the seasonal tilt. Leap years are
	// not treated specially.
	DaysPerYear = 365

	// VernalEquinoxDay is the day of year (1-based) at which the seasonal
	// tilt crosses zero going positive.
	VernalEquinoxDay = 80

	// EquinoxOffset is added to the day of year before taking the sine.
	EquinoxOffset = -VernalEquinoxDay
)

// MaxAxialTilt is 23.4 degrees in radians.
const MaxAxialTilt = 23.4 * math.Pi / 180

// DefaultPhaseOffset is the globe rotation at 00:00:00 UTC. With the bundled
// equirectangular textures it puts the lit hemisphere over the meridian where
// it is local noon.
const DefaultPhaseOffset = math.Pi

// secondsSinceMidnight returns the elapsed seconds since 00:00:00 in the
// location of t, including the sub-second part.
func secondsSinceMidnight(t time.Time) float64 {
	h, m, s := t.Clock()
	return float64(h*3600+m*60+s) + float64(t.Nanosecond())/1e9
}

// GlobeRotation returns the spin angle of the globe for t.
// One full revolution takes a UTC day; offset is added as-is.
func GlobeRotation(t time.Time, offset float64) float64 {
	return secondsSinceMidnight(t.UTC())/SecondsPerDay*2*math.Pi + offset
}

// AxialTilt returns the seasonal tilt of the terminator for t, in radians.
func AxialTilt(t time.Time) float64 {
	doy := float64(t.UTC().YearDay())
	return MaxAxialTilt * math.Sin(2*math.Pi*(doy+EquinoxOffset)/DaysPerYear)
}

// HourAngle returns the hour-hand angle for t in t's location.
// The hand turns once per 24 hours.
func HourAngle(t time.Time) float64 {
	return 2 * math.Pi * secondsSinceMidnight(t) / SecondsPerDay
}

// MinuteAngle returns the minute-hand angle for t in t's location.
// The hand turns once per hour.
func MinuteAngle(t time.Time) float64 {
	return 2 * math.Pi * secondsSinceMidnight(t) / SecondsPerHour
}

// Hands bundles both clock-hand angles for one instant.
type Hands struct {
	Hour   float64
	Minute float64
}

// HandsAt returns the clock-hand angles for t.
func HandsAt(t time.Time) Hands {
	return Hands{Hour: HourAngle(t), Minute: MinuteAngle(t)}
}
