package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/drawqueue/pkg/math"
)

// SunDirection converts a sun longitude/latitude in degrees into the unit
// vector pointing toward the sun. Longitude turns around Y; latitude is the
// elevation above the horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := longitude * math32.Pi / 180
	lat := latitude * math32.Pi / 180

	return math.Vec3{
		X: math32.Cos(lat) * math32.Sin(lon),
		Y: math32.Sin(lat),
		Z: math32.Cos(lat) * math32.Cos(lon),
	}
}

// Sun returns a directional light for the given sun angles.
func Sun(longitude, latitude float32, color math.Vec3, intensity float32) Light {
	return Light{
		Kind:      Directional,
		Direction: SunDirection(longitude, latitude),
		Color:     color,
		Intensity: intensity,
	}
}
