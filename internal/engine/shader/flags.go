// Package shader picks the program variant for each draw.
//
// A draw's requirements are described by Features and reduced to a Flags
// bitmask at the resolver boundary. The Resolver maps each distinct bitmask
// to one compiled variant, compiling on demand, and degrades the session's
// shading path when compilation fails.
package shader

import "strings"

// Flags is the feature bitmask a variant is compiled for. The bit layout is
// stable: the same value always selects the same program.
type Flags uint32

const (
	FlagLight Flags = 1 << iota
	FlagFog
	FlagDiffuseMap
	FlagGlowMap
	FlagSpecMap
	FlagNormalMap
	FlagHeightMap
	FlagEnvMap
	FlagAnimated
	FlagMiscMap
	FlagTeamColor
	FlagDeferred
	FlagGeometry
	FlagShadowMap
	FlagShadows
	FlagThruster
	FlagTransform
	FlagClip

	flagCount = iota
)

// flagInfo describes one bit: its preprocessor symbol, the uniforms the
// feature reads, and a readable name.
type flagInfo struct {
	flag     Flags
	define   string
	uniforms []string
	name     string
}

var flagTable = [flagCount]flagInfo{
	{FlagLight, "FLAG_LIGHT", []string{"n_lights", "light_factor"}, "lighting"},
	{FlagFog, "FLAG_FOG", nil, "fog"},
	{FlagDiffuseMap, "FLAG_DIFFUSE_MAP", []string{"sBasemap"}, "diffuse"},
	{FlagGlowMap, "FLAG_GLOW_MAP", []string{"sGlowmap"}, "glow"},
	{FlagSpecMap, "FLAG_SPEC_MAP", []string{"sSpecmap"}, "specular"},
	{FlagNormalMap, "FLAG_NORMAL_MAP", []string{"sNormalmap"}, "normal"},
	{FlagHeightMap, "FLAG_HEIGHT_MAP", []string{"sHeightmap"}, "parallax"},
	{FlagEnvMap, "FLAG_ENV_MAP", []string{"sEnvmap", "alpha_spec", "envMatrix"}, "environment"},
	{FlagAnimated, "FLAG_ANIMATED", []string{"effect_num", "anim_timer"}, "animated"},
	{FlagMiscMap, "FLAG_MISC_MAP", []string{"sMiscmap"}, "misc"},
	{FlagTeamColor, "FLAG_TEAMCOLOR", []string{"stripe_color", "base_color"}, "teamcolor"},
	{FlagDeferred, "FLAG_DEFERRED", nil, "deferred"},
	{FlagGeometry, "FLAG_GEOMETRY", []string{"shadow_proj_matrix"}, "geometry"},
	{FlagShadowMap, "FLAG_SHADOW_MAP", []string{"shadow_map_num", "shadow_proj_matrix"}, "shadowmap"},
	{FlagShadows, "FLAG_SHADOWS", []string{"shadow_map", "shadow_mv_matrix", "shadow_proj_matrix", "veryneardist", "neardist", "middist", "fardist"}, "shadows"},
	{FlagThruster, "FLAG_THRUSTER", []string{"thruster_scale"}, "thruster"},
	{FlagTransform, "FLAG_TRANSFORM", []string{"transform_tex", "buffer_matrix_offset"}, "transform"},
	{FlagClip, "FLAG_CLIP", []string{"use_clip_plane", "clip_normal", "clip_position"}, "clip"},
}

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String lists the set features, e.g. "lighting|diffuse|fog".
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var b strings.Builder
	for _, info := range flagTable {
		if f&info.flag == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(info.name)
	}
	return b.String()
}

// UniformNames returns the feature uniforms a variant with flags reads,
// in bit order without duplicates.
func UniformNames(f Flags) []string {
	var names []string
	seen := make(map[string]bool)
	for _, info := range flagTable {
		if f&info.flag == 0 {
			continue
		}
		for _, u := range info.uniforms {
			if !seen[u] {
				seen[u] = true
				names = append(names, u)
			}
		}
	}
	return names
}
