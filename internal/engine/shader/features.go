package shader

// Features are the named requirements of one draw. They are reduced to
// Flags only when a variant is requested.
type Features struct {
	Lighting         bool
	Fog              bool
	Textured         bool
	ShadowPass       bool
	Shadows          bool
	Thruster         bool
	BatchedTransform bool
	TeamColor        bool
	Animated         bool
	Clip             bool

	// Map presence per texture slot.
	GlowMap   bool
	SpecMap   bool
	NormalMap bool
	HeightMap bool
	EnvMap    bool
	MiscMap   bool
}

// Flags derives the bitmask. It depends only on the receiver's values.
//
// A shadow-pass draw only needs depth, so it carries the shadow map bit
// plus the batched transform bit. Specular, normal and shadow receiving
// need lighting. Environment maps need a specular map and height maps need
// a normal map.
func (ft Features) Flags() Flags {
	var f Flags

	if ft.BatchedTransform {
		f |= FlagTransform
	}
	if ft.ShadowPass {
		return f | FlagShadowMap
	}

	if ft.Lighting {
		f |= FlagLight
	}
	if ft.Fog {
		f |= FlagFog
	}
	if ft.Textured {
		f |= FlagDiffuseMap
		if ft.GlowMap {
			f |= FlagGlowMap
		}
		if ft.Lighting {
			if ft.SpecMap {
				f |= FlagSpecMap
				if ft.EnvMap {
					f |= FlagEnvMap
				}
			}
			if ft.NormalMap {
				f |= FlagNormalMap
				if ft.HeightMap {
					f |= FlagHeightMap
				}
			}
			if ft.Shadows {
				f |= FlagShadows
			}
		}
		if ft.MiscMap {
			f |= FlagMiscMap
		}
		if ft.TeamColor {
			f |= FlagTeamColor
		}
	}
	if ft.Thruster {
		f |= FlagThruster
	}
	if ft.Animated {
		f |= FlagAnimated
	}
	if ft.Clip {
		f |= FlagClip
	}
	return f
}
