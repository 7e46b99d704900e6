package drawlist

import (
	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/internal/engine/shadow"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Per-draw uniform names shared with the variant sources.
const (
	uModelMatrix    = "model_matrix"
	uViewMatrix     = "view_matrix"
	uProjMatrix     = "proj_matrix"
	uColor          = "color"
	uNumLights      = "n_lights"
	uLightFactor    = "light_factor"
	uLightKind      = "light_type"
	uLightPosition  = "light_position"
	uLightDirection = "light_direction"
	uLightColor     = "light_color"
	uLightRadius    = "light_radius"
	uFogColor       = "fog_color"
	uFogStart       = "fog_start"
	uFogScale       = "fog_scale"
	uEffect         = "effect_num"
	uAnimTimer      = "anim_timer"
	uBaseColor      = "base_color"
	uStripeColor    = "stripe_color"
	uThrusterScale  = "thruster_scale"
	uMatrixOffset   = "buffer_matrix_offset"
	uUseClip        = "use_clip_plane"
	uClipNormal     = "clip_normal"
	uClipPosition   = "clip_position"
)

var samplerNames = [NumSlots]string{
	SlotBase:     "sBasemap",
	SlotGlow:     "sGlowmap",
	SlotSpecular: "sSpecmap",
	SlotNormal:   "sNormalmap",
	SlotHeight:   "sHeightmap",
	SlotMisc:     "sMiscmap",
}

var samplerFlags = [NumSlots]shader.Flags{
	SlotBase:     shader.FlagDiffuseMap,
	SlotGlow:     shader.FlagGlowMap,
	SlotSpecular: shader.FlagSpecMap,
	SlotNormal:   shader.FlagNormalMap,
	SlotHeight:   shader.FlagHeightMap,
	SlotMisc:     shader.FlagMiscMap,
}

// setDrawUniforms hands the bound program everything rec needs. The cache
// turns repeated values into no-ops.
func (q *Queue) setDrawUniforms(ds *dispatchState, rec *DrawRecord, st *RenderState, model math.Mat4) {
	c := q.uniforms
	f := rec.Variant.Flags

	c.SetMat4(uModelMatrix, model)
	c.SetMat4(uViewMatrix, q.frame.View)
	c.SetMat4(uProjMatrix, q.frame.Proj)
	c.SetVec4(uColor, 1, 1, 1, rec.Alpha)

	for slot, name := range samplerNames {
		if f&samplerFlags[slot] != 0 {
			c.SetInt(name, int32(slot))
		}
	}
	if f.Has(shader.FlagEnvMap) {
		c.SetInt("sEnvmap", int32(UnitEnvMap))
		c.SetMat4("envMatrix", q.frame.View)
		alphaSpec := int32(0)
		if q.frame.EnvMapAlpha {
			alphaSpec = 1
		}
		c.SetInt("alpha_spec", alphaSpec)
	}

	if f.Has(shader.FlagLight) {
		if !ds.hasPacked || ds.packed != st.Lights {
			q.packed.Fill(q.lights.Lights(st.Lights))
			ds.packed, ds.hasPacked = st.Lights, true
		}
		c.SetInt(uNumLights, int32(q.packed.Count))
		c.SetFloat(uLightFactor, rec.LightFactor)
		c.SetIntArray(uLightKind, q.packed.Kinds)
		c.SetVec3Array(uLightPosition, q.packed.Positions)
		c.SetVec3Array(uLightDirection, q.packed.Directions)
		c.SetVec3Array(uLightColor, q.packed.Colors)
		c.SetFloatArray(uLightRadius, q.packed.Radii)
	}

	if f.Has(shader.FlagFog) {
		fog := st.Fog
		c.SetVec3(uFogColor, math.Vec3{X: float32(fog.R) / 255, Y: float32(fog.G) / 255, Z: float32(fog.B) / 255})
		c.SetFloat(uFogStart, fog.Near)
		scale := float32(0)
		if fog.Far > fog.Near {
			scale = 1 / (fog.Far - fog.Near)
		}
		c.SetFloat(uFogScale, scale)
	}

	if f.Has(shader.FlagAnimated) {
		c.SetInt(uEffect, int32(st.AnimatedEffect))
		c.SetFloat(uAnimTimer, st.AnimatedTimer)
	}
	if f.Has(shader.FlagTeamColor) {
		c.SetVec3(uBaseColor, st.TeamColor.Base)
		c.SetVec3(uStripeColor, st.TeamColor.Stripe)
	}
	if f.Has(shader.FlagThruster) {
		c.SetFloat(uThrusterScale, rec.ThrustScale)
	}
	if f.Has(shader.FlagTransform) {
		c.SetInt("transform_tex", int32(UnitTransform))
		c.SetInt(uMatrixOffset, int32(rec.TransformOffset))
	}
	if f.Has(shader.FlagClip) {
		if st.ClipPlane >= 0 {
			p := q.clipPlanes[st.ClipPlane]
			c.SetInt(uUseClip, 1)
			c.SetVec3(uClipNormal, p.Normal)
			c.SetVec3(uClipPosition, p.Point)
		} else {
			c.SetInt(uUseClip, 0)
		}
	}

	if f.Has(shader.FlagShadowMap) {
		c.SetInt(shadow.UniformMapNum, int32(q.frame.ShadowCascade))
		if q.frame.Shadows != nil {
			q.frame.Shadows.Apply(c)
		}
	}
	if f.Has(shader.FlagShadows) && q.frame.Shadows != nil {
		c.SetInt("shadow_map", int32(UnitShadowMap))
		q.frame.Shadows.Apply(c)
	}
}
