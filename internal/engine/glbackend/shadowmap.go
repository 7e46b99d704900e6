package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ShadowMaps is a depth texture array with one layer per cascade,
// rendered through a single framebuffer.
//
// The cascade projections store larger depths for casters nearer the
// light, so the pass clears to 0 and keeps the greater depth, and the
// comparison sampler passes when the reference is not below the stored
// value.
type ShadowMaps struct {
	FBO          uint32
	DepthTexture uint32
	Resolution   int32
	Layers       int32
	prevViewport [4]int32
}

// NewShadowMaps allocates layers cascades of resolution squared texels.
func NewShadowMaps(resolution, layers int32) (*ShadowMaps, error) {
	if resolution <= 0 || layers <= 0 {
		return nil, fmt.Errorf("invalid shadow map size %dx%d", resolution, layers)
	}
	sm := &ShadowMaps{Resolution: resolution, Layers: layers}

	gl.GenTextures(1, &sm.DepthTexture)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, sm.DepthTexture)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.DEPTH_COMPONENT24,
		resolution, resolution, layers, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Outside the cascade reads as fully lit: a zero border never wins GEQUAL.
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := []float32{0, 0, 0, 0}
	gl.TexParameterfv(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_BORDER_COLOR, &border[0])

	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_FUNC, gl.GEQUAL)

	gl.GenFramebuffers(1, &sm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, sm.DepthTexture, 0, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		sm.Destroy()
		return nil, fmt.Errorf("shadow framebuffer incomplete: 0x%x", status)
	}
	return sm, nil
}

// BeginLayer starts rendering cascade layer. The first call of a frame
// saves the viewport that End restores.
func (sm *ShadowMaps) BeginLayer(layer int32, first bool) {
	if first {
		gl.GetIntegerv(gl.VIEWPORT, &sm.prevViewport[0])
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, sm.DepthTexture, 0, layer)
	gl.Viewport(0, 0, sm.Resolution, sm.Resolution)

	gl.DepthMask(true)
	gl.ClearDepth(0)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.ClearDepth(1)
}

// End returns to the default framebuffer.
func (sm *ShadowMaps) End() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(sm.prevViewport[0], sm.prevViewport[1], sm.prevViewport[2], sm.prevViewport[3])
}

// BindTexture binds the depth array to a texture unit for sampling.
func (sm *ShadowMaps) BindTexture(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, sm.DepthTexture)
}

// Destroy releases the GPU resources.
func (sm *ShadowMaps) Destroy() {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
		sm.FBO = 0
	}
	if sm.DepthTexture != 0 {
		gl.DeleteTextures(1, &sm.DepthTexture)
		sm.DepthTexture = 0
	}
}

// IsValid reports whether the maps were created.
func (sm *ShadowMaps) IsValid() bool {
	return sm != nil && sm.FBO != 0 && sm.DepthTexture != 0
}
