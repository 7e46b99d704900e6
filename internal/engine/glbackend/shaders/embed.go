// Package shaders provides embedded GLSL shader sources.
//
// The variant sources are compiled once per feature bitmask. The compiler
// prepends the GLSL version line and one FLAG_ define per feature, so the
// sources never declare a version themselves.
package shaders

import _ "embed"

// VariantVertexShader is the vertex stage shared by every draw variant.
//
//go:embed variant.vert
var VariantVertexShader string

// VariantFragmentShader is the fragment stage shared by every draw variant.
//
//go:embed variant.frag
var VariantFragmentShader string

// FixedVertexShader draws without a variant program.
//
//go:embed fixed.vert
var FixedVertexShader string

// FixedFragmentShader draws without a variant program.
//
//go:embed fixed.frag
var FixedFragmentShader string

// ArcVertexShader draws electrical arcs.
//
//go:embed arc.vert
var ArcVertexShader string

// ArcFragmentShader draws electrical arcs.
//
//go:embed arc.frag
var ArcFragmentShader string
