// Package shaders provides embedded GLSL sources for the terrain passes.
package shaders

import _ "embed"

// TerrainVertexShader displaces the shared tile grid by the height field
// and applies edge morphing. Used by every surface variant.
//
//go:embed terrain.vert
var TerrainVertexShader string

// TerrainFragmentShader is the standard lit surface with cascaded shadows.
//
//go:embed terrain.frag
var TerrainFragmentShader string

// FlatFragmentShader is an unlit height-tinted surface for debugging.
//
//go:embed flat.frag
var FlatFragmentShader string

// NormalsFragmentShader visualizes the reconstructed surface normal.
//
//go:embed normals.frag
var NormalsFragmentShader string

// DepthVertexShader is the shadow-pass vertex stage. Its displacement must
// match TerrainVertexShader exactly or the terrain self-shadows wrongly at
// displaced silhouettes.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader is the no-op fragment stage of the shadow pass.
//
//go:embed depth.frag
var DepthFragmentShader string
