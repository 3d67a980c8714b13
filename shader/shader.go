package shader

import (
	"fmt"
	"strings"
)

// ────────────────────────────────── Vertex stage ─────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// GenerateVertexShader returns the full screen quad vertex stage. It is
// never translated, so it is written in the context's own dialect.
func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

const blitFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// BlitTexture is the sampler uniform of the blit fragment stage.
const BlitTexture = "u_texture"

// GetBlitFragmentShader copies u_texture onto the viewport.
func GetBlitFragmentShader(isGLES bool) string {
	if isGLES {
		return blitFragmentShaderSourceGLES
	}
	return blitFragmentShaderSourceGL
}

// ─────────────────────────────── Stereo fragment glue ───────────────────────────────

// Uniform names every stereo fragment shader can use.
const (
	Resolution     = "iResolution"
	Time           = "iTime"
	TimeDelta      = "iTimeDelta"
	FrameRate      = "iFrameRate"
	Frame          = "iFrame"
	Mouse          = "iMouse"
	Viewport       = "iViewport"
	Eye            = "iEye"
	EyeView        = "iEyeView"
	InvProjection  = "iInvProjection"
	Channel0       = "iChannel0"
	Channel1       = "iChannel1"
	mainVRFunction = "mainVR"
)

// Uniforms lists the names above in declaration order.
var Uniforms = []string{Resolution, Time, TimeDelta, FrameRate, Frame, Mouse, Viewport, Eye, EyeView, InvProjection, Channel0, Channel1}

const preamble = `#version 300 es
precision highp float;
precision highp int;
#define HW_PERFORMANCE 1
uniform vec3  iResolution;
uniform float iTime;
uniform float iTimeDelta;
uniform float iFrameRate;
uniform int   iFrame;
uniform vec4  iMouse;
uniform vec4  iViewport;
uniform int   iEye;
uniform mat4  iEyeView;
uniform mat4  iInvProjection;
uniform sampler2D   iChannel0;
uniform samplerCube iChannel1;

out vec4 fragColor;
`

const mainImageWrapper = `
void main(void)
{
    mainImage(fragColor, gl_FragCoord.xy - iViewport.xy);
}
`

const mainVRWrapper = `
void main(void)
{
    vec2 coord = gl_FragCoord.xy - iViewport.xy;
    vec2 ndc = coord / iViewport.zw * 2.0 - 1.0;
    vec4 target = iInvProjection * vec4(ndc, 1.0, 1.0);
    mat4 eyeToWorld = inverse(iEyeView);
    vec3 ro = (eyeToWorld * vec4(0.0, 0.0, 0.0, 1.0)).xyz;
    vec3 rd = normalize(mat3(eyeToWorld) * (target.xyz / target.w));
    mainVR(fragColor, coord, ro, rd);
}
`

// HasMainVR reports whether user declares the ray based entry point.
func HasMainVR(user string) bool {
	return strings.Contains(user, mainVRFunction+"(")
}

// GetMain returns the entry point wrapper for user code. Shaders that
// declare mainVR get a ray per fragment built from the eye matrices, the
// rest are called through mainImage with eye local coordinates.
func GetMain(user string) string {
	if HasMainVR(user) {
		return mainVRWrapper
	}
	return mainImageWrapper
}

// GetFragmentShader combines preamble, common code, user code and wrapper
// into one WebGL2 source ready for translation.
func GetFragmentShader(common, user string) string {
	var sb strings.Builder
	sb.WriteString(preamble)
	if common != "" {
		fmt.Fprintf(&sb, "%s\n", common)
	}
	sb.WriteString(user)
	sb.WriteString(GetMain(user))
	return sb.String()
}
