package stereo

import (
	"errors"

	"github.com/yuripourre/cardboard/graphics"
)

// ErrNotStereo reports an application wired into a stereo host without
// implementing StereoListener.
var ErrNotStereo = errors.New("application listener does not implement stereo.StereoListener")

// ApplicationListener is the part of an application every backend drives.
type ApplicationListener interface {
	// Create is called once, when the surface size is first known.
	Create()
	// Resize receives the per-eye surface size.
	Resize(width, height int)
}

// StereoListener is the capability required to run under a stereo host.
type StereoListener interface {
	ApplicationListener
	OnNewFrame(head HeadTransform)
	OnDrawEye(eye Eye)
	OnFinishFrame(vp Viewport)
	OnRendererShutdown()
}

// Renderer is the callback set a stereo host drives, in this order:
// OnSurfaceCreated, OnSurfaceChanged, then per frame OnNewFrame, one
// OnDrawEye per eye and OnFinishFrame, and finally OnRendererShutdown.
type Renderer interface {
	OnSurfaceCreated(cfg graphics.FramebufferConfig)
	OnSurfaceChanged(width, height int)
	OnNewFrame(head HeadTransform)
	OnDrawEye(eye Eye)
	OnFinishFrame(vp Viewport)
	OnRendererShutdown()
}

// ContextLossObserver is implemented by renderers that must hear about a
// destroyed GL context before the next OnSurfaceCreated.
type ContextLossObserver interface {
	OnContextLost()
}
