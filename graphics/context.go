package graphics

// Context defines the interface for the host surface that owns the OpenGL
// context. Stereo hosts drive the frame loop themselves; a Context only
// exposes what they need to present and pace frames.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	IsGLES() bool
	// GetMouseInput returns the current mouse state: x, y, clickX, clickY
	GetMouseInput() [4]float32
}
