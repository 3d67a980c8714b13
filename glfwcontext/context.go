package glfwcontext

import (
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"
	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/metrics"
	"github.com/yuripourre/cardboard/options"
)

// The framebuffer every window asks for. GLFW cannot report what it got,
// so these are also what Config returns.
var framebufferHints = graphics.StaticConfig{
	graphics.RedSize:     8,
	graphics.GreenSize:   8,
	graphics.BlueSize:    8,
	graphics.AlphaSize:   8,
	graphics.DepthSize:   24,
	graphics.StencilSize: 8,
	graphics.Samples:     0,
}

// Context tracks mouse state for the GetMouseInput method.
type Context struct {
	window          *glfw.Window
	lastMouseClickX float64
	lastMouseClickY float64
	mouseWasDown    bool
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

var (
	_ graphics.Context     = (*Context)(nil)
	_ metrics.DisplayQuery = (*Context)(nil)
)

// New creates a window holding a side by side surface of the configured size.
func New(opts *options.StereoOptions, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	glfw.WindowHint(glfw.RedBits, framebufferHints[graphics.RedSize])
	glfw.WindowHint(glfw.GreenBits, framebufferHints[graphics.GreenSize])
	glfw.WindowHint(glfw.BlueBits, framebufferHints[graphics.BlueSize])
	glfw.WindowHint(glfw.AlphaBits, framebufferHints[graphics.AlphaSize])
	glfw.WindowHint(glfw.DepthBits, framebufferHints[graphics.DepthSize])
	glfw.WindowHint(glfw.StencilBits, framebufferHints[graphics.StencilSize])
	glfw.WindowHint(glfw.Samples, framebufferHints[graphics.Samples])

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(*opts.Width, *opts.Height, "cardboard", nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
	}
	win.SetKeyCallback(c.glfwKeyCallback)
	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

// Config is the framebuffer configuration the window was created with.
func (c *Context) Config() graphics.FramebufferConfig {
	return framebufferHints
}

func (c *Context) monitor() *glfw.Monitor {
	if m := c.window.GetMonitor(); m != nil {
		return m
	}
	return glfw.GetPrimaryMonitor()
}

// CurrentMetrics reads the density of the monitor showing the window.
func (c *Context) CurrentMetrics() metrics.Reading {
	r := metrics.Reading{XDPI: 96, YDPI: 96, Density: 1}
	if m := c.monitor(); m != nil {
		widthMM, heightMM := m.GetPhysicalSize()
		if mode := m.GetVideoMode(); mode != nil {
			r.XDPI = metrics.DPI(mode.Width, widthMM)
			r.YDPI = metrics.DPI(mode.Height, heightMM)
		}
	}
	if sx, _ := c.window.GetContentScale(); sx > 0 {
		r.Density = sx
	}
	return r
}

// CurrentDisplaySize is the size of the whole side by side surface.
func (c *Context) CurrentDisplaySize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// GetMouseInput implements the method for the graphics.Context interface.
func (c *Context) GetMouseInput() [4]float32 {
	var mouseData [4]float32
	if c.window == nil {
		return mouseData
	}

	fbWidth, fbHeight := c.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	var scaleX, scaleY float64 = 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}

	cursorX, cursorY := c.window.GetCursorPos()
	pixelX := cursorX * scaleX
	pixelY := cursorY * scaleY

	mouseX := float32(pixelX)
	mouseY := float32(fbHeight) - float32(pixelY)

	isMouseDown := c.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	if isMouseDown && !c.mouseWasDown {
		c.lastMouseClickX = pixelX
		c.lastMouseClickY = pixelY
	}
	c.mouseWasDown = isMouseDown

	clickX := float32(c.lastMouseClickX)
	clickY := float32(fbHeight) - float32(c.lastMouseClickY)
	if !isMouseDown {
		clickX = -clickX
		clickY = -clickY
	}

	mouseData = [4]float32{mouseX, mouseY, clickX, clickY}
	return mouseData
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	glog.Info("GLFW initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	glog.Info("GLFW terminated")
}
