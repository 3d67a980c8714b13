package capture

import "github.com/go-gl/gl/v4.1-core/gl"

// ReadFunc copies the current read framebuffer into dst as RGBA rows.
type ReadFunc func(width, height int, dst []byte)

// ReadPixels reads the default framebuffer with glReadPixels.
func ReadPixels(width, height int, dst []byte) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst))
}
