package glcontext

import (
	"fmt"

	"github.com/yuripourre/cardboard/graphics"
)

// ParseVersion extracts the major and minor version from a GL_VERSION string.
func ParseVersion(glVer string) (major, minor int, gles bool, err error) {
	var ver [2]int
	if _, err := fmt.Sscanf(glVer, "OpenGL ES %d.%d", &ver[0], &ver[1]); err == nil {
		return ver[0], ver[1], true, nil
	} else if _, err := fmt.Sscanf(glVer, "OpenGL ES-CM %d.%d", &ver[0], &ver[1]); err == nil {
		return ver[0], ver[1], true, nil
	} else if _, err := fmt.Sscanf(glVer, "WebGL %d.%d", &ver[0], &ver[1]); err == nil {
		// WebGL major version v corresponds to OpenGL ES version v + 1
		return ver[0] + 1, ver[1], true, nil
	} else if _, err := fmt.Sscanf(glVer, "%d.%d", &ver[0], &ver[1]); err == nil {
		return ver[0], ver[1], false, nil
	}
	return 0, 0, false, fmt.Errorf("failed to parse OpenGL version (%s)", glVer)
}

// Probe reads the identification strings through g. A version string that
// cannot be parsed leaves Major at 0.
func Probe(g graphics.GL) graphics.Info {
	info := graphics.Info{
		Version:  g.GetString(graphics.Version),
		Vendor:   g.GetString(graphics.Vendor),
		Renderer: g.GetString(graphics.Renderer),
	}
	major, minor, gles, err := ParseVersion(info.Version)
	if err == nil {
		info.Major, info.Minor, info.GLES = major, minor, gles
	}
	return info
}
