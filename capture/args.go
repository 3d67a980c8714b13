// Package capture records the side by side output to a video file by
// piping raw frames into ffmpeg.
package capture

import (
	"fmt"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Settings describe one recording.
type Settings struct {
	Width, Height int
	FPS           int
	// Codec is "h264", "hevc" or any ffmpeg encoder name.
	Codec      string
	OutputFile string
	FFmpegPath string
	// Hardware selects the platform's hardware encoder for h264 and hevc.
	Hardware bool
	// GOOS defaults to runtime.GOOS.
	GOOS string
}

const bytesPerPixel = 4

// FrameSize is the byte length of one raw RGBA frame.
func (s Settings) FrameSize() int {
	return s.Width * s.Height * bytesPerPixel
}

func (s Settings) validate() error {
	if s.Width <= 0 || s.Height <= 0 || s.FPS <= 0 {
		return fmt.Errorf("invalid recording geometry %dx%d@%d", s.Width, s.Height, s.FPS)
	}
	if s.OutputFile == "" {
		return fmt.Errorf("no output file")
	}
	return nil
}

func (s Settings) encoder() string {
	hevc := s.Codec == "hevc"
	if s.Codec != "" && s.Codec != "h264" && !hevc {
		return s.Codec
	}
	goos := s.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if s.Hardware {
		switch goos {
		case "linux":
			if hevc {
				return "hevc_nvenc"
			}
			return "h264_nvenc"
		case "darwin":
			if hevc {
				return "hevc_videotoolbox"
			}
			return "h264_videotoolbox"
		}
	}
	if hevc {
		return "libx265"
	}
	return "libx264"
}

// Args builds the ffmpeg arguments for raw RGBA frames read bottom row
// first, as glReadPixels returns them.
func Args(s Settings) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", s.Width, s.Height),
		"r":       s.FPS,
	}

	enc := s.encoder()
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"c:v":     enc,
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}
	if strings.HasPrefix(enc, "hevc") || enc == "libx265" {
		if strings.HasSuffix(s.OutputFile, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	}
	if strings.HasSuffix(enc, "_nvenc") {
		outputArgs["preset"] = "p2"
	}
	return
}
