// Package options holds the command line configuration of the stereo
// viewer. Every field is a pointer owned by a flag; an optional TOML file
// fills in the flags the user did not pass.
package options

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/pelletier/go-toml/v2"
)

type StereoOptions struct {
	Width       *int     `toml:"width"`
	Height      *int     `toml:"height"`
	Headless    *bool    `toml:"headless"`
	UseExtended *bool    `toml:"gl30"`
	IPD         *float64 `toml:"ipd"`
	FOV         *float64 `toml:"fov"`
	ShaderFile  *string  `toml:"shader"`
	Duration    *float64 `toml:"duration"`
	FPS         *int     `toml:"fps"`
	OutputFile  *string  `toml:"output"`
	FFmpegPath  *string  `toml:"ffmpeg"`
	Codec       *string  `toml:"codec"`
	HWEncode    *bool    `toml:"hwenc"`
	MouseLook   *bool    `toml:"mouselook"`
	ConfigFile  *string  `toml:"-"`
}

// Register defines every option on fs with its default.
func Register(fs *flag.FlagSet) *StereoOptions {
	return &StereoOptions{
		Width:       fs.Int("width", 1280, "Width of the side by side surface"),
		Height:      fs.Int("height", 720, "Height of the side by side surface"),
		Headless:    fs.Bool("headless", false, "Render into an offscreen EGL surface"),
		UseExtended: fs.Bool("gl30", true, "Use the extended GL tier when the driver supports it"),
		IPD:         fs.Float64("ipd", 0.064, "Interpupillary distance in meters"),
		FOV:         fs.Float64("fov", 45, "Field of view half angle per eye in degrees"),
		ShaderFile:  fs.String("shader", "", "WebGL2 fragment shader defining mainImage or mainVR (built-in scene if empty)"),
		Duration:    fs.Float64("duration", 0, "Seconds to run, 0 runs until the window is closed"),
		FPS:         fs.Int("fps", 60, "Frames per second for recording and headless pacing"),
		OutputFile:  fs.String("output", "", "Record the side by side output to this file"),
		FFmpegPath:  fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:       fs.String("codec", "libx264", "Video codec for recording"),
		HWEncode:    fs.Bool("hwenc", false, "Use the platform hardware encoder for h264/hevc"),
		MouseLook:   fs.Bool("mouselook", true, "Drive the head pose with the mouse"),
		ConfigFile:  fs.String("config", "", "TOML file with defaults for flags not given on the command line"),
	}
}

// LoadFile overlays the TOML file at path onto o. Keys whose flag was set
// explicitly on fs keep the command line value.
func (o *StereoOptions) LoadFile(path string, fs *flag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading options file: %w", err)
	}
	var file StereoOptions
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing options file %s: %w", path, err)
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	dst := reflect.ValueOf(o).Elem()
	src := reflect.ValueOf(&file).Elem()
	for i := 0; i < src.NumField(); i++ {
		name := src.Type().Field(i).Tag.Get("toml")
		v := src.Field(i)
		if name == "-" || v.IsNil() || explicit[name] {
			continue
		}
		if dst.Field(i).IsNil() {
			dst.Field(i).Set(reflect.New(v.Type().Elem()))
		}
		dst.Field(i).Elem().Set(v.Elem())
	}
	return nil
}

var (
	ErrSize     = errors.New("options: width and height must be at least 2")
	ErrFPS      = errors.New("options: fps must be positive")
	ErrEndless  = errors.New("options: headless runs need a duration")
	ErrEyeSetup = errors.New("options: fov must be in (0, 90) and ipd non-negative")
)

// Validate checks the combination of options.
func (o *StereoOptions) Validate() error {
	var errs []error
	if *o.Width < 2 || *o.Height < 2 {
		errs = append(errs, ErrSize)
	}
	if *o.FPS <= 0 {
		errs = append(errs, ErrFPS)
	}
	if *o.Headless && *o.Duration <= 0 {
		errs = append(errs, ErrEndless)
	}
	if *o.FOV <= 0 || *o.FOV >= 90 || *o.IPD < 0 {
		errs = append(errs, ErrEyeSetup)
	}
	return errors.Join(errs...)
}

// Recording reports whether an output file was requested.
func (o *StereoOptions) Recording() bool {
	return o.OutputFile != nil && *o.OutputFile != ""
}
