package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"
	"github.com/yuripourre/cardboard/capture"
	"github.com/yuripourre/cardboard/demo"
	"github.com/yuripourre/cardboard/diag"
	"github.com/yuripourre/cardboard/frame"
	"github.com/yuripourre/cardboard/glcontext"
	"github.com/yuripourre/cardboard/glfwcontext"
	"github.com/yuripourre/cardboard/graphics"
	"github.com/yuripourre/cardboard/graphics/gogl"
	"github.com/yuripourre/cardboard/headless"
	"github.com/yuripourre/cardboard/host"
	"github.com/yuripourre/cardboard/metrics"
	"github.com/yuripourre/cardboard/options"
	"github.com/yuripourre/cardboard/resources"
	"github.com/yuripourre/cardboard/resources/glres"
	"github.com/yuripourre/cardboard/stereo"
)

func init() {
	runtime.LockOSThread()
}

// surface is the platform side of a run.
type surface struct {
	gfx     graphics.Context
	fb      graphics.FramebufferConfig
	display metrics.DisplayQuery
	window  *glfwcontext.Context
	close   func()
}

func openSurface(opts *options.StereoOptions) (*surface, error) {
	if *opts.Headless {
		h, err := headless.NewHeadless(*opts.Width, *opts.Height, *opts.FPS)
		if err != nil {
			return nil, fmt.Errorf("failed to create headless context: %w", err)
		}
		return &surface{gfx: h, fb: h, display: h.Display(), close: h.Shutdown}, nil
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	c, err := glfwcontext.New(opts, true)
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	return &surface{
		gfx:     c,
		fb:      c.Config(),
		display: c,
		window:  c,
		close: func() {
			c.Shutdown()
			glfwcontext.TerminateGraphics()
		},
	}, nil
}

func run(ctx context.Context, opts *options.StereoOptions, userShader string) (err error) {
	s, err := openSurface(opts)
	if err != nil {
		return err
	}
	defer s.close()

	s.gfx.MakeCurrent()
	if err := gogl.Init(); err != nil {
		return err
	}
	baseline, extended := gogl.Implementations()
	glInit, err := glcontext.New(glcontext.Config{
		UseExtended: *opts.UseExtended,
		Diagnostics: diag.Glog{Tag: "cardboard"},
	}, baseline, extended)
	if err != nil {
		return err
	}

	registry := &resources.Registry{}
	caches := glres.NewCaches()
	caches.Register(registry)

	scene := demo.New(caches, "", userShader,
		demo.WithClock(s.gfx.Time),
		demo.WithMouse(s.gfx.GetMouseInput))
	g := stereo.New(scene, glInit, s.display,
		stereo.WithRegistry(registry),
		stereo.WithClock(frame.NewClock(s.gfx.Time)))

	fov := float32(*opts.FOV)
	hostOpts := []host.Option{host.WithConfig(host.Config{
		IPD:      float32(*opts.IPD),
		FOV:      stereo.FieldOfView{Left: fov, Right: fov, Bottom: fov, Top: fov},
		Duration: *opts.Duration,
	})}
	if *opts.MouseLook && s.window != nil {
		hostOpts = append(hostOpts, host.WithTracker(host.MouseLook{
			Input: s.gfx.GetMouseInput,
			Size:  s.gfx.GetFramebufferSize,
		}))
	}
	if s.window != nil {
		s.window.RegisterKeyCallback(glfw.KeyP, func() {
			if g.Running() {
				g.Pause()
			} else {
				g.Resume()
			}
			glog.Infof("stereo: %s", g.State())
		})
	}

	if opts.Recording() {
		rec, recErr := capture.NewRecorder(capture.Settings{
			Width:      *opts.Width,
			Height:     *opts.Height,
			FPS:        *opts.FPS,
			Codec:      *opts.Codec,
			OutputFile: *opts.OutputFile,
			FFmpegPath: *opts.FFmpegPath,
			Hardware:   *opts.HWEncode,
		})
		if recErr != nil {
			return recErr
		}
		defer func() {
			err = errors.Join(err, rec.Close())
		}()
		hostOpts = append(hostOpts, host.WithFrameSink(rec))
	}

	// Shutdown comes from the control goroutine, as on a device.
	go func() {
		<-ctx.Done()
		g.Shutdown()
	}()

	err = host.New(s.gfx, g, s.fb, hostOpts...).Run(ctx)
	g.Shutdown()
	glog.Infof("stereo: %s, %d frames, %d fps", g, g.FrameID()+1, g.FramesPerSecond())
	return err
}

func main() {
	opts := options.Register(flag.CommandLine)
	help := flag.Bool("help", false, "Show help message")
	flag.Parse()
	defer glog.Flush()

	if *help {
		fmt.Println("Cardboard stereo viewer/recorder")
		flag.PrintDefaults()
		return
	}

	if *opts.ConfigFile != "" {
		if err := opts.LoadFile(*opts.ConfigFile, flag.CommandLine); err != nil {
			glog.Exitf("%v", err)
		}
	}
	if err := opts.Validate(); err != nil {
		glog.Exitf("invalid options: %v", err)
	}

	userShader := demo.DefaultShader
	if *opts.ShaderFile != "" {
		src, err := os.ReadFile(*opts.ShaderFile)
		if err != nil {
			glog.Exitf("failed to read shader: %v", err)
		}
		userShader = string(src)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, userShader); err != nil {
		glog.Exitf("%v", err)
	}
	if opts.Recording() {
		glog.Infof("Successfully rendered to %s", *opts.OutputFile)
	}
}
