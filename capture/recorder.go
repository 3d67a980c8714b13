package capture

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const numBuffers = 4

// ErrFrameSize is returned for frames whose size differs from the
// recording's. Raw video streams cannot change size.
var ErrFrameSize = errors.New("capture: frame size changed during recording")

// Recorder is a frame sink writing to ffmpeg. Frames are read on the
// rendering goroutine and encoded on a separate one.
type Recorder struct {
	settings Settings
	read     ReadFunc
	frames   chan []byte
	done     chan error
	written  int
	closed   bool

	mu  sync.Mutex
	err error
}

// NewRecorder starts ffmpeg for s. Frames are read with ReadPixels.
func NewRecorder(s Settings) (*Recorder, error) {
	inputArgs, outputArgs := Args(s)
	run := func(in io.Reader) error {
		cmd := ffmpeg.Input("pipe:", inputArgs).
			Output(s.OutputFile, outputArgs).
			OverWriteOutput().WithInput(in).ErrorToStdOut()
		if s.FFmpegPath != "" {
			cmd = cmd.SetFfmpegPath(s.FFmpegPath)
		}
		return cmd.Run()
	}
	glog.Infof("capture: recording %dx%d@%d to %s with %s", s.Width, s.Height, s.FPS, s.OutputFile, outputArgs["c:v"])
	return start(s, ReadPixels, run)
}

func start(s Settings, read ReadFunc, run func(io.Reader) error) (*Recorder, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	pr, pw := io.Pipe()
	r := &Recorder{
		settings: s,
		read:     read,
		frames:   make(chan []byte, numBuffers),
		done:     make(chan error, 1),
	}

	errc := make(chan error, 1)
	go func() {
		err := run(pr)
		// Unblock the encoder if ffmpeg stopped reading.
		pr.CloseWithError(err)
		errc <- err
	}()
	go r.encode(pw, errc)
	return r, nil
}

func (r *Recorder) encode(pw *io.PipeWriter, errc <-chan error) {
	var writeErr error
	for frame := range r.frames {
		if writeErr != nil {
			continue
		}
		if _, err := pw.Write(frame); err != nil {
			writeErr = err
			r.fail(fmt.Errorf("capture: writing to ffmpeg: %w", err))
		}
	}
	pw.Close()

	if runErr := <-errc; runErr != nil {
		r.done <- fmt.Errorf("capture: ffmpeg: %w", runErr)
		return
	}
	if writeErr != nil {
		r.done <- fmt.Errorf("capture: writing to ffmpeg: %w", writeErr)
		return
	}
	r.done <- nil
}

func (r *Recorder) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		glog.Error(err)
		r.err = err
	}
}

func (r *Recorder) failure() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// WriteFrame reads the finished frame and queues it for encoding.
func (r *Recorder) WriteFrame(width, height int) error {
	if r.closed {
		return fmt.Errorf("capture: recorder closed")
	}
	if err := r.failure(); err != nil {
		return err
	}
	if width != r.settings.Width || height != r.settings.Height {
		return fmt.Errorf("%w: got %dx%d, recording %dx%d", ErrFrameSize, width, height, r.settings.Width, r.settings.Height)
	}
	buf := make([]byte, r.settings.FrameSize())
	r.read(width, height, buf)
	r.frames <- buf
	r.written++
	return nil
}

// Frames is the number of frames queued so far.
func (r *Recorder) Frames() int { return r.written }

// Close flushes queued frames and waits for ffmpeg to exit.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.frames)
	err := <-r.done
	if err == nil {
		glog.Infof("capture: wrote %d frames to %s", r.written, r.settings.OutputFile)
	}
	return err
}
