// Package media holds the device collaborators of the capture flows: camera
// and microphone acquisition, chunked recording and local file decoding.
package media

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrPermissionDenied is returned when the user refuses device access.
	ErrPermissionDenied = errors.New("media: permission denied")
	// ErrDeviceUnavailable is returned when no capture device exists.
	ErrDeviceUnavailable = errors.New("media: device unavailable")
	// ErrUnsupportedType is returned for files that are neither image nor video.
	ErrUnsupportedType = errors.New("media: unsupported type")
	// ErrNotRecording is returned by Recorder calls made outside Start/Stop.
	ErrNotRecording = errors.New("media: recorder not started")
	// ErrReleased is returned by a Scoped stream after Release.
	ErrReleased = errors.New("media: stream released")
)

// Constraints select what a capture stream carries.
type Constraints struct {
	Video      bool
	Audio      bool
	FacingMode string
}

// Stream is an active capture handle.
type Stream interface {
	ID() string
	// Next blocks until the next encoded chunk is available.
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// Device grants capture streams.
type Device interface {
	Acquire(ctx context.Context, c Constraints) (Stream, error)
}

// UnavailableDevice is the device of a terminal without a camera.
type UnavailableDevice struct{}

// Acquire implements Device.
func (UnavailableDevice) Acquire(context.Context, Constraints) (Stream, error) {
	return nil, ErrDeviceUnavailable
}

// Scoped owns one acquired stream and guarantees it is closed exactly once,
// whichever exit path reaches Release first.
type Scoped struct {
	mu       sync.Mutex
	stream   Stream
	released bool
	logger   *zap.Logger
}

// AcquireScoped requests a stream from dev. Failures are logged at warn and
// returned unchanged so callers can match them with errors.Is.
func AcquireScoped(ctx context.Context, dev Device, c Constraints, logger *zap.Logger) (*Scoped, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dev == nil {
		dev = UnavailableDevice{}
	}
	s, err := dev.Acquire(ctx, c)
	if err != nil {
		logger.Warn("media access failed",
			zap.Bool("video", c.Video),
			zap.Bool("audio", c.Audio),
			zap.Error(err))
		return nil, err
	}
	logger.Info("media stream acquired", zap.String("stream_id", s.ID()))
	return &Scoped{stream: s, logger: logger}, nil
}

// Stream returns the live handle, or nil once released.
func (s *Scoped) Stream() Stream {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	return s.stream
}

// Active reports whether the stream is still held.
func (s *Scoped) Active() bool { return s.Stream() != nil }

// Release closes the stream. Later calls do nothing.
func (s *Scoped) Release() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	s.released = true
	s.logger.Info("media stream released", zap.String("stream_id", s.stream.ID()))
	return s.stream.Close()
}

// Describe turns an acquisition error into the inline message shown in
// place of a preview.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return "Camera and microphone access was denied."
	case errors.Is(err, ErrDeviceUnavailable):
		return "No camera or microphone is available."
	default:
		return "Could not access camera and microphone."
	}
}
