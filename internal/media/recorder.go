package media

import (
	"bytes"

	"github.com/google/uuid"
)

// Video is a finalized recording or decoded clip.
type Video struct {
	Ref      string
	MIMEType string
	Data     []byte
}

// Recorder buffers the chunks of one stream and joins them on Stop.
type Recorder struct {
	mimeType string
	stream   Stream
	chunks   [][]byte
}

// NewRecorder returns a recorder producing videos of mimeType.
func NewRecorder(mimeType string) *Recorder {
	if mimeType == "" {
		mimeType = "video/webm"
	}
	return &Recorder{mimeType: mimeType}
}

// Recording reports whether Start has been called without Stop.
func (r *Recorder) Recording() bool { return r.stream != nil }

// Chunks is the number of buffered chunks.
func (r *Recorder) Chunks() int { return len(r.chunks) }

// Start begins a recording of s, dropping anything previously buffered.
func (r *Recorder) Start(s Stream) error {
	if s == nil {
		return ErrReleased
	}
	r.stream = s
	r.chunks = nil
	return nil
}

// Write buffers one chunk. Empty chunks are skipped.
func (r *Recorder) Write(chunk []byte) error {
	if r.stream == nil {
		return ErrNotRecording
	}
	if len(chunk) == 0 {
		return nil
	}
	r.chunks = append(r.chunks, append([]byte(nil), chunk...))
	return nil
}

// Stream is the stream being recorded, or nil when stopped.
func (r *Recorder) Stream() Stream { return r.stream }

// Stop finalizes the buffered chunks into one playable video.
func (r *Recorder) Stop() (Video, error) {
	if r.stream == nil {
		return Video{}, ErrNotRecording
	}
	v := Video{
		Ref:      "blob:" + uuid.NewString(),
		MIMEType: r.mimeType,
		Data:     bytes.Join(r.chunks, nil),
	}
	r.stream = nil
	r.chunks = nil
	return v, nil
}
