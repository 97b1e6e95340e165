package media

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kingrea/dumm/internal/model"
)

// ThumbnailOffset is where video thumbnails are sampled.
const ThumbnailOffset = time.Second

// Selection is a decoded local file ready for preview.
type Selection struct {
	Path      string
	Ref       string
	MIMEType  string
	Kind      model.MediaKind
	Thumbnail string
}

// FrameSampler derives a still frame reference from a video.
type FrameSampler interface {
	Sample(ref string, at time.Duration) (string, error)
}

// FragmentSampler addresses the frame with a media fragment, e.g. "#t=1".
type FragmentSampler struct{}

// Sample implements FrameSampler.
func (FragmentSampler) Sample(ref string, at time.Duration) (string, error) {
	return fmt.Sprintf("%s#t=%g", ref, at.Seconds()), nil
}

// DecodeOption customizes Decode.
type DecodeOption func(*decoder)

type decoder struct {
	sampler FrameSampler
}

// WithSampler replaces the fragment sampler.
func WithSampler(s FrameSampler) DecodeOption {
	return func(d *decoder) {
		if s != nil {
			d.sampler = s
		}
	}
}

// Decode opens a local image or video. Images are their own thumbnail;
// videos get one sampled at ThumbnailOffset.
func Decode(path string, opts ...DecodeOption) (Selection, error) {
	d := decoder{sampler: FragmentSampler{}}
	for _, opt := range opts {
		opt(&d)
	}

	f, err := os.Open(path)
	if err != nil {
		return Selection{}, fmt.Errorf("media: open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return Selection{}, fmt.Errorf("media: read %s: %w", path, err)
	}
	mimeType := sniff(path, head[:n])

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sel := Selection{Path: path, Ref: "file://" + filepath.ToSlash(abs), MIMEType: mimeType}
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		sel.Kind = model.MediaImage
		sel.Thumbnail = sel.Ref
	case strings.HasPrefix(mimeType, "video/"):
		sel.Kind = model.MediaVideo
		thumb, err := d.sampler.Sample(sel.Ref, ThumbnailOffset)
		if err != nil {
			return Selection{}, fmt.Errorf("media: thumbnail %s: %w", path, err)
		}
		sel.Thumbnail = thumb
	default:
		return Selection{}, fmt.Errorf("media: %s is %s: %w", path, mimeType, ErrUnsupportedType)
	}
	return sel, nil
}

// sniff prefers the content signature and falls back to the extension when
// the signature is not recognized.
func sniff(path string, head []byte) string {
	detected := http.DetectContentType(head)
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	if strings.HasPrefix(detected, "image/") || strings.HasPrefix(detected, "video/") {
		return detected
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		if i := strings.IndexByte(byExt, ';'); i >= 0 {
			byExt = byExt[:i]
		}
		return byExt
	}
	return detected
}
