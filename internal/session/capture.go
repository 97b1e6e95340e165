package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/dumm/internal/media"
	"github.com/kingrea/dumm/internal/model"
	"github.com/kingrea/dumm/internal/navigator"
)

// CameraConstraints is what the capture screens request.
var CameraConstraints = media.Constraints{Video: true, Audio: true, FacingMode: "user"}

// Draft is the unsaved state of the Upload screen.
type Draft struct {
	Selection *media.Selection
	Recorded  *media.Video
	Caption   string
	recorder  *media.Recorder
}

// Kind is the media kind of the draft, if any.
func (d Draft) Kind() model.MediaKind {
	switch {
	case d.Recorded != nil:
		return model.MediaVideo
	case d.Selection != nil:
		return d.Selection.Kind
	default:
		return ""
	}
}

// Thumbnail is the still shown in the preview. Sharing needs one.
func (d Draft) Thumbnail() string {
	switch {
	case d.Selection != nil:
		return d.Selection.Thumbnail
	case d.Recorded != nil:
		return d.Recorded.Ref + "#t=1"
	default:
		return ""
	}
}

// Recording reports whether the recorder is running.
func (d Draft) Recording() bool { return d.recorder != nil && d.recorder.Recording() }

// OwnsCamera reports whether screen holds the camera while shown.
func OwnsCamera(screen navigator.Screen) bool {
	return screen == navigator.GoLive || screen == navigator.Upload
}

// AcquireCamera requests the camera for the current capture screen. It
// blocks on the device, so the UI calls it from a command and hands the
// result to AttachCamera.
func (s *Session) AcquireCamera(ctx context.Context, dev media.Device) (*media.Scoped, error) {
	return media.AcquireScoped(ctx, dev, CameraConstraints, s.logger.Named("media"))
}

// AttachCamera adopts an acquisition result. Failures become the inline
// status; a stream arriving after the user left the screen is released.
func (s *Session) AttachCamera(scoped *media.Scoped, err error) {
	if err != nil {
		s.status = media.Describe(err)
		s.journey.Warn("camera: %v", err)
		return
	}
	if !OwnsCamera(s.nav.Screen()) {
		_ = scoped.Release()
		return
	}
	s.ReleaseCamera()
	s.camera = scoped
}

// Camera is the held stream, or nil while there is no preview.
func (s *Session) Camera() *media.Scoped {
	if s.camera == nil || !s.camera.Active() {
		return nil
	}
	return s.camera
}

// ReleaseCamera closes the held stream and stops any recording.
func (s *Session) ReleaseCamera() {
	if s.draft.recorder != nil && s.draft.recorder.Recording() {
		s.draft.recorder = nil
	}
	if s.camera == nil {
		return
	}
	if err := s.camera.Release(); err != nil {
		s.logger.Warn("camera release failed", zap.Error(err))
	}
	s.camera = nil
}

// Shutdown releases every device handle. The program calls it on exit.
func (s *Session) Shutdown() {
	s.ReleaseCamera()
	s.closeViewer()
}

// Draft is the current Upload state.
func (s *Session) Draft() Draft { return s.draft }

// SetCaption edits the draft caption.
func (s *Session) SetCaption(caption string) { s.draft.Caption = caption }

// SelectFile decodes a local file into the draft. Unsupported or unreadable
// files leave the draft as it was.
func (s *Session) SelectFile(path string) error {
	sel, err := media.Decode(strings.TrimSpace(path))
	if err != nil {
		s.status = "Choose an image or video file."
		s.logger.Debug("file rejected", zap.String("path", path), zap.Error(err))
		return err
	}
	s.draft.Selection = &sel
	s.draft.Recorded = nil
	s.status = ""
	return nil
}

// StartRecording records the held camera stream into the draft.
func (s *Session) StartRecording() error {
	cam := s.Camera()
	if cam == nil {
		return media.ErrReleased
	}
	rec := media.NewRecorder("video/webm")
	if err := rec.Start(cam.Stream()); err != nil {
		return err
	}
	s.draft.recorder = rec
	return nil
}

// RecordingStream is the stream the draft is recording, or nil. Reading
// it may block; the caller hands each chunk to RecordChunk.
func (s *Session) RecordingStream() media.Stream {
	if s.draft.recorder == nil {
		return nil
	}
	return s.draft.recorder.Stream()
}

// RecordChunk appends one chunk to the running recording.
func (s *Session) RecordChunk(chunk []byte) error {
	if s.draft.recorder == nil {
		return media.ErrNotRecording
	}
	return s.draft.recorder.Write(chunk)
}

// StopRecording finalizes the recording as the draft's video.
func (s *Session) StopRecording() (media.Video, error) {
	if s.draft.recorder == nil {
		return media.Video{}, media.ErrNotRecording
	}
	v, err := s.draft.recorder.Stop()
	s.draft.recorder = nil
	if err != nil {
		return media.Video{}, err
	}
	s.draft.Recorded = &v
	s.draft.Selection = nil
	return v, nil
}

// CanShare reports whether the draft has a thumbnail to post.
func (s *Session) CanShare() bool { return s.draft.Thumbnail() != "" }

// Dirty reports whether leaving Upload would lose work.
func (s *Session) Dirty() bool {
	return s.draft.Selection != nil || s.draft.Recorded != nil || strings.TrimSpace(s.draft.Caption) != ""
}

// ShareDraft posts the draft. Video drafts carry both the thumbnail and
// the clip reference.
func (s *Session) ShareDraft() (model.Post, bool) {
	if !s.CanShare() {
		return model.Post{}, false
	}
	d := s.draft
	video := ""
	switch {
	case d.Recorded != nil:
		video = d.Recorded.Ref
	case d.Selection != nil && d.Selection.Kind == model.MediaVideo:
		video = d.Selection.Ref
	}
	return s.SharePost(d.Caption, d.Thumbnail(), video)
}

// DiscardDraft drops the draft and leaves Upload.
func (s *Session) DiscardDraft() {
	s.draft = Draft{}
	s.Back()
}
