// internal/playback/viewer.go
//
// Viewer drives autoplay through every user's story items. Progress is
// measured against a wall clock, so the caller may tick at any rate. Each
// story change, pause, resume and close bumps the generation; ticks carrying
// an older generation are ignored, which cancels the timer of a replaced
// story.

package playback

import (
	"time"

	"github.com/kingrea/dumm/internal/model"
)

// DefaultDuration applies to items seeded without a duration.
const DefaultDuration = 5 * time.Second

// Source resolves story collections and their owners.
type Source interface {
	UserStories() []model.UserStories
	User(id string) (model.User, bool)
}

// Event reports what a Tick or navigation call did.
type Event int

const (
	// EventNone means the current item is still playing.
	EventNone Event = iota
	// EventStale means the tick belonged to a replaced story and was dropped.
	EventStale
	// EventAdvanced means another item is now current.
	EventAdvanced
	// EventClosed means the viewer reached a terminal state.
	EventClosed
)

func (e Event) String() string {
	switch e {
	case EventStale:
		return "stale"
	case EventAdvanced:
		return "advanced"
	case EventClosed:
		return "closed"
	default:
		return "none"
	}
}

// Frame is what the story view draws.
type Frame struct {
	User       model.User
	Item       model.StoryItem
	StoryIndex int
	StoryCount int
	Progress   float64
	Paused     bool
	Muted      bool
}

// Viewer is owned by the story overlay. It is not safe for concurrent use.
type Viewer struct {
	src      Source
	now      func() time.Time
	fallback time.Duration

	userID   string
	index    int
	base     float64
	resumed  time.Time
	paused   bool
	muted    bool
	closed   bool
	gen      uint64
	advances int
}

// Option customizes a Viewer.
type Option func(*Viewer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Viewer) {
		if now != nil {
			v.now = now
		}
	}
}

// WithDefaultDuration sets the duration of items that carry none.
func WithDefaultDuration(d time.Duration) Option {
	return func(v *Viewer) {
		if d > 0 {
			v.fallback = d
		}
	}
}

// Open starts playback at the first item of userID. Videos start muted.
// When the user has nothing to play the viewer is closed and Open reports
// false.
func Open(src Source, userID string, opts ...Option) (*Viewer, bool) {
	v := &Viewer{src: src, now: time.Now, fallback: DefaultDuration, muted: true, userID: userID}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	v.restart()
	if _, ok := v.resolve(); !ok {
		v.closed = true
		return v, false
	}
	return v, true
}

// Generation identifies the current timer. Ticks must carry it back.
func (v *Viewer) Generation() uint64 { return v.gen }

// Closed reports whether the viewer reached a terminal state.
func (v *Viewer) Closed() bool { return v.closed }

// UserID is the user whose story is current.
func (v *Viewer) UserID() string { return v.userID }

// Advances counts automatic advances caused by completed items.
func (v *Viewer) Advances() int { return v.advances }

// Paused reports hold-to-pause state.
func (v *Viewer) Paused() bool { return v.paused }

// Muted reports the audio state of video items.
func (v *Viewer) Muted() bool { return v.muted }

// Current resolves the frame to draw. A story, user or collection that no
// longer resolves closes the viewer.
func (v *Viewer) Current() (Frame, bool) {
	if v.closed {
		return Frame{}, false
	}
	f, ok := v.resolve()
	if !ok {
		v.close()
		return Frame{}, false
	}
	return f, true
}

// Duration is the display duration of the current item.
func (v *Viewer) Duration() time.Duration {
	f, ok := v.resolve()
	if !ok {
		return v.fallback
	}
	return v.itemDuration(f.Item)
}

// Progress is the completed fraction of the current item, in [0,1].
func (v *Viewer) Progress() float64 {
	if v.closed {
		return 0
	}
	if v.paused {
		return v.base
	}
	d := v.Duration()
	p := v.base + float64(v.now().Sub(v.resumed))/float64(d)
	if p > 1 {
		return 1
	}
	if p < v.base {
		return v.base
	}
	return p
}

// Remaining is the display time left on the current item.
func (v *Viewer) Remaining() time.Duration {
	return time.Duration(float64(v.Duration()) * (1 - v.Progress()))
}

// Tick advances when the current item has completed. gen must match
// Generation, otherwise the tick is stale.
func (v *Viewer) Tick(gen uint64) Event {
	if v.closed || gen != v.gen {
		return EventStale
	}
	if v.paused {
		return EventNone
	}
	if _, ok := v.Current(); !ok {
		return EventClosed
	}
	if v.Progress() < 1 {
		return EventNone
	}
	v.advances++
	return v.Next()
}

// Next moves to the following item, then to the next user's first item,
// and closes after the last item of the last user.
func (v *Viewer) Next() Event {
	if v.closed {
		return EventClosed
	}
	all := v.src.UserStories()
	ui := indexOf(all, v.userID)
	if ui < 0 {
		v.close()
		return EventClosed
	}
	switch {
	case v.index < len(all[ui].Stories)-1:
		v.index++
	case ui < len(all)-1:
		v.userID = all[ui+1].UserID
		v.index = 0
	default:
		v.close()
		return EventClosed
	}
	v.restart()
	if _, ok := v.Current(); !ok {
		return EventClosed
	}
	return EventAdvanced
}

// Prev moves to the previous item, or to the previous user's last item.
// It does nothing at the first item of the first user.
func (v *Viewer) Prev() Event {
	if v.closed {
		return EventClosed
	}
	all := v.src.UserStories()
	ui := indexOf(all, v.userID)
	if ui < 0 {
		v.close()
		return EventClosed
	}
	switch {
	case v.index > 0:
		v.index--
	case ui > 0:
		prev := all[ui-1]
		v.userID = prev.UserID
		v.index = len(prev.Stories) - 1
	default:
		return EventNone
	}
	v.restart()
	if _, ok := v.Current(); !ok {
		return EventClosed
	}
	return EventAdvanced
}

// Press pauses playback while the viewer is held. The fraction reached is
// kept, so Release resumes with duration*(1-progress) left.
func (v *Viewer) Press() {
	if v.closed || v.paused {
		return
	}
	v.base = v.Progress()
	v.paused = true
	v.gen++
}

// Release resumes playback after Press.
func (v *Viewer) Release() {
	if v.closed || !v.paused {
		return
	}
	v.paused = false
	v.resumed = v.now()
	v.gen++
}

// Tap navigates by thirds of width: left goes back, right goes forward,
// the middle does nothing. A tap while paused only resumes.
func (v *Viewer) Tap(x, width int) Event {
	if v.closed {
		return EventClosed
	}
	if v.paused {
		v.Release()
		return EventNone
	}
	if width <= 0 {
		return EventNone
	}
	switch third := x * 3 / width; {
	case third <= 0:
		return v.Prev()
	case third >= 2:
		return v.Next()
	default:
		return EventNone
	}
}

// ToggleMute flips the audio state. Only video items are affected.
func (v *Viewer) ToggleMute() bool {
	f, ok := v.Current()
	if !ok || f.Item.Kind != model.MediaVideo {
		return false
	}
	v.muted = !v.muted
	return true
}

// LoopVideo reports whether a video whose playable length is intrinsic has
// to loop to fill the current item's display duration.
func (v *Viewer) LoopVideo(intrinsic time.Duration) bool {
	f, ok := v.resolve()
	if !ok || f.Item.Kind != model.MediaVideo {
		return false
	}
	return intrinsic > 0 && intrinsic < v.itemDuration(f.Item)
}

// Close ends playback.
func (v *Viewer) Close() { v.close() }

func (v *Viewer) close() {
	if v.closed {
		return
	}
	v.closed = true
	v.gen++
}

func (v *Viewer) restart() {
	v.base = 0
	v.paused = false
	v.resumed = v.now()
	v.gen++
}

func (v *Viewer) resolve() (Frame, bool) {
	if v.src == nil {
		return Frame{}, false
	}
	all := v.src.UserStories()
	ui := indexOf(all, v.userID)
	if ui < 0 {
		return Frame{}, false
	}
	items := all[ui].Stories
	if v.index < 0 || v.index >= len(items) {
		return Frame{}, false
	}
	user, ok := v.src.User(v.userID)
	if !ok {
		return Frame{}, false
	}
	item := items[v.index]
	f := Frame{
		User:       user,
		Item:       item,
		StoryIndex: v.index,
		StoryCount: len(items),
		Paused:     v.paused,
		Muted:      v.muted,
	}
	if v.paused {
		f.Progress = v.base
	} else {
		p := v.base + float64(v.now().Sub(v.resumed))/float64(v.itemDuration(item))
		if p > 1 {
			p = 1
		}
		f.Progress = p
	}
	return f, true
}

func (v *Viewer) itemDuration(item model.StoryItem) time.Duration {
	if item.Duration > 0 {
		return item.Duration
	}
	return v.fallback
}

func indexOf(all []model.UserStories, userID string) int {
	for i := range all {
		if all[i].UserID == userID {
			return i
		}
	}
	return -1
}
