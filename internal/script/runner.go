package script

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kingrea/dumm/internal/logbook"
	"github.com/kingrea/dumm/internal/navigator"
	"github.com/kingrea/dumm/internal/playback"
	"github.com/kingrea/dumm/internal/seed"
	"github.com/kingrea/dumm/internal/session"
	"github.com/kingrea/dumm/internal/store"
)

// Runner replays scripts on fresh sessions built from one seed.
type Runner struct {
	seed          *seed.Seed
	logger        *zap.Logger
	journey       *logbook.Logbook
	storyDuration time.Duration
	pageSize      int
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger attaches a structured logger to every session.
func WithLogger(l *zap.Logger) Option { return func(r *Runner) { r.logger = l } }

// WithJourney records the sessions' journeys.
func WithJourney(j *logbook.Logbook) Option { return func(r *Runner) { r.journey = j } }

// WithStoryDuration sets the duration of new stories.
func WithStoryDuration(d time.Duration) Option { return func(r *Runner) { r.storyDuration = d } }

// WithPageSize sets the feed page size.
func WithPageSize(n int) Option { return func(r *Runner) { r.pageSize = n } }

// NewRunner returns a runner over sd.
func NewRunner(sd *seed.Seed, opts ...Option) *Runner {
	r := &Runner{seed: sd, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run is the state of one replay.
type run struct {
	s   *session.Session
	now time.Time
}

func (r *run) clock() time.Time { return r.now }

// Run replays sc and writes the trace to w. It stops at the first failing
// step and returns the session for inspection.
func (r *Runner) Run(sc *Script, w io.Writer) (*session.Session, error) {
	rn := &run{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	rn.s = session.New(r.seed, session.Options{
		CurrentUserID: sc.User,
		Authenticated: sc.StartsAuthenticated(),
		StoryDuration: r.storyDuration,
		PageSize:      r.pageSize,
		Clock:         rn.clock,
		IDs:           store.NewSequenceGenerator(),
		Logger:        r.logger,
		Journey:       r.journey,
	})
	defer rn.s.Shutdown()

	if sc.Name != "" {
		if _, err := fmt.Fprintf(w, "# %s\n", sc.Name); err != nil {
			return rn.s, err
		}
	}
	for i, st := range sc.Steps {
		act, ok := actions[st.Action]
		if !ok {
			return rn.s, fmt.Errorf("step %d: %w %q", i+1, ErrUnknownAction, st.Action)
		}
		note, err := act(rn, st)
		if err != nil {
			return rn.s, fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
		if _, err := io.WriteString(w, traceLine(i+1, st.Action, rn.s.State(), note)); err != nil {
			return rn.s, err
		}
	}
	return rn.s, nil
}

func traceLine(n int, action string, st navigator.State, note string) string {
	line := fmt.Sprintf("%02d %s -> screen=%s profile=%s conv=%s live=%s story=%s modal=%t",
		n, action, st.Screen, dash(st.ProfileID), dash(st.ConversationID),
		dash(st.LivePostID), dash(st.StoryUserID), st.ModalOpen)
	if note != "" {
		line += " [" + note + "]"
	}
	return line + "\n"
}

func dash(id string) string {
	if id == "" {
		return "-"
	}
	return id
}

type action func(*run, Step) (string, error)

var actions = map[string]action{
	"navigate": func(r *run, st Step) (string, error) {
		screen, err := navigator.ParseScreen(st.Arg("screen"))
		if err != nil {
			return "", err
		}
		return refused(r.s.Navigate(screen)), nil
	},
	"open_profile": func(r *run, st Step) (string, error) {
		return refused(r.s.OpenProfile(st.Arg("user"))), nil
	},
	"open_chat": func(r *run, st Step) (string, error) {
		return ignored(r.s.OpenChat(st.Arg("conversation"))), nil
	},
	"open_live": func(r *run, st Step) (string, error) {
		if !r.s.OpenLiveStream(st.Arg("post")) {
			return "missing", nil
		}
		return "", nil
	},
	"back": func(r *run, _ Step) (string, error) {
		r.s.Back()
		return "", nil
	},
	"share_post": func(r *run, st Step) (string, error) {
		post, ok := r.s.SharePost(st.Args["caption"], st.Arg("image"), st.Arg("video"))
		return created("post", post.ID, ok), nil
	},
	"go_live": func(r *run, st Step) (string, error) {
		post, ok := r.s.GoLive(st.Args["caption"])
		if !ok {
			return "refused", nil
		}
		return "post " + post.ID, nil
	},
	"stop_live": func(r *run, _ Step) (string, error) {
		if r.s.StopLive() {
			return "ended", nil
		}
		return "ignored", nil
	},
	"toggle_bookmark": func(r *run, st Step) (string, error) {
		if r.s.ToggleBookmark(st.Arg("post")) {
			return "bookmarked", nil
		}
		return "unbookmarked", nil
	},
	"toggle_like": func(r *run, st Step) (string, error) {
		if r.s.ToggleLike(st.Arg("post")) {
			return "liked", nil
		}
		return "unliked", nil
	},
	"add_comment": func(r *run, st Step) (string, error) {
		c, ok := r.s.Store().AddComment(st.Arg("post"), st.Args["text"])
		return created("comment", c.ID, ok), nil
	},
	"add_reply": func(r *run, st Step) (string, error) {
		c, ok := r.s.Store().AddReply(st.Arg("post"), st.Arg("comment"), st.Args["text"])
		return created("reply", c.ID, ok), nil
	},
	"add_story": func(r *run, _ Step) (string, error) {
		item := r.s.AddStory()
		return "story " + item.ID, nil
	},
	"add_story_comment": func(r *run, st Step) (string, error) {
		c, ok := r.s.Store().AddStoryComment(st.Arg("user"), st.Arg("story"), st.Args["text"])
		return created("comment", c.ID, ok), nil
	},
	"save_profile": func(r *run, st Step) (string, error) {
		u, ok := r.s.Store().CurrentUser()
		if !ok {
			return "ignored", nil
		}
		for key, dst := range map[string]*string{"name": &u.Name, "username": &u.Username, "bio": &u.Bio} {
			if v, set := st.Args[key]; set {
				*dst = v
			}
		}
		return ignored(r.s.SaveProfile(u)), nil
	},
	"send_message": func(r *run, st Step) (string, error) {
		m, ok := r.s.Store().SendMessage(r.s.State().ConversationID, st.Args["text"])
		return created("message", m.ID, ok), nil
	},
	"add_live_comment": func(r *run, st Step) (string, error) {
		c, ok := r.s.Store().AddLiveComment(r.s.State().LivePostID, st.Args["text"])
		return created("comment", c.ID, ok), nil
	},
	"login": func(r *run, _ Step) (string, error) {
		return refused(r.s.Login()), nil
	},
	"signup": func(r *run, _ Step) (string, error) {
		return refused(r.s.SignUp()), nil
	},
	"switch_auth": func(r *run, _ Step) (string, error) {
		r.s.SwitchAuthView()
		return "", nil
	},
	"logout": func(r *run, _ Step) (string, error) {
		return refused(r.s.Logout()), nil
	},
	"open_modal": func(r *run, _ Step) (string, error) {
		r.s.OpenModal()
		return "", nil
	},
	"close_modal": func(r *run, _ Step) (string, error) {
		r.s.CloseModal()
		return "", nil
	},
	"open_story": func(r *run, st Step) (string, error) {
		if !r.s.OpenStory(st.Arg("user")) {
			return "ignored", nil
		}
		return r.storyNote(playback.EventNone), nil
	},
	"close_story": func(r *run, _ Step) (string, error) {
		r.s.CloseStory()
		return "", nil
	},
	"story_next": func(r *run, _ Step) (string, error) {
		return r.storyNote(r.s.StoryNext()), nil
	},
	"story_prev": func(r *run, _ Step) (string, error) {
		return r.storyNote(r.s.StoryPrev()), nil
	},
	"story_tick": func(r *run, st Step) (string, error) {
		d, err := time.ParseDuration(st.Arg("duration"))
		if err != nil {
			return "", fmt.Errorf("duration: %w", err)
		}
		r.now = r.now.Add(d)
		return r.storyNote(r.s.StoryTick(r.s.StoryToken())), nil
	},
}

func (r *run) storyNote(ev playback.Event) string {
	f, ok := r.s.StoryFrame()
	if !ok {
		return ev.String()
	}
	if ev == playback.EventNone {
		return f.Item.ID
	}
	return ev.String() + " " + f.Item.ID
}

func created(kind, id string, ok bool) string {
	if !ok {
		return "ignored"
	}
	return kind + " " + id
}

func ignored(ok bool) string {
	if ok {
		return ""
	}
	return "ignored"
}

func refused(ok bool) string {
	if ok {
		return ""
	}
	return "refused"
}
