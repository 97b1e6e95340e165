// internal/tui/app.go
//
// This is the main TUI for dumm. It uses bubbletea, which follows The Elm
// Architecture:
//
// 1. Model: the App below, a thin shell around session.Session
// 2. Update: key, mouse and timer messages become session operations
// 3. View: renders the current screen from session reads
//
// All application state lives in the session. The App only keeps what is
// purely presentational: cursors, the open prompt and confirmation dialogs.

package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kingrea/dumm/internal/logbook"
	"github.com/kingrea/dumm/internal/media"
	"github.com/kingrea/dumm/internal/model"
	"github.com/kingrea/dumm/internal/navigator"
	"github.com/kingrea/dumm/internal/playback"
	"github.com/kingrea/dumm/internal/session"
)

const (
	defaultTickInterval = 50 * time.Millisecond
	recordInterval      = 200 * time.Millisecond
	cameraTimeout       = 5 * time.Second
	holdThreshold       = 250 * time.Millisecond
	logPanelLines       = 6
)

// promptKind says what the open text prompt feeds.
type promptKind int

const (
	promptNone promptKind = iota
	promptComment
	promptReply
	promptMessage
	promptLiveComment
	promptStoryComment
	promptSearch
	promptCaption
	promptFile
	promptName
	promptUsername
	promptBio
)

var promptLabels = map[promptKind]string{
	promptComment:      "Add a comment",
	promptReply:        "Reply",
	promptMessage:      "Message",
	promptLiveComment:  "Comment",
	promptStoryComment: "Send message",
	promptSearch:       "Search",
	promptCaption:      "Caption",
	promptFile:         "File path",
	promptName:         "Name",
	promptUsername:     "Username",
	promptBio:          "Bio",
}

// confirmKind is an open yes/no dialog.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDiscard
	confirmStopLive
)

type profileTab int

const (
	tabPosts profileTab = iota
	tabSaved
)

type storyTickMsg struct {
	token session.StoryToken
}

type cameraMsg struct {
	scoped *media.Scoped
	err    error
}

type recordTickMsg struct{}

type chunkMsg struct {
	data []byte
	err  error
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithLogbook shows the journey log tail under the screen.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) { a.logbook = lb }
}

// WithTickInterval sets how often story progress is redrawn.
func WithTickInterval(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.tickInterval = d
		}
	}
}

// WithDevice overrides the camera device. The terminal has none by default.
func WithDevice(dev media.Device) AppOption {
	return func(a *App) {
		if dev != nil {
			a.device = dev
		}
	}
}

// WithClock overrides the clock used to tell a tap from a hold.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// App is the main application model.
type App struct {
	session *session.Session
	logger  *zap.Logger
	logbook *logbook.Logbook
	device  media.Device
	now     func() time.Time

	keys         keyMap
	help         help.Model
	inbox        list.Model
	settingsMenu list.Model
	prompt       textinput.Model
	promptKind   promptKind
	confirm      confirmKind

	tickInterval time.Duration
	ticking      session.StoryToken
	recording    bool

	pressing bool
	pressX   int
	pressAt  time.Time

	feedCursor     int
	trayCursor     int
	discoverCursor int
	query          string
	profileTab     profileTab
	profileDraft   model.User
	liveCaption    string

	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item for the settings menu.
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// inboxItem implements list.Item for a conversation.
type inboxItem struct {
	entry session.InboxEntry
}

func (i inboxItem) Title() string {
	title := i.entry.Peer.Username
	if n := i.entry.Conversation.UnreadCount; n > 0 {
		title += fmt.Sprintf(" (%d)", n)
	}
	return title
}

func (i inboxItem) Description() string {
	c := i.entry.Conversation
	return fmt.Sprintf("%s · %s", c.LastMessage, c.Timestamp)
}

func (i inboxItem) FilterValue() string { return i.entry.Peer.Username }

const (
	settingsEditProfile = "Edit Profile"
	settingsLogOut      = "Log Out"
)

// NewApp creates the model for one session.
func NewApp(s *session.Session, opts ...AppOption) *App {
	inbox := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	inbox.Title = "Messages"
	inbox.SetShowStatusBar(false)
	inbox.SetFilteringEnabled(false)
	inbox.SetShowHelp(false)

	settingsMenu := list.New([]list.Item{
		menuItem{title: settingsEditProfile, desc: "Change your name, username and bio"},
		menuItem{title: settingsLogOut, desc: "Return to the login screen"},
	}, list.NewDefaultDelegate(), 0, 0)
	settingsMenu.Title = "Settings"
	settingsMenu.SetShowStatusBar(false)
	settingsMenu.SetFilteringEnabled(false)
	settingsMenu.SetShowHelp(false)

	prompt := textinput.New()
	prompt.CharLimit = 280

	app := &App{
		session:      s,
		logger:       zap.NewNop(),
		device:       media.UnavailableDevice{},
		now:          time.Now,
		keys:         defaultKeyMap(),
		help:         help.New(),
		inbox:        inbox,
		settingsMenu: settingsMenu,
		prompt:       prompt,
		tickInterval: defaultTickInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.resize(80, 32)
	app.refreshInbox()
	return app
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.enterScreen(a.session.Screen())
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := a.session.Screen()
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case storyTickMsg:
		a.handleStoryTick(msg)

	case cameraMsg:
		a.session.AttachCamera(msg.scoped, msg.err)
		if msg.err != nil {
			a.logger.Debug("camera unavailable", zap.Error(msg.err))
		}

	case recordTickMsg:
		cmds = append(cmds, a.captureChunk())

	case chunkMsg:
		cmds = append(cmds, a.storeChunk(msg))

	case tea.MouseMsg:
		a.handleMouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		cmds = append(cmds, a.handleKey(msg))

	default:
		if a.promptKind != promptNone {
			var cmd tea.Cmd
			a.prompt, cmd = a.prompt.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if after := a.session.Screen(); after != before {
		cmds = append(cmds, a.enterScreen(after))
	}
	cmds = append(cmds, a.scheduleStoryTick())
	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.inbox.SetSize(max(20, width-6), max(5, height-12))
	a.settingsMenu.SetSize(max(20, width-6), max(5, height-12))
	a.help.Width = width
}

// enterScreen resets presentation state for a freshly shown screen.
func (a *App) enterScreen(screen navigator.Screen) tea.Cmd {
	a.closePrompt()
	a.confirm = confirmNone
	a.recording = false
	switch screen {
	case navigator.Feed:
		a.feedCursor = 0
	case navigator.Discover:
		a.discoverCursor = 0
	case navigator.Profile:
		a.profileTab = tabPosts
	case navigator.Messages:
		a.refreshInbox()
	case navigator.EditProfile:
		if u, ok := a.session.ProfileUser(); ok {
			a.profileDraft = u
		}
	case navigator.GoLive:
		a.liveCaption = ""
	}
	if session.OwnsCamera(screen) {
		return a.acquireCamera()
	}
	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	a.statusMsg = ""
	st := a.session.State()
	switch {
	case a.promptKind != promptNone:
		return a.handlePromptKey(msg)
	case a.confirm != confirmNone:
		a.handleConfirmKey(msg)
		return nil
	case st.StoryOpen():
		return a.handleStoryKey(msg)
	case st.ModalOpen:
		a.handleModalKey(msg)
		return nil
	case st.Screen.IsAuth():
		return a.handleAuthKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit) && st.Screen == navigator.Feed:
		return tea.Quit
	case key.Matches(msg, a.keys.Back):
		a.back()
		return nil
	}
	if a.session.ShowNavBar() {
		switch {
		case key.Matches(msg, a.keys.Feed):
			a.session.Navigate(navigator.Feed)
			return nil
		case key.Matches(msg, a.keys.Discover):
			a.session.Navigate(navigator.Discover)
			return nil
		case key.Matches(msg, a.keys.Create):
			a.session.OpenModal()
			return nil
		case key.Matches(msg, a.keys.Reels):
			a.session.Navigate(navigator.Reels)
			return nil
		case key.Matches(msg, a.keys.Profile):
			a.session.OpenMyProfile()
			return nil
		}
	}

	switch st.Screen {
	case navigator.Feed:
		return a.handleFeedKey(msg)
	case navigator.Profile:
		a.handleProfileKey(msg)
	case navigator.EditProfile:
		return a.handleEditProfileKey(msg)
	case navigator.Settings:
		return a.handleSettingsKey(msg)
	case navigator.Messages:
		return a.handleMessagesKey(msg)
	case navigator.Chat:
		if key.Matches(msg, a.keys.Comment) {
			return a.openPrompt(promptMessage, "")
		}
	case navigator.Discover:
		return a.handleDiscoverKey(msg)
	case navigator.Reels:
		a.handleReelsKey(msg)
	case navigator.Upload:
		return a.handleUploadKey(msg)
	case navigator.GoLive:
		return a.handleGoLiveKey(msg)
	case navigator.LiveStream:
		return a.handleLiveKey(msg)
	}
	return nil
}

// back leaves the current screen, asking first when Upload holds work.
func (a *App) back() {
	if a.session.Screen() == navigator.Upload && a.session.Dirty() {
		a.confirm = confirmDiscard
		return
	}
	a.session.Back()
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		kind := a.confirm
		a.confirm = confirmNone
		switch kind {
		case confirmDiscard:
			a.session.DiscardDraft()
		case confirmStopLive:
			if !a.session.StopLive() {
				a.statusMsg = "Only the host can end a live video."
			}
		}
	case key.Matches(msg, a.keys.Cancel):
		a.confirm = confirmNone
	}
}

func (a *App) handleModalKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, a.keys.ChoosePost):
		a.session.Choose(session.ChoosePost)
	case key.Matches(msg, a.keys.ChooseLive):
		a.session.Choose(session.ChooseLive)
	case key.Matches(msg, a.keys.Back):
		a.session.CloseModal()
	}
}

func (a *App) handleAuthKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Tab):
		a.session.SwitchAuthView()
	case key.Matches(msg, a.keys.Enter):
		if a.session.Screen() == navigator.SignUp {
			a.session.SignUp()
		} else {
			a.session.Login()
		}
	}
	return nil
}

func (a *App) handleFeedKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Messages):
		a.session.Navigate(navigator.Messages)
	case key.Matches(msg, a.keys.Activity):
		a.session.Navigate(navigator.Notifications)
	case key.Matches(msg, a.keys.Up):
		if a.feedCursor > 0 {
			a.feedCursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.feedCursor < len(a.session.Feed())-1 {
			a.feedCursor++
		} else if a.session.LoadMore() {
			a.feedCursor++
		}
	case key.Matches(msg, a.keys.Tab):
		if tray := a.session.Store().Tray(); len(tray) > 0 {
			a.trayCursor = (a.trayCursor + 1) % len(tray)
		}
	case key.Matches(msg, a.keys.Story):
		tray := a.session.Store().Tray()
		if len(tray) == 0 {
			return nil
		}
		if !a.session.OpenStory(tray[a.trayCursor%len(tray)].UserID) {
			a.statusMsg = "No story to show."
		}
	case key.Matches(msg, a.keys.AddStory):
		a.session.AddStory()
	default:
		if post, ok := a.selectedPost(); ok {
			return a.handlePostKey(msg, post)
		}
	}
	return nil
}

// handlePostKey applies post actions shared by Feed and Discover.
func (a *App) handlePostKey(msg tea.KeyMsg, post model.Post) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Like):
		a.session.ToggleLike(post.ID)
	case key.Matches(msg, a.keys.Bookmark):
		if a.session.ToggleBookmark(post.ID) {
			a.statusMsg = "Saved."
		} else {
			a.statusMsg = "Removed from saved."
		}
	case key.Matches(msg, a.keys.Comment):
		return a.openPrompt(promptComment, "")
	case key.Matches(msg, a.keys.Reply):
		if len(post.Comments) == 0 {
			a.statusMsg = "No comments to reply to."
			return nil
		}
		return a.openPrompt(promptReply, "")
	case key.Matches(msg, a.keys.Enter):
		if post.IsLive {
			a.session.OpenLiveStream(post.ID)
		} else {
			a.session.OpenProfile(post.UserID)
		}
	}
	return nil
}

func (a *App) handleProfileKey(msg tea.KeyMsg) {
	if !a.session.IsOwnProfile() {
		return
	}
	switch {
	case key.Matches(msg, a.keys.Tab):
		if a.profileTab == tabPosts {
			a.profileTab = tabSaved
		} else {
			a.profileTab = tabPosts
		}
	case key.Matches(msg, a.keys.Edit):
		a.session.Navigate(navigator.EditProfile)
	case key.Matches(msg, a.keys.Settings):
		a.session.Navigate(navigator.Settings)
	}
}

func (a *App) handleEditProfileKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Name):
		return a.openPrompt(promptName, a.profileDraft.Name)
	case key.Matches(msg, a.keys.Username):
		return a.openPrompt(promptUsername, a.profileDraft.Username)
	case key.Matches(msg, a.keys.Bio):
		return a.openPrompt(promptBio, a.profileDraft.Bio)
	case key.Matches(msg, a.keys.Enter):
		if !a.session.SaveProfile(a.profileDraft) {
			a.statusMsg = "Profile could not be saved."
		}
	}
	return nil
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Enter) {
		item, ok := a.settingsMenu.SelectedItem().(menuItem)
		if !ok {
			return nil
		}
		switch item.title {
		case settingsEditProfile:
			a.session.Navigate(navigator.EditProfile)
		case settingsLogOut:
			a.logbook.Info("Logged out")
			a.session.Logout()
		}
		return nil
	}
	var cmd tea.Cmd
	a.settingsMenu, cmd = a.settingsMenu.Update(msg)
	return cmd
}

func (a *App) handleMessagesKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Enter) {
		item, ok := a.inbox.SelectedItem().(inboxItem)
		if ok {
			a.session.OpenChat(item.entry.Conversation.ID)
		}
		return nil
	}
	var cmd tea.Cmd
	a.inbox, cmd = a.inbox.Update(msg)
	return cmd
}

func (a *App) handleDiscoverKey(msg tea.KeyMsg) tea.Cmd {
	results := a.session.Store().Search(a.query)
	switch {
	case key.Matches(msg, a.keys.Search):
		return a.openPrompt(promptSearch, a.query)
	case key.Matches(msg, a.keys.Up):
		if a.discoverCursor > 0 {
			a.discoverCursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.discoverCursor < len(results)-1 {
			a.discoverCursor++
		}
	default:
		if post, ok := a.selectedPost(); ok {
			return a.handlePostKey(msg, post)
		}
	}
	return nil
}

func (a *App) handleReelsKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.session.PrevReel()
	case key.Matches(msg, a.keys.Down):
		a.session.NextReel()
	case key.Matches(msg, a.keys.Pause):
		a.session.ToggleReelPlay()
	case key.Matches(msg, a.keys.Like):
		if r, _, ok := a.session.ActiveReel(); ok {
			a.session.ToggleReelLike(r.ID)
		}
	}
}

func (a *App) handleUploadKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.File):
		return a.openPrompt(promptFile, "")
	case key.Matches(msg, a.keys.Caption):
		return a.openPrompt(promptCaption, a.session.Draft().Caption)
	case key.Matches(msg, a.keys.Record):
		return a.toggleRecording()
	case key.Matches(msg, a.keys.Enter):
		if a.session.Draft().Recording() {
			a.statusMsg = "Stop recording first."
			return nil
		}
		if _, ok := a.session.ShareDraft(); !ok {
			a.statusMsg = "Add a photo or video first."
		}
	}
	return nil
}

func (a *App) handleGoLiveKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Caption):
		return a.openPrompt(promptCaption, a.liveCaption)
	case key.Matches(msg, a.keys.Enter):
		a.session.GoLive(a.liveCaption)
	}
	return nil
}

func (a *App) handleLiveKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Comment):
		return a.openPrompt(promptLiveComment, "")
	case key.Matches(msg, a.keys.Stop):
		if a.session.IsHost() {
			a.confirm = confirmStopLive
		}
	}
	return nil
}

func (a *App) handleStoryKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.session.CloseStory()
	case key.Matches(msg, a.keys.Right):
		a.session.StoryNext()
	case key.Matches(msg, a.keys.Left):
		a.session.StoryPrev()
	case key.Matches(msg, a.keys.Pause):
		if v := a.session.Viewer(); v != nil && v.Paused() {
			a.session.StoryRelease()
		} else {
			a.session.StoryPress()
		}
	case key.Matches(msg, a.keys.Mute):
		a.session.StoryToggleMute()
	case key.Matches(msg, a.keys.Comment):
		a.session.StoryPress()
		return a.openPrompt(promptStoryComment, "")
	}
	return nil
}

// handleMouse maps pointer input on the story overlay: holding pauses,
// a short click taps by thirds of the width.
func (a *App) handleMouse(msg tea.MouseMsg) {
	if !a.session.State().StoryOpen() {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		a.pressing = true
		a.pressX = msg.X
		a.pressAt = a.now()
		a.session.StoryPress()
	case tea.MouseActionRelease:
		if !a.pressing {
			return
		}
		a.pressing = false
		a.session.StoryRelease()
		if a.now().Sub(a.pressAt) < holdThreshold {
			a.session.StoryTap(a.pressX, a.width)
		}
	}
}

func (a *App) openPrompt(kind promptKind, value string) tea.Cmd {
	a.promptKind = kind
	a.prompt.Reset()
	a.prompt.Prompt = promptLabels[kind] + ": "
	a.prompt.SetValue(value)
	a.prompt.CursorEnd()
	return a.prompt.Focus()
}

func (a *App) closePrompt() {
	if a.promptKind == promptStoryComment {
		a.session.StoryRelease()
	}
	a.promptKind = promptNone
	a.prompt.Blur()
	a.prompt.Reset()
}

func (a *App) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		a.closePrompt()
		return nil
	case tea.KeyEnter:
		kind, value := a.promptKind, a.prompt.Value()
		a.closePrompt()
		a.submit(kind, value)
		return nil
	}
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return cmd
}

// submit applies the value of a closed prompt.
func (a *App) submit(kind promptKind, value string) {
	switch kind {
	case promptComment:
		if post, ok := a.selectedPost(); ok && !a.session.AddComment(post.ID, value) {
			a.statusMsg = "Write something first."
		}
	case promptReply:
		post, ok := a.selectedPost()
		if !ok || len(post.Comments) == 0 {
			return
		}
		parent := post.Comments[len(post.Comments)-1]
		if !a.session.AddReply(post.ID, parent.ID, value) {
			a.statusMsg = "Write something first."
		}
	case promptMessage:
		a.session.SendMessage(value)
	case promptLiveComment:
		a.session.AddLiveComment(value)
	case promptStoryComment:
		if a.session.CommentOnCurrentStory(value) {
			a.statusMsg = "Sent."
		}
	case promptSearch:
		a.query = strings.TrimSpace(value)
		a.discoverCursor = 0
	case promptCaption:
		if a.session.Screen() == navigator.GoLive {
			a.liveCaption = value
		} else {
			a.session.SetCaption(value)
		}
	case promptFile:
		_ = a.session.SelectFile(value)
	case promptName:
		a.profileDraft.Name = value
	case promptUsername:
		a.profileDraft.Username = strings.TrimSpace(value)
	case promptBio:
		a.profileDraft.Bio = value
	}
}

// selectedPost is the post under the cursor on Feed or Discover.
func (a *App) selectedPost() (model.Post, bool) {
	var posts []model.Post
	cursor := 0
	switch a.session.Screen() {
	case navigator.Feed:
		posts, cursor = a.session.Feed(), a.feedCursor
	case navigator.Discover:
		posts, cursor = a.session.Store().Search(a.query), a.discoverCursor
	default:
		return model.Post{}, false
	}
	if len(posts) == 0 {
		return model.Post{}, false
	}
	return posts[min(cursor, len(posts)-1)], true
}

func (a *App) refreshInbox() {
	entries := a.session.Inbox()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = inboxItem{entry: e}
	}
	a.inbox.SetItems(items)
}

// scheduleStoryTick starts a tick chain for the current story timer unless
// one is already pending for it.
func (a *App) scheduleStoryTick() tea.Cmd {
	if a.session.Viewer() == nil {
		a.ticking = session.StoryToken{}
		return nil
	}
	tok := a.session.StoryToken()
	if tok == a.ticking {
		return nil
	}
	a.ticking = tok
	return tea.Tick(a.tickInterval, func(time.Time) tea.Msg {
		return storyTickMsg{token: tok}
	})
}

func (a *App) handleStoryTick(msg storyTickMsg) {
	if a.session.StoryTick(msg.token) == playback.EventStale {
		return
	}
	a.ticking = session.StoryToken{}
}

func (a *App) acquireCamera() tea.Cmd {
	s, dev := a.session, a.device
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cameraTimeout)
		defer cancel()
		scoped, err := s.AcquireCamera(ctx, dev)
		return cameraMsg{scoped: scoped, err: err}
	}
}

func (a *App) toggleRecording() tea.Cmd {
	if a.session.Draft().Recording() {
		a.recording = false
		v, err := a.session.StopRecording()
		if err != nil {
			a.statusMsg = fmt.Sprintf("Recording failed: %v", err)
			return nil
		}
		a.logbook.Info("Recorded %d bytes of %s", len(v.Data), v.MIMEType)
		return nil
	}
	if err := a.session.StartRecording(); err != nil {
		a.statusMsg = "Camera is not available for recording."
		a.logger.Debug("recording not started", zap.Error(err))
		return nil
	}
	a.recording = true
	return a.scheduleRecordTick()
}

func (a *App) scheduleRecordTick() tea.Cmd {
	return tea.Tick(recordInterval, func(time.Time) tea.Msg { return recordTickMsg{} })
}

// captureChunk reads the next chunk off the UI goroutine. The following
// record tick is scheduled once the chunk is stored.
func (a *App) captureChunk() tea.Cmd {
	stream := a.session.RecordingStream()
	if !a.recording || stream == nil {
		a.recording = false
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recordInterval)
		defer cancel()
		data, err := stream.Next(ctx)
		return chunkMsg{data: data, err: err}
	}
}

func (a *App) storeChunk(msg chunkMsg) tea.Cmd {
	if !a.recording || a.session.RecordingStream() == nil {
		return nil
	}
	switch {
	case errors.Is(msg.err, context.DeadlineExceeded):
	case msg.err != nil:
		a.logger.Debug("capture stopped", zap.Error(msg.err))
		return nil
	default:
		if err := a.session.RecordChunk(msg.data); err != nil {
			a.logger.Debug("chunk dropped", zap.Error(err))
			return nil
		}
	}
	return a.scheduleRecordTick()
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 80
	}
	inner := max(20, width-4)
	st := a.session.State()

	var content string
	if st.StoryOpen() {
		content = a.renderStory(inner)
	} else {
		content = a.renderScreen(st.Screen, inner)
	}
	sections := []string{
		brandStyle.Render("◎ dumm") + mutedStyle.Render("  "+st.Screen.String()),
		panelStyle.Width(inner).Render(content),
	}
	if st.ModalOpen {
		sections = append(sections, a.renderModal(inner))
	}
	if a.promptKind != promptNone {
		sections = append(sections, a.prompt.View())
	}
	if a.confirm != confirmNone {
		sections = append(sections, a.renderConfirm())
	}
	if a.session.ShowNavBar() {
		sections = append(sections, a.renderNavBar())
	}
	if panel := a.renderLogPanel(inner); panel != "" {
		sections = append(sections, panel)
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

func (a *App) renderFooter() string {
	status := a.session.Status()
	style := errorStyle
	if status == "" {
		status = a.statusMsg
		style = hintStyle
	}
	lines := []string{}
	if status != "" {
		lines = append(lines, style.Render(status))
	}
	lines = append(lines, a.help.ShortHelpView(a.helpBindings()))
	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(lines, "\n"))
}

func (a *App) renderLogPanel(width int) string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	for i, line := range lines {
		lines[i] = logbook.Message(line)
	}
	fileName := filepath.Base(a.logbook.Path())
	head := titleStyle.Render(fmt.Sprintf("LOG · %s · %d entries", fileName, total))
	body := hintStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Width(width).Render(head + "\n" + body)
}

// helpBindings lists the keys that act on what is shown.
func (a *App) helpBindings() []key.Binding {
	k := a.keys
	st := a.session.State()
	switch {
	case a.promptKind != promptNone:
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	case a.confirm != confirmNone:
		return []key.Binding{k.Confirm, k.Cancel}
	case st.StoryOpen():
		return []key.Binding{k.Left, k.Right, k.Pause, k.Mute, k.Comment, k.Back}
	case st.ModalOpen:
		return []key.Binding{k.ChoosePost, k.ChooseLive, k.Back}
	}
	var bindings []key.Binding
	switch st.Screen {
	case navigator.Login, navigator.SignUp:
		return []key.Binding{k.Enter, k.Tab, k.Quit}
	case navigator.Feed:
		bindings = []key.Binding{k.Up, k.Down, k.Like, k.Bookmark, k.Comment, k.Reply, k.Enter, k.Tab, k.Story, k.AddStory, k.Messages, k.Activity, k.Quit}
	case navigator.Discover:
		bindings = []key.Binding{k.Search, k.Up, k.Down, k.Like, k.Bookmark, k.Enter}
	case navigator.Profile:
		if a.session.IsOwnProfile() {
			bindings = []key.Binding{k.Tab, k.Edit, k.Settings}
		}
	case navigator.EditProfile:
		bindings = []key.Binding{k.Name, k.Username, k.Bio, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save"))}
	case navigator.Chat:
		bindings = []key.Binding{key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "message"))}
	case navigator.Reels:
		bindings = []key.Binding{k.Up, k.Down, key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")), k.Like}
	case navigator.Upload:
		bindings = []key.Binding{k.File, k.Record, k.Caption, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "share"))}
	case navigator.GoLive:
		bindings = []key.Binding{k.Caption, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go live"))}
	case navigator.LiveStream:
		bindings = []key.Binding{k.Comment}
		if a.session.IsHost() {
			bindings = append(bindings, k.Stop)
		}
	}
	if st.Screen != navigator.Feed {
		bindings = append(bindings, k.Back)
	}
	return bindings
}
