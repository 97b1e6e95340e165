package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/dumm/internal/model"
	"github.com/kingrea/dumm/internal/navigator"
)

const previewComments = 2

func (a *App) renderScreen(screen navigator.Screen, width int) string {
	switch screen {
	case navigator.Feed:
		return a.renderFeed(width)
	case navigator.Profile:
		return a.renderProfile(width)
	case navigator.Messages:
		return a.inbox.View()
	case navigator.Chat:
		return a.renderChat(width)
	case navigator.Notifications:
		return a.renderNotifications()
	case navigator.Discover:
		return a.renderDiscover(width)
	case navigator.EditProfile:
		return a.renderEditProfile()
	case navigator.Login, navigator.SignUp:
		return a.renderAuth(screen)
	case navigator.Settings:
		return a.settingsMenu.View()
	case navigator.Reels:
		return a.renderReels()
	case navigator.Upload:
		return a.renderUpload()
	case navigator.GoLive:
		return a.renderGoLive()
	case navigator.LiveStream:
		return a.renderLive(width)
	}
	return mutedStyle.Render("Nothing here.")
}

func (a *App) username(userID string) string {
	if u, ok := a.session.Store().User(userID); ok {
		return u.Username
	}
	return "unknown"
}

func (a *App) renderFeed(width int) string {
	st := a.session.Store()
	unread := 0
	for _, c := range st.Conversations() {
		unread += c.UnreadCount
	}
	header := titleStyle.Render("Home")
	if unread > 0 {
		header += "  " + unreadStyle.Render(fmt.Sprintf("✉ %d", unread))
	}

	var tray []string
	for i, e := range st.Tray() {
		label := a.username(e.UserID)
		if e.UserID == st.CurrentUserID() {
			label = "Your story"
		}
		if i == a.trayCursor {
			label = tagStyle.Render("(" + label + ")")
		} else {
			label = "(" + label + ")"
		}
		tray = append(tray, label)
	}

	lines := []string{header, strings.Join(tray, " "), ""}
	for i, p := range a.session.Feed() {
		card := a.renderPost(p, width-4)
		if i == a.feedCursor {
			card = selectedStyle.Width(width - 4).Render(card)
		} else {
			card = cardStyle.Width(width - 4).Render(card)
		}
		lines = append(lines, card)
	}
	if a.session.HasMoreFeed() {
		lines = append(lines, hintStyle.Render("↓ more posts"))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderPost(p model.Post, width int) string {
	st := a.session.Store()
	head := nameStyle.Render(a.username(p.UserID)) + mutedStyle.Render(" · "+p.Timestamp)
	if p.IsLive {
		head += " " + liveBadge.Render("LIVE")
	}
	media := "[photo]"
	if p.HasVideo() {
		media = "[video]"
	}

	heart := "♡"
	if st.IsLiked(p.ID) {
		heart = likedStyle.Render("♥")
	}
	mark := "☐"
	if st.IsBookmarked(p.ID) {
		mark = savedStyle.Render("■")
	}
	actions := fmt.Sprintf("%s %s likes   💬 %d   %s", heart, formatCount(st.LikeCount(p)), len(p.Comments), mark)

	lines := []string{head, mutedStyle.Render(media), actions}
	if p.Caption != "" {
		caption := nameStyle.Render(a.username(p.UserID)) + " " + highlightCaption(p.Caption)
		lines = append(lines, lipgloss.NewStyle().Width(max(10, width)).Render(caption))
	}
	if n := len(p.Comments); n > previewComments {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("View all %d comments", n)))
	}
	comments := p.Comments
	if len(comments) > previewComments {
		comments = comments[len(comments)-previewComments:]
	}
	for _, c := range comments {
		lines = append(lines, nameStyle.Render(a.username(c.UserID))+" "+c.Text)
		for _, r := range c.Replies {
			lines = append(lines, "  ↳ "+nameStyle.Render(a.username(r.UserID))+" "+r.Text)
		}
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderProfile(width int) string {
	u, ok := a.session.ProfileUser()
	if !ok {
		return mutedStyle.Render("User not found.")
	}
	stats := fmt.Sprintf("%s posts   %s followers   %s following",
		formatCount(u.Posts), formatCount(u.Followers), formatCount(u.Following))
	lines := []string{
		titleStyle.Render(u.Username),
		nameStyle.Render(u.Name),
	}
	if u.Bio != "" {
		lines = append(lines, u.Bio)
	}
	lines = append(lines, stats, "")

	posts := a.session.ProfilePosts()
	if a.session.IsOwnProfile() {
		postsTab, savedTab := "Posts", "Saved"
		if a.profileTab == tabSaved {
			savedTab = tagStyle.Render(savedTab)
			posts = a.session.SavedPosts()
		} else {
			postsTab = tagStyle.Render(postsTab)
		}
		lines = append(lines, postsTab+" | "+savedTab)
	}
	if len(posts) == 0 {
		lines = append(lines, mutedStyle.Render("No posts yet."))
		return strings.Join(lines, "\n")
	}
	lines = append(lines, renderGrid(posts, width))
	return strings.Join(lines, "\n")
}

// renderGrid lays posts out three to a row.
func renderGrid(posts []model.Post, width int) string {
	cell := lipgloss.NewStyle().Width(max(8, width/3-2)).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#444444"))
	var rows []string
	for i := 0; i < len(posts); i += 3 {
		var cells []string
		for _, p := range posts[i:min(i+3, len(posts))] {
			label := p.ID
			if p.HasVideo() {
				label += " ▶"
			}
			cells = append(cells, cell.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderChat(width int) string {
	peer, ok := a.session.ChatPeer()
	title := "Chat"
	if ok {
		title = peer.Username
	}
	lines := []string{titleStyle.Render(title), ""}
	for _, m := range a.session.ChatMessages() {
		text := m.Text
		if m.ImageURL != "" {
			text = "[photo] " + text
		}
		if m.IsSender {
			bubble := selfBubble.Render(text) + mutedStyle.Render(" "+m.Timestamp)
			lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
		} else {
			lines = append(lines, peerBubble.Render(text)+mutedStyle.Render(" "+m.Timestamp))
		}
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderNotifications() string {
	lines := []string{titleStyle.Render("Activity"), ""}
	activities := a.session.Activities()
	if len(activities) == 0 {
		lines = append(lines, mutedStyle.Render("No activity yet."))
	}
	for _, act := range activities {
		line := nameStyle.Render(act.From.Username) + " " + act.Text + mutedStyle.Render(" "+act.Notification.Timestamp)
		if act.Post != nil {
			line += mutedStyle.Render(" [" + act.Post.ID + "]")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderDiscover(width int) string {
	query := a.query
	if query == "" {
		query = mutedStyle.Render("press / to search")
	}
	left, right := a.session.DiscoverColumns(a.query)
	if len(left) == 0 {
		return titleStyle.Render("Search: ") + query + "\n\n" + mutedStyle.Render("No results.")
	}
	colWidth := max(10, width/2-2)
	col := func(posts []model.Post, offset int) string {
		var cells []string
		for i, p := range posts {
			text := fmt.Sprintf("%s · %s\n%s", p.ID, a.username(p.UserID), highlightCaption(p.Caption))
			style := cardStyle
			if i*2+offset == a.discoverCursor {
				style = selectedStyle
			}
			cells = append(cells, style.Width(colWidth).Render(text))
		}
		return lipgloss.JoinVertical(lipgloss.Left, cells...)
	}
	grid := lipgloss.JoinHorizontal(lipgloss.Top, col(left, 0), col(right, 1))
	return titleStyle.Render("Search: ") + query + "\n\n" + grid
}

func (a *App) renderEditProfile() string {
	d := a.profileDraft
	return strings.Join([]string{
		titleStyle.Render("Edit profile"),
		"",
		"Name:     " + d.Name,
		"Username: " + d.Username,
		"Bio:      " + d.Bio,
	}, "\n")
}

func (a *App) renderAuth(screen navigator.Screen) string {
	title, other := "Log in", "Don't have an account? Sign up"
	if screen == navigator.SignUp {
		title, other = "Sign up", "Have an account? Log in"
	}
	lines := []string{brandStyle.Render("dumm"), "", titleStyle.Render(title)}
	if u, ok := a.session.Store().CurrentUser(); ok {
		lines = append(lines, "as "+nameStyle.Render(u.Username))
	}
	lines = append(lines, "", hintStyle.Render(other))
	return strings.Join(lines, "\n")
}

func (a *App) renderReels() string {
	r, idx, ok := a.session.ActiveReel()
	if !ok {
		return mutedStyle.Render("No reels.")
	}
	state := "▶ playing"
	if !a.session.ReelPlaying() {
		state = "⏸ paused"
	}
	heart := "♡"
	if a.session.ReelLikes(r) != r.Likes {
		heart = likedStyle.Render("♥")
	}
	total := len(a.session.Store().Reels())
	return strings.Join([]string{
		titleStyle.Render("Reels") + mutedStyle.Render(fmt.Sprintf("  %d/%d", idx+1, total)),
		"",
		nameStyle.Render(a.username(r.UserID)) + " " + highlightCaption(r.Caption),
		mutedStyle.Render("♫ " + r.AudioTitle),
		state,
		fmt.Sprintf("%s %s   💬 %s   ↗ %s", heart, formatCount(a.session.ReelLikes(r)), formatCount(r.Comments), formatCount(r.Shares)),
	}, "\n")
}

func (a *App) renderCamera() string {
	if a.session.Camera() == nil {
		return mutedStyle.Render("○ no camera preview")
	}
	return okStyle.Render("● camera on")
}

func (a *App) renderUpload() string {
	d := a.session.Draft()
	lines := []string{titleStyle.Render("New post"), "", a.renderCamera()}
	if d.Recording() {
		lines = append(lines, errorStyle.Render("● REC"))
	}
	switch {
	case d.Selection != nil:
		lines = append(lines, fmt.Sprintf("%s · %s", d.Selection.Kind, d.Selection.Path))
	case d.Recorded != nil:
		lines = append(lines, fmt.Sprintf("recording · %s · %d bytes", d.Recorded.MIMEType, len(d.Recorded.Data)))
	default:
		lines = append(lines, mutedStyle.Render("No media selected."))
	}
	if thumb := d.Thumbnail(); thumb != "" {
		lines = append(lines, mutedStyle.Render("thumbnail "+thumb))
	}
	caption := d.Caption
	if caption == "" {
		caption = mutedStyle.Render("Write a caption...")
	} else {
		caption = highlightCaption(caption)
	}
	lines = append(lines, "", caption)
	if a.session.CanShare() {
		lines = append(lines, okStyle.Render("Ready to share"))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderGoLive() string {
	caption := a.liveCaption
	if caption == "" {
		caption = mutedStyle.Render("Add a title...")
	}
	return strings.Join([]string{
		titleStyle.Render("Go live"),
		"",
		a.renderCamera(),
		caption,
	}, "\n")
}

func (a *App) renderLive(width int) string {
	p, ok := a.session.LivePost()
	if !ok {
		return mutedStyle.Render("This live video has ended.")
	}
	head := nameStyle.Render(a.username(p.UserID)) + " "
	if p.IsLive {
		head += liveBadge.Render("LIVE")
	} else {
		head += mutedStyle.Render("ended")
	}
	head += mutedStyle.Render("  👁 " + formatCount(p.ViewerCount))
	lines := []string{head}
	if p.Caption != "" {
		lines = append(lines, highlightCaption(p.Caption))
	}
	lines = append(lines, "")
	for _, c := range p.LiveComments {
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(nameStyle.Render(a.username(c.UserID))+" "+c.Text))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderStory(width int) string {
	f, ok := a.session.StoryFrame()
	if !ok {
		return mutedStyle.Render("Story unavailable.")
	}
	v := a.session.Viewer()
	count := max(1, f.StoryCount)
	seg := max(1, (width-count)/count)
	var bars []string
	for i := 0; i < f.StoryCount; i++ {
		switch {
		case i < f.StoryIndex:
			bars = append(bars, progressBar(1, seg))
		case i == f.StoryIndex:
			bars = append(bars, progressBar(f.Progress, seg))
		default:
			bars = append(bars, progressBar(0, seg))
		}
	}
	head := nameStyle.Render(f.User.Username)
	if f.Paused {
		head += mutedStyle.Render("  ⏸ paused")
	}
	if f.Item.Kind == model.MediaVideo {
		if f.Muted {
			head += mutedStyle.Render("  🔇")
		} else {
			head += mutedStyle.Render("  🔊")
		}
		if v != nil && v.LoopVideo(f.Item.Length) {
			head += mutedStyle.Render("  ↻ loop")
		}
	}
	lines := []string{
		strings.Join(bars, " "),
		head,
		"",
		fmt.Sprintf("[%s] %s", f.Item.Kind, f.Item.URL),
	}
	if v != nil {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%.1fs left", v.Remaining().Seconds())))
	}
	for _, c := range f.Item.Comments {
		lines = append(lines, nameStyle.Render(a.username(c.UserID))+" "+c.Text)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderModal(width int) string {
	body := strings.Join([]string{
		titleStyle.Render("Create"),
		"p  Post",
		"l  Live",
	}, "\n")
	return panelStyle.Width(min(width, 30)).Render(body)
}

func (a *App) renderConfirm() string {
	switch a.confirm {
	case confirmDiscard:
		return errorStyle.Render("Discard post? If you go back now, you will lose your changes. (y/n)")
	case confirmStopLive:
		return errorStyle.Render("End live video? (y/n)")
	}
	return ""
}

var navBarItems = []struct {
	key    string
	label  string
	screen navigator.Screen
}{
	{"1", "Home", navigator.Feed},
	{"2", "Discover", navigator.Discover},
	{"+", "Create", -1},
	{"3", "Reels", navigator.Reels},
	{"4", "Profile", navigator.Profile},
}

func (a *App) renderNavBar() string {
	current := a.session.Screen()
	var items []string
	for _, it := range navBarItems {
		label := it.key + " " + it.label
		if it.screen == current {
			label = tagStyle.Render(label)
		} else {
			label = hintStyle.Render(label)
		}
		items = append(items, label)
	}
	return strings.Join(items, "   ")
}
