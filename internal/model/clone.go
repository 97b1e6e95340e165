package model

// CloneComments deep-copies a comment sequence including replies.
func CloneComments(in []Comment) []Comment {
	if in == nil {
		return nil
	}
	out := make([]Comment, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Replies = CloneComments(c.Replies)
	}
	return out
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	p.Comments = CloneComments(p.Comments)
	p.LiveComments = CloneComments(p.LiveComments)
	return p
}

// Clone returns a deep copy of the story item.
func (s StoryItem) Clone() StoryItem {
	s.Comments = CloneComments(s.Comments)
	return s
}

// Clone returns a deep copy of the collection.
func (us UserStories) Clone() UserStories {
	if us.Stories != nil {
		items := make([]StoryItem, len(us.Stories))
		for i, item := range us.Stories {
			items[i] = item.Clone()
		}
		us.Stories = items
	}
	return us
}

// ClonePosts deep-copies a post sequence.
func ClonePosts(in []Post) []Post {
	if in == nil {
		return nil
	}
	out := make([]Post, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// CloneUserStories deep-copies a sequence of story collections.
func CloneUserStories(in []UserStories) []UserStories {
	if in == nil {
		return nil
	}
	out := make([]UserStories, len(in))
	for i, us := range in {
		out[i] = us.Clone()
	}
	return out
}

// CloneMessages deep-copies the per-conversation message index.
func CloneMessages(in map[string][]Message) map[string][]Message {
	out := make(map[string][]Message, len(in))
	for id, msgs := range in {
		out[id] = append([]Message(nil), msgs...)
	}
	return out
}
