package broker

// Subjects for entity events published after a successful commit.
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"

	NoteCreated  = "note.created"
	NoteUpdated  = "note.updated"
	NoteArchived = "note.archived"
	NoteRestored = "note.restored"

	TagCreated = "tag.created"
	TagUpdated = "tag.updated"

	NoteTagsAdded   = "note.tags_added"
	NoteTagsRemoved = "note.tags_removed"
)

// Event is the wire payload for every subject.
type Event struct {
	Subject string                 `json:"subject"`
	ActorID string                 `json:"actor_id,omitempty"`
	Data    map[string]interface{} `json:"data"`
}
