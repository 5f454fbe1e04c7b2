package services

import "quill-notes/quill/models"

// Ownership and visibility predicates. These are pure functions over an
// (actor, resource) pair; callers resolve the resource first so that a
// missing id surfaces as NotFound before any policy check runs.

// CanReadNote reports whether actor may read note: the owner always can,
// anyone else only when the note is public.
func CanReadNote(actor models.User, note models.Note) bool {
	return note.AuthorID == actor.ID || !note.Private
}

// CanWriteNote reports whether actor may mutate note. Only the owner can;
// admins get no override here.
func CanWriteNote(actor models.User, note models.Note) bool {
	return note.AuthorID == actor.ID
}

// CanDeleteUser reports whether actor may delete user accounts.
func CanDeleteUser(actor models.User) bool {
	return actor.IsAdmin()
}

// CanEditUser reports whether actor may edit the account with the given id.
// Account editing is self-service only.
func CanEditUser(actor models.User, userID string) bool {
	return actor.ID.String() == userID
}
