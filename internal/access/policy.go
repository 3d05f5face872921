// Package access decides who may read, modify and delete posts and comments.
package access

import (
	"inkpost/internal/models"
)

const (
	msgLoginRequired      = "로그인 후 이용해주세요."
	msgPrivatePost        = "비공개 설정된 글입니다."
	msgModifyOwnPostOnly  = "자신이 작성한 글만 수정 가능합니다."
	msgDeleteOwnPostOnly  = "자신이 작성한 글만 삭제 가능합니다."
	msgModifyOwnReplyOnly = "자신이 작성한 댓글만 수정 가능합니다."
	msgDeleteOwnReplyOnly = "자신이 작성한 댓글만 삭제 가능합니다."
)

// Actor is the party a request is made on behalf of: either an
// authenticated Member or Anonymous. The zero value is Anonymous.
type Actor struct {
	member *models.Member
}

// Anonymous returns an Actor with no identity.
func Anonymous() Actor {
	return Actor{}
}

// Authenticated returns an Actor acting as m.
func Authenticated(m models.Member) Actor {
	return Actor{member: &m}
}

// Member returns the acting member and true, or false for Anonymous.
func (a Actor) Member() (models.Member, bool) {
	if a.member == nil {
		return models.Member{}, false
	}
	return *a.member, true
}

// IsAnonymous reports whether the actor carries no identity.
func (a Actor) IsAnonymous() bool {
	return a.member == nil
}

// ID returns the acting member's ID, or 0 for Anonymous.
func (a Actor) ID() uint {
	if a.member == nil {
		return 0
	}
	return a.member.ID
}

// ErrLoginRequired is returned when an operation needs an identity and none was supplied.
func ErrLoginRequired() *models.AppError {
	return models.NewUnauthenticatedError("401-1", msgLoginRequired)
}

// CanRead allows anyone to read a published post. Unpublished posts are
// visible to their owner only. The listed flag is not consulted.
func CanRead(actor Actor, post models.Post) error {
	if post.Published {
		return nil
	}
	return ownerOnly(actor, post.IsOwnedBy, "403-1", msgPrivatePost)
}

// CanModify allows only the owner to change a post.
func CanModify(actor Actor, post models.Post) error {
	return ownerOnly(actor, post.IsOwnedBy, "403-1", msgModifyOwnPostOnly)
}

// CanDelete allows only the owner to delete a post.
func CanDelete(actor Actor, post models.Post) error {
	return ownerOnly(actor, post.IsOwnedBy, "403-1", msgDeleteOwnPostOnly)
}

func CanModifyComment(actor Actor, comment models.Comment) error {
	return ownerOnly(actor, comment.IsOwnedBy, "403-2", msgModifyOwnReplyOnly)
}

func CanDeleteComment(actor Actor, comment models.Comment) error {
	return ownerOnly(actor, comment.IsOwnedBy, "403-2", msgDeleteOwnReplyOnly)
}

func ownerOnly(actor Actor, ownedBy func(memberID uint) bool, code, message string) error {
	m, ok := actor.Member()
	if !ok {
		return ErrLoginRequired()
	}
	if !ownedBy(m.ID) {
		return models.NewForbiddenError(code, message)
	}
	return nil
}
