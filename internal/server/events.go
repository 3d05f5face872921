package server

import (
	"context"
	"log/slog"
	"time"

	"inkpost/internal/middleware"
	"inkpost/internal/models"
	"inkpost/internal/notifications"
	"inkpost/internal/observability"
)

// publishEvent broadcasts a content event. Publication failures are logged
// and never fail the request.
func (s *Server) publishEvent(ctx context.Context, eventType string, payload map[string]any) {
	observability.ContentEvents.WithLabelValues(eventType).Inc()
	if err := s.notifier.PublishBroadcast(ctx, eventType, payload); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish event",
			slog.String("event", eventType), slog.String("error", err.Error()))
	}
}

func (s *Server) publishMemberEvent(ctx context.Context, memberID uint, eventType string, payload map[string]any) {
	if err := s.notifier.PublishMember(ctx, memberID, eventType, payload); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish member event",
			slog.String("event", eventType),
			slog.Any("member_id", memberID),
			slog.String("error", err.Error()),
		)
	}
}

// logEvent is the subscriber callback of a running server.
func (s *Server) logEvent(channel, payload string) {
	middleware.Logger.Debug("event received", slog.String("channel", channel), slog.String("payload", payload))
}

func postPayload(post *models.Post) map[string]any {
	return map[string]any{
		"post_id":   post.ID,
		"author_id": post.AuthorID,
		"at":        time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func commentPayload(comment *models.Comment) map[string]any {
	return map[string]any{
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
		"author_id":  comment.AuthorID,
		"at":         time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// notifyPostAuthor tells the post's author about a comment written by someone else.
func (s *Server) notifyPostAuthor(ctx context.Context, post *models.Post, comment *models.Comment) {
	if post.AuthorID == comment.AuthorID {
		return
	}
	s.publishMemberEvent(ctx, post.AuthorID, notifications.EventCommentCreated, commentPayload(comment))
}
