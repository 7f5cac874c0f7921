package notifications

import (
	"context"

	"github.com/campuskit/membership-backend/pkg/logger"
	"github.com/google/uuid"
)

// InvitationEvent carries the data downstream delivery needs when an
// invitation is issued or its token changes.
type InvitationEvent struct {
	InvitationID uuid.UUID
	TeamID       uuid.UUID
	Email        string
	Role         string
	InvitedBy    uuid.UUID
}

// MembershipEvent carries the data emitted when a membership becomes
// active.
type MembershipEvent struct {
	TeamID     uuid.UUID
	UserID     uuid.UUID
	Role       string
	ApprovedBy *uuid.UUID
}

// Notifier receives domain events at the moment they happen. Delivery
// (mail, push, queues) lives behind this contract.
type Notifier interface {
	InvitationCreated(ctx context.Context, event InvitationEvent)
	MembershipApproved(ctx context.Context, event MembershipEvent)
}

// LogNotifier emits events to the structured log. It stands in for a
// real delivery channel in environments without one.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier builds a notifier writing through the shared logger.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) InvitationCreated(ctx context.Context, event InvitationEvent) {
	if n == nil || n.log == nil {
		return
	}
	ctx = n.log.WithFields(ctx, map[string]any{
		"event":         "invitation_created",
		"invitation_id": event.InvitationID.String(),
		"team_id":       event.TeamID.String(),
		"email":         event.Email,
		"role":          event.Role,
		"invited_by":    event.InvitedBy.String(),
	})
	n.log.Info(ctx, "invitation created")
}

func (n *LogNotifier) MembershipApproved(ctx context.Context, event MembershipEvent) {
	if n == nil || n.log == nil {
		return
	}
	fields := map[string]any{
		"event":   "membership_approved",
		"team_id": event.TeamID.String(),
		"user_id": event.UserID.String(),
		"role":    event.Role,
	}
	if event.ApprovedBy != nil {
		fields["approved_by"] = event.ApprovedBy.String()
	}
	ctx = n.log.WithFields(ctx, fields)
	n.log.Info(ctx, "membership approved")
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) InvitationCreated(context.Context, InvitationEvent)  {}
func (NopNotifier) MembershipApproved(context.Context, MembershipEvent) {}
