package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MembershipMetrics records domain activity counters for the
// membership and invitation lifecycles.
type MembershipMetrics struct {
	approved  *prometheus.CounterVec
	suspended *prometheus.CounterVec
	issued    *prometheus.CounterVec
	accepted  *prometheus.CounterVec
}

// NewMembershipMetrics registers the counters on the provided registerer.
// A nil registerer yields a no-op collector.
func NewMembershipMetrics(reg prometheus.Registerer) *MembershipMetrics {
	if reg == nil {
		return &MembershipMetrics{}
	}
	approved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "memberships_approved_total",
		Help: "Memberships transitioned from pending to active.",
	}, []string{"team"})
	suspended := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "memberships_suspended_total",
		Help: "Memberships transitioned to suspended.",
	}, []string{"team"})
	issued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invitations_issued_total",
		Help: "Invitations created.",
	}, []string{"team"})
	accepted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invitations_accepted_total",
		Help: "Invitations redeemed into active memberships.",
	}, []string{"team"})
	reg.MustRegister(approved, suspended, issued, accepted)
	return &MembershipMetrics{
		approved:  approved,
		suspended: suspended,
		issued:    issued,
		accepted:  accepted,
	}
}

// IncApproved increments the approval counter for the named team.
func (m *MembershipMetrics) IncApproved(team string) {
	if m == nil || m.approved == nil {
		return
	}
	m.approved.WithLabelValues(normalizeLabel(team)).Inc()
}

// IncSuspended increments the suspension counter for the named team.
func (m *MembershipMetrics) IncSuspended(team string) {
	if m == nil || m.suspended == nil {
		return
	}
	m.suspended.WithLabelValues(normalizeLabel(team)).Inc()
}

// IncIssued increments the invitation issuance counter for the named team.
func (m *MembershipMetrics) IncIssued(team string) {
	if m == nil || m.issued == nil {
		return
	}
	m.issued.WithLabelValues(normalizeLabel(team)).Inc()
}

// IncAccepted increments the invitation acceptance counter for the named team.
func (m *MembershipMetrics) IncAccepted(team string) {
	if m == nil || m.accepted == nil {
		return
	}
	m.accepted.WithLabelValues(normalizeLabel(team)).Inc()
}

func normalizeLabel(team string) string {
	if team == "" {
		return "unknown"
	}
	return team
}
