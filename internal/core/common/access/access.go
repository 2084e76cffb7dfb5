package access

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/metrics"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

// Guard evaluates capabilities for services. Reads use Allowed and degrade
// to empty results; mutations use Require and get an AppError.
type Guard struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewGuard(m *metrics.Metrics, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{metrics: m, logger: logger}
}

// Decide runs the resolver and records the outcome.
func (g *Guard) Decide(ctx context.Context, u *rbac.User, c rbac.Capability, companyID string) rbac.Decision {
	d := rbac.Decide(u, c, companyID)
	g.metrics.ObserveDecision(d)
	if !d.Allowed {
		g.logger.DebugContext(ctx, "capability denied",
			"user_id", userID(u),
			"capability", c,
			"company_id", companyID,
			"reason", d.Reason)
	}
	return d
}

// Allowed is the read-path check: c must be granted and, when companyID is
// set, the caller must hold an assignment there.
func (g *Guard) Allowed(ctx context.Context, u *rbac.User, c rbac.Capability, companyID string) bool {
	if companyID != "" && !rbac.BelongsTo(u, companyID) {
		return false
	}
	return g.Decide(ctx, u, c, companyID).Allowed
}

// Require is the mutation-path check. A company the caller has no
// assignment in is reported as hidden so its existence does not leak.
func (g *Guard) Require(ctx context.Context, u *rbac.User, c rbac.Capability, companyID string, hidden *internal.AppError) error {
	if companyID != "" {
		if !rbac.ValidCompanyID(companyID) {
			g.Decide(ctx, u, c, companyID)
			return internal.ErrInvalidScope
		}
		if !rbac.BelongsTo(u, companyID) {
			g.logger.WarnContext(ctx, "access denied: no assignment in company",
				"user_id", userID(u),
				"capability", c,
				"company_id", companyID)
			return hidden
		}
	}

	d := g.Decide(ctx, u, c, companyID)
	if d.Allowed {
		return nil
	}

	g.logger.WarnContext(ctx, "access denied: insufficient role",
		"user_id", userID(u),
		"capability", c,
		"company_id", companyID,
		"global_role", d.EffectiveRole.Global,
		"company_role", d.EffectiveRole.Company,
		"reason", d.Reason)

	if d.Reason == rbac.ReasonInvalidScope {
		return internal.ErrInvalidScope
	}
	return internal.ErrAuthorizationDenied
}

func userID(u *rbac.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
