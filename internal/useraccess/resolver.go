package useraccess

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Store is one tier of the lookup chain. A (nil, nil) return is a clean miss;
// an error is a store failure. Both fall through to the next tier, but the
// resolver records them differently so an outage is not mistaken for an
// empty dataset.
type Store interface {
	Name() string
	FindByEmail(ctx context.Context, email string) (*Record, error)
}

// PermissionStore hydrates the flag bundle by role title.
type PermissionStore interface {
	Name() string
	FindByRoleTitle(ctx context.Context, roleTitle string) (*PermissionFlags, error)
}

// Outcome of probing a single store.
type Outcome string

const (
	OutcomeFound  Outcome = "found"
	OutcomeMiss   Outcome = "miss"
	OutcomeFailed Outcome = "failed"
)

type Probe struct {
	Store   string  `json:"store"`
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

// Diagnostics reports which stores were probed and which one answered.
// Returned alongside both hits and misses so a 404 can say where it looked.
type Diagnostics struct {
	Probes    []Probe `json:"probes"`
	ModelUsed string  `json:"model_used,omitempty"`
	PermStore string  `json:"permission_store,omitempty"`
}

// Resolver walks an ordered list of stores, short-circuiting on the first
// hit, then hydrates permissions. Individual store errors never abort the
// chain; only exhausting every tier surfaces to the caller.
type Resolver struct {
	stores []Store
	perms  PermissionStore
	logger *slog.Logger
}

func NewResolver(stores []Store, perms PermissionStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		stores: stores,
		perms:  perms,
		logger: logger,
	}
}

// Resolve looks an email up across every configured tier and returns a fully
// defaulted Record. ErrEmailRequired and ErrUserNotFound are the only
// expected failures; anything else is a wiring bug surfaced as-is.
func (r *Resolver) Resolve(ctx context.Context, email string) (*Record, *Diagnostics, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, nil, ErrEmailRequired
	}

	diag := &Diagnostics{Probes: make([]Probe, 0, len(r.stores))}

	var rec *Record
	for _, store := range r.stores {
		found, err := store.FindByEmail(ctx, email)
		if err != nil {
			r.logger.Warn("access store probe failed, falling through",
				"store", store.Name(), "email", email, "error", err)
			diag.Probes = append(diag.Probes, Probe{Store: store.Name(), Outcome: OutcomeFailed, Error: err.Error()})
			continue
		}
		if found == nil {
			diag.Probes = append(diag.Probes, Probe{Store: store.Name(), Outcome: OutcomeMiss})
			continue
		}

		diag.Probes = append(diag.Probes, Probe{Store: store.Name(), Outcome: OutcomeFound})
		diag.ModelUsed = store.Name()
		rec = found
		break
	}

	if rec == nil {
		return nil, diag, fmt.Errorf("%w: probed %d stores", ErrUserNotFound, len(diag.Probes))
	}

	applyDefaults(rec)
	rec.Permissions = r.resolvePermissions(ctx, rec.RoleTitle, diag)
	rec.ResolvedAt = time.Now()

	r.logger.Info("user access resolved",
		"email", rec.Email,
		"role_title", rec.RoleTitle,
		"level", rec.Level,
		"scope", string(rec.Scope),
		"store", diag.ModelUsed)

	return rec, diag, nil
}

// resolvePermissions is fail-closed: no store, a store error, or a missing
// row all yield the all-false bundle.
func (r *Resolver) resolvePermissions(ctx context.Context, roleTitle string, diag *Diagnostics) PermissionFlags {
	if r.perms == nil {
		return PermissionFlags{}
	}

	flags, err := r.perms.FindByRoleTitle(ctx, roleTitle)
	if err != nil {
		r.logger.Warn("permission lookup failed, defaulting to no permissions",
			"store", r.perms.Name(), "role_title", roleTitle, "error", err)
		return PermissionFlags{}
	}
	if flags == nil {
		r.logger.Debug("no permission row for role, defaulting to no permissions",
			"role_title", roleTitle)
		return PermissionFlags{}
	}

	diag.PermStore = r.perms.Name()
	return *flags
}
