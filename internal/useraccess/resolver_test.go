package useraccess_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/frahmantamala/incident-management/internal/useraccess"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockStore is one lookup tier with canned answers per email.
type mockStore struct {
	name    string
	records map[string]*useraccess.Record
	err     error
	calls   int
}

func (m *mockStore) Name() string { return m.name }

func (m *mockStore) FindByEmail(ctx context.Context, email string) (*useraccess.Record, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.records[email], nil
}

type mockPermStore struct {
	name  string
	flags map[string]*useraccess.PermissionFlags
	err   error
}

func (m *mockPermStore) Name() string { return m.name }

func (m *mockPermStore) FindByRoleTitle(ctx context.Context, roleTitle string) (*useraccess.PermissionFlags, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.flags[roleTitle], nil
}

var _ = Describe("Resolver", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	newResolver := func(perms useraccess.PermissionStore, stores ...useraccess.Store) *useraccess.Resolver {
		return useraccess.NewResolver(stores, perms, logger)
	}

	Context("input validation", func() {
		It("rejects an empty email", func() {
			r := newResolver(nil, &mockStore{name: "primary"})
			_, _, err := r.Resolve(context.Background(), "   ")
			Expect(err).To(MatchError(useraccess.ErrEmailRequired))
		})
	})

	Context("tier ordering", func() {
		It("short-circuits on the first hit", func() {
			first := &mockStore{name: "primary", records: map[string]*useraccess.Record{
				"jane@acme.com": {Email: "jane@acme.com", Level: 4, HierarchyString: "NA>US>OH"},
			}}
			second := &mockStore{name: "caller"}

			r := newResolver(nil, first, second)
			rec, diag, err := r.Resolve(context.Background(), "jane@acme.com")

			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Scope).To(Equal(useraccess.ScopeDivision))
			Expect(diag.ModelUsed).To(Equal("primary"))
			Expect(second.calls).To(BeZero())
		})

		It("falls through misses and failures to later tiers", func() {
			first := &mockStore{name: "primary"}
			second := &mockStore{name: "caller", err: errors.New("connection refused")}
			third := &mockStore{name: "dynamo", records: map[string]*useraccess.Record{
				"jane@acme.com": {Email: "jane@acme.com", Level: 3, HierarchyString: "NA>US>OH"},
			}}

			r := newResolver(nil, first, second, third)
			rec, diag, err := r.Resolve(context.Background(), "Jane@Acme.com")

			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Email).To(Equal("jane@acme.com"))
			Expect(rec.Scope).To(Equal(useraccess.ScopePlatform))
			Expect(diag.Probes).To(HaveLen(3))
			Expect(diag.Probes[0].Outcome).To(Equal(useraccess.OutcomeMiss))
			Expect(diag.Probes[1].Outcome).To(Equal(useraccess.OutcomeFailed))
			Expect(diag.Probes[1].Error).To(ContainSubstring("connection refused"))
			Expect(diag.Probes[2].Outcome).To(Equal(useraccess.OutcomeFound))
			Expect(diag.ModelUsed).To(Equal("dynamo"))
		})

		It("reports user-not-found after exhausting every tier", func() {
			r := newResolver(nil,
				&mockStore{name: "primary"},
				&mockStore{name: "caller"},
			)
			rec, diag, err := r.Resolve(context.Background(), "ghost@acme.com")

			Expect(rec).To(BeNil())
			Expect(errors.Is(err, useraccess.ErrUserNotFound)).To(BeTrue())
			Expect(diag.Probes).To(HaveLen(2))
		})
	})

	Context("defaulting", func() {
		It("fills name, role title, level, and scope for a sparse record", func() {
			store := &mockStore{name: "primary", records: map[string]*useraccess.Record{
				"jane@acme.com": {Email: "jane@acme.com"},
			}}
			r := newResolver(nil, store)
			rec, _, err := r.Resolve(context.Background(), "jane@acme.com")

			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Name).To(Equal("jane"))
			Expect(rec.RoleTitle).To(Equal("User"))
			Expect(rec.Level).To(Equal(useraccess.LevelPlant))
			Expect(rec.Scope).To(Equal(useraccess.ScopePlant))
		})
	})

	Context("permission hydration", func() {
		store := func() *mockStore {
			return &mockStore{name: "primary", records: map[string]*useraccess.Record{
				"marcus@acme.com": {Email: "marcus@acme.com", RoleTitle: "Plant Manager", Level: 4},
			}}
		}

		It("attaches the role's flag bundle", func() {
			perms := &mockPermStore{name: "postgres", flags: map[string]*useraccess.PermissionFlags{
				"Plant Manager": {CanTakeFirstReportActions: true, CanViewOpenClosedReports: true},
			}}
			r := newResolver(perms, store())
			rec, diag, err := r.Resolve(context.Background(), "marcus@acme.com")

			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Permissions.CanTakeFirstReportActions).To(BeTrue())
			Expect(rec.Permissions.CanReportInjury).To(BeFalse())
			Expect(diag.PermStore).To(Equal("postgres"))
		})

		It("defaults to all-false when the role has no row", func() {
			perms := &mockPermStore{name: "postgres"}
			r := newResolver(perms, store())
			rec, _, err := r.Resolve(context.Background(), "marcus@acme.com")

			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Permissions).To(Equal(useraccess.PermissionFlags{}))
		})

		It("defaults to all-false when the permission store fails", func() {
			perms := &mockPermStore{name: "postgres", err: errors.New("timeout")}
			r := newResolver(perms, store())
			rec, _, err := r.Resolve(context.Background(), "marcus@acme.com")

			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Permissions).To(Equal(useraccess.PermissionFlags{}))
		})
	})

	Context("end to end", func() {
		It("resolves a fallback-tier user and scope-filters a record set", func() {
			primary := &mockStore{name: "postgres:primary"}
			caller := &mockStore{name: "postgres:caller"}
			fallback := &mockStore{name: "dynamo", records: map[string]*useraccess.Record{
				"jane@acme.com": {Email: "jane@acme.com", Level: 3, HierarchyString: "NA>US>OH"},
			}}

			r := newResolver(useraccess.NewPermissionChain(), primary, caller, fallback)
			rec, diag, err := r.Resolve(context.Background(), "jane@acme.com")

			Expect(err).NotTo(HaveOccurred())
			Expect(diag.ModelUsed).To(Equal("dynamo"))
			Expect(rec.Scope).To(Equal(useraccess.ScopePlatform))
			Expect(rec.Permissions).To(Equal(useraccess.PermissionFlags{}))

			records := []scopedRecord{
				{1, "NA>US>OH"},
				{2, "NA>US>PA"},
				{3, ""},
			}
			visible := useraccess.FilterByScope(records, rec)
			Expect(idsOf(visible)).To(ConsistOf(1))
		})
	})
})

var _ = Describe("PermissionChain", func() {
	It("returns the first hit and skips failing stores", func() {
		chain := useraccess.NewPermissionChain(
			&mockPermStore{name: "a", err: errors.New("down")},
			&mockPermStore{name: "b", flags: map[string]*useraccess.PermissionFlags{
				"Operator": {CanReportObservation: true},
			}},
		)

		flags, err := chain.FindByRoleTitle(context.Background(), "Operator")
		Expect(err).NotTo(HaveOccurred())
		Expect(flags.CanReportObservation).To(BeTrue())
	})

	It("reports a clean miss when a later store answers after an earlier failure", func() {
		chain := useraccess.NewPermissionChain(
			&mockPermStore{name: "a", err: errors.New("down")},
			&mockPermStore{name: "b"},
		)
		flags, err := chain.FindByRoleTitle(context.Background(), "Operator")
		Expect(flags).To(BeNil())
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns the last error when nothing answers", func() {
		chain := useraccess.NewPermissionChain(
			&mockPermStore{name: "a", err: errors.New("down")},
		)
		flags, err := chain.FindByRoleTitle(context.Background(), "Operator")
		Expect(flags).To(BeNil())
		Expect(err).To(MatchError("down"))
	})
})
