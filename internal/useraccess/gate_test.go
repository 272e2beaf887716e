package useraccess_test

import (
	"log/slog"
	"os"

	"github.com/frahmantamala/incident-management/internal/useraccess"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Gate", func() {
	var gate *useraccess.Gate

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		gate = useraccess.NewGate(logger)
	})

	enterpriseUser := func() *useraccess.Record {
		return &useraccess.Record{
			Email:           "elena@acme.com",
			HierarchyString: "NA",
			Level:           useraccess.LevelEnterprise,
			Scope:           useraccess.ScopeEnterprise,
			Permissions: useraccess.PermissionFlags{
				CanPerformApprovalIncidentClosure: true,
				CanViewOpenClosedReports:          true,
			},
		}
	}

	plantManager := func() *useraccess.Record {
		return &useraccess.Record{
			Email:           "marcus@acme.com",
			HierarchyString: "NA>US>OH>Plant1",
			Level:           useraccess.LevelDivision,
			Scope:           useraccess.ScopeDivision,
			Permissions: useraccess.PermissionFlags{
				CanTakeFirstReportActions: true,
				CanViewOpenClosedReports:  true,
			},
		}
	}

	Context("with no criteria", func() {
		It("allows any user including nil", func() {
			Expect(gate.Allow(nil, useraccess.Criteria{})).To(BeTrue())
			Expect(gate.Allow(plantManager(), useraccess.Criteria{})).To(BeTrue())
		})
	})

	Context("with criteria but no resolved user", func() {
		It("denies", func() {
			Expect(gate.Allow(nil, useraccess.Criteria{Permission: useraccess.PermViewDashboard})).To(BeFalse())
			level := 3
			Expect(gate.Allow(nil, useraccess.Criteria{Level: &level})).To(BeFalse())
		})
	})

	Context("permission condition", func() {
		It("checks the named flag", func() {
			u := plantManager()
			Expect(gate.Allow(u, useraccess.Criteria{Permission: useraccess.PermFirstReportActions})).To(BeTrue())
			Expect(gate.Allow(u, useraccess.Criteria{Permission: useraccess.PermViewPII})).To(BeFalse())
		})

		It("denies an unknown permission name", func() {
			Expect(gate.Allow(plantManager(), useraccess.Criteria{Permission: "canDoAnything"})).To(BeFalse())
		})
	})

	Context("level condition", func() {
		It("allows numerically broader-or-equal levels", func() {
			want := 4
			Expect(gate.Allow(plantManager(), useraccess.Criteria{Level: &want})).To(BeTrue())
			Expect(gate.Allow(enterpriseUser(), useraccess.Criteria{Level: &want})).To(BeTrue())

			narrower := 2
			Expect(gate.Allow(plantManager(), useraccess.Criteria{Level: &narrower})).To(BeFalse())
		})
	})

	Context("combining conditions", func() {
		It("defaults to OR", func() {
			u := plantManager()
			hierarchy := "EU>DE"
			c := useraccess.Criteria{
				Permission: useraccess.PermFirstReportActions,
				Hierarchy:  &hierarchy,
			}
			// hierarchy fails, permission passes, OR allows
			Expect(gate.Allow(u, c)).To(BeTrue())
		})

		It("requires every condition with RequireAll", func() {
			u := plantManager()
			hierarchy := "EU>DE"
			c := useraccess.Criteria{
				Permission: useraccess.PermFirstReportActions,
				Hierarchy:  &hierarchy,
				RequireAll: true,
			}
			Expect(gate.Allow(u, c)).To(BeFalse())

			inScope := "NA>US>OH>Plant1>Line2"
			c.Hierarchy = &inScope
			Expect(gate.Allow(u, c)).To(BeTrue())
		})
	})

	Context("record actions", func() {
		rec := func(status string) *useraccess.RecordRef {
			return &useraccess.RecordRef{Hierarchy: "NA>US>OH>Plant1>Line2", Status: status}
		}

		It("requires the hierarchy to be in scope first", func() {
			outside := &useraccess.RecordRef{Hierarchy: "EU>DE>Plant9", Status: useraccess.StatusDraft}
			Expect(gate.Allow(plantManager(), useraccess.Criteria{
				Record: outside, Action: useraccess.ActionView,
			})).To(BeFalse())
		})

		It("allows view with the open/closed reports flag", func() {
			Expect(gate.Allow(plantManager(), useraccess.Criteria{
				Record: rec(useraccess.StatusClosed), Action: useraccess.ActionView,
			})).To(BeTrue())
		})

		It("allows edit through any of the three duty flags", func() {
			u := plantManager() // only first-report actions
			Expect(gate.Allow(u, useraccess.Criteria{
				Record: rec(useraccess.StatusPendingReview), Action: useraccess.ActionEdit,
			})).To(BeTrue())

			u.Permissions = useraccess.PermissionFlags{}
			Expect(gate.Allow(u, useraccess.Criteria{
				Record: rec(useraccess.StatusPendingReview), Action: useraccess.ActionEdit,
			})).To(BeFalse())
		})

		It("restricts delete to ENTERPRISE scope on draft records", func() {
			Expect(gate.Allow(enterpriseUser(), useraccess.Criteria{
				Record: rec(useraccess.StatusDraft), Action: useraccess.ActionDelete,
			})).To(BeTrue())

			Expect(gate.Allow(enterpriseUser(), useraccess.Criteria{
				Record: rec(useraccess.StatusClosed), Action: useraccess.ActionDelete,
			})).To(BeFalse())

			Expect(gate.Allow(plantManager(), useraccess.Criteria{
				Record: rec(useraccess.StatusDraft), Action: useraccess.ActionDelete,
			})).To(BeFalse())
		})

		It("restricts approve to the closure flag on records pending review", func() {
			Expect(gate.Allow(enterpriseUser(), useraccess.Criteria{
				Record: rec(useraccess.StatusPendingReview), Action: useraccess.ActionApprove,
			})).To(BeTrue())

			Expect(gate.Allow(enterpriseUser(), useraccess.Criteria{
				Record: rec(useraccess.StatusDraft), Action: useraccess.ActionApprove,
			})).To(BeFalse())

			Expect(gate.Allow(plantManager(), useraccess.Criteria{
				Record: rec(useraccess.StatusPendingReview), Action: useraccess.ActionApprove,
			})).To(BeFalse())
		})

		It("denies unrecognized actions", func() {
			Expect(gate.Allow(enterpriseUser(), useraccess.Criteria{
				Record: rec(useraccess.StatusDraft), Action: useraccess.Action("archive"),
			})).To(BeFalse())
		})
	})
})
