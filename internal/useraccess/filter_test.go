package useraccess_test

import (
	"github.com/frahmantamala/incident-management/internal/useraccess"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type scopedRecord struct {
	id        int
	hierarchy string
}

func (r scopedRecord) Hierarchy() string { return r.hierarchy }

func userWith(scope useraccess.Scope, hierarchy string) *useraccess.Record {
	return &useraccess.Record{
		Email:           "someone@acme.com",
		HierarchyString: hierarchy,
		Scope:           scope,
	}
}

var _ = Describe("FilterByScope", func() {
	records := []scopedRecord{
		{1, "NA>US>OH>Plant1"},
		{2, "NA>US>OH>Plant1>Line2"},
		{3, "NA>US>OH>Plant2"},
		{4, "NA>US>PA"},
		{5, "EU>DE>Plant9"},
		{6, ""},
	}

	Context("with a nil user", func() {
		It("returns the input unchanged", func() {
			result := useraccess.FilterByScope(records, nil)
			Expect(result).To(HaveLen(len(records)))
			Expect(result).To(Equal(records))
		})
	})

	Context("with ENTERPRISE scope", func() {
		It("returns everything including records with empty hierarchy", func() {
			result := useraccess.FilterByScope(records, userWith(useraccess.ScopeEnterprise, "NA"))
			Expect(result).To(HaveLen(len(records)))
		})
	})

	Context("with DIVISION scope", func() {
		user := userWith(useraccess.ScopeDivision, "NA>US>OH")

		It("includes the whole subtree", func() {
			result := useraccess.FilterByScope(records, user)
			ids := idsOf(result)
			Expect(ids).To(ConsistOf(1, 2, 3))
		})

		It("excludes sibling branches", func() {
			result := useraccess.FilterByScope(records, user)
			Expect(idsOf(result)).NotTo(ContainElement(4))
			Expect(idsOf(result)).NotTo(ContainElement(5))
		})

		It("excludes records with empty hierarchy", func() {
			result := useraccess.FilterByScope(records, user)
			Expect(idsOf(result)).NotTo(ContainElement(6))
		})
	})

	Context("with PLANT scope", func() {
		user := userWith(useraccess.ScopePlant, "NA>US>OH>Plant1")

		It("matches the exact path only, not descendants", func() {
			result := useraccess.FilterByScope(records, user)
			Expect(idsOf(result)).To(ConsistOf(1))
		})
	})

	Context("with an unknown scope value", func() {
		It("behaves like PLANT", func() {
			user := userWith(useraccess.Scope("WEIRD"), "NA>US>OH>Plant1")
			result := useraccess.FilterByScope(records, user)
			Expect(idsOf(result)).To(ConsistOf(1))
		})
	})

	It("is idempotent", func() {
		user := userWith(useraccess.ScopeDivision, "NA>US>OH")
		once := useraccess.FilterByScope(records, user)
		twice := useraccess.FilterByScope(once, user)
		Expect(twice).To(Equal(once))
	})

	It("does not mutate its input", func() {
		user := userWith(useraccess.ScopePlant, "NA>US>OH>Plant1")
		before := make([]scopedRecord, len(records))
		copy(before, records)
		_ = useraccess.FilterByScope(records, user)
		Expect(records).To(Equal(before))
	})
})

var _ = Describe("MatchesScope", func() {
	It("never matches an empty hierarchy under a scoped user", func() {
		for _, scope := range []useraccess.Scope{
			useraccess.ScopeSegment,
			useraccess.ScopePlatform,
			useraccess.ScopeDivision,
			useraccess.ScopePlant,
		} {
			Expect(useraccess.MatchesScope(userWith(scope, "NA>US"), "")).To(BeFalse())
		}
	})

	It("matches everything for a nil user", func() {
		Expect(useraccess.MatchesScope(nil, "anything")).To(BeTrue())
		Expect(useraccess.MatchesScope(nil, "")).To(BeTrue())
	})
})

func idsOf(records []scopedRecord) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.id)
	}
	return ids
}
