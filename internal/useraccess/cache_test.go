package useraccess_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/frahmantamala/incident-management/internal/useraccess"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SessionCache", func() {
	var (
		store *mockStore
		cache *useraccess.SessionCache
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store = &mockStore{name: "primary", records: map[string]*useraccess.Record{
			"jane@acme.com": {Email: "jane@acme.com", Level: 4, HierarchyString: "NA>US>OH"},
		}}
		resolver := useraccess.NewResolver([]useraccess.Store{store}, nil, logger)
		cache = useraccess.NewSessionCache(resolver, logger)
	})

	It("resolves once per session", func() {
		first, err := cache.Get(context.Background(), "jane@acme.com")
		Expect(err).NotTo(HaveOccurred())

		second, err := cache.Get(context.Background(), "Jane@Acme.com")
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(BeIdenticalTo(first))
		Expect(store.calls).To(Equal(1))
	})

	It("re-resolves after invalidation", func() {
		_, err := cache.Get(context.Background(), "jane@acme.com")
		Expect(err).NotTo(HaveOccurred())

		cache.Invalidate("jane@acme.com")

		_, err = cache.Get(context.Background(), "jane@acme.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(store.calls).To(Equal(2))
	})

	It("propagates resolution failures without caching them", func() {
		_, err := cache.Get(context.Background(), "ghost@acme.com")
		Expect(err).To(HaveOccurred())

		_, err = cache.Get(context.Background(), "ghost@acme.com")
		Expect(err).To(HaveOccurred())
		Expect(store.calls).To(Equal(2))
	})
})
