package observation_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	observationDatamodel "github.com/frahmantamala/incident-management/internal/core/datamodel/observation"
	"github.com/frahmantamala/incident-management/internal/observation"
	observationPostgres "github.com/frahmantamala/incident-management/internal/observation/postgres"
	"github.com/frahmantamala/incident-management/internal/useraccess"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Observation Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    observation.Repository
		service *observation.Service
		handler *observation.Handler
		router  *chi.Mux
	)

	observer := &useraccess.Record{
		Email:           "jane@acme.com",
		HierarchyString: "NA>US>OH>Plant1",
		Level:           useraccess.LevelPlant,
		Scope:           useraccess.ScopePlant,
		Permissions:     useraccess.PermissionFlags{CanReportObservation: true},
	}

	withUser := func(req *http.Request, user *useraccess.Record) *http.Request {
		return req.WithContext(useraccess.ContextWithRecord(req.Context(), user))
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&observationDatamodel.Observation{})
		Expect(err).NotTo(HaveOccurred())

		repo = observationPostgres.NewObservationRepository(db)
		service = observation.NewService(repo, useraccess.NewGate(slogger), slogger)
		handler = observation.NewHandler(service)

		router = chi.NewRouter()
		router.Post("/observations", handler.CreateObservation)
		router.Get("/observations", handler.ListObservations)
		router.Get("/observations/{id}", handler.GetObservation)
		router.Patch("/observations/{id}/resolve", handler.ResolveObservation)
	})

	It("creates an observation through POST /observations", func() {
		body := `{"category":"near_miss","description":"Pallet stacked above the rated height."}`
		req := withUser(httptest.NewRequest(http.MethodPost, "/observations", strings.NewReader(body)), observer)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))

		var created observation.Observation
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).NotTo(BeZero())
		Expect(created.Status).To(Equal(observation.StatusOpen))
		Expect(created.HierarchyString).To(Equal("NA>US>OH>Plant1"))
	})

	It("rejects an unauthenticated create", func() {
		body := `{"category":"near_miss","description":"whatever"}`
		req := httptest.NewRequest(http.MethodPost, "/observations", strings.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects an invalid category with a validation error payload", func() {
		body := `{"category":"vibes","description":"whatever"}`
		req := withUser(httptest.NewRequest(http.MethodPost, "/observations", strings.NewReader(body)), observer)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("category"))
	})

	It("round-trips create, list, get, and resolve", func() {
		body := `{"category":"unsafe_condition","description":"Loose guard rail on mezzanine."}`
		req := withUser(httptest.NewRequest(http.MethodPost, "/observations", strings.NewReader(body)), observer)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusCreated))

		req = withUser(httptest.NewRequest(http.MethodGet, "/observations", nil), observer)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))

		var listResponse struct {
			Observations []*observation.Observation `json:"observations"`
			Count        int                        `json:"count"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&listResponse)).To(Succeed())
		Expect(listResponse.Count).To(Equal(1))
		id := listResponse.Observations[0].ID

		req = withUser(httptest.NewRequest(http.MethodGet, "/observations/1", nil), observer)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))

		req = withUser(httptest.NewRequest(http.MethodPatch, "/observations/1/resolve", nil), observer)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))

		resolved, err := repo.GetByID(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(resolved.Status).To(Equal(observation.StatusResolved))
	})

	It("returns 404 for an unknown observation", func() {
		req := withUser(httptest.NewRequest(http.MethodGet, "/observations/999", nil), observer)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
