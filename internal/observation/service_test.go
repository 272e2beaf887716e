package observation_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/incident-management/internal"
	"github.com/frahmantamala/incident-management/internal/observation"
	"github.com/frahmantamala/incident-management/internal/useraccess"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestObservationService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Observation Service Suite")
}

// MockRepository implements observation.Repository for testing
type MockRepository struct {
	observations map[int64]*observation.Observation
	nextID       int64
	shouldFail   bool
	failError    error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		observations: make(map[int64]*observation.Observation),
		nextID:       1,
	}
}

func (m *MockRepository) Create(o *observation.Observation) error {
	if m.shouldFail {
		return m.failError
	}
	o.ID = m.nextID
	m.nextID++
	m.observations[o.ID] = o
	return nil
}

func (m *MockRepository) GetByID(id int64) (*observation.Observation, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	o, ok := m.observations[id]
	if !ok {
		return nil, internal.ErrObservationNotFound
	}
	return o, nil
}

func (m *MockRepository) GetAll(limit, offset int) ([]*observation.Observation, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*observation.Observation
	for _, o := range m.observations {
		result = append(result, o)
	}
	return result, nil
}

func (m *MockRepository) Update(o *observation.Observation) error {
	if m.shouldFail {
		return m.failError
	}
	m.observations[o.ID] = o
	return nil
}

var _ = Describe("Observation Service", func() {
	var (
		mockRepo *MockRepository
		service  *observation.Service
	)

	observer := func() *useraccess.Record {
		return &useraccess.Record{
			Email:           "jane@acme.com",
			HierarchyString: "NA>US>OH>Plant1",
			Level:           useraccess.LevelPlant,
			Scope:           useraccess.ScopePlant,
			Permissions:     useraccess.PermissionFlags{CanReportObservation: true},
		}
	}

	supervisor := func() *useraccess.Record {
		return &useraccess.Record{
			Email:           "marcus@acme.com",
			HierarchyString: "NA>US>OH",
			Level:           useraccess.LevelDivision,
			Scope:           useraccess.ScopeDivision,
			Permissions: useraccess.PermissionFlags{
				CanReportObservation:      true,
				CanTakeFirstReportActions: true,
			},
		}
	}

	validDTO := func() observation.CreateObservationDTO {
		return observation.CreateObservationDTO{
			Category:    observation.CategoryNearMiss,
			Description: "Pallet stacked above the rated height near dock 4.",
		}
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = observation.NewService(mockRepo, useraccess.NewGate(logger), logger)
	})

	Describe("CreateObservation", func() {
		It("files an open observation under the reporter's hierarchy", func() {
			obs, err := service.CreateObservation(observer(), validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.Status).To(Equal(observation.StatusOpen))
			Expect(obs.HierarchyString).To(Equal("NA>US>OH>Plant1"))
		})

		It("requires the observation flag", func() {
			u := observer()
			u.Permissions = useraccess.PermissionFlags{}
			_, err := service.CreateObservation(u, validDTO())
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})

		It("rejects an unknown category", func() {
			dto := validDTO()
			dto.Category = "vibes"
			_, err := service.CreateObservation(observer(), dto)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a hierarchy outside the caller's scope", func() {
			dto := validDTO()
			dto.HierarchyString = "EU>DE>Plant9"
			_, err := service.CreateObservation(observer(), dto)
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})
	})

	Describe("GetObservation and ListObservations", func() {
		BeforeEach(func() {
			_, err := service.CreateObservation(observer(), validDTO())
			Expect(err).NotTo(HaveOccurred())

			dto := validDTO()
			dto.HierarchyString = "NA>US>OH>Plant2"
			_, err = service.CreateObservation(supervisor(), dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("shows reporters their own records regardless of scope", func() {
			obs, err := service.GetObservation(1, observer())
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.ReporterEmail).To(Equal("jane@acme.com"))
		})

		It("hides out-of-scope records from others", func() {
			_, err := service.GetObservation(2, observer())
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})

		It("scope-filters the list", func() {
			visible, err := service.ListObservations(observer(), 50, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(visible).To(HaveLen(1))

			visible, err = service.ListObservations(supervisor(), 50, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(visible).To(HaveLen(2))
		})
	})

	Describe("ResolveObservation", func() {
		BeforeEach(func() {
			_, err := service.CreateObservation(observer(), validDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("lets the reporter resolve their own record", func() {
			obs, err := service.ResolveObservation(1, observer())
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.Status).To(Equal(observation.StatusResolved))
		})

		It("lets in-scope first-report holders resolve it", func() {
			obs, err := service.ResolveObservation(1, supervisor())
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.Status).To(Equal(observation.StatusResolved))
		})

		It("denies everyone else", func() {
			stranger := &useraccess.Record{
				Email:           "sam@acme.com",
				HierarchyString: "NA>US>OH>Plant1",
				Scope:           useraccess.ScopePlant,
			}
			_, err := service.ResolveObservation(1, stranger)
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})

		It("is idempotent once resolved", func() {
			first, err := service.ResolveObservation(1, observer())
			Expect(err).NotTo(HaveOccurred())

			again, err := service.ResolveObservation(1, observer())
			Expect(err).NotTo(HaveOccurred())
			Expect(again.UpdatedAt).To(Equal(first.UpdatedAt))
		})
	})
})
