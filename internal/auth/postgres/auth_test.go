package auth

import (
	"testing"

	userDatamodel "github.com/frahmantamala/incident-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAuthRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuthRepository Suite")
}

var _ = Describe("AuthRepository", func() {
	var (
		db   *gorm.DB
		repo *Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&userDatamodel.User{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewRepository(db)

		hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		users := []userDatamodel.User{
			{Email: "jane@acme.com", Name: "Jane", PasswordHash: string(hash), IsActive: true},
			{Email: "left@acme.com", Name: "Left", PasswordHash: string(hash), IsActive: false},
		}
		for i := range users {
			Expect(db.Create(&users[i]).Error).NotTo(HaveOccurred())
		}
	})

	Describe("GetCredentials", func() {
		It("returns the stored hash, id, and active flag", func() {
			hash, userID, isActive, err := repo.GetCredentials("jane@acme.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(userID).NotTo(BeEmpty())
			Expect(isActive).To(BeTrue())
			Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct-horse"))).To(Succeed())
		})

		It("matches the email case-insensitively", func() {
			_, _, _, err := repo.GetCredentials("Jane@Acme.COM")
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports deactivated accounts", func() {
			_, _, isActive, err := repo.GetCredentials("left@acme.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(isActive).To(BeFalse())
		})

		It("errors for an unknown email", func() {
			_, _, _, err := repo.GetCredentials("nobody@acme.com")
			Expect(err).To(MatchError("user not found"))
		})
	})
})
