package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/incident-management/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// MockUserRepository implements auth.UserRepository for testing
type MockUserRepository struct {
	users map[string]mockUser
	err   error
}

type mockUser struct {
	passwordHash string
	userID       string
	isActive     bool
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]mockUser)}
}

func (m *MockUserRepository) AddUser(email, password, userID string, isActive bool) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.users[email] = mockUser{passwordHash: string(hash), userID: userID, isActive: isActive}
}

func (m *MockUserRepository) GetCredentials(email string) (string, string, bool, error) {
	if m.err != nil {
		return "", "", false, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return "", "", false, errors.New("user not found")
	}
	return u.passwordHash, u.userID, u.isActive, nil
}

var _ = Describe("Auth Service", func() {
	var (
		mockRepo *MockUserRepository
		tokenGen *auth.JWTTokenGenerator
		service  *auth.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockUserRepository()
		mockRepo.AddUser("jane@acme.com", "correct-horse", "user-1", true)
		mockRepo.AddUser("left@acme.com", "whatever", "user-2", false)

		tokenGen = auth.NewJWTTokenGenerator(
			"test-access-secret-at-least-32-chars!",
			"test-refresh-secret-at-least-32-char",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(mockRepo, tokenGen, bcrypt.MinCost)
	})

	Describe("Authenticate", func() {
		It("returns a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "jane@acme.com",
				Password: "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
			Expect(tokens.AccessToken).NotTo(Equal(tokens.RefreshToken))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "jane@acme.com",
				Password: "wrong",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email with the same error as a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "nobody@acme.com",
				Password: "correct-horse",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects a deactivated account", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "left@acme.com",
				Password: "whatever",
			})
			Expect(err).To(MatchError(auth.ErrUserInactive))
		})

		It("rejects malformed login input", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "", Password: "x"})
			Expect(err).To(MatchError(auth.ValidationError{Msg: "email is required"}))

			_, err = service.Authenticate(auth.LoginDTO{Email: "jane@acme.com", Password: ""})
			Expect(err).To(MatchError(auth.ValidationError{Msg: "password is required"}))
		})
	})

	Describe("token validation", func() {
		It("round-trips claims through an access token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "jane@acme.com",
				Password: "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Email).To(Equal("jane@acme.com"))
			Expect(claims.UserID).To(Equal("user-1"))
		})

		It("rejects garbage tokens", func() {
			_, err := service.ValidateAccessToken("not.a.jwt")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects expired tokens", func() {
			shortLived := auth.NewJWTTokenGenerator(
				"test-access-secret-at-least-32-chars!",
				"test-refresh-secret-at-least-32-char",
				time.Millisecond,
				7*24*time.Hour,
			)
			token, err := shortLived.GenerateAccessToken("user-1", "jane@acme.com")
			Expect(err).NotTo(HaveOccurred())

			time.Sleep(10 * time.Millisecond)
			_, err = shortLived.ValidateToken(token)
			Expect(err).To(MatchError(auth.ErrTokenExpired))
		})

		It("rejects an access token signed with the wrong secret", func() {
			other := auth.NewJWTTokenGenerator(
				"another-access-secret-32-chars-long!",
				"another-refresh-secret-32-chars-long",
				15*time.Minute,
				7*24*time.Hour,
			)
			token, err := other.GenerateAccessToken("user-1", "jane@acme.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = tokenGen.ValidateToken(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("RefreshTokens", func() {
		It("issues a fresh pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "jane@acme.com",
				Password: "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())

			renewed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(renewed.AccessToken).NotTo(BeEmpty())
			Expect(renewed.RefreshToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(renewed.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Email).To(Equal("jane@acme.com"))
		})

		It("rejects an invalid refresh token", func() {
			_, err := service.RefreshTokens("bogus")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("HashPassword", func() {
		It("produces a hash that verifies against the original", func() {
			hash, err := service.HashPassword("s3cret")
			Expect(err).NotTo(HaveOccurred())
			Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret"))).To(Succeed())
			Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("other"))).NotTo(Succeed())
		})
	})
})
