package session_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/session"
)

func TestSession(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Suite")
}

// MockUserRepository implements session.RepositoryAPI for testing
type MockUserRepository struct {
	usersByEmail map[string]*session.User
	usersByID    map[string]*session.User
	usersByRole  map[accesscontrol.Role]*session.User
	passwordHash string
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		usersByEmail: make(map[string]*session.User),
		usersByID:    make(map[string]*session.User),
		usersByRole:  make(map[accesscontrol.Role]*session.User),
	}
}

func (m *MockUserRepository) AddUser(u *session.User, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.passwordHash = string(hash)
	m.usersByEmail[u.Email] = u
	m.usersByID[u.ID] = u
	m.usersByRole[u.Role] = u
}

func (m *MockUserRepository) GetByEmail(email string) (*session.User, string, error) {
	u, ok := m.usersByEmail[email]
	if !ok {
		return nil, "", internal.ErrUserNotFound
	}
	return u, m.passwordHash, nil
}

func (m *MockUserRepository) GetByID(id string) (*session.User, error) {
	u, ok := m.usersByID[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (m *MockUserRepository) GetByRole(role accesscontrol.Role) (*session.User, error) {
	u, ok := m.usersByRole[role]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

var _ = Describe("Session Service", func() {
	var (
		mockRepo *MockUserRepository
		provider *session.Provider
		service  *session.Service
	)

	newService := func(demoMode bool) *session.Service {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		tokens := session.NewJWTTokenGenerator(
			"test-access-secret-needs-to-be-long",
			"test-refresh-secret-needs-to-be-long",
			15*time.Minute,
			24*time.Hour,
		)
		return session.NewService(mockRepo, tokens, provider, demoMode, logger)
	}

	BeforeEach(func() {
		mockRepo = NewMockUserRepository()
		provider = session.NewProvider()
		service = newService(true)

		mockRepo.AddUser(&session.User{
			ID:       "user-operator",
			Email:    "operator@communityops.example.com",
			Name:     "Marcus Reed",
			Role:     accesscontrol.RoleOperator,
			IsActive: true,
		}, "password")
	})

	Describe("Authenticate", func() {
		It("should issue a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(session.LoginDTO{
				Email:    "operator@communityops.example.com",
				Password: "password",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("should set the current-user snapshot on success", func() {
			_, err := service.Authenticate(session.LoginDTO{
				Email:    "operator@communityops.example.com",
				Password: "password",
			})
			Expect(err).NotTo(HaveOccurred())

			current, ok := provider.CurrentUser()
			Expect(ok).To(BeTrue())
			Expect(current.ID).To(Equal("user-operator"))
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(session.LoginDTO{
				Email:    "operator@communityops.example.com",
				Password: "wrong",
			})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("should reject an unknown email with the same error as a bad password", func() {
			_, err := service.Authenticate(session.LoginDTO{
				Email:    "nobody@communityops.example.com",
				Password: "password",
			})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("should reject an inactive user", func() {
			mockRepo.AddUser(&session.User{
				ID:       "user-gone",
				Email:    "gone@communityops.example.com",
				Role:     accesscontrol.RoleSales,
				IsActive: false,
			}, "password")

			_, err := service.Authenticate(session.LoginDTO{
				Email:    "gone@communityops.example.com",
				Password: "password",
			})
			Expect(err).To(MatchError(internal.ErrUserInactive))
		})
	})

	Describe("UserFromToken", func() {
		It("should resolve a freshly issued access token", func() {
			tokens, err := service.Authenticate(session.LoginDTO{
				Email:    "operator@communityops.example.com",
				Password: "password",
			})
			Expect(err).NotTo(HaveOccurred())

			user, err := service.UserFromToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal("user-operator"))
		})

		It("should reject garbage tokens", func() {
			_, err := service.UserFromToken("not-a-token")
			Expect(err).To(HaveOccurred())
		})

		It("should not accept a refresh token as an access token", func() {
			tokens, err := service.Authenticate(session.LoginDTO{
				Email:    "operator@communityops.example.com",
				Password: "password",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UserFromToken(tokens.RefreshToken)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RefreshTokens", func() {
		It("should issue a fresh pair for a valid refresh token", func() {
			tokens, err := service.Authenticate(session.LoginDTO{
				Email:    "operator@communityops.example.com",
				Password: "password",
			})
			Expect(err).NotTo(HaveOccurred())

			fresh, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(fresh.AccessToken).NotTo(BeEmpty())

			user, err := service.UserFromToken(fresh.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal("user-operator"))
		})

		It("should reject an access token presented as a refresh token", func() {
			tokens, err := service.Authenticate(session.LoginDTO{
				Email:    "operator@communityops.example.com",
				Password: "password",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RefreshTokens(tokens.AccessToken)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SwitchRole", func() {
		BeforeEach(func() {
			mockRepo.AddUser(&session.User{
				ID:          "user-reit",
				Email:       "investor@communityops.example.com",
				Role:        accesscontrol.RoleREITInvestor,
				TemplateID:  "reit-financial",
				Communities: []string{"comm1", "comm3"},
				IsActive:    true,
			}, "password")
		})

		It("should replace the session with the demo user for that role", func() {
			user, err := service.SwitchRole(accesscontrol.RoleREITInvestor)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal("user-reit"))

			current, ok := provider.CurrentUser()
			Expect(ok).To(BeTrue())
			Expect(current.Role).To(Equal(accesscontrol.RoleREITInvestor))
		})

		It("should take effect on the next principal resolution", func() {
			_, err := service.SwitchRole(accesscontrol.RoleOperator)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.SwitchRole(accesscontrol.RoleREITInvestor)
			Expect(err).NotTo(HaveOccurred())

			current, _ := provider.CurrentUser()
			p, err := current.ToPrincipal()
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal(accesscontrol.RoleREITInvestor))
			Expect(p.Config.Communities).To(Equal([]string{"comm1", "comm3"}))
		})

		It("should reject an unknown role", func() {
			_, err := service.SwitchRole(accesscontrol.Role("superuser"))
			Expect(err).To(HaveOccurred())
		})

		It("should be unavailable outside demo mode", func() {
			service = newService(false)
			_, err := service.SwitchRole(accesscontrol.RoleOperator)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
		})
	})
})

var _ = Describe("User", func() {
	Describe("EffectiveConfig", func() {
		It("should give bypass roles an empty config", func() {
			u := &session.User{ID: "u1", Role: accesscontrol.RoleExecutive}
			cfg, err := u.EffectiveConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Communities).To(BeEmpty())
		})

		It("should apply the template plus the community assignment", func() {
			u := &session.User{
				ID:          "u1",
				Role:        accesscontrol.RoleREITInvestor,
				TemplateID:  "reit-financial",
				Communities: []string{"comm1", "comm3"},
			}
			cfg, err := u.EffectiveConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Communities).To(Equal([]string{"comm1", "comm3"}))
			Expect(cfg.Categories.Financials).To(BeTrue())
			Expect(cfg.Categories.Staffing).To(BeFalse())
		})

		It("should use the custom config when no template is set", func() {
			u := &session.User{
				ID:   "u1",
				Role: accesscontrol.RoleREITInvestor,
				CustomConfig: &accesscontrol.Config{
					Categories: accesscontrol.CategoryFlags{SalesFunnel: true},
				},
				Communities: []string{"comm2"},
			}
			cfg, err := u.EffectiveConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Communities).To(Equal([]string{"comm2"}))
			Expect(cfg.Categories.SalesFunnel).To(BeTrue())
		})

		It("should fail for an investor with an unknown template", func() {
			u := &session.User{
				ID:         "u1",
				Role:       accesscontrol.RoleREITInvestor,
				TemplateID: "retired-template",
			}
			_, err := u.EffectiveConfig()
			Expect(err).To(HaveOccurred())
		})

		It("should fail for an investor with neither template nor custom config", func() {
			u := &session.User{ID: "u1", Role: accesscontrol.RoleREITInvestor}
			_, err := u.EffectiveConfig()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Provider", func() {
		It("should hand out copies, not the stored pointer", func() {
			p := session.NewProvider()
			p.SetUser(&session.User{ID: "u1", Name: "Original"})

			first, _ := p.CurrentUser()
			first.Name = "Mutated"

			second, _ := p.CurrentUser()
			Expect(second.Name).To(Equal("Original"))
		})

		It("should report no user after Clear", func() {
			p := session.NewProvider()
			p.SetUser(&session.User{ID: "u1"})
			p.Clear()

			_, ok := p.CurrentUser()
			Expect(ok).To(BeFalse())
		})
	})
})
