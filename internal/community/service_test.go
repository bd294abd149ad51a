package community_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/community"
)

func TestCommunity(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Community Suite")
}

// MockRepository implements community.RepositoryAPI for testing
type MockRepository struct {
	communities []*community.Community
	shouldFail  bool
	failError   error
}

func (m *MockRepository) GetAll() ([]*community.Community, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.communities, nil
}

func (m *MockRepository) GetByID(id string) (*community.Community, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, c := range m.communities {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Count() (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	return int64(len(m.communities)), nil
}

var _ = Describe("Community Service", func() {
	var (
		mockRepo *MockRepository
		service  *community.Service
	)

	investorCfg := accesscontrol.Config{
		Communities: []string{"comm1", "comm3"},
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = &MockRepository{
			communities: []*community.Community{
				{ID: "comm1", Name: "Sunset Manor", Operator: "Harborview Senior Living", Region: "West", State: "CA"},
				{ID: "comm2", Name: "Willow Creek Commons", Operator: "Harborview Senior Living", Region: "West", State: "OR"},
				{ID: "comm3", Name: "Maple Grove Residences", Operator: "Cascade Care Group", Region: "Midwest", State: "OH"},
			},
		}
		service = community.NewService(mockRepo, accesscontrol.NewResolver(logger), logger)
	})

	Describe("ListVisible", func() {
		It("should return everything for a bypass role", func() {
			visible, err := service.ListVisible(accesscontrol.RoleExecutive, accesscontrol.Config{})
			Expect(err).NotTo(HaveOccurred())
			Expect(visible).To(HaveLen(3))
		})

		It("should filter to the investor's assignment", func() {
			visible, err := service.ListVisible(accesscontrol.RoleREITInvestor, investorCfg)
			Expect(err).NotTo(HaveOccurred())

			ids := make([]string, len(visible))
			for i, c := range visible {
				ids[i] = c.ID
			}
			Expect(ids).To(ConsistOf("comm1", "comm3"))
		})

		It("should propagate repository failures", func() {
			mockRepo.shouldFail = true
			mockRepo.failError = errors.New("database error")

			_, err := service.ListVisible(accesscontrol.RoleExecutive, accesscontrol.Config{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Get", func() {
		It("should return a visible community", func() {
			c, err := service.Get(accesscontrol.RoleREITInvestor, investorCfg, "comm1")
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Sunset Manor"))
		})

		It("should restrict a community outside the assignment", func() {
			_, err := service.Get(accesscontrol.RoleREITInvestor, investorCfg, "comm2")
			Expect(err).To(MatchError(internal.ErrAccessRestricted))
		})

		It("should report unknown ids as not found", func() {
			_, err := service.Get(accesscontrol.RoleExecutive, accesscontrol.Config{}, "comm99")
			Expect(err).To(MatchError(internal.ErrCommunityNotFound))
		})
	})

	Describe("CountCommunities", func() {
		It("should count all communities regardless of visibility", func() {
			n, err := service.CountCommunities()
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
		})
	})
})
