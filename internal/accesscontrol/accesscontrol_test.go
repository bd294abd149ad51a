package accesscontrol_test

import (
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/community-ops/internal/accesscontrol"
)

var _ = Describe("Config decoding", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	Context("with all six category flags present", func() {
		It("should decode the config", func() {
			raw := []byte(`{
				"communityAccess": ["comm1", "comm3"],
				"dataCategories": {
					"occupancyMoveIns": true,
					"financials": true,
					"salesFunnel": false,
					"staffing": false,
					"careOutcomes": false,
					"alertsCompliance": false
				}
			}`)

			cfg, err := accesscontrol.ParseConfig(raw, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Communities).To(Equal([]string{"comm1", "comm3"}))
			Expect(cfg.Categories.Financials).To(BeTrue())
			Expect(cfg.Categories.Staffing).To(BeFalse())
		})
	})

	Context("with the dataCategories record absent entirely", func() {
		It("should fail fast instead of loading all-false flags", func() {
			raw := []byte(`{"communityAccess": ["comm1"]}`)

			_, err := accesscontrol.ParseConfig(raw, logger)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("dataCategories"))
		})

		It("should fail fast on an explicit null record", func() {
			raw := []byte(`{"communityAccess": [], "dataCategories": null}`)

			_, err := accesscontrol.ParseConfig(raw, logger)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with a category flag missing", func() {
		It("should fail fast instead of defaulting the flag", func() {
			raw := []byte(`{
				"communityAccess": [],
				"dataCategories": {
					"occupancyMoveIns": true,
					"financials": true,
					"salesFunnel": false,
					"staffing": false,
					"careOutcomes": false
				}
			}`)

			_, err := accesscontrol.ParseConfig(raw, logger)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("alertsCompliance"))
		})
	})

	Context("with metric overrides", func() {
		It("should keep absent keys absent rather than defaulting to false", func() {
			raw := []byte(`{
				"communityAccess": [],
				"dataCategories": {
					"occupancyMoveIns": true,
					"financials": true,
					"salesFunnel": false,
					"staffing": false,
					"careOutcomes": false,
					"alertsCompliance": false
				},
				"metricAccess": {"agency_hours": false}
			}`)

			cfg, err := accesscontrol.ParseConfig(raw, logger)
			Expect(err).NotTo(HaveOccurred())

			v, ok := cfg.Metrics.Override("agency_hours")
			Expect(ok).To(BeTrue())
			Expect(v).To(BeFalse())

			_, ok = cfg.Metrics.Override("noi")
			Expect(ok).To(BeFalse())
		})

		It("should tolerate overrides for metrics the catalog does not know", func() {
			raw := []byte(`{
				"communityAccess": [],
				"dataCategories": {
					"occupancyMoveIns": false,
					"financials": false,
					"salesFunnel": false,
					"staffing": false,
					"careOutcomes": false,
					"alertsCompliance": false
				},
				"metricAccess": {"retired_metric": true}
			}`)

			cfg, err := accesscontrol.ParseConfig(raw, logger)
			Expect(err).NotTo(HaveOccurred())

			v, ok := cfg.Metrics.Override("retired_metric")
			Expect(ok).To(BeTrue())
			Expect(v).To(BeTrue())
		})
	})

	Context("with malformed JSON", func() {
		It("should return the decode error", func() {
			_, err := accesscontrol.ParseConfig([]byte(`{"dataCategories": [`), logger)
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("Templates", func() {
	It("should expose the three investor presets", func() {
		all := accesscontrol.Templates()
		ids := make([]string, len(all))
		for i, t := range all {
			ids[i] = t.ID
		}
		Expect(ids).To(ConsistOf("reit-financial", "reit-full-portfolio", "reit-occupancy-only"))
	})

	It("should carry no community assignments", func() {
		tpl, ok := accesscontrol.TemplateByID("reit-financial")
		Expect(ok).To(BeTrue())
		cfg := tpl.Apply(nil)
		Expect(cfg.Communities).To(BeEmpty())
	})

	It("should deny agency hours on the full portfolio preset", func() {
		tpl, ok := accesscontrol.TemplateByID("reit-full-portfolio")
		Expect(ok).To(BeTrue())
		Expect(tpl.Categories.Staffing).To(BeTrue())

		v, present := tpl.Metrics.Override("agency_hours")
		Expect(present).To(BeTrue())
		Expect(v).To(BeFalse())
	})

	It("should report unknown template ids", func() {
		_, ok := accesscontrol.TemplateByID("reit-everything")
		Expect(ok).To(BeFalse())
	})

	It("should copy metric overrides instead of aliasing them", func() {
		tpl, _ := accesscontrol.TemplateByID("reit-full-portfolio")
		cfg := tpl.Apply([]string{"comm1"})
		cfg.Metrics["agency_hours"] = true

		fresh, _ := accesscontrol.TemplateByID("reit-full-portfolio")
		v, _ := fresh.Metrics.Override("agency_hours")
		Expect(v).To(BeFalse())
	})
})

var _ = Describe("Role", func() {
	It("should subject only the REIT investor to access control", func() {
		Expect(accesscontrol.RoleREITInvestor.BypassesRBAC()).To(BeFalse())

		for _, role := range []accesscontrol.Role{
			accesscontrol.RoleExecutive,
			accesscontrol.RoleOperator,
			accesscontrol.RoleSales,
			accesscontrol.RoleClinical,
			accesscontrol.RoleAdmin,
		} {
			Expect(role.BypassesRBAC()).To(BeTrue())
		}
	})

	It("should recognize only the closed role set", func() {
		Expect(accesscontrol.Role("executive").IsValid()).To(BeTrue())
		Expect(accesscontrol.Role("superuser").IsValid()).To(BeFalse())
	})
})
