package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	communityPostgres "github.com/frahmantamala/community-ops/internal/community/postgres"
	dashboardPostgres "github.com/frahmantamala/community-ops/internal/dashboard/postgres"
	"github.com/frahmantamala/community-ops/internal/report"
	reportPostgres "github.com/frahmantamala/community-ops/internal/report/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo data",
	Long:  `Seed the database with demo communities, users, reports and metric snapshots for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"metric_snapshots", "reports", "users", "communities"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		seedCommunities(db)
		seedUsers(db, cfg.Security.BCryptCost)
		seedReports(db)
		seedSnapshots(db)

		fmt.Println("Seeding complete")
	},
}

func seedCommunities(db *gorm.DB) {
	communities := []communityPostgres.CommunityRecord{
		{ID: "comm1", Name: "Sunset Manor", Operator: "Harborview Senior Living", Region: "West", State: "CA"},
		{ID: "comm2", Name: "Willow Creek Commons", Operator: "Harborview Senior Living", Region: "West", State: "OR"},
		{ID: "comm3", Name: "Maple Grove Residences", Operator: "Cascade Care Group", Region: "Midwest", State: "OH"},
		{ID: "comm4", Name: "Riverside Gardens", Operator: "Cascade Care Group", Region: "South", State: "TX"},
		{ID: "comm5", Name: "Cedar Point Village", Operator: "Harborview Senior Living", Region: "Northeast", State: "NY"},
	}

	for _, c := range communities {
		var exists int
		if err := db.Raw("SELECT 1 FROM communities WHERE id = ?", c.ID).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Create(&c).Error; err != nil {
			log.Fatalf("failed to insert community %s: %v", c.ID, err)
		}
		fmt.Println("Seeded community:", c.Name)
	}
}

func seedUsers(db *gorm.DB, bcryptCost int) {
	password := "password"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	reitTemplate := "reit-financial"
	users := []sessionUserSeed{
		{ID: "user-exec", Email: "executive@communityops.example.com", Name: "Evelyn Park", Role: accesscontrol.RoleExecutive},
		{ID: "user-operator", Email: "operator@communityops.example.com", Name: "Marcus Reed", Role: accesscontrol.RoleOperator},
		{ID: "user-sales", Email: "sales@communityops.example.com", Name: "Dana Whitfield", Role: accesscontrol.RoleSales},
		{ID: "user-clinical", Email: "clinical@communityops.example.com", Name: "Priya Nair", Role: accesscontrol.RoleClinical},
		{ID: "user-admin", Email: "admin@communityops.example.com", Name: "Sam Okafor", Role: accesscontrol.RoleAdmin},
		{
			ID:          "user-reit",
			Email:       "investor@communityops.example.com",
			Name:        "Jordan Blake",
			Role:        accesscontrol.RoleREITInvestor,
			TemplateID:  &reitTemplate,
			Communities: `["comm1","comm3"]`,
		},
	}

	for _, u := range users {
		var exists int
		if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
			continue
		}

		rec := map[string]any{
			"id":            u.ID,
			"email":         u.Email,
			"name":          u.Name,
			"password_hash": string(hash),
			"role":          string(u.Role),
			"template_id":   u.TemplateID,
			"is_active":     true,
			"created_at":    time.Now(),
			"updated_at":    time.Now(),
		}
		if u.Communities != "" {
			rec["communities"] = u.Communities
		}
		if err := db.Table("users").Create(rec).Error; err != nil {
			log.Fatalf("failed to insert user %s: %v", u.Email, err)
		}
		fmt.Println("Seeded user:", u.Email)
	}
}

type sessionUserSeed struct {
	ID          string
	Email       string
	Name        string
	Role        accesscontrol.Role
	TemplateID  *string
	Communities string
}

func seedReports(db *gorm.DB) {
	now := time.Now()
	records := []reportPostgres.ReportRecord{
		{
			ID:           uuid.NewString(),
			Name:         "Portfolio Occupancy Overview",
			Description:  "Occupancy and move-in trends across all communities",
			CreatedBy:    "user-admin",
			LastModified: now,
			IsTemplate:   true,
			IsPublic:     true,
			Revision:     1,
			Layout: report.Layout{Components: []report.Component{
				{ID: uuid.NewString(), Type: report.ComponentChart, Config: map[string]any{"metric": "occupancy_rate", "chartType": "line"}},
				{ID: uuid.NewString(), Type: report.ComponentKPI, Config: map[string]any{"metric": "move_ins"}},
				{ID: uuid.NewString(), Type: report.ComponentTable, Config: map[string]any{"metric": "unit_availability"}},
			}},
		},
		{
			ID:           uuid.NewString(),
			Name:         "Financial Performance Summary",
			Description:  "NOI, operating margin and revenue per occupied unit",
			CreatedBy:    "user-admin",
			LastModified: now,
			IsTemplate:   true,
			IsPublic:     true,
			Revision:     1,
			Layout: report.Layout{Components: []report.Component{
				{ID: uuid.NewString(), Type: report.ComponentKPI, Config: map[string]any{"metric": "noi"}},
				{ID: uuid.NewString(), Type: report.ComponentKPI, Config: map[string]any{"metric": "operating_margin"}},
				{ID: uuid.NewString(), Type: report.ComponentChart, Config: map[string]any{"metric": "revenue_per_unit", "chartType": "bar"}},
			}},
		},
		{
			ID:           uuid.NewString(),
			Name:         "Weekly Census Notes",
			Description:  "Working report for the Monday census call",
			CreatedBy:    "user-operator",
			LastModified: now,
			IsTemplate:   false,
			IsPublic:     false,
			Revision:     1,
			Layout: report.Layout{Components: []report.Component{
				{ID: uuid.NewString(), Type: report.ComponentText, Config: map[string]any{"content": "Census call notes go here."}},
				{ID: uuid.NewString(), Type: report.ComponentChart, Config: map[string]any{"metric": "census_trend", "chartType": "line"}},
			}},
		},
	}

	for _, rec := range records {
		var exists int
		if err := db.Raw("SELECT 1 FROM reports WHERE name = ?", rec.Name).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Create(&rec).Error; err != nil {
			log.Fatalf("failed to insert report %s: %v", rec.Name, err)
		}
		fmt.Println("Seeded report:", rec.Name)
	}
}

func seedSnapshots(db *gorm.DB) {
	var count int64
	if err := db.Model(&dashboardPostgres.MetricSnapshotRecord{}).Count(&count).Error; err == nil && count > 0 {
		return
	}

	asOf := time.Now().Truncate(24 * time.Hour)
	type sample struct {
		metricID string
		base     float64
		unit     string
	}
	samples := []sample{
		{"occupancy_rate", 88.5, "%"},
		{"move_ins", 6, "residents"},
		{"move_outs", 4, "residents"},
		{"noi", 412000, "USD"},
		{"operating_margin", 27.3, "%"},
		{"revenue_per_unit", 5120, "USD"},
		{"lead_volume", 42, "leads"},
		{"staff_turnover", 31.2, "%"},
		{"agency_hours", 118, "hours"},
		{"falls_per_1000", 2.1, "per 1k days"},
		{"open_alerts", 3, "alerts"},
	}

	communityIDs := []string{"comm1", "comm2", "comm3", "comm4", "comm5"}
	for i, communityID := range communityIDs {
		for _, s := range samples {
			rec := dashboardPostgres.MetricSnapshotRecord{
				CommunityID: communityID,
				MetricID:    s.metricID,
				// offset per community so the demo data is not uniform
				Value: s.base * (1 + 0.03*float64(i)),
				Unit:  s.unit,
				AsOf:  asOf,
			}
			if err := db.Create(&rec).Error; err != nil {
				log.Fatalf("failed to insert snapshot %s/%s: %v", communityID, s.metricID, err)
			}
		}
	}
	fmt.Println("Seeded metric snapshots for", len(communityIDs), "communities")
}
