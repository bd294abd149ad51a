package report_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/report"
	reportPostgres "github.com/frahmantamala/community-ops/internal/report/postgres"
	"github.com/frahmantamala/community-ops/internal/transport"
)

var _ = Describe("Report Handler Integration", func() {
	var (
		db      *gorm.DB
		service *report.Service
		handler *report.Handler
		router  *chi.Mux
	)

	actor := &internal.Principal{
		UserID: "user-1",
		Email:  "operator@communityops.example.com",
		Role:   accesscontrol.RoleOperator,
	}

	doRequest := func(method, target string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, target, &buf)
		req = req.WithContext(internal.ContextWithPrincipal(req.Context(), actor))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&reportPostgres.ReportRecord{})
		Expect(err).NotTo(HaveOccurred())

		repo := reportPostgres.NewReportRepository(db)
		service = report.NewService(repo, nil, slogger)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		handler = report.NewHandler(baseHandler, service)

		router = chi.NewRouter()
		router.Route("/reports", func(r chi.Router) {
			r.Get("/", handler.ListReports)
			r.Post("/", handler.CreateReport)
			r.Post("/from-template", handler.CreateFromTemplate)
			r.Get("/{id}", handler.GetReport)
			r.Put("/{id}", handler.UpdateReport)
			r.Delete("/{id}", handler.DeleteReport)
		})
	})

	createReport := func(name string) *report.Report {
		w := doRequest(http.MethodPost, "/reports", report.CreateDTO{Name: name})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var rpt report.Report
		Expect(json.NewDecoder(w.Body).Decode(&rpt)).To(Succeed())
		return &rpt
	}

	It("should create and load a report", func() {
		created := createReport("Weekly Census Notes")

		w := doRequest(http.MethodGet, "/reports/"+created.ID, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var loaded report.Report
		Expect(json.NewDecoder(w.Body).Decode(&loaded)).To(Succeed())
		Expect(loaded.Name).To(Equal("Weekly Census Notes"))
		Expect(loaded.CreatedBy).To(Equal("user-1"))
		Expect(loaded.Revision).To(Equal(int64(1)))
	})

	It("should return 404 for an unknown report id", func() {
		w := doRequest(http.MethodGet, "/reports/nonexistent", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should list reports filtered by search term", func() {
		createReport("Sunset Manor Occupancy")
		createReport("Portfolio NOI")

		w := doRequest(http.MethodGet, "/reports/?search=sunset", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp report.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Reports).To(HaveLen(1))
		Expect(resp.Reports[0].Name).To(Equal("Sunset Manor Occupancy"))
	})

	It("should round-trip layout component order through storage", func() {
		created := createReport("Ordered Layout")

		layout := report.Layout{Components: []report.Component{
			{ID: "c3", Type: report.ComponentText, Config: map[string]any{"content": "intro"}},
			{ID: "c1", Type: report.ComponentKPI, Config: map[string]any{"metric": "noi"}},
			{ID: "c2", Type: report.ComponentChart, Config: map[string]any{"metric": "occupancy_rate"}},
		}}

		w := doRequest(http.MethodPut, "/reports/"+created.ID, report.UpdateDTO{
			Name:     created.Name,
			Layout:   &layout,
			Revision: 1,
		})
		Expect(w.Code).To(Equal(http.StatusOK))

		w = doRequest(http.MethodGet, "/reports/"+created.ID, nil)
		var loaded report.Report
		Expect(json.NewDecoder(w.Body).Decode(&loaded)).To(Succeed())
		Expect(loaded.Layout.Components).To(HaveLen(3))
		Expect(loaded.Layout.Components[0].ID).To(Equal("c3"))
		Expect(loaded.Layout.Components[1].ID).To(Equal("c1"))
		Expect(loaded.Layout.Components[2].ID).To(Equal("c2"))
	})

	It("should answer a concurrent edit with 409", func() {
		created := createReport("Contended Report")

		w := doRequest(http.MethodPut, "/reports/"+created.ID, report.UpdateDTO{
			Name:     "First Writer",
			Revision: 1,
		})
		Expect(w.Code).To(Equal(http.StatusOK))

		w = doRequest(http.MethodPut, "/reports/"+created.ID, report.UpdateDTO{
			Name:     "Second Writer",
			Revision: 1,
		})
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should reject an update with an invalid component type", func() {
		created := createReport("Bad Layout")

		layout := report.Layout{Components: []report.Component{
			{ID: "c1", Type: report.ComponentType("gauge")},
		}}
		w := doRequest(http.MethodPut, "/reports/"+created.ID, report.UpdateDTO{
			Name:     created.Name,
			Layout:   &layout,
			Revision: 1,
		})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should delete a report and answer 204 for unknown ids too", func() {
		created := createReport("Short Lived")

		w := doRequest(http.MethodDelete, "/reports/"+created.ID, nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = doRequest(http.MethodDelete, "/reports/"+created.ID, nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})

	Describe("templates", func() {
		var templateID string

		BeforeEach(func() {
			templateID = "tpl-occupancy"
			rec := reportPostgres.ReportRecord{
				ID:         templateID,
				Name:       "Occupancy Template",
				CreatedBy:  "user-admin",
				IsTemplate: true,
				Revision:   1,
				Layout: report.Layout{Components: []report.Component{
					{ID: "c1", Type: report.ComponentChart, Config: map[string]any{"metric": "occupancy_rate"}},
				}},
			}
			Expect(db.Create(&rec).Error).To(Succeed())
		})

		It("should list templates separately from reports", func() {
			createReport("Plain Report")

			w := doRequest(http.MethodGet, "/reports/?kind=templates", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp report.ListResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Reports).To(HaveLen(1))
			Expect(resp.Reports[0].IsTemplate).To(BeTrue())
		})

		It("should create an editable copy from a template", func() {
			w := doRequest(http.MethodPost, "/reports/from-template", report.CreateFromTemplateDTO{
				TemplateID: templateID,
				Name:       "My Occupancy Copy",
			})
			Expect(w.Code).To(Equal(http.StatusCreated))

			var rpt report.Report
			Expect(json.NewDecoder(w.Body).Decode(&rpt)).To(Succeed())
			Expect(rpt.IsTemplate).To(BeFalse())
			Expect(rpt.Layout.Components).To(HaveLen(1))

			w = doRequest(http.MethodPut, "/reports/"+rpt.ID, report.UpdateDTO{
				Name:     "Edited Copy",
				Revision: 1,
			})
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should refuse to update a template", func() {
			w := doRequest(http.MethodPut, "/reports/"+templateID, report.UpdateDTO{
				Name:     "Renamed",
				Revision: 1,
			})
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should refuse to delete a template", func() {
			w := doRequest(http.MethodDelete, "/reports/"+templateID, nil)
			Expect(w.Code).To(Equal(http.StatusForbidden))

			w = doRequest(http.MethodGet, fmt.Sprintf("/reports/%s", templateID), nil)
			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})
})
