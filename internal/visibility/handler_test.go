package visibility_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	coreevents "github.com/frahmantamala/community-ops/internal/core/events"
	"github.com/frahmantamala/community-ops/internal/transport"
	"github.com/frahmantamala/community-ops/internal/visibility"
)

var _ = Describe("Handler ComposeAccessRequest", func() {
	var (
		handler  *visibility.Handler
		bus      *coreevents.EventBus
		received []coreevents.Event
	)

	principal := &internal.Principal{
		UserID: "user-reit",
		Role:   accesscontrol.RoleREITInvestor,
	}

	doPost := func(body string, p *internal.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/access/request", bytes.NewBufferString(body))
		if p != nil {
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		handler.ComposeAccessRequest(rec, req)
		return rec
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver := accesscontrol.NewResolver(logger)
		gate := visibility.NewGate(resolver, testAdminEmail, logger)

		received = nil
		bus = coreevents.NewEventBus(logger)
		bus.Subscribe(coreevents.EventTypeAccessRequested, func(ctx context.Context, event coreevents.Event) error {
			received = append(received, event)
			return nil
		})

		handler = visibility.NewHandler(transport.NewBaseHandler(logger), gate, bus)
	})

	It("should return the mailto link and record the event before responding", func() {
		rec := doPost(`{"kind": "metric", "id": "noi", "display_name": "Net Operating Income"}`, principal)

		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp struct {
			RequestAccessURL string `json:"request_access_url"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.RequestAccessURL).To(HavePrefix("mailto:" + testAdminEmail))
		Expect(resp.RequestAccessURL).To(ContainSubstring("Net%20Operating%20Income"))

		// Delivery is synchronous, so the audit record must already be there.
		Expect(received).To(HaveLen(1))
		Expect(received[0].EventType()).To(Equal(coreevents.EventTypeAccessRequested))

		payload, ok := received[0].Payload().(map[string]interface{})
		Expect(ok).To(BeTrue())
		Expect(payload["resource_kind"]).To(Equal("metric"))
		Expect(payload["resource_id"]).To(Equal("noi"))
		Expect(payload["actor_id"]).To(Equal("user-reit"))
	})

	It("should reject an unknown resource kind", func() {
		rec := doPost(`{"kind": "portfolio", "id": "p1"}`, principal)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(received).To(BeEmpty())
	})

	It("should require an id", func() {
		rec := doPost(`{"kind": "community", "id": ""}`, principal)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(received).To(BeEmpty())
	})

	It("should reject requests without a principal", func() {
		rec := doPost(`{"kind": "metric", "id": "noi"}`, nil)

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})
