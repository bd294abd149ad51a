// Package visibility is the render-time decision point between the access
// resolver and anything user-facing. A denied check never surfaces as an
// error; it produces a placeholder carrying the restriction copy and a
// pre-filled request-access mail link.
package visibility

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/catalog"
)

// ResourceKind tags what a gate protects.
type ResourceKind string

const (
	KindCommunity ResourceKind = "community"
	KindCategory  ResourceKind = "category"
	KindMetric    ResourceKind = "metric"
)

// RenderMode is caller-supplied: standalone placeholders occupy their own
// layout slot, overlay placeholders sit on top of the dimmed content.
type RenderMode string

const (
	ModeStandalone RenderMode = "standalone"
	ModeOverlay    RenderMode = "overlay"
)

// ResourceRef names the protected resource.
type ResourceRef struct {
	Kind        ResourceKind `json:"kind"`
	ID          string       `json:"id"`
	DisplayName string       `json:"display_name,omitempty"`
}

// Placeholder is what renders instead of restricted content.
type Placeholder struct {
	Kind             ResourceKind `json:"kind"`
	ResourceID       string       `json:"resource_id"`
	DisplayName      string       `json:"display_name,omitempty"`
	Message          string       `json:"message"`
	Mode             RenderMode   `json:"mode"`
	RequestAccessURL string       `json:"request_access_url"`
}

// Decision is the gate's verdict. Placeholder is nil when allowed.
type Decision struct {
	Allowed     bool         `json:"allowed"`
	Placeholder *Placeholder `json:"placeholder,omitempty"`
}

const (
	communityRestrictedMsg = "You don't have access to this community. Contact your administrator to request access."
	categoryRestrictedMsg  = "This data category is not included in your access package. Contact your administrator to request access."
	metricRestrictedMsg    = "This metric is not included in your access package. Contact your administrator to request access."
)

// Gate evaluates resource refs against the resolver and builds placeholders
// for denials.
type Gate struct {
	resolver   *accesscontrol.Resolver
	adminEmail string
	logger     *slog.Logger
}

func NewGate(resolver *accesscontrol.Resolver, adminEmail string, logger *slog.Logger) *Gate {
	return &Gate{
		resolver:   resolver,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// Evaluate runs the applicable resolver check. Bypass roles always pass; the
// resolver handles that, so the gate stays a thin translation layer.
func (g *Gate) Evaluate(role accesscontrol.Role, cfg accesscontrol.Config, ref ResourceRef, mode RenderMode) Decision {
	var allowed bool
	switch ref.Kind {
	case KindCommunity:
		allowed = g.resolver.CanViewCommunity(role, cfg, ref.ID)
	case KindCategory:
		allowed = g.resolver.CanViewCategory(role, cfg, catalog.CategoryKey(ref.ID))
	case KindMetric:
		allowed = g.resolver.CanViewMetric(role, cfg, ref.ID)
	default:
		g.logger.Warn("visibility gate asked about unknown resource kind", "kind", string(ref.Kind))
		allowed = false
	}

	if allowed {
		return Decision{Allowed: true}
	}

	return Decision{
		Allowed:     false,
		Placeholder: g.placeholder(ref, mode),
	}
}

func (g *Gate) placeholder(ref ResourceRef, mode RenderMode) *Placeholder {
	if mode != ModeOverlay {
		mode = ModeStandalone
	}

	var message string
	switch ref.Kind {
	case KindCommunity:
		message = communityRestrictedMsg
	case KindCategory:
		message = categoryRestrictedMsg
	default:
		message = metricRestrictedMsg
	}

	return &Placeholder{
		Kind:             ref.Kind,
		ResourceID:       ref.ID,
		DisplayName:      ref.DisplayName,
		Message:          message,
		Mode:             mode,
		RequestAccessURL: g.RequestAccessMailto(ref),
	}
}

// RequestAccessMailto composes the request-access action: a mailto link to
// the fixed administrative contact. Subject is
// "Access Request - {type}: {resourceName}" and the body names the resource
// type and identifier. Opening a mail composer is the whole action; there is
// no network call behind it.
func (g *Gate) RequestAccessMailto(ref ResourceRef) string {
	name := ref.DisplayName
	if name == "" {
		name = ref.ID
	}

	subject := "Access Request - " + kindTitle(ref.Kind) + ": " + name
	body := "Hello,\n\n" +
		"I would like to request access to the following resource:\n\n" +
		"Resource Type: " + string(ref.Kind) + "\n" +
		"Resource ID: " + ref.ID + "\n" +
		"Resource Name: " + name + "\n\n" +
		"Thank you."

	return "mailto:" + g.adminEmail +
		"?subject=" + encodeMailtoComponent(subject) +
		"&body=" + encodeMailtoComponent(body)
}

func kindTitle(kind ResourceKind) string {
	switch kind {
	case KindCommunity:
		return "Community"
	case KindCategory:
		return "Data Category"
	case KindMetric:
		return "Metric"
	default:
		return string(kind)
	}
}

// encodeMailtoComponent percent-encodes the way mail clients expect: spaces
// become %20, never +.
func encodeMailtoComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
