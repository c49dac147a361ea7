// Package metrics defines and registers all custom Prometheus metrics for the
// user-account service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package load; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// RegistrationsTotal counts completed registrations.
// Label:
//   - role: the role assigned to the new account ("user" or "admin")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "invalid_credentials", "blocked", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SoftDeletesTotal counts soft-deleted accounts.
// Label:
//   - by: "self" or "admin"
var SoftDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "soft_deletes_total",
		Help:      "Total number of accounts soft-deleted.",
	},
	[]string{"by"},
)

// SocialLinksTotal counts social-account link operations.
// Label:
//   - provider: the external identity provider
var SocialLinksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "social_links_total",
		Help:      "Total number of social accounts linked, by provider.",
	},
	[]string{"provider"},
)
