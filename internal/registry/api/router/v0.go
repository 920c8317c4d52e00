// Package router contains API routing logic
package router

import (
	"github.com/danielgtaylor/huma/v2"

	v0 "github.com/promptdial/promptdial/internal/registry/api/handlers/v0"
	v0auth "github.com/promptdial/promptdial/internal/registry/api/handlers/v0/auth"
	intauth "github.com/promptdial/promptdial/internal/registry/auth"
	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/internal/registry/telemetry"
)

// PathPrefix is the version prefix every huma operation is mounted under.
const PathPrefix = "/v0"

// RouteOptions contains optional services for route registration.
type RouteOptions struct {
	OTP      *intauth.OTPService
	Sessions *intauth.SessionManager

	// Optional callback for integration-owned route registration.
	ExtraRoutes func(api huma.API, pathPrefix string)
}

// RegisterRoutes registers all API routes under /v0.
func RegisterRoutes(
	api huma.API,
	svc service.PersonaService,
	metrics *telemetry.Metrics,
	versionInfo *v0.VersionBody,
	opts *RouteOptions,
) {
	pathPrefix := PathPrefix

	v0.RegisterHealthEndpoint(api, pathPrefix, svc)
	v0.RegisterPingEndpoint(api, pathPrefix)
	v0.RegisterVersionEndpoint(api, pathPrefix, versionInfo)
	v0.RegisterPersonasEndpoints(api, pathPrefix, svc, metrics)
	v0.RegisterPromptsEndpoints(api, pathPrefix, svc)
	v0.RegisterPublishEndpoints(api, pathPrefix, svc, metrics)
	v0.RegisterPersonalitiesEndpoints(api, pathPrefix, svc, metrics)

	// Auth handlers only capture these in closures, so spec generation can
	// register them without live services.
	var otp *intauth.OTPService
	var sessions *intauth.SessionManager
	if opts != nil {
		otp, sessions = opts.OTP, opts.Sessions
	}
	v0auth.RegisterAuthEndpoints(api, pathPrefix, otp, sessions, metrics)

	if opts != nil && opts.ExtraRoutes != nil {
		opts.ExtraRoutes(api, pathPrefix)
	}
}
