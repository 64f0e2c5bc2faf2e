package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brgydocs/internal/http/middleware"
	"brgydocs/internal/model"
	"brgydocs/internal/service"
)

// Dependencies are the collaborators the HTTP routes are wired to.
type Dependencies struct {
	DB       *sql.DB
	Requests service.DocumentRequestService
	Types    service.DocumentTypeService
	Auth     *middleware.Authenticator
	// Gatherer backs /metrics; nil leaves the endpoint unregistered.
	Gatherer prometheus.Gatherer
	Location *time.Location
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", Liveness())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// The token is the capability; a signed-in staff member is recorded when present.
	release := app.Group("/release", d.Auth.Optional())
	release.Get("/:token", ReleaseLanding(d.Requests, d.Location))
	release.Post("/:token", ReleaseAction(d.Requests))

	staff := middleware.RequireRole(model.RoleStaff, model.RoleAdmin)

	reqs := app.Group("/document-requests", d.Auth.Require())
	reqs.Post("/", CreateRequest(d.Requests))
	reqs.Get("/", staff, ListRequests(d.Requests))
	reqs.Get("/export", staff, ExportRequests(d.Requests))
	reqs.Get("/:id", staff, GetRequest(d.Requests))
	reqs.Get("/:id/history", staff, RequestHistory(d.Requests))
	reqs.Get("/:id/qrcode", RequestQRCode(d.Requests))
	reqs.Put("/:id/accept", staff, AcceptRequest(d.Requests))
	reqs.Put("/:id/ready", staff, MarkReady(d.Requests))
	reqs.Put("/:id/decline", staff, DeclineRequest(d.Requests))
	reqs.Put("/:id/status", staff, UpdateStatus(d.Requests))
	reqs.Post("/:id/print", staff, PrintRequest(d.Requests))

	types := app.Group("/document-types", d.Auth.Require())
	types.Get("/", ListDocumentTypes(d.Types))
	types.Get("/:id", GetDocumentType(d.Types))
	types.Post("/", staff, CreateDocumentType(d.Types))
	types.Put("/:id", staff, UpdateDocumentType(d.Types))
	types.Delete("/:id", staff, DeleteDocumentType(d.Types))
}
