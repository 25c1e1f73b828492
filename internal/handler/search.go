package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"trends-search/internal/service"
	"trends-search/pkg/client"
	"trends-search/pkg/export"
	"trends-search/pkg/form"
	"trends-search/pkg/logger"
	"trends-search/pkg/volume"
)

// Handler serves the search form, the CSV download and the JSON contract
type Handler struct {
	searcher       volume.Searcher
	health         service.HealthService
	requestTimeout time.Duration
	log            *logger.Logger
}

func NewHandler(searcher volume.Searcher, health service.HealthService, requestTimeout time.Duration) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = 45 * time.Second
	}
	return &Handler{
		searcher:       searcher,
		health:         health,
		requestTimeout: requestTimeout,
		log:            logger.GetLogger().WithField("component", "search_handler"),
	}
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/", h.Index)
	app.Post("/search", h.Search)
	app.Post("/export", h.Export)
	app.Post(client.SearchVolumesPath, h.SearchVolumes)
	app.Get("/health", h.Health)
}

func (h *Handler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.requestTimeout)
}

// Index renders an untouched form
func (h *Handler) Index(c *fiber.Ctx) error {
	f := form.New(h.searcher)
	return h.renderPage(c, f)
}

// Search runs the submitted form and renders the page with the results.
// A failed search renders the form again with results unset.
func (h *Handler) Search(c *fiber.Ctx) error {
	fields, err := parseFields(c)
	if err != nil {
		return err
	}

	f := form.NewWithFields(h.searcher, fields)
	ctx, cancel := h.requestContext(c)
	defer cancel()

	// the form logs the failure; the page simply shows no results
	_ = f.Search(ctx)

	return h.renderPage(c, f)
}

// Export runs the submitted form and answers with search_results.csv.
// Without results there is nothing to download and the response is 204.
func (h *Handler) Export(c *fiber.Ctx) error {
	fields, err := parseFields(c)
	if err != nil {
		return err
	}

	f := form.NewWithFields(h.searcher, fields)
	ctx, cancel := h.requestContext(c)
	defer cancel()
	_ = f.Search(ctx)

	var buf bytes.Buffer
	if err := f.WriteCSV(&buf, export.MatchLocale(c.Get(fiber.HeaderAcceptLanguage))); err != nil {
		if errors.Is(err, form.ErrNoResults) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return err
	}

	c.Attachment(export.FileName)
	c.Set(fiber.HeaderContentType, export.ContentType)
	return c.Send(buf.Bytes())
}

// SearchVolumes serves POST /api/search_volumes
func (h *Handler) SearchVolumes(c *fiber.Ctx) error {
	var q volume.Query
	if err := json.Unmarshal(c.Body(), &q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed JSON body: "+err.Error())
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	records, err := h.searcher.SearchVolumes(ctx, q)
	if err != nil {
		if service.IsInvalidQuery(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		h.log.WithError(err).WithField("terms_count", len(q.Terms)).Error("Error fetching data")
		if errors.Is(err, context.DeadlineExceeded) {
			return fiber.NewError(fiber.StatusGatewayTimeout, "search volume provider timed out")
		}
		return fiber.NewError(fiber.StatusBadGateway, "search volume provider request failed")
	}

	if records == nil {
		records = []volume.Record{}
	}
	return c.JSON(records)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	if h.health == nil {
		return c.JSON(service.HealthStatus{Status: "ok"})
	}
	return c.JSON(h.health.Health(c.UserContext()))
}

func parseFields(c *fiber.Ctx) (form.Fields, error) {
	var fields form.Fields
	if err := c.BodyParser(&fields); err != nil {
		return fields, fiber.NewError(fiber.StatusBadRequest, "malformed form body: "+err.Error())
	}
	return fields, nil
}
