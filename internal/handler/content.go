package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/soundvest/soundvest-api/internal/middleware"
	"github.com/soundvest/soundvest-api/internal/queue"
	"github.com/soundvest/soundvest-api/internal/repository"
	"github.com/soundvest/soundvest-api/internal/sanitize"
)

// ContentHandler serves the section-keyed content documents. Reads are
// public; writes run behind the session middleware and pass the
// validate-then-sanitize pipeline before anything is persisted.
type ContentHandler struct {
	Repo          *repository.ContentRepo
	EventsEnabled bool
}

func NewContentHandler(repo *repository.ContentRepo, eventsEnabled bool) *ContentHandler {
	return &ContentHandler{Repo: repo, EventsEnabled: eventsEnabled}
}

// List returns every stored section as {content: {key: document, ...}}.
func (h *ContentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sections, err := h.Repo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	content := make(map[string]any, len(sections))
	for _, s := range sections {
		content[s.SectionKey] = decodeStored(s.Data)
	}
	return c.JSON(http.StatusOK, echo.Map{"content": content})
}

// Get returns one section document or 404.
func (h *ContentHandler) Get(c echo.Context) error {
	key := sanitize.SectionKey(c.Param("section"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"section": s.SectionKey, "data": decodeStored(s.Data)})
}

// Upsert validates, sanitizes and stores a section document. The validator
// runs first and a rejection short-circuits with 400 before the sanitizer
// or the store are touched. Insert-or-replace semantics: a second write to
// the same key replaces the document in place.
func (h *ContentHandler) Upsert(c echo.Context) error {
	key := sanitize.SectionKey(c.Param("section"))
	if key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid section key"})
	}

	var payload any
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if !sanitize.IsValidPayload(payload) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	clean := sanitize.Value(payload)
	data, err := json.Marshal(clean)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Upsert(ctx, key, string(data)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	h.publish(c, key, "upsert")
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Delete removes a section or answers 404 when it does not exist.
func (h *ContentHandler) Delete(c echo.Context) error {
	key := sanitize.SectionKey(c.Param("section"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.publish(c, key, "delete")
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// publish emits an audit event for a successful write. Errors are already
// logged by the publisher and never fail the request.
func (h *ContentHandler) publish(c echo.Context, key, action string) {
	if !h.EventsEnabled {
		return
	}
	userID, _ := c.Get(middleware.CtxUserID).(uint64)
	username, _ := c.Get(middleware.CtxUsername).(string)
	_ = queue.PublishContentChanged(c.Request().Context(), queue.ContentChangedEvent{
		Section:   key,
		Action:    action,
		UserID:    userID,
		Username:  username,
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeStored parses a stored document. The write path always stores
// sanitizer output, so malformed JSON should not occur; if it somehow
// does, the raw text is returned as an opaque string instead of failing
// the whole read.
func decodeStored(data string) any {
	var v any
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return data
	}
	return v
}
