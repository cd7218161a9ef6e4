package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venueworks/printbridge/internal/db"
	"github.com/venueworks/printbridge/internal/media"
	"github.com/venueworks/printbridge/internal/profile"
	"github.com/venueworks/printbridge/internal/transport"
)

type PrintRequest struct {
	MediaType   string `json:"media_type" binding:"required"`
	Payload     string `json:"payload" binding:"required"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
}

type PrintResponse struct {
	AttemptID  string             `json:"attempt_id"`
	Successful bool               `json:"successful"`
	Details    []PrintDetailEntry `json:"details"`
}

type PrintDetailEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type AttemptResponse struct {
	AttemptID  string             `json:"attempt_id"`
	ProfileID  int64              `json:"profile_id"`
	Successful bool               `json:"successful"`
	Details    []PrintDetailEntry `json:"details"`
	CreatedAt  time.Time          `json:"created_at"`
}

var mediaTypeNames = map[string]media.Type{
	"barcode_label":  media.TypeBarcodeLabel,
	"service_ticket": media.TypeServiceTicket,
	"nametag_card":   media.TypeNametagCard,
}

type PrintHandler struct {
	db  *sql.DB
	env transport.Env
}

func NewPrintHandler(database *sql.DB, env transport.Env) *PrintHandler {
	return &PrintHandler{db: database, env: env}
}

func (h *PrintHandler) Print(c *gin.Context) {
	record, p, ok := h.loadProfile(c)
	if !ok {
		return
	}

	var req PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	mediaType, ok := mediaTypeNames[req.MediaType]
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_media_type",
			Message: "Unknown media type: " + req.MediaType,
		})
		return
	}

	var doc *media.Document
	if req.Title != "" || req.ContentType != "" {
		doc = media.NewCloudDocument(mediaType, req.Payload, req.Title, req.ContentType)
	} else {
		doc = media.NewDocument(mediaType, req.Payload)
	}

	h.dispatch(c, record, p, doc)
}

func (h *PrintHandler) TestPrint(c *gin.Context) {
	record, p, ok := h.loadProfile(c)
	if !ok {
		return
	}

	doc, err := p.TestDocument()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "document_error",
			Message: err.Error(),
		})
		return
	}

	h.dispatch(c, record, p, doc)
}

func (h *PrintHandler) dispatch(c *gin.Context, record *db.PrinterProfile, p profile.Profile, doc *media.Document) {
	if !p.CanPrint(doc.MediaType()) {
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{
			Error:   "unsupported_media",
			Message: "Profile cannot print this media type",
		})
		return
	}

	tr, err := p.Transport(h.env)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "transport_error",
			Message: err.Error(),
		})
		return
	}

	result, err := tr.PrintMedia(c.Request.Context(), doc)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{
			Error:   "unsupported_media",
			Message: err.Error(),
		})
		return
	}

	attemptID := uuid.NewString()
	entries := detailEntries(result.Details())

	detailsJSON, err := json.Marshal(entries)
	if err == nil {
		attempt := &db.PrintAttempt{
			AttemptID:   attemptID,
			ProfileID:   record.ID,
			Successful:  result.WasSuccessful(),
			DetailsJSON: string(detailsJSON),
		}
		if err := db.Attempts.CreateAttempt(c.Request.Context(), attempt); err != nil {
			log.Printf("failed to record print attempt %s: %v", attemptID, err)
		}
	}

	status := http.StatusOK
	if !result.WasSuccessful() {
		status = http.StatusBadGateway
	}

	c.JSON(status, PrintResponse{
		AttemptID:  attemptID,
		Successful: result.WasSuccessful(),
		Details:    entries,
	})
}

func (h *PrintHandler) ListAttempts(c *gin.Context) {
	record, _, ok := h.loadProfile(c)
	if !ok {
		return
	}

	filter := db.AttemptFilter{ProfileID: record.ID}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filter.Offset = offset
		}
	}
	if v := c.Query("successful"); v != "" {
		if successful, err := strconv.ParseBool(v); err == nil {
			filter.Successful = &successful
		}
	}

	attempts, err := db.Attempts.ListAttempts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve print attempts",
		})
		return
	}

	responses := make([]AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		var entries []PrintDetailEntry
		if err := json.Unmarshal([]byte(a.DetailsJSON), &entries); err != nil {
			entries = nil
		}
		responses = append(responses, AttemptResponse{
			AttemptID:  a.AttemptID,
			ProfileID:  a.ProfileID,
			Successful: a.Successful,
			Details:    entries,
			CreatedAt:  a.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

func (h *PrintHandler) loadProfile(c *gin.Context) (*db.PrinterProfile, profile.Profile, bool) {
	id, err := parseProfileID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid profile ID",
		})
		return nil, nil, false
	}

	record, err := db.Profiles.GetProfileByID(c.Request.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Profile not found",
			})
			return nil, nil, false
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve profile",
		})
		return nil, nil, false
	}

	p, err := profile.Decode(record.ConfigJSON)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "config_error",
			Message: "Stored configuration is unreadable",
		})
		return nil, nil, false
	}

	return record, p, true
}

func detailEntries(details []transport.Detail) []PrintDetailEntry {
	entries := make([]PrintDetailEntry, 0, len(details))
	for _, d := range details {
		entries = append(entries, PrintDetailEntry{Key: d.Key, Value: d.Value})
	}
	return entries
}
