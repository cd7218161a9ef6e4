package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/venueworks/printbridge/internal/db"
	"github.com/venueworks/printbridge/internal/profile"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type CreateProfileRequest struct {
	Kind   string         `json:"kind" binding:"required"`
	Config map[string]any `json:"config" binding:"required"`
}

type UpdateProfileRequest struct {
	Config map[string]any `json:"config" binding:"required"`
}

type ProfileResponse struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Kind      string         `json:"kind"`
	Config    map[string]any `json:"config"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ProfileHandler struct {
	db *sql.DB
}

func NewProfileHandler(database *sql.DB) *ProfileHandler {
	return &ProfileHandler{db: database}
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var (
		profiles []*db.PrinterProfile
		err      error
	)
	if kind := c.Query("kind"); kind != "" {
		profiles, err = db.Profiles.ListProfilesByKind(c.Request.Context(), kind)
	} else {
		profiles, err = db.Profiles.ListProfiles(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve profiles",
		})
		return
	}

	responses := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp, err := profileToResponse(p)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "config_error",
				Message: fmt.Sprintf("Stored configuration for profile %d is unreadable", p.ID),
			})
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, responses)
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	p, err := decodeRequestProfile(req.Kind, req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_config",
			Message: err.Error(),
		})
		return
	}

	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_config",
			Message: err.Error(),
		})
		return
	}

	if _, err := db.Profiles.GetProfileByName(c.Request.Context(), p.Name()); err == nil {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "duplicate_name",
			Message: "Profile with this name already exists",
		})
		return
	}

	encoded, err := profile.Encode(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "config_error",
			Message: "Failed to serialize profile",
		})
		return
	}

	record := &db.PrinterProfile{
		Name:       p.Name(),
		Kind:       p.Kind(),
		ConfigJSON: encoded,
	}
	if err := db.Profiles.CreateProfile(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create profile",
		})
		return
	}

	resp, err := profileToResponse(record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "config_error",
			Message: "Failed to serialize profile",
		})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, err := parseProfileID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid profile ID",
		})
		return
	}

	record, err := db.Profiles.GetProfileByID(c.Request.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Profile not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve profile",
		})
		return
	}

	resp, err := profileToResponse(record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "config_error",
			Message: "Stored configuration is unreadable",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id, err := parseProfileID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid profile ID",
		})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	record, err := db.Profiles.GetProfileByID(c.Request.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Profile not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve profile",
		})
		return
	}

	p, err := decodeRequestProfile(record.Kind, req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_config",
			Message: err.Error(),
		})
		return
	}

	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_config",
			Message: err.Error(),
		})
		return
	}

	encoded, err := profile.Encode(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "config_error",
			Message: "Failed to serialize profile",
		})
		return
	}

	record.Name = p.Name()
	record.ConfigJSON = encoded
	if err := db.Profiles.UpdateProfile(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update profile",
		})
		return
	}

	resp, err := profileToResponse(record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "config_error",
			Message: "Failed to serialize profile",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	id, err := parseProfileID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid profile ID",
		})
		return
	}

	if _, err := db.Profiles.GetProfileByID(c.Request.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Profile not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve profile",
		})
		return
	}

	if err := db.Attempts.DeleteAttemptsByProfile(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete profile history",
		})
		return
	}

	if err := db.Profiles.DeleteProfile(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete profile",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func parseProfileID(c *gin.Context) (int64, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid profile ID")
	}
	return id, nil
}

func decodeRequestProfile(kind string, config map[string]any) (profile.Profile, error) {
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, err
	}
	return profile.DecodeAs(kind, string(raw))
}

func profileToResponse(record *db.PrinterProfile) (ProfileResponse, error) {
	var config map[string]any
	if err := json.Unmarshal([]byte(record.ConfigJSON), &config); err != nil {
		return ProfileResponse{}, err
	}
	delete(config, "password")
	return ProfileResponse{
		ID:        record.ID,
		Name:      record.Name,
		Kind:      record.Kind,
		Config:    config,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}, nil
}
