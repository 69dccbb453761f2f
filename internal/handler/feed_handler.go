package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-board-api/internal/dto"
	"github.com/noah-isme/sma-board-api/internal/models"
	appErrors "github.com/noah-isme/sma-board-api/pkg/errors"
	"github.com/noah-isme/sma-board-api/pkg/response"
)

type feedService interface {
	Feed(ctx context.Context, req dto.FeedRequest) (*dto.FeedResponse, error)
	Export(ctx context.Context, req dto.FeedRequest, format string) (*dto.FeedExport, error)
	GetPreferredLanguage(ctx context.Context) models.LanguageCode
	SetPreferredLanguage(ctx context.Context, raw string) (models.LanguageCode, error)
}

// FeedHandler serves the student feed and the display language preference.
type FeedHandler struct {
	service feedService
}

// NewFeedHandler constructs the handler.
func NewFeedHandler(service feedService) *FeedHandler {
	return &FeedHandler{service: service}
}

// Feed godoc
// @Summary Student feed
// @Description Renders every announcement in one language. Items without a translation carry available=false and a notice.
// @Tags Feed
// @Produce json
// @Param lang query string false "Language code, defaults to the stored preference"
// @Param category query string false "Category value or key"
// @Param refresh query bool false "Re-read storage before rendering"
// @Success 200 {object} response.Envelope
// @Router /feed [get]
func (h *FeedHandler) Feed(c *gin.Context) {
	req, err := bindFeedRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	feed, err := h.service.Feed(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feed, map[string]interface{}{"total": len(feed.Items)})
}

// Export godoc
// @Summary Export feed
// @Tags Feed
// @Produce text/csv
// @Produce application/pdf
// @Param lang query string false "Language code"
// @Param category query string false "Category value or key"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /feed/export [get]
func (h *FeedHandler) Export(c *gin.Context) {
	req, err := bindFeedRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Export(c.Request.Context(), req, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// GetPreference godoc
// @Summary Get preferred language
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /preferences/language [get]
func (h *FeedHandler) GetPreference(c *gin.Context) {
	code := h.service.GetPreferredLanguage(c.Request.Context())
	response.JSON(c, http.StatusOK, dto.LanguagePreference{Code: string(code)})
}

// SetPreference godoc
// @Summary Set preferred language
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.LanguagePreference true "Language code"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /preferences/language [put]
func (h *FeedHandler) SetPreference(c *gin.Context) {
	var req dto.LanguagePreference
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid language payload"))
		return
	}
	code, err := h.service.SetPreferredLanguage(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.LanguagePreference{Code: string(code)})
}

func bindFeedRequest(c *gin.Context) (dto.FeedRequest, error) {
	req := dto.FeedRequest{Language: c.Query("lang"), Category: c.Query("category")}
	if raw := c.Query("refresh"); raw != "" {
		refresh, err := strconv.ParseBool(raw)
		if err != nil {
			return req, appErrors.Clone(appErrors.ErrValidation, "refresh must be a boolean")
		}
		req.Refresh = refresh
	}
	return req, nil
}
