package ingestion

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	httperr "github.com/aevon-lab/rainfall-explorer/internal/core/errors"
	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed      = "Failed to read request body"
	msgInvalidJSON         = "Invalid JSON body"
	msgDatasetNotLoaded    = "No dataset is loaded yet"
	msgDatasetLoadRejected = "Dataset could not be parsed"
	msgDatasetLoadFailed   = "Dataset could not be fetched"
)

// DatasetInfo describes the active snapshot.
type DatasetInfo struct {
	Station     Station    `json:"station"`
	Version     string     `json:"version"`
	Fingerprint string     `json:"fingerprint"`
	Source      string     `json:"source"`
	LoadedAt    time.Time  `json:"loaded_at"`
	FirstDate   string     `json:"first_date,omitempty"`
	LastDate    string     `json:"last_date,omitempty"`
	Years       []int      `json:"years"`
	RecordCount int        `json:"record_count"`
	Stats       ParseStats `json:"stats"`
}

// NewDatasetInfo summarizes a snapshot for the API.
func NewDatasetInfo(snap *Snapshot) DatasetInfo {
	info := DatasetInfo{
		Station:     snap.Station,
		Version:     snap.Version.String(),
		Fingerprint: snap.Fingerprint,
		Source:      snap.Source,
		LoadedAt:    snap.LoadedAt,
		Years:       snap.Series.Years(),
		RecordCount: snap.Series.Len(),
		Stats:       snap.Stats,
	}
	if first, last, ok := snap.Series.Bounds(); ok {
		info.FirstDate = first.Format(rainfall.DateLayout)
		info.LastDate = last.Format(rainfall.DateLayout)
	}
	return info
}

type reloadRequest struct {
	URL string `json:"url"`
}

// Handler serves the dataset endpoints.
type Handler struct {
	store            *Store
	maxBodySizeBytes int
}

func NewHandler(store *Store, maxBodySizeMB int) *Handler {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1
	}
	return &Handler{store: store, maxBodySizeBytes: maxBodySizeMB * 1024 * 1024}
}

// RegisterRoutes registers the dataset routes.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/dataset", h.GetDataset)
	r.POST("/v1/dataset/reload", h.ReloadDataset)
}

// GetDataset handles GET /v1/dataset.
func (h *Handler) GetDataset(c *gin.Context) {
	snap, err := h.store.Current()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, httperr.ErrorResponse{
			ErrorType: httperr.HttpDatasetUnavailableError,
			Message:   msgDatasetNotLoaded,
		})
		return
	}
	c.JSON(http.StatusOK, NewDatasetInfo(snap))
}

// ReloadDataset handles POST /v1/dataset/reload. The body is optional.
func (h *Handler) ReloadDataset(c *gin.Context) {
	req, apiErr := h.parseReload(c)
	if apiErr != nil {
		c.JSON(apiErr.status, apiErr.body)
		return
	}

	snap, err := h.store.Reload(c.Request.Context(), req.URL)
	if err != nil {
		status, body := reloadError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, NewDatasetInfo(snap))
}

type apiError struct {
	status int
	body   httperr.ErrorResponse
}

func (h *Handler) parseReload(c *gin.Context) (reloadRequest, *apiError) {
	var req reloadRequest
	if c.Request.Body == nil {
		return req, nil
	}

	maxBytes := int64(h.maxBodySizeBytes)
	bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1))
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return req, &apiError{http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msgReadBodyFailed,
		}}
	}
	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return req, &apiError{http.StatusRequestEntityTooLarge, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Request body exceeds maximum allowed size",
			Details:   map[string]interface{}{"max_size_mb": maxBytes / (1024 * 1024)},
		}}
	}
	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return req, nil
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return req, &apiError{http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   msgInvalidJSON,
		}}
	}
	return req, nil
}

func reloadError(err error) (int, httperr.ErrorResponse) {
	switch {
	case errors.Is(err, ErrInvalidSourceURL):
		return http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   err.Error(),
		}
	case errors.Is(err, ErrMalformedCSV), errors.Is(err, rainfall.ErrInvalidSeries):
		return http.StatusUnprocessableEntity, httperr.ErrorResponse{
			ErrorType: httperr.HttpDatasetLoadError,
			Message:   msgDatasetLoadRejected,
			Details:   map[string]interface{}{"reason": err.Error()},
		}
	default:
		return http.StatusBadGateway, httperr.ErrorResponse{
			ErrorType: httperr.HttpDatasetLoadError,
			Message:   msgDatasetLoadFailed,
			Details:   map[string]interface{}{"reason": err.Error()},
		}
	}
}
