package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/rainfall-explorer/internal/core/errors"
	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/aevon-lab/rainfall-explorer/internal/ingestion"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all dashboard query routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/aggregates", s.HandleAggregates)
	r.GET("/v1/aggregates/export", s.HandleExport)
	r.GET("/v1/monsoon/withdrawal", s.HandleWithdrawal)
	r.GET("/v1/monsoon/withdrawals", s.HandleWithdrawals)
	r.GET("/v1/climatology", s.HandleClimatology)
	r.GET("/v1/anomalies", s.HandleAnomalies)
}

// HandleAggregates handles GET /v1/aggregates
// Query parameters: start, end | year, granularity
func (s *Service) HandleAggregates(c *gin.Context) {
	var q AggregateQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := s.QueryAggregates(q)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleExport handles GET /v1/aggregates/export with the same parameters as HandleAggregates.
func (s *Service) HandleExport(c *gin.Context) {
	var q AggregateQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := s.QueryAggregates(q)
	if err != nil {
		writeQueryError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename(resp.Result)+`"`)
	c.Status(http.StatusOK)
	if err := WriteCSV(c.Writer, resp.Result); err != nil {
		// Headers are already sent; the client sees a truncated file.
		slog.Error("Failed to stream aggregate export", "error", err)
	}
}

// HandleWithdrawal handles GET /v1/monsoon/withdrawal
// Query parameters: year, start, threshold_mm, dry_days
func (s *Service) HandleWithdrawal(c *gin.Context) {
	var q WithdrawalQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := s.EstimateWithdrawal(q)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleWithdrawals handles GET /v1/monsoon/withdrawals
func (s *Service) HandleWithdrawals(c *gin.Context) {
	var q WithdrawalsQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := s.WithdrawalHistory(q)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleClimatology handles GET /v1/climatology
func (s *Service) HandleClimatology(c *gin.Context) {
	var q ClimatologyQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := s.Climatology(q)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleAnomalies handles GET /v1/anomalies
func (s *Service) HandleAnomalies(c *gin.Context) {
	var q ClimatologyQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := s.Anomalies(q)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func bindQuery(c *gin.Context, q interface{}) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return false
	}
	return true
}

func writeQueryError(c *gin.Context, err error) {
	status, errorType, message := http.StatusInternalServerError, httperr.HttpInternalError, "Failed to run query"
	switch {
	case errors.Is(err, ingestion.ErrDatasetNotLoaded):
		status, errorType, message = http.StatusServiceUnavailable, httperr.HttpDatasetUnavailableError, "No dataset is loaded yet"
	case errors.Is(err, rainfall.ErrInvalidRange):
		status, errorType, message = http.StatusBadRequest, httperr.HttpInvalidRangeError, "Invalid date range"
	case errors.Is(err, rainfall.ErrInvalidParameter):
		status, errorType, message = http.StatusBadRequest, httperr.HttpInvalidParameterError, "Invalid query parameter"
	case errors.Is(err, rainfall.ErrOutOfRange):
		status, errorType, message = http.StatusNotFound, httperr.HttpOutOfRangeError, "Requested dates are outside the dataset"
	case errors.Is(err, rainfall.ErrEmptyClimatology):
		status, errorType, message = http.StatusUnprocessableEntity, httperr.HttpEmptyClimatologyError, "No reference years for climatology"
	default:
		slog.Error("Dashboard query failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(status, httperr.ErrorResponse{
		ErrorType: errorType,
		Message:   message,
		Details:   err.Error(),
	})
}
