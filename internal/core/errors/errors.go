package errors

const (
	HttpInternalError           = "internal_error"
	HttpInvalidRequestError     = "invalid_request"
	HttpInvalidRangeError       = "invalid_range"
	HttpInvalidParameterError   = "invalid_parameter"
	HttpOutOfRangeError         = "out_of_range"
	HttpEmptyClimatologyError   = "empty_climatology"
	HttpDatasetUnavailableError = "dataset_unavailable"
	HttpDatasetLoadError        = "dataset_load_failed"
)

// ErrorResponse is the error response body of every API endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
