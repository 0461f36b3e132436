package models

// Response codes
const (
	// success
	CodeSuccess = 0

	// client errors (1000-1999)
	CodeInvalidParams  = 1000 // invalid parameters
	CodeMissingParams  = 1001 // required parameters missing
	CodeInvalidProfile = 1002 // profile missing goals / physical_issues / mental_issues
	CodeNoHistoryData  = 1003 // no stored recommendation history

	// server errors (2000-2999)
	CodeServerError       = 2000 // internal server error
	CodeDatabaseError     = 2001 // database error
	CodeRecommendGenError = 2002 // recommendation generation error
	CodeEmbeddingAPIError = 2003 // embedding service error
)

var CodeMessages = map[int]string{
	CodeSuccess:           "success",
	CodeInvalidParams:     "invalid parameters",
	CodeMissingParams:     "required parameters missing",
	CodeInvalidProfile:    "missing required fields: goals, physical_issues, or mental_issues",
	CodeNoHistoryData:     "no recommendation history",
	CodeServerError:       "internal server error",
	CodeDatabaseError:     "database error",
	CodeRecommendGenError: "failed to generate recommendations",
	CodeEmbeddingAPIError: "embedding service error",
}

// NewSuccessResponse builds the success envelope.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Code:    CodeSuccess,
		Message: CodeMessages[CodeSuccess],
		Data:    data,
	}
}

// NewErrorResponse builds an error envelope from a known code.
func NewErrorResponse(code int, data interface{}) APIResponse {
	message, exists := CodeMessages[code]
	if !exists {
		message = "unknown error"
	}
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewCustomErrorResponse builds an error envelope with a custom message.
func NewCustomErrorResponse(code int, message string, data interface{}) APIResponse {
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
