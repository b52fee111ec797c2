package constants

// Standard Response Field Keys
const (
	ResponseFieldStatus  = "status"
	ResponseFieldData    = "data"
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldSuccess = "success"
)

// Response Format Functions

// BuildResponse wraps a successful payload in the uniform envelope:
// status code, payload, message.
func BuildResponse(status int, data any, message string) map[string]any {
	return map[string]any{
		ResponseFieldStatus:  status,
		ResponseFieldData:    data,
		ResponseFieldMessage: message,
		ResponseFieldSuccess: status < 400,
	}
}

// BuildErrorResponse wraps a failure in the uniform error envelope:
// status code, message.
func BuildErrorResponse(status int, message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldStatus:  status,
		ResponseFieldMessage: message,
		ResponseFieldSuccess: false,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}
