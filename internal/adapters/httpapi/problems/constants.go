package problems

const (
	ContentTypeProblemJSON    = "application/problem+json"
	StatusClientClosedRequest = 499

	ProblemTypeValidation   = "validation_error"
	ProblemTypeInvalidJSON  = "invalid_json"
	ProblemTypeNotFound     = "about:blank"
	ProblemTypeConflict     = "conflict"
	ProblemTypeUnauthorized = "unauthorized"
	ProblemTypeRateLimited  = "rate_limited"
	ProblemTypeTimeout      = "timeout"
	ProblemTypeInternal     = "internal_error"
	ProblemTypeCanceled     = "client_cancelled"

	TitleBadRequest      = "Bad Request"
	TitleValidation      = "Validation error"
	TitleConflict        = "Conflict"
	TitleNotFound        = "Not Found"
	TitleUnauthorized    = "Unauthorized"
	TitleTooManyRequests = "Too Many Requests"
	TitleGatewayTimeout  = "Gateway Timeout"
	TitleRequestCanceled = "Request Canceled"
	TitleInternalError   = "Internal Server Error"

	DetailInvalidJSON       = "invalid json"
	DetailInvalidID         = "invalid id"
	DetailInvalidRange      = "invalid range"
	DetailInvalidLimit      = "invalid limit"
	DetailEmptyPatch        = "no fields to update"
	DetailShortCodeConflict = "short_code already exists"
	DetailNotFound          = "not found"
	DetailUnauthorized      = "missing or invalid bearer token"
	DetailRateLimited       = "rate limit exceeded"
	DetailTimeout           = "timeout"
	DetailRequestCanceled   = "request canceled"
	DetailInternalError     = "internal error"
)
