package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
)

// HTTP Content Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeMultipart = "multipart/form-data"
)

// Cookie Names for session token delivery
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized   = "Unauthorized access"
	MsgForbidden      = "Access forbidden"
	MsgNotFound       = "Resource not found"
	MsgBadRequest     = "Invalid request"
	MsgInternalError  = "Internal server error"
	MsgConflict       = "Resource already exists"
	MsgUploadFailed   = "Asset upload failed"
	MsgTooManyRequest = "Rate limit exceeded"
)

// HTTP Success Messages
const (
	MsgRegistered      = "User registered successfully"
	MsgLoggedIn        = "User logged in successfully"
	MsgLoggedOut       = "User logged out successfully"
	MsgTokenRefreshed  = "Access token refreshed"
	MsgPasswordChanged = "Password changed successfully"
	MsgDetailsUpdated  = "Account details updated successfully"
	MsgAvatarUpdated   = "Avatar image updated successfully"
	MsgCoverUpdated    = "Cover image updated successfully"
	MsgChannelFetched  = "Channel profile fetched successfully"
	MsgHistoryFetched  = "Watch history fetched successfully"
	MsgUserFetched     = "Current user fetched successfully"
)
