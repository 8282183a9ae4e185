package config

const (
	// Database errors
	ErrInitializeDatabaseFmt = "Failed to initialize database: %v"

	// Auth errors
	ErrPasswordRequired    = "Password required"
	ErrInvalidPassword     = "Invalid password"
	ErrInternalServerError = "Internal server error"
	ErrUnauthorized        = "Unauthorized"

	// Dashboard errors
	ErrNotLoggedIn     = "not logged in to the repository host"
	ErrTitleRequired   = "title required"
	ErrInvalidBody     = "Invalid request body"
	ErrUnknownKind     = "Unknown collection"
	ErrImageTooLarge   = "image exceeds the upload limit"
	ErrImageNotAnImage = "uploaded file is not an image"
	ErrImageScriptable = "SVG images can carry script and are not accepted"
)
