package constants

// Field Length Limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinNameLength     = 2
	MaxNameLength     = 100
	MaxEmailLength    = 255
	MaxURLLength      = 2048
)

// Upload Limits
const (
	MaxAvatarSizeBytes = 5 << 20  // 5 MiB
	MaxCoverSizeBytes  = 10 << 20 // 10 MiB
)

// Multipart form field names
const (
	FormFieldAvatar = "avatar"
	FormFieldCover  = "coverImage"
)
