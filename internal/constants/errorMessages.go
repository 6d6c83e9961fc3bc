package constants

const (
	MsgJobNotFound        = "Job not found"
	MsgDriverNotFound     = "Driver not found"
	MsgPreviewNotFound    = "Import preview not found or expired"
	MsgDuplicateCallsign  = "A driver with this callsign already exists"
	MsgInvalidBody        = "Invalid request body"
	MsgInvalidTransition  = "Status change not allowed"
	MsgImportUnreadable   = "File could not be read"
	MsgImportCommitFailed = "Failed to import jobs"
	MsgUnexpected         = "An unexpected error occurred"
)
