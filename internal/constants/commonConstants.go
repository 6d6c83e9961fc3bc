package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixImportPreview CachePrefix = "IMPORT_PREVIEW_"
	CachePrefixRedisKeys     CachePrefix = "dispatch:"
)
