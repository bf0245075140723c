// internal/api/error_codes.go
package api

// API错误代码常量
const (
	// 通用错误
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorNotFound      = "NOT_FOUND"
	ErrorInternalError = "INTERNAL_ERROR"

	// 生成相关错误
	ErrorMissingPrompt = "MISSING_PROMPT"
	ErrorRenderFailed  = "RENDER_FAILED"

	// 记忆检索相关错误
	ErrorMissingKeyword   = "MISSING_KEYWORD"
	ErrorMissingQuery     = "MISSING_QUERY"
	ErrorStoreUnavailable = "STORE_UNAVAILABLE"

	// 配置相关错误
	ErrorConfigInvalid      = "CONFIG_INVALID"
	ErrorConfigUpdateFailed = "CONFIG_UPDATE_FAILED"

	// 限流
	ErrorRateLimited = "RATE_LIMITED"
)
