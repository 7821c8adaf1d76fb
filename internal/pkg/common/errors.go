package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓包裝後的錯誤仍能匹配預定義錯誤
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap 以原始錯誤包裝預定義錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{Code: e.Code, Message: e.Message, Status: e.Status, Err: err}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ToResponse 轉換為 API 錯誤響應
func ToResponse(err error, debug bool) (int, ErrorResponse) {
	var ce *CustomError
	if !errors.As(err, &ce) {
		ce = ErrInternalError.Wrap(err)
	}
	resp := ErrorResponse{Code: ce.Code, Message: ce.Message}
	if debug && ce.Err != nil {
		resp.Details = ce.Err.Error()
	}
	return ce.Status, resp
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"     // 400
	ErrCodeNotFound           = "NOT_FOUND"           // 404
	ErrCodeConflict           = "CONFLICT"            // 409
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"   // 413
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"   // 429
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	ErrCodeSessionBusy          = "SESSION_BUSY"
	ErrCodeSessionNotFound      = "SESSION_NOT_FOUND"
	ErrCodeNoPendingSuggestion  = "NO_PENDING_SUGGESTION"
	ErrCodeBackendUnavailable   = "BACKEND_UNAVAILABLE"
	ErrCodeMalformedResponse    = "MALFORMED_RESPONSE"
	ErrCodeCacheMiss            = "CACHE_MISS"
	ErrCodeCacheDisabled        = "CACHE_DISABLED"
	ErrCodeCacheFull            = "CACHE_FULL"
	ErrCodeQueueFull            = "QUEUE_FULL"
	ErrCodeQueueClosed          = "QUEUE_CLOSED"
	ErrCodeUnknownTagType       = "UNKNOWN_TAG_TYPE"
	ErrCodeSuggestionNotApplied = "SUGGESTION_NOT_APPLIED"
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrConflict        = NewError(ErrCodeConflict, "資源衝突", http.StatusConflict, nil)
	ErrPayloadTooLarge = NewError(ErrCodePayloadTooLarge, "請求內容過大", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 對話業務錯誤
	ErrSessionBusy         = NewError(ErrCodeSessionBusy, "對話正在處理中，請稍候", http.StatusConflict, nil)
	ErrSessionNotFound     = NewError(ErrCodeSessionNotFound, "對話不存在或已過期", http.StatusNotFound, nil)
	ErrNoPendingSuggestion = NewError(ErrCodeNoPendingSuggestion, "沒有待確認的建議", http.StatusConflict, nil)
	ErrUnknownTagType      = NewError(ErrCodeUnknownTagType, "未知的標籤類型", http.StatusBadRequest, nil)
	ErrSuggestionFailed    = NewError(ErrCodeSuggestionNotApplied, "建議套用失敗", http.StatusBadGateway, nil)

	// 後端與基礎設施錯誤
	ErrBackendUnavailable = NewError(ErrCodeBackendUnavailable, "菜色後端服務錯誤", http.StatusBadGateway, nil)
	ErrMalformedResponse  = NewError(ErrCodeMalformedResponse, "後端回應格式錯誤", http.StatusBadGateway, nil)
	ErrCacheMiss          = NewError(ErrCodeCacheMiss, "快取未命中", http.StatusNotFound, nil)
	ErrCacheDisabled      = NewError(ErrCodeCacheDisabled, "緩存已禁用", http.StatusServiceUnavailable, nil)
	ErrCacheFull          = NewError(ErrCodeCacheFull, "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrQueueFull          = NewError(ErrCodeQueueFull, "隊列已滿", http.StatusServiceUnavailable, nil)
	ErrQueueClosed        = NewError(ErrCodeQueueClosed, "隊列已關閉", http.StatusServiceUnavailable, nil)
)
