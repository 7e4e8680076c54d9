package errors

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrorInfo is a code plus a shopper-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns infrastructure errors into a code and a message that is
// safe to show. subject names what was being handled ("cart", "favorites",
// "product") and only shapes the message.
func ParseError(err error, subject string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "حدث خطأ في الخادم",
		}
	}

	errLower := strings.ToLower(err.Error())

	// 1. GORM
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(subject),
		}
	}

	// 2. Database constraint violations
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "البيانات موجودة مسبقاً",
		}
	}
	if strings.Contains(errLower, "violates not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "بعض الحقول المطلوبة فارغة",
		}
	}

	// 3. Slot storage
	if errors.Is(err, redis.ErrClosed) || strings.Contains(errLower, "redis") {
		return ErrorInfo{
			Code:    InternalStorageError,
			Message: "تعذر حفظ البيانات، يرجى المحاولة لاحقاً",
		}
	}

	// 4. Network and deadlines
	if errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "تعذر الاتصال بالخادم، يرجى المحاولة لاحقاً",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: defaultMessage(subject),
	}
}

func notFoundMessage(subject string) string {
	switch subject {
	case "product":
		return "المنتج غير موجود"
	case "cart":
		return "المنتج غير موجود في السلة"
	case "selection":
		return "لا يوجد منتج محدد"
	default:
		return "العنصر المطلوب غير موجود"
	}
}

func defaultMessage(subject string) string {
	switch subject {
	case "cart":
		return "تعذر تحديث السلة"
	case "favorites":
		return "تعذر تحديث المفضلة"
	case "product":
		return "تعذر تحميل المنتج"
	default:
		return "حدث خطأ في الخادم، يرجى المحاولة لاحقاً"
	}
}

// ParseAndRespond writes the parsed error with the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, subject string) {
	errorInfo := ParseError(err, subject)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
