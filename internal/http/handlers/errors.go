package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	domainagg "github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/http/response"
	"github.com/yungbote/payments-example/internal/platform/ctxutil"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

// StatusFor maps a domain error code onto an HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeInvalidStateTransition, domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondDomainError(c *gin.Context, log *logger.Logger, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	status := StatusFor(code)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", append([]interface{}{"code", code, "error", err}, ctxutil.LogFields(c.Request.Context())...)...)
		response.RespondError(c, status, string(code), errors.New(http.StatusText(status)))
		return
	}
	response.RespondError(c, status, string(code), errors.New(domainagg.MessageOf(err)))
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, describeFieldError(fe))
		}
		err = errors.New(strings.Join(parts, "; "))
	}
	response.RespondError(c, http.StatusBadRequest, string(domainagg.CodeValidation), err)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "iso4217":
		return fmt.Sprintf("%s must be an ISO 4217 currency code", fe.Field())
	case "uppercase":
		return fmt.Sprintf("%s must be uppercase", fe.Field())
	case "len":
		return fmt.Sprintf("%s must have length %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
