// Package response renders the JSON bodies of the payments API.
package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/payments-example/internal/platform/ctxutil"
)

const HeaderTotalCount = "X-Total-Count"

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError aborts the chain. The request id lets clients quote a failure back to support.
func RespondError(c *gin.Context, status int, code string, err error) {
	body := APIError{Message: http.StatusText(status), Code: code}
	if err != nil {
		body.Message = err.Error()
	}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		body.RequestID = td.RequestID
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: body})
}

func RespondOK(c *gin.Context, payload any) { respond(c, http.StatusOK, payload) }

func RespondCreated(c *gin.Context, payload any) { respond(c, http.StatusCreated, payload) }

// RespondList writes a page and mirrors its total in X-Total-Count.
func RespondList(c *gin.Context, list PaymentList) {
	c.Header(HeaderTotalCount, strconv.FormatInt(list.Total, 10))
	respond(c, http.StatusOK, list)
}

func respond(c *gin.Context, status int, payload any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, payload)
}
