package handlers

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/http/response"
	"github.com/yungbote/payments-example/internal/platform/logger"
	svc "github.com/yungbote/payments-example/internal/services/payments"
)

type createPaymentRequest struct {
	Amount      float64        `json:"amount" binding:"required,gt=0"`
	Currency    string         `json:"currency" binding:"required,len=3,uppercase,iso4217"`
	CustomerID  string         `json:"customerId" binding:"required"`
	Description *string        `json:"description" binding:"omitempty,min=1"`
	Metadata    map[string]any `json:"metadata" binding:"omitempty,min=1"`
}

type listPaymentsRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	CustomerID string `form:"customerId"`
	Status     string `form:"status"`
}

type PaymentHandler struct {
	log    *logger.Logger
	create svc.CreatePaymentHandler
	get    svc.GetPaymentHandler
	list   svc.ListPaymentsHandler
}

func NewPaymentHandler(log *logger.Logger, create svc.CreatePaymentHandler, get svc.GetPaymentHandler, list svc.ListPaymentsHandler) *PaymentHandler {
	if log == nil {
		log = logger.Nop()
	}
	useJSONFieldNames()
	return &PaymentHandler{
		log:    log.With("handler", "PaymentHandler"),
		create: create,
		get:    get,
		list:   list,
	}
}

// POST /api/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	saved, err := h.create.Handle(c.Request.Context(), svc.CreatePaymentCommand{
		Amount:      req.Amount,
		Currency:    req.Currency,
		CustomerID:  req.CustomerID,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	response.RespondCreated(c, response.FromPayment(saved))
}

// GET /api/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, string(domainagg.CodeValidation), err)
		return
	}
	loaded, err := h.get.Handle(c.Request.Context(), svc.GetPaymentQuery{ID: id})
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	response.RespondOK(c, response.FromPayment(loaded))
}

// GET /api/payments?page=&limit=&customerId=&status=
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var req listPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	page, err := h.list.Handle(c.Request.Context(), svc.ListPaymentsQuery{
		Page:       req.Page,
		Limit:      req.Limit,
		CustomerID: req.CustomerID,
		Status:     req.Status,
	})
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	response.RespondList(c, response.FromPaymentPage(page))
}

var fieldNamesOnce sync.Once

// useJSONFieldNames makes validation errors name request fields the way clients send them.
func useJSONFieldNames() {
	fieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}
