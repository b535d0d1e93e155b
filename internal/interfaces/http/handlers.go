package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/travelport/order-approval/internal/application/service"
	"github.com/travelport/order-approval/internal/domain/approval"
	"github.com/travelport/order-approval/internal/domain/entity"
	"github.com/travelport/order-approval/internal/infrastructure/mirror"
)

// userHeader identifies the caller; absent means an anonymous session
const userHeader = "X-User-Id"

// maxUserDataBytes caps payloads forwarded to the remote mirror
const maxUserDataBytes = 1 << 20

// Handlers contains all HTTP request handlers
type Handlers struct {
	submissionService service.SubmissionService
	approvalService   service.ApprovalService
	projectionService service.ProjectionService
	productService    service.ProductService
	mirrorClient      *mirror.Client
	logger            Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	submissionService service.SubmissionService,
	approvalService service.ApprovalService,
	projectionService service.ProjectionService,
	productService service.ProductService,
	mirrorClient *mirror.Client,
	logger Logger,
) *Handlers {
	return &Handlers{
		submissionService: submissionService,
		approvalService:   approvalService,
		projectionService: projectionService,
		productService:    productService,
		mirrorClient:      mirrorClient,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateFormRequest represents the create submission payload
type CreateFormRequest struct {
	PagePath       string `json:"page_path"`
	Products       string `json:"products"`
	ApproverMode   string `json:"approver_mode"`
	Approver1Actor string `json:"approver1_actor"`
	Approver2Actor string `json:"approver2_actor"`
}

// UpdateFormRequest represents the update products payload
type UpdateFormRequest struct {
	Products string `json:"products"`
}

// ApprovalRequest represents an approve/reject command payload
type ApprovalRequest struct {
	Role         string `json:"role"`
	Action       string `json:"action"`
	Comments     string `json:"comments"`
	DecisionDate string `json:"decision_date"`
}

// FormDetailResponse represents a submission with its approver records
type FormDetailResponse struct {
	Submission *entity.Submission      `json:"submission"`
	Approvers  []*entity.ApproverRecord `json:"approvers"`
}

func caller(c *gin.Context) string {
	if user := c.GetHeader(userHeader); user != "" {
		return user
	}
	return "anonymous"
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateForm handles POST /api/forms
func (h *Handlers) CreateForm(c *gin.Context) {
	var req CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	sub, err := h.submissionService.Create(c.Request.Context(), service.CreateSubmission{
		PagePath:       req.PagePath,
		Products:       req.Products,
		ApproverMode:   req.ApproverMode,
		Approver1Actor: req.Approver1Actor,
		Approver2Actor: req.Approver2Actor,
		Initiator:      caller(c),
	})
	if err != nil {
		h.respondError(c, err, "failed to create form")
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    sub,
	})
}

// ListForms handles GET /api/forms
func (h *Handlers) ListForms(c *gin.Context) {
	views, err := h.projectionService.ListViews(c.Request.Context(), caller(c))
	if err != nil {
		h.respondError(c, err, "failed to list forms")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    views,
	})
}

// GetForm handles GET /api/forms/:id
func (h *Handlers) GetForm(c *gin.Context) {
	detail, err := h.submissionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get form")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: FormDetailResponse{
			Submission: detail.Submission,
			Approvers:  detail.Approvers,
		},
	})
}

// UpdateFormProducts handles PUT /api/forms/:id
func (h *Handlers) UpdateFormProducts(c *gin.Context) {
	var req UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	if err := h.submissionService.UpdateProducts(c.Request.Context(), c.Param("id"), req.Products, caller(c)); err != nil {
		h.respondError(c, err, "failed to update form")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
	})
}

// GetFormView handles GET /api/forms/:id/view
func (h *Handlers) GetFormView(c *gin.Context) {
	view, err := h.projectionService.GetView(c.Request.Context(), c.Param("id"), caller(c))
	if err != nil {
		h.respondError(c, err, "failed to get form view")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// ApplyApproval handles POST /api/forms/:id/approval
func (h *Handlers) ApplyApproval(c *gin.Context) {
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	result, err := h.approvalService.Apply(c.Request.Context(), service.ApprovalCommand{
		SubmissionID: c.Param("id"),
		Role:         req.Role,
		Action:       req.Action,
		Comments:     req.Comments,
		DecisionDate: req.DecisionDate,
	})
	if err != nil {
		h.respondError(c, err, "failed to apply approval")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ListProducts handles GET /api/products
func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.productService.ListByLocation(c.Request.Context(), c.Query("location"))
	if err != nil {
		h.respondError(c, err, "failed to list products")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    products,
	})
}

// FetchUserData handles GET /api/user-data
func (h *Handlers) FetchUserData(c *gin.Context) {
	body, err := h.mirrorClient.Fetch(c.Request.Context())
	if err != nil {
		h.logger.Error("Mirror fetch failed", "error", err)
		c.JSON(http.StatusBadGateway, Response{
			Success: false,
			Error:   "upstream store unavailable",
		})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// StoreUserData handles POST /api/user-data
func (h *Handlers) StoreUserData(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUserDataBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	body, err := h.mirrorClient.Store(c.Request.Context(), payload)
	if err != nil {
		h.logger.Error("Mirror store failed", "error", err)
		c.JSON(http.StatusBadGateway, Response{
			Success: false,
			Error:   "upstream store unavailable",
		})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// respondError maps domain errors to HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, approval.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, approval.ErrConflict):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, approval.ErrInvalidAction),
		errors.Is(err, approval.ErrInvalidRole),
		errors.Is(err, approval.ErrTerminalState),
		errors.Is(err, approval.ErrNotPending),
		errors.Is(err, service.ErrInvalidDecisionDate),
		errors.Is(err, service.ErrMissingPagePath),
		errors.Is(err, service.ErrMissingProducts),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrMissingLocation):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: fallback})
	}
}
