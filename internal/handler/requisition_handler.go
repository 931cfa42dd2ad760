package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reqtrack/internal/middleware"
	"reqtrack/internal/service"
	"reqtrack/internal/storage"
	"reqtrack/pkg/pagination"
	"reqtrack/pkg/response"
)

// 10 MiB cap on a single uploaded file
const maxUploadSize = 10 << 20

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

type RequisitionHandler struct {
	requisitionService service.RequisitionService
	fileStore          storage.Store
}

func NewRequisitionHandler(requisitionService service.RequisitionService, fileStore storage.Store) *RequisitionHandler {
	return &RequisitionHandler{requisitionService: requisitionService, fileStore: fileStore}
}

func (h *RequisitionHandler) RegisterRoutes(router *gin.RouterGroup) {
	reqs := router.Group("/api/requisitions", middleware.RequireAuth())
	{
		reqs.POST("", h.Create)
		reqs.GET("", h.List)
		reqs.POST("/bulk-delete", h.BulkDelete)
		reqs.GET("/:id", h.Get)
		reqs.PUT("/:id", h.Update)
		reqs.DELETE("/:id", h.Delete)
		reqs.POST("/:id/submit", h.Submit)
		reqs.POST("/:id/approval", h.Decide)
		reqs.PUT("/:id/payment", h.UpdatePayment)
		reqs.POST("/:id/receipt", h.MaterialReceipt)
		reqs.POST("/:id/dispatch", h.Dispatch)
		reqs.POST("/:id/files", h.UploadFile)
		reqs.GET("/:id/approvals", h.ListApprovals)
	}

	types := router.Group("/api/requisition-types")
	{
		types.GET("", middleware.RequireAuth(), h.ListTypes)
		types.POST("", middleware.RequireAuth(), h.CreateType)
	}
}

// Create creates a new draft requisition
// @Summary      Create requisition
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRequisitionDTO  true  "Requisition details"
// @Success      201      {object}  response.Response{data=model.Requisition}
// @Failure      400      {object}  response.Response
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Create(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req service.CreateRequisitionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requisitionService.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// List returns the organization's requisitions, newest first
// @Summary      List requisitions
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20, max 100)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/requisitions [get]
func (h *RequisitionHandler) List(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	params := pagination.Parse(c)

	items, total, err := h.requisitionService.List(c.Request.Context(), actor, params.Offset, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, items, total, params))
}

// Get returns one requisition by id
// @Summary      Get requisition
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=model.Requisition}
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id} [get]
func (h *RequisitionHandler) Get(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.requisitionService.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Update edits a draft requisition
// @Summary      Update requisition
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Requisition ID"
// @Param        payload  body      service.CreateRequisitionDTO  true  "Updated details"
// @Success      200      {object}  response.Response{data=model.Requisition}
// @Failure      409      {object}  response.Response
// @Router       /api/requisitions/{id} [put]
func (h *RequisitionHandler) Update(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateRequisitionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requisitionService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Submit moves a draft into the approval workflow
// @Summary      Submit requisition
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=model.Requisition}
// @Failure      409  {object}  response.Response
// @Router       /api/requisitions/{id}/submit [post]
func (h *RequisitionHandler) Submit(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.requisitionService.Submit(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Decide records a manager's approval decision
// @Summary      Approve, reject or hold a requisition
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Requisition ID"
// @Param        payload  body      service.ApprovalActionDTO  true  "Decision"
// @Success      200      {object}  response.Response{data=model.Requisition}
// @Failure      403      {object}  response.Response
// @Router       /api/requisitions/{id}/approval [post]
func (h *RequisitionHandler) Decide(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.ApprovalActionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requisitionService.Decide(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpdatePayment records payment progress
// @Summary      Update payment
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Requisition ID"
// @Param        payload  body      service.PaymentUpdateDTO  true  "Payment details"
// @Success      200      {object}  response.Response{data=model.Requisition}
// @Failure      403      {object}  response.Response
// @Router       /api/requisitions/{id}/payment [put]
func (h *RequisitionHandler) UpdatePayment(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.PaymentUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requisitionService.UpdatePayment(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// MaterialReceipt confirms goods were received
// @Summary      Record material receipt
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Requisition ID"
// @Param        payload  body      service.MaterialReceiptDTO  true  "Receipt details"
// @Success      200      {object}  response.Response{data=model.Requisition}
// @Router       /api/requisitions/{id}/receipt [post]
func (h *RequisitionHandler) MaterialReceipt(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.MaterialReceiptDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requisitionService.MaterialReceipt(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Dispatch marks the requisition's goods as dispatched
// @Summary      Dispatch goods
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=model.Requisition}
// @Failure      403  {object}  response.Response
// @Router       /api/requisitions/{id}/dispatch [post]
func (h *RequisitionHandler) Dispatch(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.requisitionService.Dispatch(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UploadFile attaches a document to one of the requisition's file slots
// @Summary      Upload attachment
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      string  true  "Requisition ID"
// @Param        file_type  formData  string  true  "Slot: payment, material, bill or vendor_payment"
// @Param        file       formData  file    true  "File to upload"
// @Success      200        {object}  response.Response{data=model.Requisition}
// @Failure      400        {object}  response.Response
// @Router       /api/requisitions/{id}/files [post]
func (h *RequisitionHandler) UploadFile(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	fileType := c.PostForm("file_type")
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file is required"))
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file exceeds maximum size"))
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "failed to read file"))
		return
	}
	defer f.Close()

	stored, err := h.fileStore.Save(header.Filename, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to store file"))
		return
	}

	result, err := h.requisitionService.AttachFile(c.Request.Context(), actor, id, service.AttachFileDTO{
		FileType: fileType,
		FileName: header.Filename,
		FileURL:  stored.URL,
		FileSize: stored.Size,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Delete removes a single requisition
// @Summary      Delete requisition
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/requisitions/{id} [delete]
func (h *RequisitionHandler) Delete(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.requisitionService.Delete(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}

// BulkDelete removes several requisitions atomically
// @Summary      Bulk delete requisitions
// @Description  Deletes all listed requisitions or none; any ineligible target aborts the batch
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      BulkDeleteRequest  true  "Requisition IDs"
// @Success      200      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requisitions/bulk-delete [post]
func (h *RequisitionHandler) BulkDelete(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.requisitionService.BulkDelete(c.Request.Context(), actor, req.IDs); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": req.IDs}))
}

// ListApprovals returns the approval chain for a requisition
// @Summary      List approval chain
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=[]model.Approval}
// @Router       /api/requisitions/{id}/approvals [get]
func (h *RequisitionHandler) ListApprovals(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	approvals, err := h.requisitionService.ListApprovals(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, approvals))
}

// CreateType registers a new requisition type
// @Summary      Create requisition type
// @Tags         requisition-types
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTypeDTO  true  "Type details"
// @Success      201      {object}  response.Response{data=model.RequisitionType}
// @Failure      403      {object}  response.Response
// @Router       /api/requisition-types [post]
func (h *RequisitionHandler) CreateType(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req service.CreateTypeDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requisitionService.CreateType(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListTypes returns all requisition types
// @Summary      List requisition types
// @Tags         requisition-types
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.RequisitionType}
// @Router       /api/requisition-types [get]
func (h *RequisitionHandler) ListTypes(c *gin.Context) {
	types, err := h.requisitionService.ListTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, types))
}
