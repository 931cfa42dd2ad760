package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"reqtrack/internal/apperror"
	"reqtrack/internal/authz"
	"reqtrack/internal/events"
	"reqtrack/internal/model"
	"reqtrack/internal/repository"
)

// --- DTOs ---

type CreateRequisitionDTO struct {
	TypeID              string          `json:"type_id" binding:"required,uuid"`
	Description         string          `json:"description"`
	SiteAddress         string          `json:"site_address"`
	MaterialDescription string          `json:"material_description"`
	Quantity            int             `json:"quantity"`
	Amount              decimal.Decimal `json:"amount"`
	PODetails           string          `json:"po_details"`
	RequiredFor         string          `json:"required_for"`
	VendorName          string          `json:"vendor_name"`
	IndentNo            string          `json:"indent_no"`
	Priority            string          `json:"priority"`
}

type ApprovalActionDTO struct {
	ApprovalStatus string `json:"approval_status" binding:"required"`
	Notes          string `json:"notes"`
}

type PaymentUpdateDTO struct {
	PaymentStatus string           `json:"payment_status" binding:"required"`
	UtrNo         string           `json:"utr_no"`
	PaymentMode   string           `json:"payment_mode"`
	PaymentDate   *time.Time       `json:"payment_date"`
	Amount        *decimal.Decimal `json:"amount"`
}

type MaterialReceiptDTO struct {
	MaterialReceived bool   `json:"material_received"`
	ReceiptNotes     string `json:"receipt_notes"`
}

// AttachFileDTO carries the stored-file handle produced by the storage
// collaborator plus the slot tag chosen by the caller.
type AttachFileDTO struct {
	FileType string // payment | material | bill | vendor_payment
	FileName string
	FileURL  string
	FileSize int64
}

type CreateTypeDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Authorizer answers the (role, action) question for workflow operations.
type Authorizer interface {
	CanPerform(role, action string) (bool, error)
}

// --- Interface ---

// RequisitionService is the workflow engine: every state transition of the
// requisition aggregate goes through here. Each operation resolves the actor,
// enforces tenant isolation, checks role and state preconditions, applies the
// transition inside one transaction, and publishes an event after commit.
type RequisitionService interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreateRequisitionDTO) (*model.Requisition, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req CreateRequisitionDTO) (*model.Requisition, error)
	Get(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error)
	List(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]model.Requisition, int64, error)
	Submit(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error)
	Decide(ctx context.Context, actorID, id uuid.UUID, req ApprovalActionDTO) (*model.Requisition, error)
	UpdatePayment(ctx context.Context, actorID, id uuid.UUID, req PaymentUpdateDTO) (*model.Requisition, error)
	MaterialReceipt(ctx context.Context, actorID, id uuid.UUID, req MaterialReceiptDTO) (*model.Requisition, error)
	Dispatch(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error)
	AttachFile(ctx context.Context, actorID, id uuid.UUID, req AttachFileDTO) (*model.Requisition, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	BulkDelete(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error
	ListApprovals(ctx context.Context, actorID, id uuid.UUID) ([]model.Approval, error)
	CreateType(ctx context.Context, actorID uuid.UUID, req CreateTypeDTO) (*model.RequisitionType, error)
	ListTypes(ctx context.Context) ([]model.RequisitionType, error)
}

type requisitionService struct {
	users       repository.UserRepository
	orgs        repository.OrganizationRepository
	reqs        repository.RequisitionRepository
	approvals   repository.ApprovalRepository
	attachments repository.AttachmentRepository
	types       repository.RequisitionTypeRepository
	sequences   repository.SequenceRepository
	audits      repository.AuditRepository
	tx          repository.TransactionManager
	authorizer  Authorizer
	publisher   events.Publisher
	logger      *zap.Logger
}

func NewRequisitionService(
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	reqs repository.RequisitionRepository,
	approvals repository.ApprovalRepository,
	attachments repository.AttachmentRepository,
	types repository.RequisitionTypeRepository,
	sequences repository.SequenceRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
	authorizer Authorizer,
	publisher events.Publisher,
	logger *zap.Logger,
) RequisitionService {
	return &requisitionService{
		users:       users,
		orgs:        orgs,
		reqs:        reqs,
		approvals:   approvals,
		attachments: attachments,
		types:       types,
		sequences:   sequences,
		audits:      audits,
		tx:          tx,
		authorizer:  authorizer,
		publisher:   publisher,
		logger:      logger,
	}
}

// --- Shared steps ---

// actor resolves the caller. Missing user is NotFound; a deactivated user may
// not perform any workflow operation.
func (s *requisitionService) actor(ctx context.Context, actorID uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, apperror.Forbidden("user account is deactivated")
	}
	return user, nil
}

// load fetches the requisition scoped to the actor's organization. A
// cross-tenant id is indistinguishable from a missing one.
func (s *requisitionService) load(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Requisition, error) {
	req, err := s.reqs.GetByIDForOrg(ctx, id, actor.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("requisition not found")
		}
		return nil, fmt.Errorf("failed to load requisition: %w", err)
	}
	return req, nil
}

func (s *requisitionService) authorize(role, action string) error {
	allowed, err := s.authorizer.CanPerform(role, action)
	if err != nil {
		return fmt.Errorf("authorization check failed: %w", err)
	}
	if !allowed {
		return apperror.Forbidden("role " + role + " may not perform this operation")
	}
	return nil
}

func (s *requisitionService) audit(ctx context.Context, actor *model.User, action string, req *model.Requisition, details map[string]interface{}) error {
	payload, _ := json.Marshal(details)
	entry := model.AuditLog{
		OrganizationID: &actor.OrganizationID,
		UserID:         &actor.ID,
		Action:         action,
		EntityID:       req.ID.String(),
		EntityName:     req.RequestID,
		Details:        string(payload),
	}
	if err := s.audits.Create(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *requisitionService) syncLog(ctx context.Context, actor *model.User, operation string, req *model.Requisition) error {
	payload, _ := json.Marshal(req)
	entry := model.SyncLog{
		UserID:     actor.ID,
		EntityType: model.SyncEntityRequisition,
		EntityID:   req.ID,
		Operation:  operation,
		Payload:    string(payload),
	}
	if err := s.audits.CreateSyncLog(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write sync log: %w", err)
	}
	return nil
}

func (s *requisitionService) publishUpdate(actor *model.User, req *model.Requisition) {
	s.publisher.Publish(events.RequisitionTopic(req.OrganizationID), events.RequisitionEvent{
		EventType:      events.TypeRequisitionUpdated,
		OrganizationID: req.OrganizationID,
		RequisitionID:  req.ID,
		RequestID:      req.RequestID,
		ActorID:        actor.ID,
		OccurredAt:     time.Now(),
		Requisition:    req,
	})
}

func (s *requisitionService) publishDelete(actor *model.User, req *model.Requisition) {
	s.publisher.Publish(events.RequisitionDeletedTopic(req.OrganizationID), events.RequisitionEvent{
		EventType:      events.TypeRequisitionDeleted,
		OrganizationID: req.OrganizationID,
		RequisitionID:  req.ID,
		RequestID:      req.RequestID,
		ActorID:        actor.ID,
		OccurredAt:     time.Now(),
	})
}

// validateAndSave runs the cross-axis invariant check before every persist.
func (s *requisitionService) validateAndSave(ctx context.Context, req *model.Requisition) error {
	if err := req.Validate(); err != nil {
		return apperror.Conflict(err.Error())
	}
	if err := s.reqs.Update(ctx, req); err != nil {
		return fmt.Errorf("failed to persist requisition: %w", err)
	}
	return nil
}

// --- Operations ---

func (s *requisitionService) Create(ctx context.Context, actorID uuid.UUID, dto CreateRequisitionDTO) (*model.Requisition, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor.Role, authz.ActCreateRequisition); err != nil {
		return nil, err
	}

	typeID, err := uuid.Parse(dto.TypeID)
	if err != nil {
		return nil, apperror.Validation("invalid requisition type id")
	}
	if _, err := s.types.GetByID(ctx, typeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("requisition type not found")
		}
		return nil, fmt.Errorf("failed to load requisition type: %w", err)
	}

	priority := dto.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	if !model.ValidPriority(priority) {
		return nil, apperror.Validation("invalid priority " + dto.Priority)
	}

	org, err := s.orgs.GetByID(ctx, actor.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validation("organization not found")
		}
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}

	req := &model.Requisition{
		OrganizationID:      org.ID,
		TypeID:              typeID,
		CreatedByID:         actor.ID,
		Status:              model.StatusDraft,
		ApprovalStatus:      model.ApprovalPending,
		PaymentStatus:       model.PaymentNotDone,
		DispatchStatus:      model.DispatchNotDispatched,
		Priority:            priority,
		Description:         dto.Description,
		SiteAddress:         dto.SiteAddress,
		MaterialDescription: dto.MaterialDescription,
		Quantity:            dto.Quantity,
		Amount:              dto.Amount,
		PODetails:           dto.PODetails,
		RequiredFor:         dto.RequiredFor,
		VendorName:          dto.VendorName,
		IndentNo:            dto.IndentNo,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		scope := requestIDScope(org, time.Now())
		seq, seqErr := s.sequences.Next(txCtx, org.ID, scope)
		if seqErr != nil {
			return fmt.Errorf("failed to allocate request id: %w", seqErr)
		}
		req.RequestID = formatRequestID(scope, seq)

		if createErr := s.reqs.Create(txCtx, req); createErr != nil {
			return fmt.Errorf("failed to create requisition: %w", createErr)
		}
		if auditErr := s.audit(txCtx, actor, model.ActionCreateRequisition, req, map[string]interface{}{
			"request_id": req.RequestID,
			"type_id":    req.TypeID.String(),
		}); auditErr != nil {
			return auditErr
		}
		return s.syncLog(txCtx, actor, model.SyncCreate, req)
	})
	if err != nil {
		return nil, err
	}

	s.publishUpdate(actor, req)
	return req, nil
}

func (s *requisitionService) Update(ctx context.Context, actorID, id uuid.UUID, dto CreateRequisitionDTO) (*model.Requisition, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor.Role, authz.ActUpdateRequisition); err != nil {
		return nil, err
	}

	var req *model.Requisition
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var loadErr error
		req, loadErr = s.load(txCtx, actor, id)
		if loadErr != nil {
			return loadErr
		}

		if req.Status != model.StatusDraft {
			return apperror.Conflict("can only update requisitions in DRAFT status")
		}
		if req.CreatedByID != actor.ID && actor.Role != model.RoleAdmin {
			return apperror.Forbidden("only the creator or an admin may update this requisition")
		}

		if dto.Priority != "" {
			if !model.ValidPriority(dto.Priority) {
				return apperror.Validation("invalid priority " + dto.Priority)
			}
			req.Priority = dto.Priority
		}
		req.Description = dto.Description
		req.SiteAddress = dto.SiteAddress
		req.MaterialDescription = dto.MaterialDescription
		req.Quantity = dto.Quantity
		req.Amount = dto.Amount
		req.PODetails = dto.PODetails
		req.RequiredFor = dto.RequiredFor
		req.VendorName = dto.VendorName
		req.IndentNo = dto.IndentNo

		if saveErr := s.validateAndSave(txCtx, req); saveErr != nil {
			return saveErr
		}
		if auditErr := s.audit(txCtx, actor, model.ActionUpdateRequisition, req, nil); auditErr != nil {
			return auditErr
		}
		return s.syncLog(txCtx, actor, model.SyncUpdate, req)
	})
	if err != nil {
		return nil, err
	}

	s.publishUpdate(actor, req)
	return req, nil
}

func (s *requisitionService) Get(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, actor, id)
}

func (s *requisitionService) List(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]model.Requisition, int64, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}
	return s.reqs.ListByOrg(ctx, actor.OrganizationID, offset, limit)
}

// Submit moves a DRAFT requisition to SUBMITTED and builds the approval
// chain: one PENDING approval per active manager of the organization, with a
// 1-based sequence in manager enumeration order. Zero managers is fine; the
// requisition simply stays SUBMITTED/PENDING until one exists.
func (s *requisitionService) Submit(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor.Role, authz.ActSubmitRequisition); err != nil {
		return nil, err
	}

	var req *model.Requisition
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var loadErr error
		req, loadErr = s.load(txCtx, actor, id)
		if loadErr != nil {
			return loadErr
		}

		if req.Status != model.StatusDraft {
			return apperror.Conflict("only DRAFT requisitions can be submitted")
		}

		now := time.Now()
		req.Status = model.StatusSubmitted
		req.SubmittedAt = &now

		if saveErr := s.validateAndSave(txCtx, req); saveErr != nil {
			return saveErr
		}

		managers, mgrErr := s.users.ListActiveManagers(txCtx, req.OrganizationID)
		if mgrErr != nil {
			return fmt.Errorf("failed to enumerate managers: %w", mgrErr)
		}
		chain := make([]model.Approval, 0, len(managers))
		for i, manager := range managers {
			chain = append(chain, model.Approval{
				RequisitionID: req.ID,
				ApproverID:    manager.ID,
				SequenceOrder: i + 1,
				Status:        model.ApproverPending,
			})
		}
		if chainErr := s.approvals.CreateBatch(txCtx, chain); chainErr != nil {
			return fmt.Errorf("failed to create approval chain: %w", chainErr)
		}
		for i := range chain {
			payload, _ := json.Marshal(&chain[i])
			entry := model.SyncLog{
				UserID:     actor.ID,
				EntityType: model.SyncEntityApproval,
				EntityID:   chain[i].ID,
				Operation:  model.SyncCreate,
				Payload:    string(payload),
			}
			if syncErr := s.audits.CreateSyncLog(txCtx, &entry); syncErr != nil {
				return fmt.Errorf("failed to write sync log: %w", syncErr)
			}
		}

		if auditErr := s.audit(txCtx, actor, model.ActionSubmitRequisition, req, map[string]interface{}{
			"approvers": len(chain),
		}); auditErr != nil {
			return auditErr
		}
		return s.syncLog(txCtx, actor, model.SyncUpdate, req)
	})
	if err != nil {
		return nil, err
	}

	s.publishUpdate(actor, req)
	return req, nil
}

// Decide applies a manager's approval decision. There is no guard on the
// current approval status: a decided requisition can be re-decided and the
// last write wins.
func (s *requisitionService) Decide(ctx context.Context, actorID, id uuid.UUID, dto ApprovalActionDTO) (*model.Requisition, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor.Role, authz.ActApproveDecision); err != nil {
		return nil, err
	}
	if !model.ValidApprovalStatus(dto.ApprovalStatus) {
		return nil, apperror.Validation("invalid approval status " + dto.ApprovalStatus)
	}

	var req *model.Requisition
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var loadErr error
		req, loadErr = s.load(txCtx, actor, id)
		if loadErr != nil {
			return loadErr
		}

		now := time.Now()
		req.ApprovalStatus = dto.ApprovalStatus
		req.ApprovalNotes = dto.Notes
		req.ManagerTime = &now

		switch dto.ApprovalStatus {
		case model.ApprovalApproved:
			req.Status = model.StatusApproved
			req.ApprovedAt = &now
			req.ApprovedByID = &actor.ID
		case model.ApprovalRejected:
			req.Status = model.StatusRejected
		default:
			// HOLD, TO_REVIEW and PENDING leave the lifecycle untouched
		}

		if saveErr := s.validateAndSave(txCtx, req); saveErr != nil {
			return saveErr
		}
		if auditErr := s.audit(txCtx, actor, model.ActionApprovalDecision, req, map[string]interface{}{
			"decision": dto.ApprovalStatus,
		}); auditErr != nil {
			return auditErr
		}
		return s.syncLog(txCtx, actor, model.SyncUpdate, req)
	})
	if err != nil {
		return nil, err
	}

	s.publishUpdate(actor, req)
	return req, nil
}

func (s *requisitionService) UpdatePayment(ctx context.Context, actorID, id uuid.UUID, dto PaymentUpdateDTO) (*model.Requisition, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor.Role, authz.ActUpdatePayment); err != nil {
		return nil, err
	}
	if !model.ValidPaymentStatus(dto.PaymentStatus) {
		return nil, apperror.Validation("invalid payment status " + dto.PaymentStatus)
	}

	var req *model.Requisition
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var loadErr error
		req, loadErr = s.load(txCtx, actor, id)
		if loadErr != nil {
			return loadErr
		}

		now := time.Now()
		req.PaymentStatus = dto.PaymentStatus
		req.PaymentUtrNo = dto.UtrNo
		req.PaymentMode = dto.PaymentMode
		req.PaymentDate = dto.PaymentDate
		req.PaymentAmount = dto.Amount
		req.AccountantTime = &now

		if dto.PaymentStatus == model.PaymentDone {
			req.PaidAt = &now
			req.PaidByID = &actor.ID
		}

		if saveErr := s.validateAndSave(txCtx, req); saveErr != nil {
			return saveErr
		}
		if auditErr := s.audit(txCtx, actor, model.ActionUpdatePayment, req, map[string]interface{}{
			"payment_status": dto.PaymentStatus,
			"utr_no":         dto.UtrNo,
		}); auditErr != nil {
			return auditErr
		}
		return s.syncLog(txCtx, actor, model.SyncUpdate, req)
	})
	if err != nil {
		return nil, err
	}

	s.publishUpdate(actor, req)
	return req, nil
}

func (s *requisitionService) MaterialReceipt(ctx context.Context, actorID, id uuid.UUID, dto MaterialReceiptDTO) (*model.Requisition, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor.Role, authz.ActMaterialReceipt); err != nil {
		return nil, err
	}

	var req *model.Requisition
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var loadErr error
		req, loadErr = s.load(txCtx, actor, id)
		if loadErr != nil {
			return loadErr
		}

		// Receipt is normally confirmed by the creator; other members of the
		// organization are allowed through so a colleague can record it.
		req.MaterialReceived = dto.MaterialReceived
		req.ReceiptNotes = dto.ReceiptNotes

		if saveErr := s.validateAndSave(txCtx, req); saveErr != nil {
			return saveErr
		}
		if auditErr := s.audit(txCtx, actor, model.ActionMaterialReceipt, req, map[string]interface{}{
			"material_received": dto.MaterialReceived,
		}); auditErr != nil {
			return auditErr
		}
		return s.syncLog(txCtx, actor, model.SyncUpdate, req)
	})
	if err != nil {
		return nil, err
	}

	s.publishUpdate(actor, req)
	return req, nil
}

func (s *requisitionService) Dispatch(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor.Role, authz.ActDispatch); err != nil {
		return nil, err
	}

	var req *model.Requisition
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var loadErr error
		req, loadErr = s.load(txCtx, actor, id)
		if loadErr != nil {
			return loadErr
		}

		now := time.Now()
		req.DispatchStatus = model.DispatchDispatched
		req.DispatchedByID = &actor.ID
		req.DispatchedAt = &now

		if saveErr := s.validateAndSave(txCtx, req); saveErr != nil {
			return saveErr
		}
		if auditErr := s.audit(txCtx, actor, model.ActionDispatchGoods, req, nil); auditErr != nil {
			return auditErr
		}
		return s.syncLog(txCtx, actor, model.SyncUpdate, req)
	})
	if err != nil {
		return nil, err
	}

	s.publishUpdate(actor, req)
	return req, nil
}

func (s *requisitionService) AttachFile(ctx context.Context, actorID, id uuid.UUID, dto AttachFileDTO) (*model.Requisition, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor.Role, authz.ActAttachFile); err != nil {
		return nil, err
	}

	var category string
	switch dto.FileType {
	case "payment", "vendor_payment":
		category = model.AttachmentPayment
	case "material":
		category = model.AttachmentItem
	case "bill":
		category = model.AttachmentBill
	default:
		return nil, apperror.Validation("invalid file type " + dto.FileType)
	}

	var req *model.Requisition
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var loadErr error
		req, loadErr = s.load(txCtx, actor, id)
		if loadErr != nil {
			return loadErr
		}

		switch dto.FileType {
		case "payment":
			req.PaymentPhotoURL = dto.FileURL
		case "material":
			req.MaterialPhotoURL = dto.FileURL
		case "bill":
			req.BillPhotoURL = dto.FileURL
		case "vendor_payment":
			req.VendorPaymentDetailsURL = dto.FileURL
		}

		if saveErr := s.validateAndSave(txCtx, req); saveErr != nil {
			return saveErr
		}

		attachment := model.Attachment{
			RequisitionID: req.ID,
			FileName:      dto.FileName,
			FileURL:       dto.FileURL,
			FileSize:      dto.FileSize,
			Category:      category,
			UploadedByID:  &actor.ID,
		}
		if attErr := s.attachments.Create(txCtx, &attachment); attErr != nil {
			return fmt.Errorf("failed to record attachment: %w", attErr)
		}

		return s.audit(txCtx, actor, model.ActionAttachFile, req, map[string]interface{}{
			"file_type": dto.FileType,
			"file_name": dto.FileName,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishUpdate(actor, req)
	return req, nil
}

// deleteOne enforces the single-delete rule and removes the aggregate. Must
// run inside a transaction.
func (s *requisitionService) deleteOne(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Requisition, error) {
	req, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == model.RoleAdmin {
		if req.Status != model.StatusDraft && req.Status != model.StatusCompleted {
			return nil, apperror.Conflict("admins can only delete DRAFT or COMPLETED requisitions")
		}
	} else {
		if req.CreatedByID != actor.ID {
			return nil, apperror.Forbidden("only the creator may delete this requisition")
		}
		if req.Status != model.StatusDraft {
			return nil, apperror.Conflict("can only delete requisitions in DRAFT status")
		}
	}

	if err := s.reqs.Delete(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to delete requisition: %w", err)
	}
	if err := s.audit(ctx, actor, model.ActionDeleteRequisition, req, nil); err != nil {
		return nil, err
	}
	if err := s.syncLog(ctx, actor, model.SyncDelete, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *requisitionService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := s.authorize(actor.Role, authz.ActDeleteRequisition); err != nil {
		return err
	}

	var deleted *model.Requisition
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var delErr error
		deleted, delErr = s.deleteOne(txCtx, actor, id)
		return delErr
	})
	if err != nil {
		return err
	}

	s.publishDelete(actor, deleted)
	return nil
}

// BulkDelete is all-or-nothing: every target must independently satisfy the
// single-delete rule, and the first failure rolls back the whole batch.
func (s *requisitionService) BulkDelete(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := s.authorize(actor.Role, authz.ActBulkDelete); err != nil {
		return err
	}

	deleted := make([]*model.Requisition, 0, len(ids))
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			req, delErr := s.deleteOne(txCtx, actor, id)
			if delErr != nil {
				return delErr
			}
			deleted = append(deleted, req)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, req := range deleted {
		s.publishDelete(actor, req)
	}
	return nil
}

func (s *requisitionService) ListApprovals(ctx context.Context, actorID, id uuid.UUID) ([]model.Approval, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	req, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	approvals, err := s.approvals.ListByRequisition(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	return approvals, nil
}

func (s *requisitionService) CreateType(ctx context.Context, actorID uuid.UUID, dto CreateTypeDTO) (*model.RequisitionType, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor.Role, authz.ActCreateType); err != nil {
		return nil, err
	}

	t := &model.RequisitionType{
		Name:        dto.Name,
		Description: dto.Description,
	}
	if err := s.types.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create requisition type: %w", err)
	}

	entry := model.AuditLog{
		OrganizationID: &actor.OrganizationID,
		UserID:         &actor.ID,
		Action:         model.ActionCreateReqType,
		EntityID:       t.ID.String(),
		EntityName:     t.Name,
	}
	if err := s.audits.Create(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}
	return t, nil
}

func (s *requisitionService) ListTypes(ctx context.Context) ([]model.RequisitionType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requisition types: %w", err)
	}
	return types, nil
}
