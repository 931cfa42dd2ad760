package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"reqtrack/internal/apperror"
	"reqtrack/internal/model"
	"reqtrack/internal/repository"
)

const dashboardCacheTTL = 60 * time.Second

// TypeSummary aggregates workflow progress for one requisition type.
type TypeSummary struct {
	TypeID       uuid.UUID `json:"type_id"`
	TypeName     string    `json:"type_name"`
	Total        int64     `json:"total"`
	Approved     int64     `json:"approved"`
	Rejected     int64     `json:"rejected"`
	PendingOnMgr int64     `json:"pending_on_manager"`
	PaymentDone  int64     `json:"payment_done"`
}

type DashboardSummary struct {
	OrganizationID uuid.UUID     `json:"organization_id"`
	Types          []TypeSummary `json:"types"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// DashboardService produces the per-type workflow rollup shown on the home
// screen. Results are cached briefly in redis when a client is configured.
type DashboardService interface {
	Summary(ctx context.Context, actorID uuid.UUID) (*DashboardSummary, error)
}

type dashboardService struct {
	users  repository.UserRepository
	reqs   repository.RequisitionRepository
	types  repository.RequisitionTypeRepository
	cache  *redis.Client // nil disables caching
	logger *zap.Logger
}

func NewDashboardService(
	users repository.UserRepository,
	reqs repository.RequisitionRepository,
	types repository.RequisitionTypeRepository,
	cache *redis.Client,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{users: users, reqs: reqs, types: types, cache: cache, logger: logger}
}

func dashboardCacheKey(orgID uuid.UUID) string {
	return "dashboard:" + orgID.String()
}

func (s *dashboardService) Summary(ctx context.Context, actorID uuid.UUID) (*DashboardSummary, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !actor.IsActive {
		return nil, apperror.Forbidden("user account is deactivated")
	}

	if s.cache != nil {
		cached, cacheErr := s.cache.Get(ctx, dashboardCacheKey(actor.OrganizationID)).Result()
		if cacheErr == nil {
			var summary DashboardSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				return &summary, nil
			}
		} else if !errors.Is(cacheErr, redis.Nil) {
			s.logger.Warn("dashboard cache read failed", zap.Error(cacheErr))
		}
	}

	summary, err := s.build(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		payload, _ := json.Marshal(summary)
		if cacheErr := s.cache.Set(ctx, dashboardCacheKey(actor.OrganizationID), payload, dashboardCacheTTL).Err(); cacheErr != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(cacheErr))
		}
	}
	return summary, nil
}

func (s *dashboardService) build(ctx context.Context, orgID uuid.UUID) (*DashboardSummary, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requisition types: %w", err)
	}

	summary := &DashboardSummary{
		OrganizationID: orgID,
		Types:          make([]TypeSummary, 0, len(types)),
		GeneratedAt:    time.Now(),
	}
	for _, t := range types {
		row := TypeSummary{TypeID: t.ID, TypeName: t.Name}
		if row.Total, err = s.reqs.CountByType(ctx, orgID, t.ID); err != nil {
			return nil, fmt.Errorf("failed to count requisitions for type %s: %w", t.Name, err)
		}
		if row.Approved, err = s.reqs.CountByTypeAndApprovalStatus(ctx, orgID, t.ID, model.ApprovalApproved); err != nil {
			return nil, fmt.Errorf("failed to count approved for type %s: %w", t.Name, err)
		}
		if row.Rejected, err = s.reqs.CountByTypeAndApprovalStatus(ctx, orgID, t.ID, model.ApprovalRejected); err != nil {
			return nil, fmt.Errorf("failed to count rejected for type %s: %w", t.Name, err)
		}
		if row.PendingOnMgr, err = s.reqs.CountByTypeAndApprovalStatus(ctx, orgID, t.ID, model.ApprovalPending); err != nil {
			return nil, fmt.Errorf("failed to count pending for type %s: %w", t.Name, err)
		}
		if row.PaymentDone, err = s.reqs.CountByTypeAndPaymentStatus(ctx, orgID, t.ID, model.PaymentDone); err != nil {
			return nil, fmt.Errorf("failed to count paid for type %s: %w", t.Name, err)
		}
		summary.Types = append(summary.Types, row)
	}
	return summary, nil
}
