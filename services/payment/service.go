package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admissions-backoffice/pkg/config"
	"admissions-backoffice/pkg/db/option"
	"admissions-backoffice/pkg/db/pagination"
	"admissions-backoffice/pkg/errutil"
	"admissions-backoffice/pkg/logger"
	"admissions-backoffice/pkg/repository"
	"admissions-backoffice/pkg/sequence"
	"admissions-backoffice/services/application"
	"admissions-backoffice/services/fee"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApplicationGetter looks up the application a payment is made against.
type ApplicationGetter interface {
	Get(ctx context.Context, id string) (*application.Application, error)
}

type Service struct {
	db           *gorm.DB
	node         *snowflake.Node
	seq          sequence.Generator
	loc          *time.Location
	now          func() time.Time
	repo         repository.Repository[Payment]
	applications ApplicationGetter
}

type ServiceParams struct {
	fx.In
	DB           *gorm.DB
	Node         *snowflake.Node
	Seq          sequence.Generator
	Applications ApplicationGetter `optional:"true"`
	Config       *config.Config    `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:           p.DB,
		node:         p.Node,
		seq:          p.Seq,
		loc:          p.Config.Location(),
		now:          time.Now,
		repo:         repository.ProvideStore[Payment](p.DB),
		applications: p.Applications,
	}
}

type CreateRequest struct {
	ApplicationID  string          `json:"application_id"`
	StudentID      string          `json:"student_id"`
	FeeType        fee.FeeType     `json:"fee_type"`
	Amount         decimal.Decimal `json:"amount"`
	Method         Method          `json:"method"`
	Reference      string          `json:"reference"`
	VoucherUsageID string          `json:"voucher_usage_id"`
}

type ListRequest struct {
	Status        Status `form:"status"`
	ApplicationID string `form:"application_id"`
	StudentID     string `form:"student_id"`
	Method        Method `form:"method"`
	Search        string `form:"q"`
	SortBy        string `form:"sort_by"`
	OrderBy       string `form:"order_by"`
	pagination.Pagination
}

// StatusTotal is the number and sum of payments in one status.
type StatusTotal struct {
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Payment, error) {
	zapLog := logger.FromContext(ctx)

	details := make([]errutil.Detail, 0)
	if strings.TrimSpace(req.ApplicationID) == "" {
		details = append(details, errutil.Detail{Field: "application_id", Message: "is required"})
	}
	if strings.TrimSpace(req.StudentID) == "" {
		details = append(details, errutil.Detail{Field: "student_id", Message: "is required"})
	}
	if !req.FeeType.Valid() {
		details = append(details, errutil.Detail{Field: "fee_type", Message: "unknown fee type"})
	}
	if !req.Amount.IsPositive() {
		details = append(details, errutil.Detail{Field: "amount", Message: "must be greater than zero"})
	}
	if !req.Method.Valid() {
		details = append(details, errutil.Detail{Field: "method", Message: "must be cash, bank_transfer, mobile_money, card or online"})
	}
	if len(details) > 0 {
		return nil, errutil.Invalid("invalid payment", details...)
	}

	if s.applications != nil {
		if _, err := s.applications.Get(ctx, strings.TrimSpace(req.ApplicationID)); err != nil {
			return nil, err
		}
	}

	p := &Payment{
		ID:            s.node.Generate().String(),
		ApplicationID: strings.TrimSpace(req.ApplicationID),
		StudentID:     strings.TrimSpace(req.StudentID),
		FeeType:       req.FeeType,
		Amount:        req.Amount.Round(2),
		Method:        req.Method,
		Reference:     strings.TrimSpace(req.Reference),
		Status:        StatusPending,
	}
	if id := strings.TrimSpace(req.VoucherUsageID); id != "" {
		p.VoucherUsageID = &id
	}

	if err := s.repo.Create(ctx, p); err != nil {
		zapLog.Error("failed to create payment", zap.Error(err))
		return nil, fmt.Errorf("create payment: %w", err)
	}

	zapLog.Info("payment recorded",
		zap.String("payment_id", p.ID),
		zap.String("application_id", p.ApplicationID),
		zap.String("amount", p.Amount.StringFixed(2)),
	)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Payment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errutil.Invalid("payment id is required")
	}

	p, err := s.repo.FindOne(ctx, &Payment{ID: id})
	if err != nil {
		logger.FromContext(ctx).Error("failed to get payment", zap.String("payment_id", id), zap.Error(err))
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]*Payment, pagination.PageInfo, error) {
	conds := make([]option.Condition, 0)
	if req.Status != "" {
		if !req.Status.Valid() {
			return nil, pagination.PageInfo{}, errutil.Invalid("invalid status filter", errutil.Detail{Field: "status", Message: "unknown status"})
		}
		conds = append(conds, option.Condition{Field: "status", Operator: option.EQ, Value: req.Status})
	}
	if req.Method != "" {
		conds = append(conds, option.Condition{Field: "method", Operator: option.EQ, Value: req.Method})
	}
	if req.ApplicationID != "" {
		conds = append(conds, option.Condition{Field: "application_id", Operator: option.EQ, Value: req.ApplicationID})
	}
	if req.StudentID != "" {
		conds = append(conds, option.Condition{Field: "student_id", Operator: option.EQ, Value: req.StudentID})
	}

	filters := []option.QueryOption{
		option.ApplyOperator(conds...),
		option.Search(req.Search, "reference", "receipt_number"),
	}

	total, err := s.repo.Count(ctx, &Payment{}, filters...)
	if err != nil {
		return nil, pagination.PageInfo{}, fmt.Errorf("count payments: %w", err)
	}

	payments, err := s.repo.Find(ctx, &Payment{}, append(filters,
		option.WithSortBy(option.QuerySortBy{
			SortBy:  req.SortBy,
			OrderBy: req.OrderBy,
			Allow:   map[string]bool{"created_at": true, "amount": true, "status": true},
		}),
		option.ApplyPagination(req.Pagination),
	)...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list payments", zap.Error(err))
		return nil, pagination.PageInfo{}, fmt.Errorf("list payments: %w", err)
	}
	return payments, pagination.BuildPageInfo(req.Pagination, total), nil
}

// Verify confirms a pending payment and issues its receipt number. The
// update is conditional on the row still being pending, so two verifiers
// racing on the same payment cannot both succeed.
func (s *Service) Verify(ctx context.Context, id, verifierID string) (*Payment, error) {
	zapLog := logger.FromContext(ctx).With(zap.String("payment_id", id))

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPending {
		return nil, notPending(p.Status)
	}

	now := s.now()
	receipt, err := s.seq.NextReceiptNumber(ctx, now.In(s.loc).Year())
	if err != nil {
		zapLog.Error("failed to generate receipt number", zap.Error(err))
		return nil, fmt.Errorf("generate receipt number: %w", err)
	}

	if err := s.transition(ctx, p, map[string]any{
		"status":         StatusVerified,
		"verified_by":    verifierID,
		"verified_at":    now,
		"receipt_number": receipt,
	}); err != nil {
		return nil, err
	}

	zapLog.Info("payment verified", zap.String("receipt_number", receipt), zap.String("verified_by", verifierID))
	return s.Get(ctx, id)
}

func (s *Service) Reject(ctx context.Context, id, verifierID, reason string) (*Payment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errutil.Invalid("rejection reason is required", errutil.Detail{Field: "reason", Message: "is required"})
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPending {
		return nil, notPending(p.Status)
	}

	if err := s.transition(ctx, p, map[string]any{
		"status":           StatusRejected,
		"verified_by":      verifierID,
		"verified_at":      s.now(),
		"rejection_reason": reason,
	}); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("payment rejected", zap.String("payment_id", id), zap.String("verified_by", verifierID))
	return s.Get(ctx, id)
}

func (s *Service) transition(ctx context.Context, p *Payment, updates map[string]any) error {
	res := s.db.WithContext(ctx).
		Model(&Payment{}).
		Where("id = ? AND status = ?", p.ID, StatusPending).
		Updates(updates)
	if res.Error != nil {
		logger.FromContext(ctx).Error("failed to update payment", zap.String("payment_id", p.ID), zap.Error(res.Error))
		return fmt.Errorf("update payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		current, err := s.Get(ctx, p.ID)
		if err != nil {
			return err
		}
		return notPending(current.Status)
	}
	return nil
}

// TotalsByStatus returns count and amount per status, including statuses
// with no payments.
func (s *Service) TotalsByStatus(ctx context.Context) (map[Status]StatusTotal, error) {
	var rows []struct {
		Status Status
		Count  int64
		Amount decimal.Decimal
	}
	if err := s.db.WithContext(ctx).
		Model(&Payment{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("sum payments by status: %w", err)
	}

	out := make(map[Status]StatusTotal, len(Statuses))
	for _, st := range Statuses {
		out[st] = StatusTotal{Amount: decimal.Zero}
	}
	for _, r := range rows {
		out[r.Status] = StatusTotal{Count: r.Count, Amount: r.Amount}
	}
	return out, nil
}
