package fee

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
	"admissions-backoffice/pkg/util"
	"admissions-backoffice/services/voucher"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VoucherRedeemer is the part of the voucher service a quote needs.
type VoucherRedeemer interface {
	Validate(ctx context.Context, req voucher.CheckRequest) (*voucher.Result, error)
	Redeem(ctx context.Context, req voucher.CheckRequest) (*voucher.Result, error)
}

type Service struct {
	node     *snowflake.Node
	loc      *time.Location
	now      func() time.Time
	repo     repository.Repository[FeeStructure]
	vouchers VoucherRedeemer
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Node     *snowflake.Node
	Vouchers VoucherRedeemer
	Config   *config.Config `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		node:     p.Node,
		loc:      p.Config.Location(),
		now:      time.Now,
		repo:     repository.ProvideStore[FeeStructure](p.DB),
		vouchers: p.Vouchers,
	}
}

type CreateRequest struct {
	Name          string          `json:"name"`
	FeeType       FeeType         `json:"fee_type"`
	Amount        decimal.Decimal `json:"amount"`
	ProgramID     string          `json:"program_id"`
	IsRequired    bool            `json:"is_required"`
	DueDate       string          `json:"due_date"`
	LateFeeAmount decimal.Decimal `json:"late_fee_amount"`
	GraceDays     int             `json:"grace_days"`
	AcademicYear  string          `json:"academic_year"`
	Description   string          `json:"description"`
}

type UpdateRequest struct {
	Name          *string          `json:"name"`
	Amount        *decimal.Decimal `json:"amount"`
	IsRequired    *bool            `json:"is_required"`
	DueDate       *string          `json:"due_date"`
	LateFeeAmount *decimal.Decimal `json:"late_fee_amount"`
	GraceDays     *int             `json:"grace_days"`
	AcademicYear  *string          `json:"academic_year"`
	Description   *string          `json:"description"`
}

type ListRequest struct {
	ProgramID string  `form:"program_id"`
	FeeType   FeeType `form:"fee_type"`
	Active    *bool   `form:"active"`
	pagination.Pagination
}

type QuoteRequest struct {
	ProgramID     string  `json:"program_id"`
	FeeType       FeeType `json:"fee_type"`
	VoucherCode   string  `json:"voucher_code"`
	ApplicationID string  `json:"application_id"`
	UserID        string  `json:"user_id"`
	Redeem        bool    `json:"redeem"`
}

// Quote is the amount payable for one fee. Payable = Base - Discount + LateFee.
type Quote struct {
	FeeStructureID string          `json:"fee_structure_id"`
	FeeType        FeeType         `json:"fee_type"`
	ProgramID      string          `json:"program_id,omitempty"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	LateFee        decimal.Decimal `json:"late_fee"`
	IsLate         bool            `json:"is_late"`
	Payable        decimal.Decimal `json:"payable"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Voucher        *voucher.Result `json:"voucher,omitempty"`
}

func (s *Service) today() time.Time {
	return util.DateOf(s.now(), s.loc)
}

func validateAmounts(amount, lateFee decimal.Decimal, graceDays int) []errutil.Detail {
	details := make([]errutil.Detail, 0)
	if amount.IsNegative() {
		details = append(details, errutil.Detail{Field: "amount", Message: "must not be negative"})
	}
	if lateFee.IsNegative() {
		details = append(details, errutil.Detail{Field: "late_fee_amount", Message: "must not be negative"})
	}
	if graceDays < 0 {
		details = append(details, errutil.Detail{Field: "grace_days", Message: "must not be negative"})
	}
	return details
}

func parseDueDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := util.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*FeeStructure, error) {
	details := validateAmounts(req.Amount, req.LateFeeAmount, req.GraceDays)
	if strings.TrimSpace(req.Name) == "" {
		details = append(details, errutil.Detail{Field: "name", Message: "is required"})
	}
	if !req.FeeType.Valid() {
		details = append(details, errutil.Detail{Field: "fee_type", Message: "must be application, acceptance, tuition, late or miscellaneous"})
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		details = append(details, errutil.Detail{Field: "due_date", Message: err.Error()})
	}
	if len(details) > 0 {
		return nil, errutil.Invalid("invalid fee structure", details...)
	}

	var programID *string
	if p := strings.TrimSpace(req.ProgramID); p != "" {
		programID = &p
	}

	f := &FeeStructure{
		ID:            s.node.Generate().String(),
		Name:          strings.TrimSpace(req.Name),
		FeeType:       req.FeeType,
		Amount:        req.Amount,
		ProgramID:     programID,
		IsRequired:    req.IsRequired,
		IsActive:      true,
		DueDate:       due,
		LateFeeAmount: req.LateFeeAmount,
		GraceDays:     req.GraceDays,
		AcademicYear:  strings.TrimSpace(req.AcademicYear),
		Description:   strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		logger.FromContext(ctx).Error("failed to create fee structure", zap.Error(err))
		return nil, fmt.Errorf("create fee structure: %w", err)
	}

	logger.FromContext(ctx).Info("fee structure created", zap.String("fee_id", f.ID), zap.String("fee_type", string(f.FeeType)))
	return f, nil
}

func (s *Service) Get(ctx context.Context, id string) (*FeeStructure, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errutil.Invalid("fee structure id is required")
	}

	f, err := s.repo.FindOne(ctx, &FeeStructure{ID: id})
	if err != nil {
		return nil, fmt.Errorf("get fee structure: %w", err)
	}
	if f == nil {
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]*FeeStructure, pagination.PageInfo, error) {
	conds := make([]option.Condition, 0)
	switch req.ProgramID {
	case "":
	case "global":
		conds = append(conds, option.Condition{Field: "program_id", Operator: option.NULL})
	default:
		conds = append(conds, option.Condition{Field: "program_id", Operator: option.EQ, Value: req.ProgramID})
	}
	if req.FeeType != "" {
		conds = append(conds, option.Condition{Field: "fee_type", Operator: option.EQ, Value: req.FeeType})
	}
	if req.Active != nil {
		conds = append(conds, option.Condition{Field: "is_active", Operator: option.EQ, Value: *req.Active})
	}

	total, err := s.repo.Count(ctx, &FeeStructure{}, option.ApplyOperator(conds...))
	if err != nil {
		return nil, pagination.PageInfo{}, fmt.Errorf("count fee structures: %w", err)
	}

	fees, err := s.repo.Find(ctx, &FeeStructure{},
		option.ApplyOperator(conds...),
		option.WithSortBy(option.QuerySortBy{SortBy: "fee_type", Allow: map[string]bool{"fee_type": true}}),
		option.ApplyPagination(req.Pagination),
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list fee structures", zap.Error(err))
		return nil, pagination.PageInfo{}, fmt.Errorf("list fee structures: %w", err)
	}
	return fees, pagination.BuildPageInfo(req.Pagination, total), nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*FeeStructure, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	amount, lateFee, grace := f.Amount, f.LateFeeAmount, f.GraceDays
	updates := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errutil.Invalid("invalid fee structure", errutil.Detail{Field: "name", Message: "is required"})
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Amount != nil {
		amount = *req.Amount
		updates["amount"] = amount
	}
	if req.LateFeeAmount != nil {
		lateFee = *req.LateFeeAmount
		updates["late_fee_amount"] = lateFee
	}
	if req.GraceDays != nil {
		grace = *req.GraceDays
		updates["grace_days"] = grace
	}
	if details := validateAmounts(amount, lateFee, grace); len(details) > 0 {
		return nil, errutil.Invalid("invalid fee structure", details...)
	}
	if req.IsRequired != nil {
		updates["is_required"] = *req.IsRequired
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			return nil, errutil.Invalid("invalid fee structure", errutil.Detail{Field: "due_date", Message: err.Error()})
		}
		updates["due_date"] = due
	}
	if req.AcademicYear != nil {
		updates["academic_year"] = strings.TrimSpace(*req.AcademicYear)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			logger.FromContext(ctx).Error("failed to update fee structure", zap.String("fee_id", id), zap.Error(err))
			return nil, fmt.Errorf("update fee structure: %w", err)
		}
	}
	return s.Get(ctx, id)
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) (*FeeStructure, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"is_active": active}); err != nil {
		return nil, fmt.Errorf("set fee structure active: %w", err)
	}

	logger.FromContext(ctx).Info("fee structure active flag changed", zap.String("fee_id", id), zap.Bool("active", active))
	return s.Get(ctx, id)
}

// ResolveFee picks the active fee structure of feeType for programID.
// A program-specific row wins over the global one; among equals the most
// recently updated row is used.
func (s *Service) ResolveFee(ctx context.Context, programID string, feeType FeeType) (*FeeStructure, error) {
	if !feeType.Valid() {
		return nil, errutil.Invalid("invalid fee type", errutil.Detail{Field: "fee_type", Message: "unknown fee type"})
	}

	latest := func(db *gorm.DB) *gorm.DB { return db.Order("updated_at DESC") }
	query := &FeeStructure{FeeType: feeType, IsActive: true}

	if programID = strings.TrimSpace(programID); programID != "" {
		f, err := s.repo.FindOne(ctx, query,
			option.ApplyOperator(option.Condition{Field: "program_id", Operator: option.EQ, Value: programID}),
			latest,
		)
		if err != nil {
			return nil, fmt.Errorf("resolve program fee: %w", err)
		}
		if f != nil {
			return f, nil
		}
	}

	f, err := s.repo.FindOne(ctx, query,
		option.ApplyOperator(option.Condition{Field: "program_id", Operator: option.NULL}),
		latest,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve global fee: %w", err)
	}
	if f == nil {
		return nil, ErrNotFound
	}
	return f, nil
}

// Quote resolves the fee, adds any late fee and applies the voucher to the
// base amount. With Redeem set the voucher usage is recorded.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	f, err := s.ResolveFee(ctx, req.ProgramID, req.FeeType)
	if err != nil {
		return nil, err
	}

	lateFee, isLate := LateFee(f, s.today())
	q := &Quote{
		FeeStructureID: f.ID,
		FeeType:        f.FeeType,
		ProgramID:      req.ProgramID,
		BaseAmount:     f.Amount,
		DiscountAmount: decimal.Zero,
		LateFee:        lateFee,
		IsLate:         isLate,
		DueDate:        f.DueDate,
	}

	if code := strings.TrimSpace(req.VoucherCode); code != "" {
		check := voucher.CheckRequest{
			Code:          code,
			ApplicationID: req.ApplicationID,
			BaseFee:       f.Amount,
			ProgramID:     req.ProgramID,
			UserID:        req.UserID,
		}

		var res *voucher.Result
		if req.Redeem {
			res, err = s.vouchers.Redeem(ctx, check)
		} else {
			res, err = s.vouchers.Validate(ctx, check)
		}
		if err != nil {
			return nil, err
		}
		q.Voucher = res
		q.DiscountAmount = res.DiscountAmount
	}

	q.Payable = q.BaseAmount.Sub(q.DiscountAmount).Add(q.LateFee)
	return q, nil
}
