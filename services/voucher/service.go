package voucher

import (
	"context"
	"errors"
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
	"admissions-backoffice/pkg/util"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxBatchSize     = 1000
	maxBatchPrefix   = 16
	defaultCodeScope = "VCH"
)

var tracer = otel.Tracer("admissions-backoffice/services/voucher")

var redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "admissions",
	Subsystem: "voucher",
	Name:      "redemptions_total",
	Help:      "Voucher redemption attempts by outcome.",
}, []string{"result"})

type Service struct {
	db   *gorm.DB
	node *snowflake.Node
	seq  sequence.Generator
	loc  *time.Location
	now  func() time.Time

	voucher repository.Repository[Voucher]
	usage   repository.Repository[VoucherUsage]
	repo    *Repository
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Node   *snowflake.Node
	Seq    sequence.Generator
	Config *config.Config `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,
		seq:  p.Seq,
		loc:  p.Config.Location(),
		now:  time.Now,

		voucher: repository.ProvideStore[Voucher](p.DB),
		usage:   repository.ProvideStore[VoucherUsage](p.DB),
		repo:    NewRepository(p.DB),
	}
}

func (s *Service) today() time.Time {
	return util.DateOf(s.now(), s.loc)
}

// CreateRequest describes a voucher. Empty Code and Pin are generated.
type CreateRequest struct {
	Code               string          `json:"code"`
	Pin                string          `json:"pin"`
	Type               Type            `json:"type"`
	DiscountValue      decimal.Decimal `json:"discount_value"`
	MaxUses            int             `json:"max_uses"`
	ValidFrom          string          `json:"valid_from"`
	ValidUntil         string          `json:"valid_until"`
	ApplicablePrograms []string        `json:"applicable_programs"`
	ApplicableUsers    []string        `json:"applicable_users"`
	Description        string          `json:"description"`
	CreatedBy          string          `json:"-"`
}

type BatchRequest struct {
	Name     string        `json:"name"`
	Count    int           `json:"count"`
	Template CreateRequest `json:"template"`
}

type UpdateRequest struct {
	Description        *string   `json:"description"`
	ValidFrom          *string   `json:"valid_from"`
	ValidUntil         *string   `json:"valid_until"`
	MaxUses            *int      `json:"max_uses"`
	ApplicablePrograms *[]string `json:"applicable_programs"`
	ApplicableUsers    *[]string `json:"applicable_users"`
}

type ListRequest struct {
	Status    Status `form:"status"`
	Type      Type   `form:"type"`
	BatchName string `form:"batch"`
	Search    string `form:"q"`
	SortBy    string `form:"sort_by"`
	OrderBy   string `form:"order_by"`
	pagination.Pagination
}

// CheckRequest is the input of Validate and Redeem. ProgramID and UserID
// are only required when the voucher is scoped.
type CheckRequest struct {
	Code          string          `json:"code"`
	ApplicationID string          `json:"application_id"`
	BaseFee       decimal.Decimal `json:"base_fee"`
	ProgramID     string          `json:"program_id"`
	UserID        string          `json:"user_id"`
}

type Result struct {
	VoucherID      string          `json:"voucher_id"`
	Code           string          `json:"code"`
	Type           Type            `json:"type"`
	UsageID        string          `json:"usage_id,omitempty"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	RemainingUses  int             `json:"remaining_uses"`
	Redeemed       bool            `json:"redeemed"`
}

type Stats struct {
	ActiveVouchers int64           `json:"active_vouchers"`
	Redemptions    int64           `json:"redemptions"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
}

func (s *Service) buildVoucher(ctx context.Context, req CreateRequest, codePrefix string) (*Voucher, error) {
	details := make([]errutil.Detail, 0)

	if !req.Type.Valid() {
		details = append(details, errutil.Detail{Field: "type", Message: "must be percentage, fixed_amount or full_waiver"})
	}
	switch req.Type {
	case TypePercentage:
		if !req.DiscountValue.IsPositive() || req.DiscountValue.GreaterThan(hundred) {
			details = append(details, errutil.Detail{Field: "discount_value", Message: "percentage must be greater than 0 and at most 100"})
		}
	case TypeFixedAmount:
		if !req.DiscountValue.IsPositive() {
			details = append(details, errutil.Detail{Field: "discount_value", Message: "must be greater than 0"})
		}
	}

	if req.MaxUses == 0 {
		req.MaxUses = 1
	}
	if req.MaxUses < 1 {
		details = append(details, errutil.Detail{Field: "max_uses", Message: "must be at least 1"})
	}

	from, err := util.ParseDate(req.ValidFrom)
	if err != nil {
		details = append(details, errutil.Detail{Field: "valid_from", Message: err.Error()})
	}
	until, err := util.ParseDate(req.ValidUntil)
	if err != nil {
		details = append(details, errutil.Detail{Field: "valid_until", Message: err.Error()})
	}
	if !from.IsZero() && !until.IsZero() && from.After(until) {
		details = append(details, errutil.Detail{Field: "valid_until", Message: "must not be before valid_from"})
	}

	if len(details) > 0 {
		return nil, errutil.Invalid("invalid voucher", details...)
	}

	code := normalizeCode(req.Code)
	if code == "" {
		if code, err = s.seq.NextVoucherCode(ctx, codePrefix); err != nil {
			return nil, fmt.Errorf("generate voucher code: %w", err)
		}
	}

	pin := strings.TrimSpace(req.Pin)
	if pin == "" {
		if pin, err = newPin(); err != nil {
			return nil, fmt.Errorf("generate voucher pin: %w", err)
		}
	}

	serial, err := s.seq.NextVoucherSerial(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate voucher serial: %w", err)
	}

	value := req.DiscountValue
	if req.Type == TypeFullWaiver {
		value = hundred
	}

	return &Voucher{
		ID:                 s.node.Generate().String(),
		Code:               code,
		Pin:                pin,
		Serial:             serial,
		Type:               req.Type,
		DiscountValue:      value,
		MaxUses:            req.MaxUses,
		ValidFrom:          from,
		ValidUntil:         until,
		ApplicablePrograms: datatypes.NewJSONSlice(trimAll(req.ApplicablePrograms)),
		ApplicableUsers:    datatypes.NewJSONSlice(trimAll(req.ApplicableUsers)),
		Status:             StatusActive,
		Description:        strings.TrimSpace(req.Description),
		CreatedBy:          req.CreatedBy,
	}, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Voucher, error) {
	zapLog := logger.FromContext(ctx)

	if code := normalizeCode(req.Code); code != "" {
		exist, err := s.voucher.FindOne(ctx, &Voucher{Code: code})
		if err != nil {
			zapLog.Error("failed to check voucher code", zap.Error(err))
			return nil, fmt.Errorf("check voucher code: %w", err)
		}
		if exist != nil {
			return nil, errutil.Conflict("voucher code already exists", nil, errutil.WithReason("voucher_code_taken"))
		}
	}

	v, err := s.buildVoucher(ctx, req, defaultCodeScope)
	if err != nil {
		return nil, err
	}

	if err := s.voucher.Create(ctx, v); err != nil {
		zapLog.Error("failed to create voucher", zap.String("code", v.Code), zap.Error(err))
		return nil, fmt.Errorf("create voucher: %w", err)
	}

	zapLog.Info("voucher created", zap.String("voucher_id", v.ID), zap.String("code", v.Code), zap.String("type", string(v.Type)))
	return v, nil
}

// GenerateBatch creates Count vouchers from one template. Codes share a
// prefix derived from the batch name.
func (s *Service) GenerateBatch(ctx context.Context, req BatchRequest) ([]*Voucher, error) {
	zapLog := logger.FromContext(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errutil.Invalid("invalid batch", errutil.Detail{Field: "name", Message: "is required"})
	}
	if req.Count < 1 || req.Count > maxBatchSize {
		return nil, errutil.Invalid("invalid batch", errutil.Detail{Field: "count", Message: fmt.Sprintf("must be between 1 and %d", maxBatchSize)})
	}

	prefix := batchPrefix(name)
	template := req.Template
	template.Code = ""
	template.Pin = ""

	vouchers := make([]*Voucher, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		v, err := s.buildVoucher(ctx, template, prefix)
		if err != nil {
			return nil, err
		}
		v.BatchName = name
		vouchers = append(vouchers, v)
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.voucher.WithTrx(tx).BatchCreate(ctx, vouchers)
	}); err != nil {
		zapLog.Error("failed to create voucher batch", zap.String("batch", name), zap.Error(err))
		return nil, fmt.Errorf("create voucher batch: %w", err)
	}

	zapLog.Info("voucher batch generated", zap.String("batch", name), zap.Int("count", len(vouchers)))
	return vouchers, nil
}

func batchPrefix(name string) string {
	prefix := strings.ToUpper(slug.Make(name))
	if len(prefix) > maxBatchPrefix {
		prefix = prefix[:maxBatchPrefix]
	}
	prefix = strings.Trim(prefix, "-")
	if prefix == "" {
		return defaultCodeScope
	}
	return prefix
}

func (s *Service) Get(ctx context.Context, id string) (*Voucher, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errutil.Invalid("voucher id is required")
	}

	v, err := s.voucher.FindOne(ctx, &Voucher{ID: id})
	if err != nil {
		logger.FromContext(ctx).Error("failed to get voucher", zap.String("voucher_id", id), zap.Error(err))
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]*Voucher, pagination.PageInfo, error) {
	conds := make([]option.Condition, 0)
	if req.Status != "" {
		conds = append(conds, option.Condition{Field: "status", Operator: option.EQ, Value: req.Status})
	}
	if req.Type != "" {
		conds = append(conds, option.Condition{Field: "type", Operator: option.EQ, Value: req.Type})
	}
	if req.BatchName != "" {
		conds = append(conds, option.Condition{Field: "batch_name", Operator: option.EQ, Value: req.BatchName})
	}

	filters := []option.QueryOption{
		option.ApplyOperator(conds...),
		option.Search(req.Search, "code", "serial"),
	}

	total, err := s.voucher.Count(ctx, &Voucher{}, filters...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count vouchers", zap.Error(err))
		return nil, pagination.PageInfo{}, fmt.Errorf("count vouchers: %w", err)
	}

	opts := append(filters,
		option.WithSortBy(option.QuerySortBy{
			SortBy:  req.SortBy,
			OrderBy: req.OrderBy,
			Allow:   map[string]bool{"code": true, "valid_until": true, "used_count": true, "created_at": true},
		}),
		option.ApplyPagination(req.Pagination),
	)

	vouchers, err := s.voucher.Find(ctx, &Voucher{}, opts...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list vouchers", zap.Error(err))
		return nil, pagination.PageInfo{}, fmt.Errorf("list vouchers: %w", err)
	}

	return vouchers, pagination.BuildPageInfo(req.Pagination, total), nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Voucher, error) {
	zapLog := logger.FromContext(ctx).With(zap.String("voucher_id", id))

	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	from, until := v.ValidFrom, v.ValidUntil
	if req.ValidFrom != nil {
		if from, err = util.ParseDate(*req.ValidFrom); err != nil {
			return nil, errutil.Invalid("invalid voucher", errutil.Detail{Field: "valid_from", Message: err.Error()})
		}
		updates["valid_from"] = from
	}
	if req.ValidUntil != nil {
		if until, err = util.ParseDate(*req.ValidUntil); err != nil {
			return nil, errutil.Invalid("invalid voucher", errutil.Detail{Field: "valid_until", Message: err.Error()})
		}
		updates["valid_until"] = until
	}
	if util.TruncateDate(from).After(util.TruncateDate(until)) {
		return nil, errutil.Invalid("invalid voucher", errutil.Detail{Field: "valid_until", Message: "must not be before valid_from"})
	}
	if req.MaxUses != nil && *req.MaxUses < 1 {
		return nil, errutil.Invalid("invalid voucher", errutil.Detail{Field: "max_uses", Message: "must be at least 1"})
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.ApplicablePrograms != nil {
		updates["applicable_programs"] = datatypes.NewJSONSlice(trimAll(*req.ApplicablePrograms))
	}
	if req.ApplicableUsers != nil {
		updates["applicable_users"] = datatypes.NewJSONSlice(trimAll(*req.ApplicableUsers))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.MaxUses != nil {
			ok, err := s.repo.WithTrx(tx).SetMaxUses(ctx, id, *req.MaxUses)
			if err != nil {
				return err
			}
			if !ok {
				return errutil.Invalid("invalid voucher", errutil.Detail{Field: "max_uses", Message: "must not be below used_count"})
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return s.voucher.WithTrx(tx).Update(ctx, id, updates)
	})
	if err != nil {
		if errutil.IsBusiness(err) {
			return nil, err
		}
		zapLog.Error("failed to update voucher", zap.Error(err))
		return nil, fmt.Errorf("update voucher: %w", err)
	}

	zapLog.Info("voucher updated")
	return s.Get(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Voucher, error) {
	if !status.Valid() {
		return nil, errutil.Invalid("invalid voucher status", errutil.Detail{Field: "status", Message: "must be active, inactive or expired"})
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := s.voucher.Update(ctx, id, map[string]any{"status": status}); err != nil {
		logger.FromContext(ctx).Error("failed to set voucher status", zap.String("voucher_id", id), zap.Error(err))
		return nil, fmt.Errorf("set voucher status: %w", err)
	}

	logger.FromContext(ctx).Info("voucher status changed", zap.String("voucher_id", id), zap.String("status", string(status)))
	return s.Get(ctx, id)
}

// Delete removes a voucher that has no recorded usages.
func (s *Service) Delete(ctx context.Context, id string) error {
	v, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if v.UsedCount > 0 {
		return errutil.Invalid("voucher has recorded usages, deactivate it instead")
	}

	ok, err := s.repo.DeleteUnused(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete voucher", zap.String("voucher_id", id), zap.Error(err))
		return fmt.Errorf("delete voucher: %w", err)
	}
	if !ok {
		return errutil.Invalid("voucher has recorded usages, deactivate it instead")
	}

	logger.FromContext(ctx).Info("voucher deleted", zap.String("voucher_id", id), zap.String("code", v.Code))
	return nil
}

func (s *Service) ListUsages(ctx context.Context, voucherID string, page pagination.Pagination) ([]*VoucherUsage, pagination.PageInfo, error) {
	if _, err := s.Get(ctx, voucherID); err != nil {
		return nil, pagination.PageInfo{}, err
	}

	query := &VoucherUsage{VoucherID: voucherID}
	total, err := s.usage.Count(ctx, query)
	if err != nil {
		return nil, pagination.PageInfo{}, fmt.Errorf("count voucher usages: %w", err)
	}

	usages, err := s.usage.Find(ctx, query,
		func(db *gorm.DB) *gorm.DB { return db.Order("used_at DESC") },
		option.ApplyPagination(page),
	)
	if err != nil {
		return nil, pagination.PageInfo{}, fmt.Errorf("list voucher usages: %w", err)
	}
	return usages, pagination.BuildPageInfo(page, total), nil
}

func validateCheck(req CheckRequest, redeem bool) error {
	details := make([]errutil.Detail, 0)
	if normalizeCode(req.Code) == "" {
		details = append(details, errutil.Detail{Field: "code", Message: "is required"})
	}
	if redeem && strings.TrimSpace(req.ApplicationID) == "" {
		details = append(details, errutil.Detail{Field: "application_id", Message: "is required"})
	}
	if req.BaseFee.IsNegative() {
		details = append(details, errutil.Detail{Field: "base_fee", Message: "must not be negative"})
	}
	if len(details) > 0 {
		return errutil.Invalid("invalid voucher request", details...)
	}
	return nil
}

// evaluate runs the redemption guards in order and returns the discount.
// v may be nil when no voucher matched the code.
func evaluate(v *Voucher, req CheckRequest, today time.Time) (decimal.Decimal, error) {
	switch {
	case v == nil:
		return decimal.Zero, ErrNotFound
	case v.Status == StatusExpired:
		return decimal.Zero, ErrExpired
	case v.Status != StatusActive:
		return decimal.Zero, ErrInactive
	case today.Before(util.TruncateDate(v.ValidFrom)) || today.After(util.TruncateDate(v.ValidUntil)):
		return decimal.Zero, ErrExpired
	case v.UsedCount >= v.MaxUses:
		return decimal.Zero, ErrLimitExceeded
	case !v.AppliesToProgram(req.ProgramID):
		return decimal.Zero, ErrNotApplicable
	case !v.AppliesToUser(req.UserID):
		return decimal.Zero, ErrNotApplicable
	}

	discount := Calculate(v.Type, v.DiscountValue, req.BaseFee)
	if !discount.IsPositive() {
		return decimal.Zero, ErrNoDiscount
	}
	return discount, nil
}

func newResult(v *Voucher, base, discount decimal.Decimal) *Result {
	return &Result{
		VoucherID:      v.ID,
		Code:           v.Code,
		Type:           v.Type,
		BaseAmount:     base,
		DiscountAmount: discount,
		FinalAmount:    base.Sub(discount),
		RemainingUses:  v.Remaining(),
	}
}

// Validate previews a redemption. Nothing is recorded.
func (s *Service) Validate(ctx context.Context, req CheckRequest) (*Result, error) {
	ctx, span := tracer.Start(ctx, "voucher.Validate")
	defer span.End()

	if err := validateCheck(req, false); err != nil {
		return nil, err
	}

	v, err := s.voucher.FindOne(ctx, &Voucher{Code: normalizeCode(req.Code)})
	if err != nil {
		logger.FromContext(ctx).Error("failed to load voucher", zap.Error(err))
		return nil, fmt.Errorf("load voucher: %w", err)
	}

	discount, err := evaluate(v, req, s.today())
	if err != nil {
		return nil, err
	}
	return newResult(v, req.BaseFee, discount), nil
}

// Redeem validates the voucher and records one usage. The usage row and the
// used_count increment commit together or not at all.
func (s *Service) Redeem(ctx context.Context, req CheckRequest) (*Result, error) {
	ctx, span := tracer.Start(ctx, "voucher.Redeem")
	defer span.End()

	zapLog := logger.FromContext(ctx).With(
		zap.String("code", normalizeCode(req.Code)),
		zap.String("application_id", req.ApplicationID),
	)

	if err := validateCheck(req, true); err != nil {
		redemptions.WithLabelValues(errutil.ReasonValidation).Inc()
		return nil, err
	}

	var result *Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := s.voucher.WithTrx(tx).FindOne(ctx, &Voucher{Code: normalizeCode(req.Code)})
		if err != nil {
			return fmt.Errorf("load voucher: %w", err)
		}

		discount, err := evaluate(v, req, s.today())
		if err != nil {
			return err
		}

		claimed, err := s.repo.WithTrx(tx).ClaimUse(ctx, v.ID)
		if err != nil {
			return fmt.Errorf("claim voucher use: %w", err)
		}
		if !claimed {
			return ErrLimitExceeded
		}
		v.UsedCount++

		result = newResult(v, req.BaseFee, discount)
		usage := &VoucherUsage{
			ID:             s.node.Generate().String(),
			VoucherID:      v.ID,
			ApplicationID:  strings.TrimSpace(req.ApplicationID),
			UserID:         strings.TrimSpace(req.UserID),
			BaseAmount:     result.BaseAmount,
			DiscountAmount: result.DiscountAmount,
			FinalAmount:    result.FinalAmount,
			UsedAt:         s.now(),
		}
		if err := s.usage.WithTrx(tx).Create(ctx, usage); err != nil {
			return fmt.Errorf("record voucher usage: %w", err)
		}

		result.UsageID = usage.ID
		result.Redeemed = true
		return nil
	})
	if err != nil {
		redemptions.WithLabelValues(reasonOf(err)).Inc()
		if errutil.IsBusiness(err) {
			zapLog.Info("voucher redemption rejected", zap.String("reason", reasonOf(err)))
			return nil, err
		}
		zapLog.Error("voucher redemption failed", zap.Error(err))
		return nil, err
	}

	redemptions.WithLabelValues("success").Inc()
	zapLog.Info("voucher redeemed",
		zap.String("voucher_id", result.VoucherID),
		zap.String("usage_id", result.UsageID),
		zap.String("discount", result.DiscountAmount.StringFixed(2)),
	)
	return result, nil
}

// ExpireOverdue marks active vouchers whose validity ended before today.
func (s *Service) ExpireOverdue(ctx context.Context) (int64, error) {
	today := s.today()
	n, err := s.repo.ExpireBefore(ctx, today)
	if err != nil {
		logger.FromContext(ctx).Error("failed to expire vouchers", zap.Error(err))
		return 0, fmt.Errorf("expire vouchers: %w", err)
	}

	logger.FromContext(ctx).Info("expired overdue vouchers", zap.Int64("count", n), zap.Time("today", today))
	return n, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	active, err := s.voucher.Count(ctx, &Voucher{Status: StatusActive})
	if err != nil {
		return nil, fmt.Errorf("count active vouchers: %w", err)
	}

	totals, err := s.repo.UsageTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum voucher usages: %w", err)
	}

	return &Stats{
		ActiveVouchers: active,
		Redemptions:    totals.Redemptions,
		TotalDiscount:  totals.TotalDiscount,
	}, nil
}

// IsRedemptionError reports whether err is one of the redemption guard failures.
func IsRedemptionError(err error) bool {
	for _, target := range []error{ErrNotFound, ErrInactive, ErrExpired, ErrLimitExceeded, ErrNotApplicable, ErrNoDiscount} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
