package voucher

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository holds the voucher statements that must run as a single
// conditional update rather than read-modify-write.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTrx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ClaimUse increments used_count if the voucher still has a free slot.
// It reports false when max_uses was already reached.
func (r *Repository) ClaimUse(ctx context.Context, voucherID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Voucher{}).
		Where("id = ? AND used_count < max_uses", voucherID).
		Update("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetMaxUses changes max_uses unless it would drop below used_count.
func (r *Repository) SetMaxUses(ctx context.Context, voucherID string, maxUses int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Voucher{}).
		Where("id = ? AND used_count <= ?", voucherID, maxUses).
		Update("max_uses", maxUses)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteUnused removes a voucher that has never been redeemed.
func (r *Repository) DeleteUnused(ctx context.Context, voucherID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND used_count = 0", voucherID).
		Delete(&Voucher{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ExpireBefore marks active vouchers whose last valid day is before today.
func (r *Repository) ExpireBefore(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Voucher{}).
		Where("status = ? AND valid_until < ?", StatusActive, today).
		Update("status", StatusExpired)
	return res.RowsAffected, res.Error
}

type usageTotals struct {
	Redemptions   int64
	TotalDiscount decimal.Decimal
}

func (r *Repository) UsageTotals(ctx context.Context) (usageTotals, error) {
	var out usageTotals
	err := r.db.WithContext(ctx).
		Model(&VoucherUsage{}).
		Select("COUNT(*) AS redemptions, COALESCE(SUM(discount_amount), 0) AS total_discount").
		Scan(&out).Error
	return out, err
}
