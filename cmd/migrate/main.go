package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"admissions-backoffice/pkg/config"
	"admissions-backoffice/pkg/db"
	"admissions-backoffice/pkg/gen"
	"admissions-backoffice/pkg/logger"
	"admissions-backoffice/pkg/secretmanager"
	"admissions-backoffice/services/application"
	"admissions-backoffice/services/fee"
	"admissions-backoffice/services/payment"
	"admissions-backoffice/services/voucher"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var seedFile = flag.String("seed", "", "YAML file with global fee structures to seed")

func main() {
	flag.Parse()

	opts := []fx.Option{
		secretmanager.Module,
		config.Module,
		logger.Module,
		db.Module,
		gen.Module,
		fx.Invoke(run),
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}
	_ = app.Stop(context.Background())
}

func models() []any {
	var out []any
	out = append(out, voucher.Models()...)
	out = append(out, application.Models()...)
	out = append(out, fee.Models()...)
	out = append(out, payment.Models()...)
	return out
}

func run(database *gorm.DB, node *snowflake.Node) error {
	if err := database.AutoMigrate(models()...); err != nil {
		zap.L().Error("auto migrate failed", zap.Error(err))
		return err
	}
	zap.L().Info("schema migrated", zap.Int("tables", len(models())))

	if *seedFile == "" {
		return nil
	}
	return seedFees(database, node, *seedFile)
}

type seedFee struct {
	Name          string `mapstructure:"name"`
	FeeType       string `mapstructure:"fee_type"`
	Amount        string `mapstructure:"amount"`
	IsRequired    bool   `mapstructure:"is_required"`
	LateFeeAmount string `mapstructure:"late_fee_amount"`
	GraceDays     int    `mapstructure:"grace_days"`
	AcademicYear  string `mapstructure:"academic_year"`
}

// seedFees inserts global fee structures whose fee type has no global row yet.
func seedFees(database *gorm.DB, node *snowflake.Node, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var fees []seedFee
	if err := v.UnmarshalKey("fees", &fees); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}

	for _, s := range fees {
		f, err := s.toModel(node)
		if err != nil {
			return err
		}

		var existing int64
		if err := database.Model(&fee.FeeStructure{}).
			Where("fee_type = ? AND program_id IS NULL", f.FeeType).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("seed fee %s: %w", s.Name, err)
		}
		if existing > 0 {
			zap.L().Info("global fee exists, skipping", zap.String("fee_type", string(f.FeeType)))
			continue
		}
		if err := database.Create(f).Error; err != nil {
			return fmt.Errorf("seed fee %s: %w", s.Name, err)
		}
		zap.L().Info("fee seeded", zap.String("fee_type", string(f.FeeType)), zap.String("amount", f.Amount.StringFixed(2)))
	}
	return nil
}

func (s seedFee) toModel(node *snowflake.Node) (*fee.FeeStructure, error) {
	ft := fee.FeeType(s.FeeType)
	if !ft.Valid() {
		return nil, fmt.Errorf("seed fee %s: unknown fee type %q", s.Name, s.FeeType)
	}
	amount, err := decimal.NewFromString(s.Amount)
	if err != nil {
		return nil, fmt.Errorf("seed fee %s: amount: %w", s.Name, err)
	}
	lateFee := decimal.Zero
	if s.LateFeeAmount != "" {
		if lateFee, err = decimal.NewFromString(s.LateFeeAmount); err != nil {
			return nil, fmt.Errorf("seed fee %s: late fee: %w", s.Name, err)
		}
	}

	return &fee.FeeStructure{
		ID:            node.Generate().String(),
		Name:          s.Name,
		FeeType:       ft,
		Amount:        amount,
		IsRequired:    s.IsRequired,
		IsActive:      true,
		LateFeeAmount: lateFee,
		GraceDays:     s.GraceDays,
		AcademicYear:  s.AcademicYear,
	}, nil
}
