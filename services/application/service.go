package application

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

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node
	seq  sequence.Generator
	loc  *time.Location
	now  func() time.Time
	repo repository.Repository[Application]
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
		repo: repository.ProvideStore[Application](p.DB),
	}
}

type CreateRequest struct {
	StudentID string `json:"student_id"`
	ProgramID string `json:"program_id"`
	Notes     string `json:"notes"`
}

type ListRequest struct {
	Status    string `form:"status"`
	ProgramID string `form:"program_id"`
	StudentID string `form:"student_id"`
	Search    string `form:"q"`
	SortBy    string `form:"sort_by"`
	OrderBy   string `form:"order_by"`
	pagination.Pagination
}

type UpdateStatusRequest struct {
	Status     string `json:"status"`
	Notes      string `json:"notes"`
	ReviewedBy string `json:"-"`
}

// StatusChange is the outcome of UpdateStatus. Override is set when the
// change was outside the guided flow.
type StatusChange struct {
	Application *Application `json:"application"`
	From        Status       `json:"from"`
	To          Status       `json:"to"`
	Override    bool         `json:"override"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Application, error) {
	zapLog := logger.FromContext(ctx)

	details := make([]errutil.Detail, 0)
	if strings.TrimSpace(req.StudentID) == "" {
		details = append(details, errutil.Detail{Field: "student_id", Message: "is required"})
	}
	if strings.TrimSpace(req.ProgramID) == "" {
		details = append(details, errutil.Detail{Field: "program_id", Message: "is required"})
	}
	if len(details) > 0 {
		return nil, errutil.Invalid("invalid application", details...)
	}

	number, err := s.seq.NextApplicationNumber(ctx, s.now().In(s.loc).Year())
	if err != nil {
		zapLog.Error("failed to generate application number", zap.Error(err))
		return nil, fmt.Errorf("generate application number: %w", err)
	}

	app := &Application{
		ID:                s.node.Generate().String(),
		ApplicationNumber: number,
		StudentID:         strings.TrimSpace(req.StudentID),
		ProgramID:         strings.TrimSpace(req.ProgramID),
		Status:            StatusPending,
		Notes:             strings.TrimSpace(req.Notes),
	}
	if err := s.repo.Create(ctx, app); err != nil {
		zapLog.Error("failed to create application", zap.Error(err))
		return nil, fmt.Errorf("create application: %w", err)
	}

	zapLog.Info("application created", zap.String("application_id", app.ID), zap.String("application_number", number))
	return app, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Application, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errutil.Invalid("application id is required")
	}

	app, err := s.repo.FindOne(ctx, &Application{ID: id})
	if err != nil {
		logger.FromContext(ctx).Error("failed to get application", zap.String("application_id", id), zap.Error(err))
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, ErrNotFound
	}
	return app, nil
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]*Application, pagination.PageInfo, error) {
	conds := make([]option.Condition, 0)
	if req.Status != "" {
		st, ok := ParseStatus(req.Status)
		if !ok {
			return nil, pagination.PageInfo{}, errutil.Invalid("invalid status filter", errutil.Detail{Field: "status", Message: "unknown status"})
		}
		conds = append(conds, option.Condition{Field: "status", Operator: option.EQ, Value: st})
	}
	if req.ProgramID != "" {
		conds = append(conds, option.Condition{Field: "program_id", Operator: option.EQ, Value: req.ProgramID})
	}
	if req.StudentID != "" {
		conds = append(conds, option.Condition{Field: "student_id", Operator: option.EQ, Value: req.StudentID})
	}

	filters := []option.QueryOption{
		option.ApplyOperator(conds...),
		option.Search(req.Search, "application_number"),
	}

	total, err := s.repo.Count(ctx, &Application{}, filters...)
	if err != nil {
		return nil, pagination.PageInfo{}, fmt.Errorf("count applications: %w", err)
	}

	apps, err := s.repo.Find(ctx, &Application{}, append(filters,
		option.WithSortBy(option.QuerySortBy{
			SortBy:  req.SortBy,
			OrderBy: req.OrderBy,
			Allow:   map[string]bool{"created_at": true, "updated_at": true, "status": true, "application_number": true},
		}),
		option.ApplyPagination(req.Pagination),
	)...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list applications", zap.Error(err))
		return nil, pagination.PageInfo{}, fmt.Errorf("list applications: %w", err)
	}

	return apps, pagination.BuildPageInfo(req.Pagination, total), nil
}

// UpdateStatus moves an application to a new status. Unknown statuses are
// rejected and leave the stored status unchanged. Transitions outside the
// guided flow are applied but flagged as an override.
func (s *Service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*StatusChange, error) {
	zapLog := logger.FromContext(ctx).With(zap.String("application_id", id))

	to, ok := ParseStatus(req.Status)
	if !ok {
		return nil, errutil.Invalid("invalid application status",
			errutil.Detail{Field: "status", Message: fmt.Sprintf("%q is not one of pending, under_review, approved, rejected, waitlisted", req.Status)})
	}

	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := app.Status
	change := &StatusChange{From: from, To: to}
	if from != to {
		change.Override = !CanTransition(from, to)
	}

	now := s.now()
	updates := map[string]any{
		"status":      to,
		"reviewed_by": req.ReviewedBy,
		"reviewed_at": now,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		updates["notes"] = notes
	}

	res := s.db.WithContext(ctx).
		Model(&Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		zapLog.Error("failed to update application status", zap.Error(res.Error))
		return nil, fmt.Errorf("update application status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrStatusChanged
	}

	if change.Override {
		zapLog.Warn("application status override",
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.String("reviewed_by", req.ReviewedBy),
		)
	} else {
		zapLog.Info("application status updated", zap.String("from", string(from)), zap.String("to", string(to)))
	}

	if change.Application, err = s.Get(ctx, id); err != nil {
		return nil, err
	}
	return change, nil
}

// CountByStatus returns the number of applications per status, including
// statuses with no applications.
func (s *Service) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Total  int64
	}
	if err := s.db.WithContext(ctx).
		Model(&Application{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count applications by status: %w", err)
	}

	out := make(map[Status]int64, len(Statuses))
	for _, st := range Statuses {
		out[st] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}
