package accesscontrol

import (
	"fmt"

	"admissions-backoffice/pkg/config"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("accesscontrol", fx.Provide(NewEnforcer))

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

const (
	RoleAdmin      = "admin"
	RoleAdmissions = "admissions"
	RoleFinance    = "finance"
	RoleViewer     = "viewer"
)

var defaultPolicies = [][]string{
	{RoleViewer, "/api/v1/*", "GET"},
	{RoleAdmissions, "/api/v1/applications*", "(POST)|(PATCH)"},
	{RoleAdmissions, "/api/v1/vouchers/validate", "POST"},
	{RoleAdmissions, "/api/v1/vouchers/redeem", "POST"},
	{RoleAdmissions, "/api/v1/fees/quote", "POST"},
	{RoleFinance, "/api/v1/payments*", "POST"},
	{RoleFinance, "/api/v1/vouchers*", "(POST)|(PATCH)|(DELETE)"},
	{RoleFinance, "/api/v1/fees*", "(POST)|(PATCH)"},
	{RoleAdmin, "/api/v1/*", ".*"},
}

var defaultGroupings = [][]string{
	{RoleAdmissions, RoleViewer},
	{RoleFinance, RoleViewer},
	{RoleAdmin, RoleAdmissions},
	{RoleAdmin, RoleFinance},
}

// NewEnforcer builds the role enforcer. When ACCESS_CONTROL.POLICY points to
// a CSV policy file it replaces the built-in role table.
func NewEnforcer(cfg *config.Config) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}

	if cfg != nil && cfg.AccessControl.Policy != "" {
		zap.L().Info("loading access control policy", zap.String("path", cfg.AccessControl.Policy))
		return casbin.NewEnforcer(m, cfg.AccessControl.Policy)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("add default policies: %w", err)
	}
	if _, err := e.AddGroupingPolicies(defaultGroupings); err != nil {
		return nil, fmt.Errorf("add default roles: %w", err)
	}
	return e, nil
}
