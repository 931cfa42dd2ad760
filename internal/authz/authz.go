package authz

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"

	"reqtrack/internal/model"
)

// Workflow actions gated by role. Ownership and state preconditions are
// checked by the workflow engine itself; this table answers only the
// (role, action) question.
const (
	ActCreateRequisition = "requisition.create"
	ActUpdateRequisition = "requisition.update"
	ActSubmitRequisition = "requisition.submit"
	ActApproveDecision   = "requisition.approve"
	ActUpdatePayment     = "requisition.payment"
	ActMaterialReceipt   = "requisition.receive"
	ActDispatch          = "requisition.dispatch"
	ActAttachFile        = "requisition.attach"
	ActDeleteRequisition = "requisition.delete"
	ActBulkDelete        = "requisition.delete_bulk"
	ActManageUsers       = "user.manage"
	ActCreateType        = "requisition_type.create"
)

const tableModel = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.act == p.act
`

// policy rows: one (role, action) pair per grant
var grants = [][]string{
	{model.RoleAdmin, ActCreateRequisition},
	{model.RolePurchaser, ActCreateRequisition},
	{model.RoleManager, ActCreateRequisition},
	{model.RoleAccountant, ActCreateRequisition},

	{model.RoleAdmin, ActUpdateRequisition},
	{model.RolePurchaser, ActUpdateRequisition},
	{model.RoleManager, ActUpdateRequisition},
	{model.RoleAccountant, ActUpdateRequisition},

	{model.RoleAdmin, ActSubmitRequisition},
	{model.RolePurchaser, ActSubmitRequisition},
	{model.RoleManager, ActSubmitRequisition},
	{model.RoleAccountant, ActSubmitRequisition},

	{model.RoleAdmin, ActApproveDecision},
	{model.RoleManager, ActApproveDecision},

	{model.RoleAdmin, ActUpdatePayment},
	{model.RoleAccountant, ActUpdatePayment},

	{model.RoleAdmin, ActMaterialReceipt},
	{model.RolePurchaser, ActMaterialReceipt},
	{model.RoleManager, ActMaterialReceipt},
	{model.RoleAccountant, ActMaterialReceipt},

	{model.RoleAdmin, ActDispatch},
	{model.RolePurchaser, ActDispatch},

	{model.RoleAdmin, ActAttachFile},
	{model.RolePurchaser, ActAttachFile},
	{model.RoleManager, ActAttachFile},
	{model.RoleAccountant, ActAttachFile},

	{model.RoleAdmin, ActDeleteRequisition},
	{model.RolePurchaser, ActDeleteRequisition},
	{model.RoleManager, ActDeleteRequisition},
	{model.RoleAccountant, ActDeleteRequisition},

	{model.RoleAdmin, ActBulkDelete},

	{model.RoleAdmin, ActManageUsers},

	{model.RoleAdmin, ActCreateType},
}

// Table is the capability table mapping (role, action) to allowed/denied.
// Backed by a casbin enforcer with a static in-memory policy set, so role
// literals stay out of the workflow call sites.
type Table struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewTable() (*Table, error) {
	m, err := casbinmodel.NewModelFromString(tableModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authz model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to build authz enforcer: %w", err)
	}

	for _, g := range grants {
		if _, err := enforcer.AddPolicy(g[0], g[1]); err != nil {
			return nil, fmt.Errorf("failed to add authz policy %v: %w", g, err)
		}
	}

	return &Table{enforcer: enforcer}, nil
}

// CanPerform reports whether the given role may execute the action.
func (t *Table) CanPerform(role, action string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	allowed, err := t.enforcer.Enforce(role, action)
	if err != nil {
		return false, fmt.Errorf("authz enforce failed for role=%s action=%s: %w", role, action, err)
	}
	return allowed, nil
}
