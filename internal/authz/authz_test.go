package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqtrack/internal/model"
)

func TestCanPerform(t *testing.T) {
	table, err := NewTable()
	require.NoError(t, err)

	tests := []struct {
		role   string
		action string
		want   bool
	}{
		{model.RolePurchaser, ActCreateRequisition, true},
		{model.RoleAccountant, ActCreateRequisition, true},

		{model.RoleManager, ActApproveDecision, true},
		{model.RoleAdmin, ActApproveDecision, true},
		{model.RolePurchaser, ActApproveDecision, false},
		{model.RoleAccountant, ActApproveDecision, false},

		{model.RoleAccountant, ActUpdatePayment, true},
		{model.RoleManager, ActUpdatePayment, false},
		{model.RolePurchaser, ActUpdatePayment, false},

		{model.RolePurchaser, ActMaterialReceipt, true},
		{model.RoleManager, ActMaterialReceipt, true},
		{model.RoleAccountant, ActMaterialReceipt, true},

		{model.RolePurchaser, ActDispatch, true},
		{model.RoleAccountant, ActDispatch, false},
		{model.RoleManager, ActDispatch, false},

		{model.RoleAdmin, ActBulkDelete, true},
		{model.RoleManager, ActBulkDelete, false},

		{model.RoleAdmin, ActManageUsers, true},
		{model.RoleAccountant, ActManageUsers, false},

		{model.RoleAdmin, ActCreateType, true},
		{model.RolePurchaser, ActCreateType, false},

		{"INTERN", ActCreateRequisition, false},
		{model.RoleAdmin, "requisition.unknown", false},
	}

	for _, tt := range tests {
		got, err := table.CanPerform(tt.role, tt.action)
		require.NoError(t, err)
		assert.Equalf(t, tt.want, got, "role=%s action=%s", tt.role, tt.action)
	}
}

func TestAdminHasEveryWorkflowGrant(t *testing.T) {
	table, err := NewTable()
	require.NoError(t, err)

	actions := []string{
		ActCreateRequisition, ActUpdateRequisition, ActSubmitRequisition,
		ActApproveDecision, ActUpdatePayment, ActMaterialReceipt,
		ActDispatch, ActAttachFile, ActDeleteRequisition, ActBulkDelete,
		ActManageUsers, ActCreateType,
	}
	for _, action := range actions {
		allowed, err := table.CanPerform(model.RoleAdmin, action)
		require.NoError(t, err)
		assert.Truef(t, allowed, "admin should be allowed %s", action)
	}
}
