package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequisitionValidate(t *testing.T) {
	base := func() Requisition {
		return Requisition{
			Status:         StatusDraft,
			ApprovalStatus: ApprovalPending,
			PaymentStatus:  PaymentNotDone,
			DispatchStatus: DispatchNotDispatched,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Requisition)
		wantErr bool
	}{
		{
			name:   "fresh draft is valid",
			mutate: func(r *Requisition) {},
		},
		{
			name: "draft with payment progress is invalid",
			mutate: func(r *Requisition) {
				r.PaymentStatus = PaymentPartial
			},
			wantErr: true,
		},
		{
			name: "draft with dispatch progress is invalid",
			mutate: func(r *Requisition) {
				r.DispatchStatus = DispatchDispatched
			},
			wantErr: true,
		},
		{
			name: "submitted may be on hold",
			mutate: func(r *Requisition) {
				r.Status = StatusSubmitted
				r.ApprovalStatus = ApprovalHold
			},
		},
		{
			name: "approved lifecycle requires approved decision",
			mutate: func(r *Requisition) {
				r.Status = StatusApproved
				r.ApprovalStatus = ApprovalPending
			},
			wantErr: true,
		},
		{
			name: "approved pair is valid",
			mutate: func(r *Requisition) {
				r.Status = StatusApproved
				r.ApprovalStatus = ApprovalApproved
			},
		},
		{
			name: "rejected lifecycle requires rejected decision",
			mutate: func(r *Requisition) {
				r.Status = StatusRejected
				r.ApprovalStatus = ApprovalHold
			},
			wantErr: true,
		},
		{
			name: "approved decision with submitted lifecycle is invalid",
			mutate: func(r *Requisition) {
				r.Status = StatusSubmitted
				r.ApprovalStatus = ApprovalApproved
			},
			wantErr: true,
		},
		{
			name: "rejected decision with submitted lifecycle is invalid",
			mutate: func(r *Requisition) {
				r.Status = StatusSubmitted
				r.ApprovalStatus = ApprovalRejected
			},
			wantErr: true,
		},
		{
			name: "paid requires payment done",
			mutate: func(r *Requisition) {
				r.Status = StatusPaid
				r.ApprovalStatus = ApprovalApproved
				r.PaymentStatus = PaymentPartial
			},
			wantErr: true,
		},
		{
			name: "completed with payment done is valid",
			mutate: func(r *Requisition) {
				r.Status = StatusCompleted
				r.ApprovalStatus = ApprovalApproved
				r.PaymentStatus = PaymentDone
				r.DispatchStatus = DispatchDelivered
			},
		},
		{
			name: "unknown lifecycle is invalid",
			mutate: func(r *Requisition) {
				r.Status = "ARCHIVED"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("SUPERVISOR"))

	assert.True(t, ValidApprovalStatus(ApprovalToReview))
	assert.False(t, ValidApprovalStatus("MAYBE"))

	assert.True(t, ValidPaymentStatus(PaymentPartial))
	assert.False(t, ValidPaymentStatus("HALF"))

	assert.True(t, ValidPriority(PriorityUrgent))
	assert.False(t, ValidPriority("CRITICAL"))

	assert.True(t, ValidAttachmentCategory(AttachmentBill))
	assert.False(t, ValidAttachmentCategory("PHOTO"))
}
