package taskname

const (
	// Voucher tasks
	VoucherExpireOverdue = "voucher:expire:overdue"
)
