package placement

import "github.com/scoutline/scoutline/domain/query"

// WithIntroduction filters by the "introduction_id" column.
func WithIntroduction(id int64) query.Option {
	return query.WithCondition("introduction_id", id)
}

// WithPaymentStatus filters by the "payment_status" column.
func WithPaymentStatus(s PaymentStatus) query.Option {
	return query.WithCondition("payment_status", string(s))
}

// Unpaid filters placements with any amount outstanding.
func Unpaid() query.Option {
	return query.WithConditionIn("payment_status", []string{string(PaymentPending), string(PaymentPartiallyPaid)})
}
