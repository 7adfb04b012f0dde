package circumvention

import "github.com/scoutline/scoutline/domain/query"

// WithIntroduction filters by the "introduction_id" column.
func WithIntroduction(id int64) query.Option {
	return query.WithCondition("introduction_id", id)
}

// WithStatus filters by the "status" column.
func WithStatus(s Status) query.Option {
	return query.WithCondition("status", string(s))
}

// WithDetectionMethod filters by the "detection_method" column.
func WithDetectionMethod(m DetectionMethod) query.Option {
	return query.WithCondition("detection_method", string(m))
}

// WithFlag filters review notes by the "flag_id" column.
func WithFlag(id int64) query.Option {
	return query.WithCondition("flag_id", id)
}
