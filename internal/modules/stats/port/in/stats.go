package in

import (
	"context"

	"estudozen/internal/modules/stats/dto"
)

type Usecase interface {
	RecordSession(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error)
	Summary(ctx context.Context) dto.SummaryOutput
	WeeklyStats(ctx context.Context) []dto.BucketOutput
	MonthlyStats(ctx context.Context) []dto.BucketOutput
	TypeDistribution(ctx context.Context) []dto.TypeShareOutput
	ScheduledStudyStats(ctx context.Context) (dto.ScheduledStudyOutput, error)
	History(ctx context.Context, limit int) ([]dto.RecordOutput, error)
	Reindex(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
	Reload(ctx context.Context) error
	Subscribe(fn func(dto.SummaryOutput)) func()
}
