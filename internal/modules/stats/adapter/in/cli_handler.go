package in

import (
	"context"

	"estudozen/internal/modules/stats/dto"
	statsin "estudozen/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.SummaryOutput, dto.ScheduledStudyOutput, error) {
	scheduled, err := h.usecase.ScheduledStudyStats(ctx)
	return h.usecase.Summary(ctx), scheduled, err
}

func (h CLIHandler) Weekly(ctx context.Context) []dto.BucketOutput {
	return h.usecase.WeeklyStats(ctx)
}

func (h CLIHandler) Monthly(ctx context.Context) []dto.BucketOutput {
	return h.usecase.MonthlyStats(ctx)
}

func (h CLIHandler) Types(ctx context.Context) []dto.TypeShareOutput {
	return h.usecase.TypeDistribution(ctx)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.RecordOutput, error) {
	return h.usecase.History(ctx, limit)
}

func (h CLIHandler) Reindex(ctx context.Context) (int, error) {
	return h.usecase.Reindex(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Subscribe(fn func(dto.SummaryOutput)) func() {
	return h.usecase.Subscribe(fn)
}
