package usecase

import (
	"context"
	"strings"

	"estudozen/internal/modules/stats/domain"
	"estudozen/internal/modules/stats/dto"
	statsin "estudozen/internal/modules/stats/port/in"
	"estudozen/internal/modules/stats/service"
)

type Interactor struct {
	svc *service.LedgerService
}

func NewInteractor(svc *service.LedgerService) statsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) RecordSession(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error) {
	record, err := i.svc.RecordSession(ctx, domain.SessionRecord{
		ID:              input.ID,
		SessionID:       input.SessionID,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		DurationMinutes: input.DurationMinutes,
		Completed:       input.Completed,
		Type:            strings.ToLower(input.Type),
		AudioUsed:       input.AudioUsed,
		Activities:      input.Activities,
	})
	if record.ID == "" {
		return dto.RecordOutput{}, err
	}
	// A persistence error still carries the applied record.
	return toRecordOutput(record), err
}

func (i *Interactor) Summary(_ context.Context) dto.SummaryOutput {
	return i.summary(i.svc.Snapshot())
}

func (i *Interactor) summary(agg domain.Aggregate) dto.SummaryOutput {
	return dto.SummaryOutput{
		TotalStudyTime:    agg.TotalStudyTime,
		SessionsCompleted: agg.SessionsCompleted,
		SessionsRecorded:  len(agg.StudySessions),
		StudyStreak:       i.svc.CurrentStreak(),
		LongestStreak:     agg.LongestStreak,
		LastStudyDate:     agg.LastStudyDate,
	}
}

func (i *Interactor) WeeklyStats(_ context.Context) []dto.BucketOutput {
	return toBuckets(i.svc.WeeklyStats())
}

func (i *Interactor) MonthlyStats(_ context.Context) []dto.BucketOutput {
	return toBuckets(i.svc.MonthlyStats())
}

func (i *Interactor) TypeDistribution(_ context.Context) []dto.TypeShareOutput {
	shares := i.svc.TypeDistribution()
	out := make([]dto.TypeShareOutput, 0, len(shares))
	for _, s := range shares {
		out = append(out, dto.TypeShareOutput{Type: s.Type, Minutes: s.Minutes})
	}
	return out
}

func (i *Interactor) ScheduledStudyStats(ctx context.Context) (dto.ScheduledStudyOutput, error) {
	stats, err := i.svc.ScheduledStudyStats(ctx)
	if err != nil {
		return dto.ScheduledStudyOutput{}, err
	}
	return dto.ScheduledStudyOutput{Total: stats.Total, Completed: stats.Completed, Ratio: stats.Ratio}, nil
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.RecordOutput, error) {
	records, err := i.svc.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordOutput(r))
	}
	return out, nil
}

func (i *Interactor) Reindex(ctx context.Context) (int, error) {
	return i.svc.Reindex(ctx)
}

func (i *Interactor) Reset(ctx context.Context) error {
	return i.svc.Reset(ctx)
}

func (i *Interactor) Reload(ctx context.Context) error {
	return i.svc.Load(ctx)
}

func (i *Interactor) Subscribe(fn func(dto.SummaryOutput)) func() {
	return i.svc.Subscribe(func(agg domain.Aggregate) {
		fn(i.summary(agg))
	})
}

func toRecordOutput(r domain.SessionRecord) dto.RecordOutput {
	return dto.RecordOutput{
		ID:              r.ID,
		SessionID:       r.SessionID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		DurationMinutes: r.DurationMinutes,
		Completed:       r.Completed,
		Type:            r.Type,
		AudioUsed:       r.AudioUsed,
		Activities:      append([]string(nil), r.Activities...),
	}
}

func toBuckets(buckets []domain.Bucket) []dto.BucketOutput {
	out := make([]dto.BucketOutput, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.BucketOutput{Label: b.Label, Start: b.Start, Minutes: b.Minutes})
	}
	return out
}
