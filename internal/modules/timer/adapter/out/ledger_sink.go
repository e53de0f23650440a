package out

import (
	"context"

	statsdto "estudozen/internal/modules/stats/dto"
	statsin "estudozen/internal/modules/stats/port/in"
	"estudozen/internal/modules/timer/domain"
	timerout "estudozen/internal/modules/timer/port/out"
)

// LedgerSink forwards finished runs to the stats ledger.
type LedgerSink struct {
	ledger statsin.Usecase
}

func NewLedgerSink(ledger statsin.Usecase) timerout.SessionSink {
	return LedgerSink{ledger: ledger}
}

func (s LedgerSink) Record(ctx context.Context, f domain.Finished) error {
	_, err := s.ledger.RecordSession(ctx, statsdto.RecordInput{
		ID:              f.RecordID(),
		SessionID:       f.SessionID,
		StartTime:       f.StartedAt,
		EndTime:         f.EndedAt,
		DurationMinutes: f.DurationMinutes(),
		Completed:       f.Completed,
		Type:            f.Type,
		AudioUsed:       f.AudioUsed,
		Activities:      f.Activities,
	})
	return err
}
