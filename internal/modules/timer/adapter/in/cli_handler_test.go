package in_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	timerin "estudozen/internal/modules/timer/adapter/in"
	"estudozen/internal/modules/timer/dto"
	timerport "estudozen/internal/modules/timer/port/in"
	apperrors "estudozen/internal/platform/errors"
)

type durationUsecase struct {
	timerport.Usecase
	seconds []int
}

func (u *durationUsecase) SetDuration(_ context.Context, seconds int) (dto.SessionOutput, error) {
	u.seconds = append(u.seconds, seconds)
	return dto.SessionOutput{InitialDuration: seconds}, nil
}

func TestSetDurationRejectsOutOfRangeMinutes(t *testing.T) {
	uc := &durationUsecase{}
	h := timerin.NewCLIHandler(uc)
	ctx := context.Background()

	for _, minutes := range []int{0, -5, dto.MaxDurationMinutes + 1, 1 << 62} {
		_, err := h.SetDuration(ctx, minutes)
		require.ErrorIs(t, err, apperrors.ErrInvalidDuration, "minutes=%d", minutes)
	}
	assert.Empty(t, uc.seconds)

	out, err := h.SetDuration(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 3000, out.InitialDuration)
}
