package alert_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estudozen/internal/platform/alert"
)

func TestRequestPermissionGrantsFromDefaultOnly(t *testing.T) {
	t.Parallel()
	var saved []alert.Permission
	save := func(_ context.Context, p alert.Permission) error {
		saved = append(saved, p)
		return nil
	}
	term := alert.NewTerminal(&bytes.Buffer{}, alert.PermissionDefault, save)
	p, err := term.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, alert.PermissionGranted, p)

	denied := alert.NewTerminal(&bytes.Buffer{}, alert.PermissionDenied, save)
	p, err = denied.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, alert.PermissionDenied, p)
	assert.Equal(t, []alert.Permission{alert.PermissionGranted}, saved)
}

func TestDeliverWritesTitleAndBody(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	term := alert.NewTerminal(&buf, alert.PermissionGranted, nil)
	require.NoError(t, term.Deliver(context.Background(), "Calculus", "starts at 14:00"))
	assert.Contains(t, buf.String(), "Calculus")
	assert.Contains(t, buf.String(), "starts at 14:00")
}

func TestParsePermission(t *testing.T) {
	t.Parallel()
	p, err := alert.ParsePermission("granted")
	require.NoError(t, err)
	assert.Equal(t, alert.PermissionGranted, p)
	_, err = alert.ParsePermission("yes")
	assert.Error(t, err)
}
