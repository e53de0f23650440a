// Package alert is the terminal alert channel used to surface reminders.
package alert

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

func ParsePermission(s string) (Permission, error) {
	switch p := Permission(s); p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return p, nil
	default:
		return "", fmt.Errorf("unknown permission %q", s)
	}
}

// SaveFunc persists a permission decision.
type SaveFunc func(ctx context.Context, p Permission) error

// Terminal prints alerts to a writer. A user-denied permission is sticky:
// RequestPermission never flips denied back to granted; only SetPermission does.
type Terminal struct {
	mu   sync.Mutex
	out  io.Writer
	perm Permission
	save SaveFunc
}

func NewTerminal(out io.Writer, perm Permission, save SaveFunc) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	if perm == "" {
		perm = PermissionDefault
	}
	return &Terminal{out: out, perm: perm, save: save}
}

func (t *Terminal) Permission() Permission {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.perm
}

func (t *Terminal) RequestPermission(ctx context.Context) (Permission, error) {
	t.mu.Lock()
	if t.perm != PermissionDefault {
		p := t.perm
		t.mu.Unlock()
		return p, nil
	}
	t.perm = PermissionGranted
	t.mu.Unlock()
	if err := t.persist(ctx, PermissionGranted); err != nil {
		return PermissionGranted, err
	}
	return PermissionGranted, nil
}

// SetPermission records an explicit user choice.
func (t *Terminal) SetPermission(ctx context.Context, p Permission) error {
	t.mu.Lock()
	t.perm = p
	t.mu.Unlock()
	return t.persist(ctx, p)
}

func (t *Terminal) persist(ctx context.Context, p Permission) error {
	if t.save == nil {
		return nil
	}
	if err := t.save(ctx, p); err != nil {
		return fmt.Errorf("save alert permission: %w", err)
	}
	return nil
}

var (
	titleStyle = color.New(color.FgHiYellow, color.Bold)
	bodyStyle  = color.New(color.FgHiWhite)
)

func (t *Terminal) Deliver(_ context.Context, title, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintf(t.out, "\a%s %s\n", titleStyle.Sprint("⏰ "+title), bodyStyle.Sprint(body)); err != nil {
		return fmt.Errorf("deliver alert: %w", err)
	}
	return nil
}
