package out

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"estudozen/internal/modules/stats/domain"
	statsout "estudozen/internal/modules/stats/port/out"
	"estudozen/internal/platform/markdown"
	"estudozen/internal/platform/slug"
)

const dayIndex = "index.md"

// MarkdownJournal writes each record as a note with YAML frontmatter under
// sessions/YYYY/MM/DD, plus an index.md per day whose generated block lists
// that day's sessions. Days and clock times follow loc, the zone the ledger
// counts calendar days in.
type MarkdownJournal struct {
	root string
	loc  *time.Location
}

func NewMarkdownJournal(dataDir string, loc *time.Location) statsout.Journal {
	if loc == nil {
		loc = time.Local
	}
	return &MarkdownJournal{root: filepath.Join(dataDir, "sessions"), loc: loc}
}

func (j *MarkdownJournal) Write(_ context.Context, r domain.SessionRecord) (string, error) {
	date := r.StartTime.In(j.loc)
	dir := filepath.Join(j.root, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%s.md", date.Format("150405"), slug.Make(r.Type), slug.Make(r.ID))
	path := filepath.Join(dir, name)

	activities := make([]any, 0, len(r.Activities))
	for _, a := range r.Activities {
		activities = append(activities, a)
	}
	meta := map[string]any{
		"schema_version":   domain.SchemaVersion,
		"id":               r.ID,
		"session_id":       r.SessionID,
		"type":             r.Type,
		"start_time":       r.StartTime.Format(time.RFC3339),
		"end_time":         r.EndTime.Format(time.RFC3339),
		"duration_minutes": r.DurationMinutes,
		"completed":        r.Completed,
		"audio_used":       r.AudioUsed,
		"activities":       activities,
	}
	rendered, err := markdown.Note{Meta: meta, Body: noteBody(r)}.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	if err := j.refreshDay(dir); err != nil {
		return path, fmt.Errorf("update day index: %w", err)
	}
	return path, nil
}

func (j *MarkdownJournal) refreshDay(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var (
		lines []string
		total int
	)
	for _, e := range entries {
		if e.IsDir() || e.Name() == dayIndex || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		r, ok := readNote(filepath.Join(dir, e.Name()))
		if !ok {
			continue
		}
		status := "interrupted"
		if r.Completed {
			status = "completed"
		}
		total += r.DurationMinutes
		lines = append(lines, fmt.Sprintf("- %s %s, %d min, %s ([[%s]])",
			r.StartTime.In(j.loc).Format("15:04"), r.Type, r.DurationMinutes, status, strings.TrimSuffix(e.Name(), ".md")))
	}
	sort.Strings(lines)
	lines = append(lines, "", fmt.Sprintf("Total: %d min", total))

	path := filepath.Join(dir, dayIndex)
	body := ""
	if raw, err := os.ReadFile(path); err == nil {
		body = string(raw)
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(markdown.UpsertBlock(body, "day", strings.Join(lines, "\n"))), 0o644)
}

func readNote(path string) (domain.SessionRecord, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.SessionRecord{}, false
	}
	note, err := markdown.Parse(string(raw))
	if err != nil {
		return domain.SessionRecord{}, false
	}
	return recordFromMeta(note.Meta)
}

func noteBody(r domain.SessionRecord) string {
	status := "interrupted"
	if r.Completed {
		status = "completed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s session\n\n- Duration: %d minutes\n- Status: %s\n", r.Type, r.DurationMinutes, status)
	if r.AudioUsed != "" {
		fmt.Fprintf(&b, "- Audio: %s\n", r.AudioUsed)
	}
	if len(r.Activities) > 0 {
		b.WriteString("\n## Activities\n\n")
		for _, a := range r.Activities {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	return b.String()
}

// ReadAll parses every note in the journal. Notes that fail to parse are
// skipped.
func (j *MarkdownJournal) ReadAll(ctx context.Context) ([]domain.SessionRecord, error) {
	var records []domain.SessionRecord
	err := filepath.WalkDir(j.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == j.root {
				return fs.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || d.Name() == dayIndex || filepath.Ext(path) != ".md" {
			return nil
		}
		if r, ok := readNote(path); ok {
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func recordFromMeta(meta map[string]any) (domain.SessionRecord, bool) {
	r := domain.SessionRecord{
		ID:        stringField(meta, "id"),
		SessionID: stringField(meta, "session_id"),
		Type:      stringField(meta, "type"),
		AudioUsed: stringField(meta, "audio_used"),
		StartTime: timeField(meta, "start_time"),
		EndTime:   timeField(meta, "end_time"),
	}
	if minutes, ok := meta["duration_minutes"].(int); ok {
		r.DurationMinutes = minutes
	}
	if completed, ok := meta["completed"].(bool); ok {
		r.Completed = completed
	}
	if list, ok := meta["activities"].([]any); ok {
		for _, a := range list {
			if s, ok := a.(string); ok {
				r.Activities = append(r.Activities, s)
			}
		}
	}
	if r.ID == "" || r.StartTime.IsZero() {
		return domain.SessionRecord{}, false
	}
	return r, true
}

func stringField(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

func timeField(meta map[string]any, key string) time.Time {
	switch v := meta[key].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}
