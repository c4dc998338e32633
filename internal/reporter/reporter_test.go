package reporter

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/store"
	"go-jobscout-automation/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingNotifier struct{ calls int }

func (f *failingNotifier) Notify(context.Context, models.RunSummary) error {
	f.calls++
	return errors.New("chat not found")
}

func summary() models.RunSummary {
	start := time.Date(2026, 10, 14, 6, 0, 0, 0, time.UTC)
	return models.Summarize("run-1", []models.Posting{
		{Source: models.SourceLinkedIn, WorkMode: models.WorkModeRemote},
		{Source: models.SourceBayt, WorkMode: models.WorkModeOffline},
	}, start, start.Add(12500*time.Millisecond))
}

func TestReportWritesOneRunRecord(t *testing.T) {
	mem := memory.New()
	var out bytes.Buffer
	r, err := New(mem, store.DefaultRunSchema, zap.NewNop(), WithOutput(&out))
	require.NoError(t, err)

	r.Report(context.Background(), summary())

	require.Len(t, mem.Runs(), 1)
	rec := mem.Runs()[0]
	assert.Equal(t, 2, rec[store.DefaultRunSchema.Total])
	assert.Equal(t, 12.5, rec[store.DefaultRunSchema.Duration])
	assert.Equal(t, "Success", rec[store.DefaultRunSchema.Status])

	printed := out.String()
	assert.Contains(t, printed, "SCRAPING SUMMARY (Success)")
	assert.Contains(t, printed, "Total jobs found: 2")
	assert.Contains(t, printed, "LinkedIn: 1")
	assert.Contains(t, printed, "Indeed: 0")
	assert.Contains(t, printed, "Run duration: 12.50s")
}

func TestReportSwallowsFailures(t *testing.T) {
	mem := memory.New()
	mem.FailRuns = errors.New("401 AUTHENTICATION_REQUIRED")
	notifier := &failingNotifier{}
	var out bytes.Buffer

	r, err := New(mem, store.DefaultRunSchema, nil, WithOutput(&out), WithNotifier(notifier))
	require.NoError(t, err)

	r.Report(context.Background(), summary())
	assert.Equal(t, 1, mem.RunCalls(), "the run-log write is attempted once, never retried")
	assert.Equal(t, 1, notifier.calls)
	assert.NotEmpty(t, out.String(), "the summary is printed even when logging fails")
}

func TestNewRejectsInvalidSchema(t *testing.T) {
	bad := store.DefaultRunSchema
	bad.Date = ""
	_, err := New(memory.New(), bad, nil)
	assert.Error(t, err)
}

func TestTelegramNotifier(t *testing.T) {
	var mu sync.Mutex
	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"scout","username":"scout_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_ = r.ParseForm()
			mu.Lock()
			sent = append(sent, r.FormValue("text"))
			mu.Unlock()
			assert.Equal(t, "HTML", r.FormValue("parse_mode"))
			assert.Equal(t, "42", r.FormValue("chat_id"))
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	n, err := newTelegramNotifier("token", 42, srv.URL+"/bot%s/%s")
	require.NoError(t, err)
	require.NoError(t, n.Notify(context.Background(), summary()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Total: 2")
	assert.Contains(t, sent[0], "LinkedIn: 1 · Indeed: 0 · Bayt: 1")
}

func TestFormatTelegramFailedRun(t *testing.T) {
	start := time.Now()
	msg := FormatTelegram(models.FailedSummary("run-2", start, start))
	assert.True(t, strings.HasPrefix(msg, "⚠️"))
	assert.Contains(t, msg, "Total: 0")
}
