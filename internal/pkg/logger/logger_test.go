package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := defaultLogger.zl
	Use(zap.New(core))
	t.Cleanup(func() {
		Use(prev)
		SetRedactPII(true)
	})
	return logs
}

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
	assert.Equal(t, "***@***", RedactEmail("trailing@"))
}

func TestRedactPhone(t *testing.T) {
	assert.Equal(t, "***67", RedactPhone("+1 (555) 123-4567"))
	assert.Equal(t, "***", RedactPhone("12"))
	assert.Equal(t, "***67", redactPIIValue("Phone", "555 4567"))
}

func TestLog_RedactsEmailFields(t *testing.T) {
	logs := observe(t)

	Info("prospect created", "email", "jane.doe@acme.com", "note", "contact bob@acme.com later", "id", "p-1")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "prospect created", entries[0].Message)
	assert.Equal(t, "ja***@acme.com", fields["email"])
	assert.Equal(t, "contact bo***@acme.com later", fields["note"])
	assert.Equal(t, "p-1", fields["id"])
}

func TestLog_CountersUnderEmailKeysAreKept(t *testing.T) {
	logs := observe(t)

	Info("bulk import finished",
		"skipped_duplicate_email", 3,
		"contact_email", "dana@acme.com",
		"emailed", "yes",
		"contact_phone", "+1 555 123 4567",
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "3", fields["skipped_duplicate_email"])
	assert.Equal(t, "da***@acme.com", fields["contact_email"])
	assert.Equal(t, "yes", fields["emailed"])
	assert.Equal(t, "***67", fields["contact_phone"])
}

func TestLog_RedactionDisabled(t *testing.T) {
	logs := observe(t)
	SetRedactPII(false)

	Warn("raw", "email", "jane.doe@acme.com")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "jane.doe@acme.com", logs.All()[0].ContextMap()["email"])
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestLog_DropsDanglingKey(t *testing.T) {
	logs := observe(t)

	Error("odd fields", "a", 1, "dangling")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "1", fields["a"])
	_, ok := fields["dangling"]
	assert.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, ERROR, ParseLevel(" error "))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}
