package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want EntityKind
	}{
		{"NOTE", KindNote},
		{"notes", KindNote},
		{"notebook", KindNotebook},
		{"TAG", KindTag},
		{"tags", KindTag},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseKind("folder")
	require.Error(t, err)
}

func TestEntityKind_Collection(t *testing.T) {
	assert.Equal(t, "notes", KindNote.Collection())
	assert.Equal(t, "notebooks", KindNotebook.Collection())
	assert.Equal(t, "tags", KindTag.Collection())
	assert.Empty(t, EntityKind("X").Collection())
}

func TestQueueEntry_Ready(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.True(t, QueueEntry{}.Ready(now))
	assert.True(t, QueueEntry{NextAttemptAt: now}.Ready(now))
	assert.True(t, QueueEntry{NextAttemptAt: now.Add(-time.Second)}.Ready(now))
	assert.False(t, QueueEntry{NextAttemptAt: now.Add(time.Second)}.Ready(now))
	assert.False(t, QueueEntry{Quarantined: true}.Ready(now))
}

func TestAttachment_Summary(t *testing.T) {
	a := Attachment{
		ID: "v2", NoteID: "n", Filename: "report.pdf", MimeType: "application/pdf",
		Size: 42, Hash: "h", Version: 2, IsLatest: true, URL: "/attachments/v2/content",
	}
	assert.Equal(t, AttachmentSummary{
		ID: "v2", URL: "/attachments/v2/content", Filename: "report.pdf",
		MimeType: "application/pdf", Size: 42, Version: 2, Hash: "h",
	}, a.Summary())
}
