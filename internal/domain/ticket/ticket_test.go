package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techdesk-io/techdesk/internal/shared/i18n"
)

func newValidTicket(t *testing.T) *Ticket {
	t.Helper()
	tk, err := NewTicket(i18n.EN, Details{ProblemDescription: "Printer jam", EquipmentID: "EQ-12"})
	require.NoError(t, err)
	return tk
}

func TestNewTicket(t *testing.T) {
	tests := []struct {
		name        string
		lang        i18n.Lang
		details     Details
		wantErr     error
		wantLang    i18n.Lang
		wantProblem string
	}{
		{
			name:        "minimal ticket",
			lang:        i18n.EN,
			details:     Details{ProblemDescription: "Printer jam"},
			wantLang:    i18n.EN,
			wantProblem: "Printer jam",
		},
		{
			name:        "problem is trimmed",
			lang:        i18n.ES,
			details:     Details{ProblemDescription: "  No enciende \n"},
			wantLang:    i18n.ES,
			wantProblem: "No enciende",
		},
		{
			name:        "unknown language falls back to default",
			lang:        i18n.Lang("fr"),
			details:     Details{ProblemDescription: "Screen flicker"},
			wantLang:    i18n.Default,
			wantProblem: "Screen flicker",
		},
		{
			name:    "missing problem",
			lang:    i18n.ES,
			details: Details{ClientName: "ACME"},
			wantErr: ErrProblemRequired,
		},
		{
			name:    "whitespace problem",
			lang:    i18n.ES,
			details: Details{ProblemDescription: "   \t"},
			wantErr: ErrProblemRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk, err := NewTicket(tt.lang, tt.details)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tk)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLang, tk.Language())
			assert.Equal(t, tt.wantProblem, tk.ProblemDescription())
			assert.False(t, tk.IsPersisted())
			assert.Empty(t, tk.AttachmentFilenames())
		})
	}
}

func TestTicket_AttachFiles(t *testing.T) {
	t.Run("keeps upload order", func(t *testing.T) {
		tk := newValidTicket(t)
		names := []string{"3-c.png", "1-a.jpg", "2-b.jpeg"}

		require.NoError(t, tk.AttachFiles(names))
		assert.Equal(t, names, tk.AttachmentFilenames())

		names[0] = "mutated"
		assert.Equal(t, "3-c.png", tk.AttachmentFilenames()[0])
	})

	t.Run("rejects more than three", func(t *testing.T) {
		tk := newValidTicket(t)
		err := tk.AttachFiles([]string{"a.png", "b.png", "c.png", "d.png"})
		assert.ErrorIs(t, err, ErrTooManyFiles)
	})

	t.Run("rejects names that would break the stored list", func(t *testing.T) {
		for _, name := range []string{"", "a,b.png", "../x.png", `dir\x.png`, ".."} {
			tk := newValidTicket(t)
			assert.Error(t, tk.AttachFiles([]string{name}), name)
		}
	})

	t.Run("rejected after persistence", func(t *testing.T) {
		tk := newValidTicket(t)
		require.NoError(t, tk.MarkPersisted(1, time.Now()))
		assert.ErrorIs(t, tk.AttachFiles([]string{"a.png"}), ErrAlreadyPersisted)
	})
}

func TestTicket_MarkPersisted(t *testing.T) {
	tk := newValidTicket(t)
	created := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

	assert.Error(t, tk.MarkPersisted(0, created))
	require.NoError(t, tk.MarkPersisted(7, created))
	assert.Equal(t, uint(7), tk.ID())
	assert.Equal(t, created, tk.CreatedAt())
	assert.ErrorIs(t, tk.MarkPersisted(8, created), ErrAlreadyPersisted)
}

func TestReconstructTicket(t *testing.T) {
	created := time.Now()

	tk, err := ReconstructTicket(3, i18n.EN, Details{ProblemDescription: "x"}, nil, created)
	require.NoError(t, err)
	assert.Equal(t, uint(3), tk.ID())
	assert.NotNil(t, tk.AttachmentFilenames())

	_, err = ReconstructTicket(0, i18n.EN, Details{}, nil, created)
	assert.Error(t, err)

	_, err = ReconstructTicket(1, i18n.EN, Details{}, []string{"a", "b", "c", "d"}, created)
	assert.ErrorIs(t, err, ErrTooManyFiles)
}

func TestFilenameList(t *testing.T) {
	assert.Equal(t, "", JoinFilenames(nil))
	assert.Nil(t, SplitFilenames(""))

	names := []string{"1-a.png", "2-b.jpg"}
	assert.Equal(t, "1-a.png,2-b.jpg", JoinFilenames(names))
	assert.Equal(t, names, SplitFilenames(JoinFilenames(names)))

	atts := []Attachment{{StorageName: "x.png"}, {StorageName: "y.jpg"}}
	assert.Equal(t, []string{"x.png", "y.jpg"}, StorageNames(atts))
}
