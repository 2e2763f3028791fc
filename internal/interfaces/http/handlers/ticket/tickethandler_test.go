package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ticketdto "github.com/techdesk-io/techdesk/internal/application/ticket/dto"
	"github.com/techdesk-io/techdesk/internal/application/ticket/usecases"
	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/interfaces/http/handlers/testutil"
	apperrors "github.com/techdesk-io/techdesk/internal/shared/errors"
	"github.com/techdesk-io/techdesk/internal/shared/i18n"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

type mockSubmitTicketUC struct {
	result *usecases.SubmitTicketResult
	err    error
	got    *usecases.SubmitTicketCommand
}

func (m *mockSubmitTicketUC) Execute(_ context.Context, cmd usecases.SubmitTicketCommand) (*usecases.SubmitTicketResult, error) {
	m.got = &cmd
	return m.result, m.err
}

type mockGetTicketUC struct {
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockGetTicketUC) Execute(_ context.Context, _ usecases.GetTicketQuery) (*ticketdto.TicketDTO, error) {
	return m.result, m.err
}

type mockListTicketsUC struct {
	result *usecases.ListTicketsResult
	err    error
	got    usecases.ListTicketsQuery
}

func (m *mockListTicketsUC) Execute(_ context.Context, q usecases.ListTicketsQuery) (*usecases.ListTicketsResult, error) {
	m.got = q
	return m.result, m.err
}

type testDeps struct {
	submitTicketUC usecases.SubmitTicketExecutor
	getTicketUC    usecases.GetTicketExecutor
	listTicketsUC  usecases.ListTicketsExecutor
}

func newTestTicketHandler(deps testDeps) *TicketHandler {
	return NewTicketHandler(
		deps.submitTicketUC,
		deps.getTicketUC,
		deps.listTicketsUC,
		3*(5<<20),
		logger.NewNop(),
	)
}

func savedResult(lang i18n.Lang, atts ...ticket.Attachment) *usecases.SubmitTicketResult {
	return &usecases.SubmitTicketResult{
		TicketID:            1,
		CreatedAt:           time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		Language:            lang,
		Attachments:         atts,
		Notification:        ticket.NotificationFailed("email service is not configured"),
		Message:             i18n.MsgTicketSaved(lang),
		NotificationMessage: i18n.MsgEmailFailed(lang, "email service is not configured"),
		Stage:               usecases.StageResponded,
	}
}

func TestTicketHandler_SubmitTicket_Multipart(t *testing.T) {
	mockUC := &mockSubmitTicketUC{
		result: savedResult(i18n.EN, ticket.Attachment{
			OriginalName: "photo.png",
			StorageName:  "1760868000000-0123456789abcdef0123456789abcdef.png",
			ContentType:  "image/png",
			Size:         4,
		}),
	}
	handler := newTestTicketHandler(testDeps{submitTicketUC: mockUC})

	c, w := testutil.NewMultipartContext("/tickets?lang=en", map[string]string{
		"problem_description": "Printer jam",
		"equipment_id":        "EQ-12",
		"customer_phone":      "555-0100",
	}, testutil.FormFile{Field: ImagesField, Filename: "photo.png", Content: []byte("\x89PNG")})

	handler.SubmitTicket(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	require.NotNil(t, mockUC.got)
	assert.Equal(t, i18n.EN, mockUC.got.Language)
	assert.Equal(t, "Printer jam", mockUC.got.Details.ProblemDescription)
	assert.Equal(t, "EQ-12", mockUC.got.Details.EquipmentID)
	assert.Equal(t, "555-0100", mockUC.got.RawFields["customer_phone"])
	require.Len(t, mockUC.got.Uploads, 1)
	assert.Equal(t, "photo.png", mockUC.got.Uploads[0].OriginalName)

	rc, err := mockUC.got.Uploads[0].Open()
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	_ = rc.Close()
	assert.Equal(t, []byte("\x89PNG"), content)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Ticket saved", resp.Message)

	var body ticketdto.SubmitTicketResponse
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, uint(1), body.TicketID)
	assert.False(t, body.Notification.Delivered)
	assert.Equal(t, "email service is not configured", body.Notification.Reason)
	require.Len(t, body.Attachments, 1)
	assert.True(t, strings.HasPrefix(body.Attachments[0].URL, "/uploads/"))
}

func TestTicketHandler_SubmitTicket_URLEncoded(t *testing.T) {
	mockUC := &mockSubmitTicketUC{result: savedResult(i18n.ES)}
	handler := newTestTicketHandler(testDeps{submitTicketUC: mockUC})

	c, w := testutil.NewFormContext("/tickets", map[string]string{
		"problem_description": "No enciende",
		"client_name":         "ACME",
	})

	handler.SubmitTicket(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mockUC.got)
	assert.Equal(t, i18n.ES, mockUC.got.Language)
	assert.Equal(t, "ACME", mockUC.got.Details.ClientName)
	assert.Empty(t, mockUC.got.Uploads)
}

func TestTicketHandler_SubmitTicket_LanguageSelection(t *testing.T) {
	tests := []struct {
		query string
		want  i18n.Lang
	}{
		{"/tickets", i18n.ES},
		{"/tickets?lang=en", i18n.EN},
		{"/tickets?lang=en-GB", i18n.EN},
		{"/tickets?lang=de", i18n.ES},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			mockUC := &mockSubmitTicketUC{result: savedResult(tt.want)}
			handler := newTestTicketHandler(testDeps{submitTicketUC: mockUC})

			c, _ := testutil.NewFormContext(tt.query, map[string]string{"problem_description": "x"})
			handler.SubmitTicket(c)

			require.NotNil(t, mockUC.got)
			assert.Equal(t, tt.want, mockUC.got.Language)
		})
	}
}

func TestTicketHandler_SubmitTicket_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"missing problem", apperrors.NewValidationError("problem_description is required"), http.StatusBadRequest, "validation_error"},
		{"staging failed", apperrors.NewStagingError("failed to stage attachments", errors.New("disk full")), http.StatusInternalServerError, "staging_error"},
		{"persistence failed", apperrors.NewPersistenceError("failed to save ticket", errors.New("locked")), http.StatusInternalServerError, "persistence_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestTicketHandler(testDeps{submitTicketUC: &mockSubmitTicketUC{err: tt.err}})

			c, w := testutil.NewFormContext("/tickets", map[string]string{"notes": "n"})
			handler.SubmitTicket(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			assert.NotContains(t, w.Body.String(), "disk full")
		})
	}
}

func TestTicketHandler_SubmitTicket_BodyTooLarge(t *testing.T) {
	mockUC := &mockSubmitTicketUC{result: savedResult(i18n.ES)}
	handler := NewTicketHandler(mockUC, nil, nil, 0, logger.NewNop())

	big := make([]byte, formOverheadBytes+1024)
	c, w := testutil.NewMultipartContext("/tickets", map[string]string{"problem_description": "x"},
		testutil.FormFile{Field: ImagesField, Filename: "big.png", Content: big})

	handler.SubmitTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, mockUC.got)
}

func TestTicketHandler_SubmitTicket_UnexpectedFileField(t *testing.T) {
	mockUC := &mockSubmitTicketUC{result: savedResult(i18n.ES)}
	handler := newTestTicketHandler(testDeps{submitTicketUC: mockUC})

	c, w := testutil.NewMultipartContext("/tickets", map[string]string{"problem_description": "Printer jam"},
		testutil.FormFile{Field: ImagesField, Filename: "ok.png", Content: []byte("\x89PNG")},
		testutil.FormFile{Field: "photo", Filename: "stray.png", Content: []byte("\x89PNG")},
	)

	handler.SubmitTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "validation_error", resp.Error.Type)
	assert.Contains(t, resp.Error.Message, `"photo"`)
	assert.Nil(t, mockUC.got)
}

func TestTicketHandler_GetTicket(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		handler := newTestTicketHandler(testDeps{getTicketUC: &mockGetTicketUC{
			result: &ticketdto.TicketDTO{ID: 5, ProblemDescription: "Printer jam"},
		}})

		c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets/5", nil)
		testutil.SetURLParam(c, "id", "5")
		handler.GetTicket(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var body ticketdto.TicketDTO
		require.NoError(t, json.Unmarshal(resp.Data, &body))
		assert.Equal(t, uint(5), body.ID)
	})

	t.Run("not found", func(t *testing.T) {
		handler := newTestTicketHandler(testDeps{getTicketUC: &mockGetTicketUC{
			err: apperrors.NewNotFoundError("ticket not found"),
		}})

		c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets/9", nil)
		testutil.SetURLParam(c, "id", "9")
		handler.GetTicket(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		handler := newTestTicketHandler(testDeps{getTicketUC: &mockGetTicketUC{}})

		c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets/abc", nil)
		testutil.SetURLParam(c, "id", "abc")
		handler.GetTicket(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTicketHandler_ListTickets(t *testing.T) {
	mockUC := &mockListTicketsUC{result: &usecases.ListTicketsResult{
		Tickets:  []*ticketdto.TicketDTO{{ID: 3}, {ID: 2}},
		Total:    3,
		Page:     1,
		PageSize: 2,
	}}
	handler := newTestTicketHandler(testDeps{listTicketsUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets", nil)
	testutil.SetQueryParams(c, map[string]string{"page": "1", "page_size": "2"})
	handler.ListTickets(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.ListTicketsQuery{Page: 1, PageSize: 2}, mockUC.got)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var list struct {
		Items      []ticketdto.TicketDTO `json:"items"`
		Total      int64                 `json:"total"`
		TotalPages int                   `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Len(t, list.Items, 2)
	assert.Equal(t, int64(3), list.Total)
	assert.Equal(t, 2, list.TotalPages)
}
