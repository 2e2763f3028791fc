package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLang(t *testing.T) {
	tests := []struct {
		input    string
		expected Lang
	}{
		{"", ES},
		{"es", ES},
		{"en", EN},
		{"EN", EN},
		{"en-US", EN},
		{"es-MX", ES},
		{"fr", ES},
		{"not a tag!", ES},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLang(tt.input))
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Ticket saved", MsgTicketSaved(EN))
	assert.Equal(t, "Ticket guardado", MsgTicketSaved(ES))
	assert.Equal(t, "Correo enviado correctamente.", MsgEmailSent(ES))
	assert.Equal(t, "Error sending email: dial tcp: refused", MsgEmailFailed(EN, "dial tcp: refused"))
	assert.Equal(t, "Nuevo ticket: Printer jam (Equipo: EQ-12)", NotificationSubject(ES, "Printer jam", "EQ-12"))
	assert.Equal(t, "New ticket: Printer jam (Equipment: EQ-12)", NotificationSubject(EN, "Printer jam", "EQ-12"))
	assert.Equal(t, "Diagnóstico", FieldLabels(ES).Diagnosis)
}
