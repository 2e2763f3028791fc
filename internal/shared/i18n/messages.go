package i18n

import "fmt"

// MsgTicketSaved is the confirmation returned once a ticket is stored
func MsgTicketSaved(lang Lang) string {
	if lang == EN {
		return "Ticket saved"
	}
	return "Ticket guardado"
}

// MsgEmailSent reports a delivered notification
func MsgEmailSent(lang Lang) string {
	if lang == EN {
		return "Email sent successfully."
	}
	return "Correo enviado correctamente."
}

// MsgEmailFailed reports a notification that could not be delivered
func MsgEmailFailed(lang Lang, reason string) string {
	if lang == EN {
		return fmt.Sprintf("Error sending email: %s", reason)
	}
	return fmt.Sprintf("Error enviando email: %s", reason)
}

// NotificationSubject is the subject line of the ticket notification mail
func NotificationSubject(lang Lang, problem, equipmentID string) string {
	if lang == EN {
		return fmt.Sprintf("New ticket: %s (Equipment: %s)", problem, equipmentID)
	}
	return fmt.Sprintf("Nuevo ticket: %s (Equipo: %s)", problem, equipmentID)
}

// Field labels used in the notification summary.
type Labels struct {
	Ticket      string
	Created     string
	Client      string
	Technician  string
	Location    string
	ScheduledAt string
	Equipment   string
	Problem     string
	Diagnosis   string
	Solution    string
	Notes       string
	Attachments string
}

func FieldLabels(lang Lang) Labels {
	if lang == EN {
		return Labels{
			Ticket:      "Ticket",
			Created:     "Created",
			Client:      "Client",
			Technician:  "Technician",
			Location:    "Location",
			ScheduledAt: "Date & Time",
			Equipment:   "Equipment ID",
			Problem:     "Problem",
			Diagnosis:   "Diagnosis",
			Solution:    "Solution",
			Notes:       "Notes",
			Attachments: "Photos",
		}
	}
	return Labels{
		Ticket:      "Ticket",
		Created:     "Creado",
		Client:      "Cliente",
		Technician:  "Técnico",
		Location:    "Ubicación",
		ScheduledAt: "Fecha y hora",
		Equipment:   "ID del Equipo",
		Problem:     "Problema",
		Diagnosis:   "Diagnóstico",
		Solution:    "Solución",
		Notes:       "Observaciones",
		Attachments: "Fotos",
	}
}
