package ticket

// NotificationOutcome is the result of the single delivery attempt made for a
// stored ticket. A failed delivery is a value, not an error.
type NotificationOutcome struct {
	Delivered bool
	Reason    string
}

func NotificationDelivered() NotificationOutcome {
	return NotificationOutcome{Delivered: true}
}

func NotificationFailed(reason string) NotificationOutcome {
	return NotificationOutcome{Delivered: false, Reason: reason}
}

// NotificationRequest carries what the notifier needs about a stored ticket.
// RawFields is every text field the client posted, persisted or not.
type NotificationRequest struct {
	Ticket      *Ticket
	RawFields   map[string]string
	Attachments []Attachment
}
