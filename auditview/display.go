package auditview

// DisplayFields are the values a console shows for one audit record.
type DisplayFields struct {
	Username   string        `json:"username"`
	Email      string        `json:"email,omitempty"`
	HasEmail   bool          `json:"has_email"`
	Device     string        `json:"device"`
	IPAddress  string        `json:"ip_address"`
	Category   EventCategory `json:"category"`
	EventLabel string        `json:"event_label"`
}

// Resolve derives every display field of r.
func Resolve(r *Record) DisplayFields {
	if r == nil {
		r = &Record{}
	}
	email, hasEmail := ResolveEmail(r)
	return DisplayFields{
		Username:   ResolveUsername(r),
		Email:      email,
		HasEmail:   hasEmail,
		Device:     DescribeDevice(r),
		IPAddress:  SanitizeIPAddress(r.IPAddress),
		Category:   ClassifyEventType(r.EventType),
		EventLabel: FormatEventLabel(r.EventType),
	}
}
