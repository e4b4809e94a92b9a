package auditview

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EventCategory groups event types for badges and filtering.
type EventCategory string

const (
	CategoryLogin   EventCategory = "login"
	CategoryFetch   EventCategory = "fetch"
	CategoryCreate  EventCategory = "create"
	CategoryUpdate  EventCategory = "update"
	CategoryDelete  EventCategory = "delete"
	CategoryDefault EventCategory = "default"
)

// UnknownEvent is the label for an empty or non-string event type.
const UnknownEvent = "Unknown Event"

// Categories lists every category in display order.
func Categories() []EventCategory {
	return []EventCategory{CategoryLogin, CategoryFetch, CategoryCreate, CategoryUpdate, CategoryDelete, CategoryDefault}
}

// ParseCategory returns the category named s, if any.
func ParseCategory(s string) (EventCategory, bool) {
	for _, c := range Categories() {
		if string(c) == strings.ToLower(strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// categoryRules are checked in order; the first rule with a matching
// substring decides the category.
var categoryRules = []struct {
	category EventCategory
	keywords []string
}{
	{CategoryLogin, []string{"login", "signin", "auth"}},
	{CategoryFetch, []string{"fetch", "get"}},
	{CategoryCreate, []string{"create"}},
	{CategoryUpdate, []string{"update"}},
	{CategoryDelete, []string{"delete"}},
}

// ClassifyEventType maps an event type value to its category.
func ClassifyEventType(v JSONValue) EventCategory {
	s, ok := v.AsString()
	if !ok {
		return CategoryDefault
	}
	return ClassifyEventTypeString(s)
}

// ClassifyEventTypeString maps an event type such as "USER_LOGIN_ATTEMPT" to
// its category by case-insensitive substring match.
func ClassifyEventTypeString(eventType string) EventCategory {
	lower := strings.ToLower(eventType)
	if strings.TrimSpace(lower) == "" {
		return CategoryDefault
	}
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryDefault
}

// FormatEventLabel turns an event type value into a human label.
func FormatEventLabel(v JSONValue) string {
	s, ok := v.AsString()
	if !ok {
		return UnknownEvent
	}
	return FormatEventLabelString(s)
}

// FormatEventLabelString turns "user_created_successfully" into
// "User Created Successfully".
func FormatEventLabelString(eventType string) string {
	var segments []string
	for _, seg := range strings.Split(eventType, "_") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return UnknownEvent
	}

	// Casers carry state and must not be shared between goroutines.
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)
	for i, seg := range segments {
		_, size := utf8.DecodeRuneInString(seg)
		segments[i] = upper.String(seg[:size]) + lower.String(seg[size:])
	}
	return strings.Join(segments, " ")
}
