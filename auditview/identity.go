package auditview

import "strings"

const (
	// UnknownUser is shown when no identity can be derived from a record.
	UnknownUser = "Unknown User"

	userIDPrefixLen = 8
)

// junkUsernames are values some clients write when they format an unset name.
var junkUsernames = map[string]struct{}{
	"undefined undefined": {},
	"null null":           {},
	"undefined":           {},
	"null":                {},
}

func isJunkUsername(name string) bool {
	if name == "" {
		return true
	}
	_, junk := junkUsernames[name]
	return junk
}

// ResolveUsername picks the best display name for the actor of r: the
// record's own username, then the matching user in the response body, then a
// shortened user id, then UnknownUser.
func ResolveUsername(r *Record) string {
	if r == nil {
		return UnknownUser
	}

	if name, ok := r.Username.AsString(); ok {
		if name = strings.TrimSpace(name); !isJunkUsername(name) {
			return name
		}
	}

	if u, ok := findEnvelopeUser(r.ResponseBody, r.UserID); ok {
		if name := u.displayName(); name != "" {
			return name
		}
	}

	if id, ok := r.UserID.AsString(); ok && id != "" {
		return "User " + truncateRunes(id, userIDPrefixLen) + "..."
	}

	return UnknownUser
}

// ResolveEmail returns the actor's email from the record or, failing that,
// from the matching user in the response body.
func ResolveEmail(r *Record) (string, bool) {
	if r == nil {
		return "", false
	}

	if email, ok := r.UserEmail.AsString(); ok {
		if email = strings.TrimSpace(email); email != "" {
			return email, true
		}
	}

	if u, ok := findEnvelopeUser(r.ResponseBody, r.UserID); ok {
		if email := u.email(); email != "" {
			return email, true
		}
	}

	return "", false
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
