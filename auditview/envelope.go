package auditview

import (
	"encoding/json"
	"strings"
)

// envelopeKind names one of the response shapes that can embed user identity.
type envelopeKind int

const (
	envelopeUsers    envelopeKind = iota // {"users": [user, ...]}
	envelopeContacts                     // {"contacts": [{"user_details": user}, ...]}
	envelopeResults                      // {"results": [{"user_detail": user}, ...]}
)

// envelopeOrder is the priority in which shapes are tried.
var envelopeOrder = []envelopeKind{envelopeUsers, envelopeContacts, envelopeResults}

type envelopeUser struct {
	ID        JSONValue `json:"id"`
	FirstName JSONValue `json:"first_name"`
	LastName  JSONValue `json:"last_name"`
	Username  JSONValue `json:"username"`
	Email     JSONValue `json:"email"`
}

// displayName is "first last" trimmed, else the entity's username.
func (u *envelopeUser) displayName() string {
	first, _ := u.FirstName.AsString()
	last, _ := u.LastName.AsString()
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	username, _ := u.Username.AsString()
	return strings.TrimSpace(username)
}

func (u *envelopeUser) email() string {
	email, _ := u.Email.AsString()
	return strings.TrimSpace(email)
}

// decodeEnvelope extracts the users carried by body under the given shape.
// ok is false when body does not have that shape. Elements that fail to
// decode are skipped so one bad entry does not hide the rest.
func decodeEnvelope(body []byte, kind envelopeKind) ([]envelopeUser, bool) {
	var items []JSONValue
	switch kind {
	case envelopeUsers:
		var env struct {
			Users []JSONValue `json:"users"`
		}
		if err := json.Unmarshal(body, &env); err != nil || env.Users == nil {
			return nil, false
		}
		items = env.Users
	case envelopeContacts:
		var env struct {
			Contacts []JSONValue `json:"contacts"`
		}
		if err := json.Unmarshal(body, &env); err != nil || env.Contacts == nil {
			return nil, false
		}
		items = env.Contacts
	case envelopeResults:
		var env struct {
			Results []JSONValue `json:"results"`
		}
		if err := json.Unmarshal(body, &env); err != nil || env.Results == nil {
			return nil, false
		}
		items = env.Results
	default:
		return nil, false
	}

	users := make([]envelopeUser, 0, len(items))
	for _, item := range items {
		u, ok := decodeEnvelopeItem(item.Raw(), kind)
		if ok {
			users = append(users, u)
		}
	}
	return users, true
}

func decodeEnvelopeItem(raw []byte, kind envelopeKind) (envelopeUser, bool) {
	if len(raw) == 0 || raw[0] != '{' {
		return envelopeUser{}, false
	}
	switch kind {
	case envelopeUsers:
		var u envelopeUser
		if err := json.Unmarshal(raw, &u); err != nil {
			return envelopeUser{}, false
		}
		return u, true
	case envelopeContacts:
		var c struct {
			UserDetails *envelopeUser `json:"user_details"`
		}
		if err := json.Unmarshal(raw, &c); err != nil || c.UserDetails == nil {
			return envelopeUser{}, false
		}
		return *c.UserDetails, true
	case envelopeResults:
		var r struct {
			UserDetail *envelopeUser `json:"user_detail"`
		}
		if err := json.Unmarshal(raw, &r); err != nil || r.UserDetail == nil {
			return envelopeUser{}, false
		}
		return *r.UserDetail, true
	}
	return envelopeUser{}, false
}

// findEnvelopeUser searches every known shape of responseBody, in priority
// order, for the user whose id equals userID.
func findEnvelopeUser(responseBody, userID JSONValue) (*envelopeUser, bool) {
	if userID.IsNull() {
		return nil, false
	}
	body, ok := responseBody.object()
	if !ok {
		return nil, false
	}
	for _, kind := range envelopeOrder {
		users, ok := decodeEnvelope(body, kind)
		if !ok {
			continue
		}
		for i := range users {
			if sameID(users[i].ID, userID) {
				return &users[i], true
			}
		}
	}
	return nil, false
}
