package userctx

import "context"

// Context key type
type contextKey string

const (
	userEmailKey    contextKey = "user_email"
	userNicknameKey contextKey = "user_nickname"
	UserIDKey       contextKey = "user_id"
)

// Anonymous is the operator name used when nobody is signed in
const Anonymous = "anonymous"

// SetUserEmail adds user email to request context
func SetUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

// GetUserEmail retrieves user email from request context
func GetUserEmail(ctx context.Context) string {
	email, _ := ctx.Value(userEmailKey).(string)
	return email
}

// SetUserNickname adds the operator's display name to request context
func SetUserNickname(ctx context.Context, nickname string) context.Context {
	return context.WithValue(ctx, userNicknameKey, nickname)
}

// GetUserNickname retrieves the operator's display name from request context
func GetUserNickname(ctx context.Context) string {
	nickname, _ := ctx.Value(userNicknameKey).(string)
	return nickname
}

// SetUserID adds user ID to request context
func SetUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// GetUserID retrieves user ID from request context
func GetUserID(ctx context.Context) string {
	if userID := ctx.Value(UserIDKey); userID != nil {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// Operator returns the best name for whoever made the request:
// nickname, then email, then Anonymous.
func Operator(ctx context.Context) string {
	if nickname := GetUserNickname(ctx); nickname != "" {
		return nickname
	}
	if email := GetUserEmail(ctx); email != "" {
		return email
	}
	return Anonymous
}
