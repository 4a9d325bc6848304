package errors

import "strings"

const (
	MsgNetwork    = "Network connection error. Please check your internet connection and try again."
	MsgTimeout    = "The request timed out. Please try again later."
	MsgPermission = "You don't have permission to perform this action."
	MsgNotFound   = "The requested resource was not found."
	MsgValidation = "Please check your input and try again."
	MsgGeneric    = "An unexpected error occurred. Please try again later."
)

var messageRules = []struct {
	needles []string
	message string
}{
	{needles: []string{"network", "connect"}, message: MsgNetwork},
	{needles: []string{"timeout"}, message: MsgTimeout},
	{needles: []string{"permission", "access"}, message: MsgPermission},
	{needles: []string{"not found", "404"}, message: MsgNotFound},
	{needles: []string{"validation", "invalid"}, message: MsgValidation},
}

// SanitizeMessage maps err to a fixed user-safe phrasing. In development the raw message is returned.
func SanitizeMessage(err error, development bool) string {
	if err == nil {
		return ""
	}
	raw := err.Error()
	if stdErr, ok := AsStandardError(err); ok {
		raw = strings.TrimSpace(stdErr.Message + " " + stdErr.Details)
	}
	if development {
		return raw
	}

	msg := strings.ToLower(raw)
	for _, rule := range messageRules {
		for _, needle := range rule.needles {
			if strings.Contains(msg, needle) {
				return rule.message
			}
		}
	}
	return MsgGeneric
}

// UserMessage returns the message of a user-correctable StandardError verbatim
// and sanitizes everything else.
func UserMessage(err error, development bool) string {
	if stdErr, ok := AsStandardError(err); ok && IsUserCorrectable(stdErr.Code) {
		return stdErr.Message
	}
	return SanitizeMessage(err, development)
}
