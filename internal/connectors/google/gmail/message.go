package gmail

import (
	"encoding/base64"
	"mime"
	"strings"

	"google.golang.org/api/gmail/v1"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// ExtractBody returns the concatenated text/plain parts of a message. When
// the message has none, the text/html parts are returned instead.
func ExtractBody(payload *gmail.MessagePart) string {
	if body := collectParts(payload, "text/plain"); body != "" {
		return body
	}
	if body := collectParts(payload, "text/html"); body != "" {
		return body
	}
	// Single-part message with an unusual type.
	if payload != nil && len(payload.Parts) == 0 && payload.Body != nil {
		return decodeBody(payload.Body.Data)
	}
	return ""
}

func collectParts(part *gmail.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	var b strings.Builder
	if strings.EqualFold(part.MimeType, mimeType) && part.Body != nil {
		b.WriteString(decodeBody(part.Body.Data))
	}
	for _, sub := range part.Parts {
		b.WriteString(collectParts(sub, mimeType))
	}
	return b.String()
}

// decodeBody decodes base64url data with or without padding.
func decodeBody(data string) string {
	if data == "" {
		return ""
	}
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

// EncodeDraft builds an RFC 2822 message and encodes it base64url without
// padding, as the Gmail raw field expects.
func EncodeDraft(d domain.Draft) string {
	var b strings.Builder
	b.WriteString("To: " + d.To + "\r\n")
	if d.Cc != "" {
		b.WriteString("Cc: " + d.Cc + "\r\n")
	}
	if d.Bcc != "" {
		b.WriteString("Bcc: " + d.Bcc + "\r\n")
	}
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", d.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(d.Body)
	return base64.RawURLEncoding.EncodeToString([]byte(b.String()))
}
