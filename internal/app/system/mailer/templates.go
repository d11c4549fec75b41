// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"html/template"
)

// ContactReplyEmailData contains the data for a reply to a contact message.
type ContactReplyEmailData struct {
	AppName         string
	RecipientName   string
	OriginalSubject string
	OriginalMessage string
	ReplyMessage    string
}

// ContactReplyEmail generates both plain text and HTML versions of a reply
// to a website contact message. The original message is quoted below the
// reply so the recipient has context.
func ContactReplyEmail(data ContactReplyEmailData) (textBody, htmlBody string) {
	textBody = "Hello " + data.RecipientName + ",\n\n" +
		"Thank you for contacting " + data.AppName + ". Here is our reply to your message:\n\n" +
		data.ReplyMessage + "\n\n" +
		"---\n" +
		"Your original message" + subjectSuffix(data.OriginalSubject) + ":\n\n" +
		data.OriginalMessage + "\n"

	var buf bytes.Buffer
	contactReplyHTMLTmpl.Execute(&buf, data)
	htmlBody = buf.String()

	return textBody, htmlBody
}

// UnreadDigestEmailData contains the data for the periodic unread-messages
// digest sent to the admin address.
type UnreadDigestEmailData struct {
	AppName     string
	UnreadCount int
	Oldest      string // formatted timestamp of the oldest unread message
	AdminURL    string
}

// UnreadDigestEmail generates both plain text and HTML versions of the
// unread contact message digest.
func UnreadDigestEmail(data UnreadDigestEmailData) (textBody, htmlBody string) {
	textBody = "There " + isAre(data.UnreadCount) + " " + itoa(data.UnreadCount) +
		" unread contact " + messageWord(data.UnreadCount) + " waiting in " + data.AppName + ".\n\n"
	if data.Oldest != "" {
		textBody += "The oldest unread message arrived " + data.Oldest + ".\n\n"
	}
	if data.AdminURL != "" {
		textBody += "Review them here:\n\n" + data.AdminURL + "\n"
	}

	var buf bytes.Buffer
	unreadDigestHTMLTmpl.Execute(&buf, data)
	htmlBody = buf.String()

	return textBody, htmlBody
}

func subjectSuffix(subject string) string {
	if subject == "" {
		return ""
	}
	return " (\"" + subject + "\")"
}

func isAre(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}

func messageWord(n int) string {
	if n == 1 {
		return "message"
	}
	return "messages"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}

var contactReplyHTMLTmpl = template.Must(template.New("contact_reply").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Reply to Your Message</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f4f4f5;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f4f4f5;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px 32px; text-align: center; border-bottom: 1px solid #e4e4e7;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #18181b;">{{.AppName}}</h1>
            </td>
          </tr>
          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <h2 style="margin: 0 0 16px 0; font-size: 20px; font-weight: 600; color: #18181b;">Reply to Your Message</h2>
              <p style="margin: 0 0 16px 0; font-size: 15px; line-height: 1.6; color: #52525b;">
                Hello {{.RecipientName}}, thank you for contacting us. Here is our reply:
              </p>
              <div style="margin: 0 0 24px 0; padding: 16px; background-color: #f4f4f5; border-radius: 6px; font-size: 15px; line-height: 1.6; color: #18181b; white-space: pre-wrap;">{{.ReplyMessage}}</div>
              <p style="margin: 0 0 8px 0; font-size: 13px; color: #a1a1aa;">
                Your original message{{if .OriginalSubject}} (&quot;{{.OriginalSubject}}&quot;){{end}}:
              </p>
              <div style="margin: 0; padding: 12px 16px; border-left: 3px solid #e4e4e7; font-size: 14px; line-height: 1.6; color: #71717a; white-space: pre-wrap;">{{.OriginalMessage}}</div>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))

var unreadDigestHTMLTmpl = template.Must(template.New("unread_digest").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Unread Contact Messages</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f4f4f5;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f4f4f5;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px 32px; text-align: center; border-bottom: 1px solid #e4e4e7;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #18181b;">{{.AppName}}</h1>
            </td>
          </tr>
          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <h2 style="margin: 0 0 16px 0; font-size: 20px; font-weight: 600; color: #18181b;">Unread Contact Messages</h2>
              <p style="margin: 0 0 24px 0; font-size: 15px; line-height: 1.6; color: #52525b;">
                You have <strong>{{.UnreadCount}}</strong> unread contact message{{if ne .UnreadCount 1}}s{{end}} waiting.
                {{if .Oldest}}The oldest arrived {{.Oldest}}.{{end}}
              </p>
              {{if .AdminURL}}
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center" style="padding: 8px 0 8px 0;">
                    <a href="{{.AdminURL}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 15px; font-weight: 600; border-radius: 6px;">Review Messages</a>
                  </td>
                </tr>
              </table>
              {{end}}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))
