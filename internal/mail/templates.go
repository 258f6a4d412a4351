package mail

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

func nl2br(s string) htmltemplate.HTML {
	escaped := htmltemplate.HTMLEscapeString(s)
	return htmltemplate.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

const htmlLayoutHead = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background: #000; color: #fff; padding: 20px; border-radius: 10px;">
  <div style="background: linear-gradient(135deg, #8b5cf6, #ec4899); padding: 20px; border-radius: 10px; margin-bottom: 20px;">
    <h2 style="margin: 0; text-align: center;">{{.Title}}</h2>
  </div>
  <div style="background: #1a1a1a; padding: 20px; border-radius: 10px; border: 1px solid #333;">`

const htmlDiscordButton = `<div style="text-align: center; margin: 30px 0;">
      <a href="{{.DiscordInvite}}" style="background: #5865F2; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block;">Join our Discord for instant support</a>
    </div>`

var (
	supportRequestHTML = htmltemplate.Must(htmltemplate.New("support_request").Funcs(htmltemplate.FuncMap{"nl2br": nl2br}).Parse(htmlLayoutHead + `
    <h3 style="color: #8b5cf6; margin-top: 0;">Customer Information</h3>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
    <h3 style="color: #ec4899; margin-top: 30px;">Message</h3>
    <div style="background: #000; padding: 15px; border-radius: 5px; border-left: 3px solid #8b5cf6;">{{nl2br .Message}}</div>
  </div>
  <div style="text-align: center; margin-top: 20px; color: #666;">
    <p>This email was sent from the {{.SiteName}} support form.</p>
    <p>Please respond to {{.Email}} to help this customer.</p>
  </div>
</div>`))

	supportRequestText = texttemplate.Must(texttemplate.New("support_request").Parse(`Support Request from {{.SiteName}}

Customer: {{.Name}} ({{.Email}})
Subject: {{.Subject}}

Message:
{{.Message}}

Please respond to {{.Email}} to help this customer.
`))

	confirmationHTML = htmltemplate.Must(htmltemplate.New("confirmation").Parse(htmlLayoutHead + `
    <p>Hello {{.Name}},</p>
    <p>Thank you for reaching out to our support team! We've received your message and will get back to you as soon as possible.</p>
    <div style="background: #000; padding: 15px; border-radius: 5px; border-left: 3px solid #10b981; margin: 20px 0;">
      <p style="margin: 0;"><strong>Your request has been submitted successfully</strong></p>
    </div>
    <p><strong>What happens next?</strong></p>
    <ul style="color: #ccc;">
      <li>Our support team will review your message within 24 hours</li>
      <li>You'll receive a detailed response at this email address</li>
      <li>For urgent issues, you can also reach us on Discord</li>
    </ul>
    ` + htmlDiscordButton + `
  </div>
  <div style="text-align: center; margin-top: 20px; color: #666;">
    <p>{{.SiteName}} - Gaming Enhanced</p>
    <p>This is an automated confirmation. Please do not reply to this email.</p>
  </div>
</div>`))

	confirmationText = texttemplate.Must(texttemplate.New("confirmation").Parse(`Hello {{.Name}},

Thank you for reaching out to {{.SiteName}} support! We've received your message and will get back to you as soon as possible.

Your request has been submitted successfully

What happens next:
- Our support team will review your message within 24 hours
- You'll receive a detailed response at this email address
- For urgent issues, you can also reach us on Discord: {{.DiscordInvite}}

{{.SiteName}} - Gaming Enhanced
This is an automated confirmation. Please do not reply to this email.
`))

	replyHTML = htmltemplate.Must(htmltemplate.New("reply").Funcs(htmltemplate.FuncMap{"nl2br": nl2br}).Parse(htmlLayoutHead + `
    <p>Hello {{.Name}},</p>
    <p>Thank you for contacting {{.SiteName}} support. Here's our response to your inquiry:</p>
    <div style="background: #000; padding: 15px; border-radius: 5px; border-left: 3px solid #8b5cf6; margin: 20px 0;">{{nl2br .Message}}</div>
    <p>If you have any further questions, please reply to this email and we'll be happy to help!</p>
    ` + htmlDiscordButton + `
  </div>
  <div style="text-align: center; margin-top: 20px; color: #666;">
    <p>{{.SiteName}} - Gaming Enhanced</p>
    <p>This message was sent from our support team.</p>
  </div>
</div>`))

	replyText = texttemplate.Must(texttemplate.New("reply").Parse(`Hello {{.Name}},

Thank you for contacting {{.SiteName}} support. Here's our response to your inquiry:

{{.Message}}

If you have any further questions, please reply to this email and we'll be happy to help!

Join our Discord for instant support: {{.DiscordInvite}}

{{.SiteName}} - Gaming Enhanced
This message was sent from our support team.
`))
)
