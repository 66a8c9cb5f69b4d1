package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Ladle <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("Email sent to %v: %s", to, subject)
		}
	}()
}

func (s *MailService) SendWelcomeEmail(email, code string) {
	body := fmt.Sprintf(`<p>Welcome to Ladle!</p>
<p>Your activation code is <strong>%s</strong>. Enter it after logging in to activate your account.</p>`, code)
	s.sendAsync([]string{email}, "Welcome to Ladle: verify your email", body)
}

func (s *MailService) SendPasswordResetEmail(email, code string) {
	body := fmt.Sprintf(`<p>A password reset was requested for your Ladle account.</p>
<p>Your reset code is <strong>%s</strong>. Ignore this mail if you did not ask for it.</p>`, code)
	s.sendAsync([]string{email}, "[Ladle] Password reset code", body)
}

// SendReplyNotification mails a comment author when someone replies to
// their comment under a recipe.
func (s *MailService) SendReplyNotification(email, actorName, recipeTitle, replyContent, recipeLink string) {
	body := fmt.Sprintf(`<p><strong>%s</strong> replied to your comment on <a href="%s">%s</a>:</p>
<blockquote>%s</blockquote>`, actorName, recipeLink, recipeTitle, replyContent)
	s.sendAsync([]string{email}, fmt.Sprintf("%s replied to your comment on %q", actorName, recipeTitle), body)
}
