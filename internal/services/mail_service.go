package services

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"mime"
	"net/smtp"
	"os"
	"strings"

	"go.uber.org/zap"
)

// MailService sends notification emails over SMTP. It is disabled unless
// every SMTP_* variable is set.
type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool

	templates *template.Template
	log       *zap.Logger
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailService reads SMTP settings from the environment and parses the
// email templates found in templates (*.html at its root).
func NewMailService(templates fs.FS, log *zap.Logger) (*MailService, error) {
	t, err := template.ParseFS(templates, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	s := &MailService{
		Host:      os.Getenv("SMTP_HOST"),
		Port:      os.Getenv("SMTP_PORT"),
		Username:  os.Getenv("SMTP_USER"),
		Password:  os.Getenv("SMTP_PASS"),
		From:      os.Getenv("SMTP_FROM"),
		templates: t,
		log:       log,
		send:      smtp.SendMail,
	}
	s.Enabled = s.Host != "" && s.Port != "" && s.Username != "" && s.Password != "" && s.From != ""
	if !s.Enabled {
		log.Info("mail service disabled: SMTP settings missing")
	}
	return s, nil
}

func (s *MailService) render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render email %s: %w", name, err)
	}
	return buf.String(), nil
}

// headerValue folds line breaks so user text cannot start a new header.
var headerValue = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace

func (s *MailService) message(to []string, subject, body string) []byte {
	contentType := "MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n"
	return []byte(fmt.Sprintf("To: %s\r\n"+
		"From: Blogicum <%s>\r\n"+
		"Subject: %s\r\n"+
		"%s\r\n%s",
		headerValue(strings.Join(to, ",")),
		headerValue(s.From),
		mime.QEncoding.Encode("utf-8", headerValue(subject)),
		contentType, body))
}

func (s *MailService) sendAsync(to []string, subject, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := s.Host + ":" + s.Port
		if err := s.send(addr, auth, s.From, to, s.message(to, subject, body)); err != nil {
			s.log.Error("send email failed", zap.Strings("to", to), zap.Error(err))
			return
		}
		s.log.Info("email sent", zap.Strings("to", to), zap.String("subject", subject))
	}()
}

func (s *MailService) SendWelcomeEmail(email, username string) {
	if email == "" {
		return
	}
	body, err := s.render("welcome.html", map[string]string{"Username": username})
	if err != nil {
		s.log.Error("render welcome email", zap.Error(err))
		return
	}
	s.sendAsync([]string{email}, "Welcome to Blogicum", body)
}

// SendCommentNotification tells a post author about a new comment.
func (s *MailService) SendCommentNotification(email, commenter, postTitle, commentText, postLink string) {
	if email == "" {
		return
	}
	body, err := s.render("comment.html", map[string]string{
		"Commenter": commenter,
		"PostTitle": postTitle,
		"Comment":   commentText,
		"PostLink":  postLink,
	})
	if err != nil {
		s.log.Error("render comment email", zap.Error(err))
		return
	}
	s.sendAsync([]string{email}, commenter+" commented on "+postTitle, body)
}
