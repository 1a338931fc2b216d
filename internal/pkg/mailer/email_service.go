// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendSubscriptionActivated(toEmail, planName string, endDate string) error
	SendSubscriptionRejected(toEmail, planName, reason string) error
	SendExpiryReminder(toEmail, planName string, daysLeft int, endDate string) error
	SendSubscriptionExpired(toEmail, planName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail, frontendURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, toEmail, err)
	}
	return nil
}

func (s *emailService) SendSubscriptionActivated(toEmail, planName string, endDate string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your subscription is active!</h2>
			<p>Your <strong>%s</strong> plan has been activated and is valid until <strong>%s</strong>.</p>
			<p>You now have full access to all plan features.</p>
			<a href="%s/dashboard" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Go to Dashboard</a>
		</div>
	`, planName, endDate, s.frontendURL)

	return s.send(toEmail, "Subscription Activated", body)
}

func (s *emailService) SendSubscriptionRejected(toEmail, planName, reason string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Payment could not be verified</h2>
			<p>Your payment for the <strong>%s</strong> plan was rejected.</p>
			<p>Reason: %s</p>
			<p>You can start a new checkout at any time.</p>
			<a href="%s/pricing" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View Plans</a>
		</div>
	`, planName, reason, s.frontendURL)

	return s.send(toEmail, "Subscription Payment Rejected", body)
}

func (s *emailService) SendExpiryReminder(toEmail, planName string, daysLeft int, endDate string) error {
	dayWord := "days"
	if daysLeft == 1 {
		dayWord = "day"
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your subscription expires soon</h2>
			<p>Your <strong>%s</strong> plan expires in <strong>%d %s</strong> (on %s).</p>
			<p>Renew now to avoid losing access to your plan features.</p>
			<a href="%s/pricing" style="background-color: #FF9800; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Renew Subscription</a>
		</div>
	`, planName, daysLeft, dayWord, endDate, s.frontendURL)

	return s.send(toEmail, fmt.Sprintf("Subscription expires in %d %s", daysLeft, dayWord), body)
}

func (s *emailService) SendSubscriptionExpired(toEmail, planName string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your subscription has expired</h2>
			<p>Your <strong>%s</strong> plan has ended and your account has been moved back to the free tier.</p>
			<p>You can resubscribe at any time to regain access.</p>
			<a href="%s/pricing" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View Plans</a>
		</div>
	`, planName, s.frontendURL)

	return s.send(toEmail, "Subscription Expired", body)
}
