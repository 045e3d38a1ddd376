package utils

import (
	"fmt"
	"learnhub/config"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LearnHub <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML Wrapper for a consistent look across notification emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B3A4B; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3A4B; line-height: 1.6; }
			.content h2 { color: #1B3A4B; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #3E8E7E; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LearnHub. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendEnrollmentActivatedEmail tells a student their program access is open.
func SendEnrollmentActivatedEmail(email, name, programName string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your enrollment in <b>%s</b> is now active. All program content is unlocked for you.</p>
		<p>Happy learning!</p>
	`, name, programName)
	SendEmail([]string{email}, "Your enrollment is active", getEmailTemplate("Enrollment Activated", body))
}

// SendCertificateIssuedEmail delivers the certificate link.
func SendCertificateIssuedEmail(email, name, programName, url string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations on completing <b>%s</b>!</p>
		<p>Your certificate is ready:</p>
		<a class="btn" href="%s">View Certificate</a>
	`, name, programName, url)
	SendEmail([]string{email}, "Your certificate is ready", getEmailTemplate("Program Completed", body))
}

// SendPostPublishedEmail tells an author their post went live.
func SendPostPublishedEmail(email, name, title string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your post <b>%s</b> passed moderation and is now published.</p>
	`, name, title)
	SendEmail([]string{email}, "Your post is published", getEmailTemplate("Post Published", body))
}
