package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

func sendEmail(toEmail, toName, subject, htmlBody string) error {
	from := mail.NewEmail("LMS Platform", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("Failed to send email to %s, response code: %d", toEmail, response.StatusCode)
		return fmt.Errorf("failed to send email, code: %d", response.StatusCode)
	}
	return nil
}

func emailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #212121; line-height: 1.6; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #1A237E; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">This is an automated message. Please do not reply.</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendWelcomeEmail greets a freshly signed-up user
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`<h2>Welcome, %s!</h2>
		<p>Your account has been created. Browse the catalog and enroll in your first course to get started.</p>`, name)
	if err := sendEmail(email, name, "Welcome to LMS Platform", emailTemplate("Welcome", body)); err != nil {
		log.Printf("Welcome email to %s failed: %v", email, err)
	}
}

// SendOTPEmail delivers the one-time password
func SendOTPEmail(email, name, otp string) error {
	body := fmt.Sprintf(`<h2>Hello, %s</h2>
		<p>Your one-time password is:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>It expires in 5 minutes.</p>`, name, otp)
	return sendEmail(email, name, "Your OTP Code", emailTemplate("OTP Verification", body))
}

// SendEnrollmentEmail confirms a course enrollment
func SendEnrollmentEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`<h2>Hello, %s</h2>
		<p>You are now enrolled in <strong>%s</strong>. Your progress starts at 0%% and grows as you complete materials.</p>`, name, courseTitle)
	if err := sendEmail(email, name, "Enrollment Confirmed", emailTemplate("Enrollment Confirmed", body)); err != nil {
		log.Printf("Enrollment email to %s failed: %v", email, err)
	}
}

// SendCertificateEmail notifies the student of an approved certificate
func SendCertificateEmail(email, name, courseTitle, certificateNumber string) {
	body := fmt.Sprintf(`<h2>Congratulations, %s!</h2>
		<p>Your certificate for <strong>%s</strong> has been approved.</p>
		<div class="info-box">Certificate number: <strong>%s</strong></div>`, name, courseTitle, certificateNumber)
	if err := sendEmail(email, name, "Certificate Approved", emailTemplate("Certificate Approved", body)); err != nil {
		log.Printf("Certificate email to %s failed: %v", email, err)
	}
}
