package mail

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

func SendVerificationEmail(to, verificationURL string) error {
	subject := "Verify Your Email"
	plainTextContent := fmt.Sprintf("Click the link to verify your email: %s", verificationURL)
	htmlContent := fmt.Sprintf(`
        <html>
        <body>
            <h2>Email Verification</h2>
            <p>Thanks for joining the pool! Please verify your email by clicking the link below:</p>
            <p><a href="%s">Verify Email</a></p>
            <p>If you didn't sign up for the survivor pool, you can safely ignore this email.</p>
        </body>
        </html>
    `, verificationURL)

	return send(to, subject, plainTextContent, htmlContent)
}

func SendLoginLinkEmail(to, loginURL string) error {
	subject := "Your Survivor Pool Login Link"
	plainTextContent := fmt.Sprintf("Click the link to log in: %s (valid for 15 minutes)", loginURL)
	htmlContent := fmt.Sprintf(`
        <html>
        <body>
            <h2>Login Link</h2>
            <p>Click the link below to log in to the survivor pool. The link works once and expires in 15 minutes.</p>
            <p><a href="%s">Log In</a></p>
            <p>If you didn't request this link, you can safely ignore this email.</p>
        </body>
        </html>
    `, loginURL)

	return send(to, subject, plainTextContent, htmlContent)
}

func send(to, subject, plainTextContent, htmlContent string) error {
	fromEmail := os.Getenv("EMAIL_FROM")
	apiKey := os.Getenv("SENDGRID_API_KEY")

	from := mail.NewEmail("Survivor Pool", fromEmail)
	toEmail := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, toEmail, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: %d - %s", response.StatusCode, response.Body)
	}

	return nil
}
