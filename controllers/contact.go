package controllers

import (
	"net/http"
	"os"
	"strings"

	"survivor-backend/database"

	"github.com/gofiber/fiber/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type ContactForm struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ContactHandler relays a member's message to the pool organizer.
func ContactHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	var email string
	if err := database.DB.QueryRow(`SELECT email FROM users WHERE id = $1`, userID).Scan(&email); err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": "User email not found",
		})
	}

	form := new(ContactForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if len(strings.TrimSpace(form.Message)) < 15 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is too short",
		})
	}

	sender := mail.NewEmail("Survivor Pool Contact", os.Getenv("EMAIL_FROM"))
	recipient := mail.NewEmail("", os.Getenv("ORGANIZER_EMAIL"))
	subject := "[Survivor Pool] New Contact Message"

	plainText := "From: " + form.Name + "\nEmail: " + email + "\n\n" + form.Message
	htmlText := "<strong>From:</strong> " + form.Name + "<br><strong>Email:</strong> " + email + "<br><br>" + form.Message

	message := mail.NewSingleEmail(sender, subject, recipient, plainText, htmlText)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))

	_, err := client.Send(message)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send message",
		})
	}

	return c.SendStatus(http.StatusOK)
}
