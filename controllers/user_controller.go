package controllers

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"survivor-backend/database"
	"survivor-backend/mail"
	"survivor-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const loginLinkTTL = 15 * time.Minute

func generateVerificationToken() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func issueJWT(userID int, username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 72).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func Register(c *fiber.Ctx) error {
	var data struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Venmo    string `json:"venmo"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	data.Username = strings.TrimSpace(data.Username)
	data.Email = strings.TrimSpace(data.Email)
	if data.Username == "" || data.Email == "" || data.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username, email, and password are required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), 14)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to hash password"})
	}

	token, err := generateVerificationToken()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate verification token"})
	}

	_, err = database.DB.Exec(`
        INSERT INTO users (username, email, venmo, password_hash, verified, verification_token)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, data.Username, data.Email, data.Venmo, string(hash), false, token)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username or email already taken"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signup data"})
	}

	verificationURL := fmt.Sprintf("%s/verify-email?token=%s&email=%s",
		os.Getenv("FRONTEND_URL"),
		url.QueryEscape(token),
		url.QueryEscape(data.Email))

	err = mail.SendVerificationEmail(data.Email, verificationURL)
	if err != nil {
		// Log error but don't return it to user
		fmt.Printf("Failed to send verification email: %v\n", err)
	}

	return c.JSON(fiber.Map{
		"message":              "Signed up. Please check your email to verify your account.",
		"requiresVerification": true,
	})
}

func VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	email := c.Query("email")

	if token == "" || email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid verification link"})
	}

	result, err := database.DB.Exec(`
        UPDATE users
        SET verified = true, verification_token = NULL
        WHERE email = $1 AND verification_token = $2 AND verified = false
    `, email, token)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Verification failed"})
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid or expired verification link"})
	}

	return c.JSON(fiber.Map{"message": "Email verified successfully. You can now log in."})
}

func ResendVerification(c *fiber.Ctx) error {
	var data struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	var verified bool
	var token sql.NullString

	err := database.DB.QueryRow(`
        SELECT verified, verification_token FROM users WHERE email = $1
    `, data.Email).Scan(&verified, &token)

	if err != nil {
		// Don't reveal if email exists
		return c.JSON(fiber.Map{"message": "If your email exists in our system, a verification link has been sent"})
	}

	if verified {
		return c.JSON(fiber.Map{"message": "Your email is already verified"})
	}

	if !token.Valid || token.String == "" {
		fresh, err := generateVerificationToken()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate verification token"})
		}
		token = sql.NullString{String: fresh, Valid: true}

		_, err = database.DB.Exec(`
            UPDATE users SET verification_token = $1 WHERE email = $2
        `, token.String, data.Email)

		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update verification token"})
		}
	}

	verificationURL := fmt.Sprintf("%s/verify-email?token=%s&email=%s",
		os.Getenv("FRONTEND_URL"),
		url.QueryEscape(token.String),
		url.QueryEscape(data.Email))

	err = mail.SendVerificationEmail(data.Email, verificationURL)
	if err != nil {
		fmt.Printf("Failed to send verification email: %v\n", err)
	}

	return c.JSON(fiber.Map{"message": "Verification email has been sent"})
}

func Login(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	var user models.User
	var verified bool
	err := database.DB.QueryRow(`
        SELECT id, username, email, COALESCE(password_hash, ''), verified FROM users WHERE email = $1
    `, data.Email).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &verified)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if user.PasswordHash == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "This account uses email login links"})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(data.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Incorrect password"})
	}

	if !verified {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":                "Email not verified",
			"requiresVerification": true,
		})
	}

	tokenString, err := issueJWT(user.ID, user.Username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": tokenString})
}

// RequestLoginLink starts the passwordless flow: a single-use token emailed
// to a verified member. The response never reveals whether the email exists.
func RequestLoginLink(c *fiber.Ctx) error {
	var data struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	sent := fiber.Map{"message": "If your email exists in our system, a login link has been sent"}

	var userID int
	var verified bool
	err := database.DB.QueryRow(`
        SELECT id, verified FROM users WHERE email = $1
    `, data.Email).Scan(&userID, &verified)
	if err != nil || !verified {
		return c.JSON(sent)
	}

	token := uuid.NewString()
	_, err = database.DB.Exec(`
        INSERT INTO login_tokens (token, user_id, expires_at)
        VALUES ($1, $2, $3)
    `, token, userID, time.Now().Add(loginLinkTTL))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create login link"})
	}

	loginURL := fmt.Sprintf("%s/login-link?token=%s",
		os.Getenv("FRONTEND_URL"), url.QueryEscape(token))

	if err := mail.SendLoginLinkEmail(data.Email, loginURL); err != nil {
		fmt.Printf("Failed to send login link email: %v\n", err)
	}

	return c.JSON(sent)
}

// RedeemLoginLink exchanges an unexpired, unused token for a JWT.
func RedeemLoginLink(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing token"})
	}

	var userID int
	err := database.DB.QueryRow(`
        UPDATE login_tokens
        SET used_at = NOW()
        WHERE token = $1 AND used_at IS NULL AND expires_at > NOW()
        RETURNING user_id
    `, token).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired login link"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to redeem login link"})
	}

	var username string
	if err := database.DB.QueryRow(`SELECT username FROM users WHERE id = $1`, userID).Scan(&username); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	tokenString, err := issueJWT(userID, username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": tokenString})
}

func GetMe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	var userData models.User
	var venmo sql.NullString
	err := database.DB.QueryRow(`
		SELECT id, username, email, venmo, is_admin FROM users WHERE id = $1
	`, userID).Scan(&userData.ID, &userData.Username, &userData.Email, &venmo, &userData.IsAdmin)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	userData.Venmo = venmo.String

	return c.JSON(userData)
}

// ListUsers backs the login dropdown: usernames only, sorted.
func ListUsers(c *fiber.Ctx) error {
	rows, err := database.DB.Query(`SELECT username FROM users ORDER BY LOWER(username)`)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list users"})
	}
	defer rows.Close()

	usernames := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse users"})
		}
		usernames = append(usernames, u)
	}

	return c.JSON(usernames)
}
