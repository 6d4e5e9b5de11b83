package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"babysteps-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Action token purposes and lifetimes. The reset window is one hour, per
// the auth provider's contract; verification links live a day.
const (
	purposeVerifyEmail   = "verify_email"
	purposeResetPassword = "reset_password"

	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = time.Hour
)

type emailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// MailerService sends the two transactional templates (email verification,
// password reset), each carrying a signed, expiring action token.
type MailerService struct {
	sender emailSender
	secret string
	appURL string
}

// NewMailerService creates a new mailer service
func NewMailerService(sender emailSender, secret, appURL string) *MailerService {
	return &MailerService{
		sender: sender,
		secret: secret,
		appURL: appURL,
	}
}

func (s *MailerService) actionToken(userID, purpose string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"purpose": purpose,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign action token: %w", err)
	}
	return signed, nil
}

// ValidateActionToken checks a signed action token and returns the user id
// it was issued for.
func (s *MailerService) ValidateActionToken(tokenString, purpose string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse action token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid action token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	if p, _ := claims["purpose"].(string); p != purpose {
		return "", fmt.Errorf("token purpose mismatch")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}
	return userID, nil
}

func (s *MailerService) actionURL(path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", s.appURL, path, url.QueryEscape(token))
}

// SendVerification sends the email-verification template to a user.
func (s *MailerService) SendVerification(ctx context.Context, user *models.User) error {
	token, err := s.actionToken(user.ID, purposeVerifyEmail, verifyTokenTTL)
	if err != nil {
		return err
	}

	link := s.actionURL("/auth/verify-email", token)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Welcome to Baby Steps! Please confirm your email address:</p><p><a href="%s">Verify my email</a></p><p>This link expires in 24 hours.</p>`,
		user.Name, link,
	)
	return s.sender.Send(ctx, user.Email, "Verify your Baby Steps email", html)
}

// SendPasswordReset sends the password-reset template to a user.
func (s *MailerService) SendPasswordReset(ctx context.Context, user *models.User) error {
	token, err := s.actionToken(user.ID, purposeResetPassword, resetTokenTTL)
	if err != nil {
		return err
	}

	link := s.actionURL("/auth/reset-password", token)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>We received a request to reset your password:</p><p><a href="%s">Reset my password</a></p><p>This link expires in 1 hour. If you didn't ask for this, you can ignore it.</p>`,
		user.Name, link,
	)
	return s.sender.Send(ctx, user.Email, "Reset your Baby Steps password", html)
}
