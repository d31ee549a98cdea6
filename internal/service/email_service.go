package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends transactional mail via Amazon SES. With no from
// address configured it degrades to a disabled no-op so local development
// needs no AWS credentials.
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a new cloud account.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to BandPrep"
	htmlBody := `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #0d9488;">Selamat datang di BandPrep!</h2>
		<p>Your account is set up and your practice history now syncs across devices.</p>
		<p>Start with a placement quiz or jump straight into a Writing Task 2 essay.
		Every submission gets examiner-style feedback with band scores.</p>
		<p>Semangat belajar!</p>
		<p style="font-size: 12px; color: #666;">The BandPrep team</p>
	</div>
</body>
</html>`
	textBody := "Selamat datang di BandPrep! Your account is set up and your practice history now syncs across devices. Semangat belajar!"

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendProgressDigest mails a weekly summary of practice activity.
func (s *EmailService) SendProgressDigest(ctx context.Context, toEmail string, dashboard *Dashboard) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): digest to %s", toEmail)
		return nil
	}

	subject := "Your BandPrep progress this week"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #0d9488;">Weekly progress</h2>
		<p>Practice sessions so far: <strong>%d</strong></p>
		<p>Average band: <strong>%.1f</strong> (target %.1f)</p>
		<p>Gap to target: <strong>%.1f</strong></p>
		<p>Keep the streak going. Short daily sessions beat weekend cramming.</p>
		<p style="font-size: 12px; color: #666;">The BandPrep team</p>
	</div>
</body>
</html>`,
		dashboard.TotalSessions,
		dashboard.OverallAverage,
		dashboard.TargetBand,
		dashboard.BandGap,
	)
	textBody := fmt.Sprintf(
		"Weekly progress: %d sessions, average band %.1f, target %.1f, gap %.1f.",
		dashboard.TotalSessions, dashboard.OverallAverage, dashboard.TargetBand, dashboard.BandGap,
	)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
