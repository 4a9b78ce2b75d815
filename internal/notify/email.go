package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/tiendalabs/tienda-api/internal/config"
)

type OrderEmail struct {
	To           string
	OrderID      string
	CustomerName string
	Total        string
	Lines        []LineSummary
}

func (m OrderEmail) subject() string {
	return fmt.Sprintf("Nueva orden %s", m.OrderID)
}

func (m OrderEmail) body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Orden %s de %s por un total de $%s.\n\nDetalle:\n", m.OrderID, m.CustomerName, m.Total)
	for _, ln := range m.Lines {
		fmt.Fprintf(&b, "  - %s x%d @ $%s\n", ln.Name, ln.Quantity, ln.UnitPrice)
	}
	return b.String()
}

// NewMailer returns the SES mailer, or the simulated one when credentials
// are not configured.
func NewMailer(ctx context.Context, cfg config.Config) (Mailer, error) {
	if cfg.AWSAccessKeyID == "" || cfg.EmailSender == "" {
		log.Printf("[notify] email credentials not configured, sends will be simulated")
		return &SimulatedMailer{}, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(awsCfg), sender: cfg.EmailSender}, nil
}

type SESMailer struct {
	client *ses.Client
	sender string
}

func (s *SESMailer) Send(ctx context.Context, m OrderEmail) error {
	if m.To == "" {
		return fmt.Errorf("recipient email address is empty")
	}
	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{m.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(m.subject()),
			},
			Body: &types.Body{
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(m.body()),
				},
			},
		},
	}
	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	log.Printf("[notify] email sent order=%s to=%s", m.OrderID, m.To)
	return nil
}

// SimulatedMailer logs the email instead of sending it.
type SimulatedMailer struct{}

func (s *SimulatedMailer) Send(_ context.Context, m OrderEmail) error {
	log.Printf("[notify] simulated email to=%s subject=%q\n%s", m.To, m.subject(), m.body())
	return nil
}
