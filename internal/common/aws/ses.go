// internal/common/aws/ses.go
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Email is a plain text and HTML message for one or more recipients.
type Email struct {
	From     string
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

type SESClient struct {
	client sesAPI
}

func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

// Send delivers email and returns the SES message id.
func (s *SESClient) Send(ctx context.Context, email Email) (string, error) {
	if len(email.To) == 0 {
		return "", fmt.Errorf("ses: no recipients")
	}

	body := &types.Body{}
	if email.TextBody != "" {
		body.Text = &types.Content{Data: awssdk.String(email.TextBody), Charset: awssdk.String("UTF-8")}
	}
	if email.HTMLBody != "" {
		body.Html = &types.Content{Data: awssdk.String(email.HTMLBody), Charset: awssdk.String("UTF-8")}
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      awssdk.String(email.From),
		Destination: &types.Destination{ToAddresses: email.To},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(email.Subject), Charset: awssdk.String("UTF-8")},
			Body:    body,
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	return awssdk.ToString(out.MessageId), nil
}
