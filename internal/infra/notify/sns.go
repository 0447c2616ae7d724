package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

// SNSAPI is the subset of the SNS client the publisher needs.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
}

// SNSPublisher sends alert notifications through a single SNS topic and, for
// SMS, directly to a phone number.
type SNSPublisher struct {
	client   SNSAPI
	topicARN string
	logger   *zap.Logger
}

func NewSNSPublisher(client SNSAPI, topicARN string, logger *zap.Logger) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN, logger: logger}
}

// Subscribe registers an email endpoint on the alert topic. SNS treats a
// repeated subscription of the same endpoint as a no-op, so this is safe to
// call before every publish.
func (p *SNSPublisher) Subscribe(ctx context.Context, email string) error {
	output, err := p.client.Subscribe(ctx, &sns.SubscribeInput{
		Protocol:              aws.String("email"),
		Endpoint:              aws.String(email),
		TopicArn:              aws.String(p.topicARN),
		ReturnSubscriptionArn: true,
	})
	if err != nil {
		return fmt.Errorf("subscribe %s to alert topic: %w", email, err)
	}
	p.logger.Debug("email subscribed to alert topic",
		zap.String("email", email),
		zap.String("subscription_arn", aws.ToString(output.SubscriptionArn)),
	)
	return nil
}

func (p *SNSPublisher) Publish(ctx context.Context, subject, message string) error {
	output, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("publish alert to topic: %w", err)
	}
	p.logger.Info("alert published to topic", zap.String("message_id", aws.ToString(output.MessageId)))
	return nil
}

func (p *SNSPublisher) PublishSMS(ctx context.Context, phoneNumber, message string) error {
	output, err := p.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("publish alert sms: %w", err)
	}
	p.logger.Info("alert sms published", zap.String("message_id", aws.ToString(output.MessageId)))
	return nil
}
