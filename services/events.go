package services

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog-service/models"
	aws_pkg "catalog-service/pkg/aws"
)

// EventPublisher delivers catalog change notifications.
type EventPublisher interface {
	Publish(ctx context.Context, event models.ProductEvent) error
}

// SNSEventPublisher publishes product events as JSON to an SNS topic.
type SNSEventPublisher struct {
	client   aws_pkg.SNSPublisher
	topicArn string
}

func NewSNSEventPublisher(client aws_pkg.SNSPublisher, topicArn string) *SNSEventPublisher {
	return &SNSEventPublisher{client: client, topicArn: topicArn}
}

func (p *SNSEventPublisher) Publish(ctx context.Context, event models.ProductEvent) error {
	if p.client == nil || p.topicArn == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.EventType, err)
	}
	return p.client.Publish(ctx, p.topicArn, payload)
}
