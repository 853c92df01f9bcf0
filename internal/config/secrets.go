package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SinkSecret is the JSON document stored in AWS Secrets Manager. Empty
// fields leave the environment value in place.
type SinkSecret struct {
	ChatWebhookURL      string `json:"chat_webhook_url"`
	WhatsAppAccessToken string `json:"whatsapp_access_token"`
	AnalyticsAPIKey     string `json:"analytics_api_key"`
	KanbanKey           string `json:"kanban_key"`
	KanbanToken         string `json:"kanban_token"`
	GoogleKey           string `json:"google_key"`
	RedisPassword       string `json:"redis_password"`
}

// SecretGetter is the subset of the Secrets Manager API used here.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerClient wraps AWS Secrets Manager operations.
type SecretsManagerClient struct {
	client SecretGetter
}

// NewSecretsManagerClient creates a new Secrets Manager client.
// It loads AWS credentials from the Lambda execution role.
func NewSecretsManagerClient(ctx context.Context) (*SecretsManagerClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SecretsManagerClient{
		client: secretsmanager.NewFromConfig(cfg),
	}, nil
}

// NewSecretsManagerClientWith wraps an existing API client.
func NewSecretsManagerClientWith(client SecretGetter) *SecretsManagerClient {
	return &SecretsManagerClient{client: client}
}

// GetSinkSecret fetches and parses sink credentials from Secrets Manager.
func (c *SecretsManagerClient) GetSinkSecret(ctx context.Context, secretName string) (*SinkSecret, error) {
	if secretName == "" {
		return nil, fmt.Errorf("secret name is empty")
	}

	output, err := c.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch secret %q from secrets manager: %w", secretName, err)
	}

	if output.SecretString == nil {
		return nil, fmt.Errorf("secret %q has no string value (binary secrets not supported)", secretName)
	}

	var secret SinkSecret
	if err := json.Unmarshal([]byte(*output.SecretString), &secret); err != nil {
		return nil, fmt.Errorf("parse secret %q as JSON: %w", secretName, err)
	}

	return &secret, nil
}

// ApplySecret overlays the non-empty secret values onto the configuration.
func (c *AppConfig) ApplySecret(s *SinkSecret) {
	if s == nil {
		return
	}
	overlay(&c.Sinks.Chat.WebhookURL, s.ChatWebhookURL)
	overlay(&c.Sinks.WhatsApp.AccessToken, s.WhatsAppAccessToken)
	overlay(&c.Sinks.Analytics.APIKey, s.AnalyticsAPIKey)
	overlay(&c.Sinks.Kanban.Key, s.KanbanKey)
	overlay(&c.Sinks.Kanban.Token, s.KanbanToken)
	overlay(&c.Webhooks.GoogleKey, s.GoogleKey)
	overlay(&c.Redis.Password, s.RedisPassword)
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
