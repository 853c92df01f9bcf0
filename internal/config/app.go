package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds application-level configuration.
type AppConfig struct {
	Redis     RedisConfig
	AppConfig AppConfigSettings
	Dispatch  DispatchConfig
	Store     StoreConfig
	Sinks     SinksConfig
	Webhooks  WebhookConfig
	Secrets   SecretsConfig
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int

	// ElastiCache-specific settings
	ClusterMode    bool
	SentinelAddrs  []string
	MasterName     string
	RouteByLatency bool
	RouteRandomly  bool
}

// AppConfigSettings holds AWS AppConfig settings. An empty RoutingProfile
// selects the built-in routing table.
type AppConfigSettings struct {
	Endpoint       string
	ApplicationID  string
	EnvironmentID  string
	RoutingProfile string
}

// DispatchConfig controls fan-out and outbound calls.
type DispatchConfig struct {
	AwaitDelivery   bool
	DeliveryTimeout time.Duration
	SinkTimeout     time.Duration
	MaxRetries      int
	RetryBaseDelay  time.Duration
}

// StoreConfig holds TTLs for the dedup ledger and the audit trail.
type StoreConfig struct {
	DedupTTL    time.Duration
	AuditTTL    time.Duration
	RecentLimit int64
}

// SinksConfig holds per-sink endpoints and credentials. A sink with missing
// credentials is left out of the fan-out.
type SinksConfig struct {
	Chat      ChatConfig
	WhatsApp  WhatsAppConfig
	Analytics AnalyticsConfig
	Kanban    KanbanConfig
}

// ChatConfig holds the Slack-compatible incoming webhook.
type ChatConfig struct {
	WebhookURL string
}

// WhatsAppConfig holds WhatsApp Business API configuration.
type WhatsAppConfig struct {
	APIEndpoint   string
	PhoneNumberID string
	AccessToken   string
	OwnerNumbers  []string
}

// AnalyticsConfig holds the product analytics capture endpoint.
type AnalyticsConfig struct {
	Endpoint string
	APIKey   string
}

// KanbanConfig holds the board API used to open a card per contact.
type KanbanConfig struct {
	Endpoint string
	Key      string
	Token    string
	ListID   string
}

// WebhookConfig holds shared secrets expected from upstream webhooks.
type WebhookConfig struct {
	GoogleKey string
}

// SecretsConfig names the Secrets Manager secret with sink credentials.
type SecretsConfig struct {
	SinkSecretName string
}

// LoadFromEnv loads configuration from environment variables with sensible defaults.
func LoadFromEnv() (*AppConfig, error) {
	redisAddr := getEnvOrDefault("REDIS_ADDR", "localhost:6379")

	// Check for ElastiCache configuration
	if elasticacheEndpoint := os.Getenv("ELASTICACHE_ENDPOINT"); elasticacheEndpoint != "" {
		redisAddr = elasticacheEndpoint
	}

	redisCfg := RedisConfig{
		Enabled:      os.Getenv("REDIS_DISABLED") != "true",
		Addr:         redisAddr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           getIntOrDefault("REDIS_DB", 0),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}

	if os.Getenv("ELASTICACHE_CLUSTER_MODE") == "true" {
		redisCfg.ClusterMode = true
	}

	if sentinelAddrs := os.Getenv("ELASTICACHE_SENTINEL_ADDRS"); sentinelAddrs != "" {
		redisCfg.SentinelAddrs = splitList(sentinelAddrs)
		redisCfg.MasterName = os.Getenv("ELASTICACHE_MASTER_NAME")
	}

	cfg := &AppConfig{
		Redis: redisCfg,
		AppConfig: AppConfigSettings{
			Endpoint:       getEnvOrDefault("APPCONFIG_ENDPOINT", "http://localhost:2772"),
			ApplicationID:  os.Getenv("APPCONFIG_APP_ID"),
			EnvironmentID:  os.Getenv("APPCONFIG_ENV_ID"),
			RoutingProfile: os.Getenv("APPCONFIG_ROUTING_PROFILE"),
		},
		Dispatch: DispatchConfig{
			// Lambda may freeze the process once the response is returned.
			AwaitDelivery:   os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" || os.Getenv("DISPATCH_AWAIT") == "true",
			DeliveryTimeout: getDurationOrDefault("DISPATCH_DELIVERY_TIMEOUT", 20*time.Second),
			SinkTimeout:     getDurationOrDefault("DISPATCH_SINK_TIMEOUT", 10*time.Second),
			MaxRetries:      getIntOrDefault("DISPATCH_MAX_RETRIES", 3),
			RetryBaseDelay:  getDurationOrDefault("DISPATCH_RETRY_BASE_DELAY", 200*time.Millisecond),
		},
		Store: StoreConfig{
			DedupTTL:    getDurationOrDefault("DEDUP_TTL", 72*time.Hour),
			AuditTTL:    getDurationOrDefault("AUDIT_TTL", 30*24*time.Hour),
			RecentLimit: int64(getIntOrDefault("AUDIT_RECENT_LIMIT", 200)),
		},
		Sinks: SinksConfig{
			Chat: ChatConfig{
				WebhookURL: os.Getenv("CHAT_WEBHOOK_URL"),
			},
			WhatsApp: WhatsAppConfig{
				APIEndpoint:   getEnvOrDefault("WHATSAPP_API_ENDPOINT", "https://graph.facebook.com/v18.0"),
				PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
				AccessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
				OwnerNumbers:  splitList(os.Getenv("WHATSAPP_OWNER_NUMBERS")),
			},
			Analytics: AnalyticsConfig{
				Endpoint: getEnvOrDefault("ANALYTICS_ENDPOINT", "https://us.i.posthog.com"),
				APIKey:   os.Getenv("ANALYTICS_API_KEY"),
			},
			Kanban: KanbanConfig{
				Endpoint: getEnvOrDefault("KANBAN_ENDPOINT", "https://api.trello.com"),
				Key:      os.Getenv("KANBAN_KEY"),
				Token:    os.Getenv("KANBAN_TOKEN"),
				ListID:   os.Getenv("KANBAN_LIST_ID"),
			},
		},
		Webhooks: WebhookConfig{
			GoogleKey: os.Getenv("GOOGLE_ADS_WEBHOOK_KEY"),
		},
		Secrets: SecretsConfig{
			SinkSecretName: os.Getenv("SINK_SECRET_NAME"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Configured reports whether each sink has the credentials it needs.
func (s SinksConfig) Configured() map[string]bool {
	return map[string]bool{
		SinkChat:      s.Chat.WebhookURL != "",
		SinkWhatsApp:  s.WhatsApp.PhoneNumberID != "" && s.WhatsApp.AccessToken != "" && len(s.WhatsApp.OwnerNumbers) > 0,
		SinkAnalytics: s.Analytics.APIKey != "",
		SinkKanban:    s.Kanban.Key != "" && s.Kanban.Token != "" && s.Kanban.ListID != "",
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
