package config

import (
	"errors"
	"fmt"

	"contact-relay/internal/domain"
)

// Validate validates the application configuration.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.Redis.Enabled {
		if c.Redis.Addr == "" && len(c.Redis.SentinelAddrs) == 0 {
			errs = append(errs, errors.New("redis address is required"))
		}
		if c.Redis.DialTimeout <= 0 {
			errs = append(errs, errors.New("redis dial timeout must be positive"))
		}
		if len(c.Redis.SentinelAddrs) > 0 && c.Redis.MasterName == "" {
			errs = append(errs, errors.New("redis sentinel master name is required"))
		}
	}

	if c.Dispatch.DeliveryTimeout <= 0 {
		errs = append(errs, errors.New("dispatch delivery timeout must be positive"))
	}

	if c.Dispatch.SinkTimeout <= 0 {
		errs = append(errs, errors.New("dispatch sink timeout must be positive"))
	}

	if c.Dispatch.MaxRetries < 0 {
		errs = append(errs, errors.New("dispatch max retries must not be negative"))
	}

	if c.Dispatch.RetryBaseDelay <= 0 {
		errs = append(errs, errors.New("dispatch retry base delay must be positive"))
	}

	if c.Store.DedupTTL <= 0 {
		errs = append(errs, errors.New("store dedup TTL must be positive"))
	}

	if c.Store.AuditTTL <= 0 {
		errs = append(errs, errors.New("store audit TTL must be positive"))
	}

	if c.Store.RecentLimit <= 0 {
		errs = append(errs, errors.New("store recent limit must be positive"))
	}

	for i, number := range c.Sinks.WhatsApp.OwnerNumbers {
		if _, ok := domain.NormalizePhone(number); !ok {
			errs = append(errs, fmt.Errorf("whatsapp owner_numbers[%d] %q is not a 10-digit number", i, number))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %w", errors.Join(errs...))
	}

	return nil
}

// ValidateRouting checks that every route names a topic and only known sinks.
func ValidateRouting(r *Routing) error {
	var errs []error

	if len(r.Routes) == 0 {
		errs = append(errs, errors.New("routes must not be empty"))
	}

	for topic, sinks := range r.Routes {
		if topic == "" {
			errs = append(errs, errors.New("routes: topic name is required"))
			continue
		}
		seen := make(map[string]bool, len(sinks))
		for i, sink := range sinks {
			if !IsKnownSink(sink) {
				errs = append(errs, fmt.Errorf("routes.%s[%d]: unknown sink %q", topic, i, sink))
			}
			if seen[sink] {
				errs = append(errs, fmt.Errorf("routes.%s[%d]: sink %q listed twice", topic, i, sink))
			}
			seen[sink] = true
		}
	}

	if len(errs) > 0 {
		return &domain.ConfigError{ConfigName: "routing", Err: errors.Join(errs...)}
	}

	return nil
}
