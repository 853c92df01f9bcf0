package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Sink names accepted in the routing table.
const (
	SinkChat      = "chat"
	SinkWhatsApp  = "whatsapp"
	SinkAnalytics = "analytics"
	SinkKanban    = "kanban"
	SinkAudit     = "audit"
)

var knownSinks = map[string]bool{
	SinkChat:      true,
	SinkWhatsApp:  true,
	SinkAnalytics: true,
	SinkKanban:    true,
	SinkAudit:     true,
}

// IsKnownSink reports whether name is a sink this service can build.
func IsKnownSink(name string) bool {
	return knownSinks[name]
}

// Routing maps a topic to the sinks subscribed to it.
type Routing struct {
	Routes map[string][]string `yaml:"routes"`
}

const defaultRoutingYAML = `
routes:
  contact.call:     [audit, chat, whatsapp, analytics, kanban]
  contact.website:  [audit, chat, whatsapp, analytics, kanban]
  contact.jobber:   [audit, chat, analytics]
  contact.adlead:   [audit, chat, whatsapp, analytics, kanban]
  feedback.website: [chat]
`

// DefaultRouting returns the routing used when no AppConfig profile is set.
func DefaultRouting() *Routing {
	r, err := ParseRouting([]byte(defaultRoutingYAML))
	if err != nil {
		panic(fmt.Sprintf("built-in routing is invalid: %v", err))
	}
	return r
}

// ParseRouting decodes and validates a routing document.
func ParseRouting(data []byte) (*Routing, error) {
	var r Routing
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse routing: %w", err)
	}
	if err := ValidateRouting(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SinksFor returns the sinks routed for topic.
func (r *Routing) SinksFor(topic string) []string {
	return r.Routes[topic]
}

// Topics returns the routed topics in sorted order.
func (r *Routing) Topics() []string {
	topics := make([]string, 0, len(r.Routes))
	for t := range r.Routes {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}
