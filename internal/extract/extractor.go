package extract

import (
	"errors"
	"fmt"

	"contact-relay/internal/domain"
)

// errInvalidJSON marks structured payloads that are not JSON at all.
var errInvalidJSON = errors.New("invalid JSON")

// Extractor turns one upstream payload format into a field map.
type Extractor interface {
	Source() domain.Source
	ContactType() string
	// SourceLabel is the channel label stored on the contact.
	SourceLabel() string
	Extract(raw domain.RawMessage) (domain.FieldMap, error)
}

// Registry resolves the extractor for a source.
type Registry struct {
	extractors map[domain.Source]Extractor
}

// NewRegistry creates a registry holding the given extractors.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{extractors: make(map[domain.Source]Extractor, len(extractors))}
	for _, e := range extractors {
		r.extractors[e.Source()] = e
	}
	return r
}

// DefaultRegistry holds an extractor for every supported source.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewAnswerphone(),
		NewWebsite(),
		NewJobber(),
		NewAdLead(),
	)
}

// Lookup returns the extractor registered for source.
func (r *Registry) Lookup(source domain.Source) (Extractor, error) {
	e, ok := r.extractors[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSource, source)
	}
	return e, nil
}
