package events

import "contact-relay/internal/domain"

// Topics published by the ingestion service.
const (
	TopicCall            = "contact.call"
	TopicWebsite         = "contact.website"
	TopicJobber          = "contact.jobber"
	TopicAdLead          = "contact.adlead"
	TopicWebsiteFeedback = "feedback.website"
)

var sourceTopics = map[domain.Source]string{
	domain.SourceAnswerphone: TopicCall,
	domain.SourceWebsite:     TopicWebsite,
	domain.SourceJobber:      TopicJobber,
	domain.SourceAdLead:      TopicAdLead,
}

// TopicFor returns the contact topic for a source.
func TopicFor(source domain.Source) (string, bool) {
	topic, ok := sourceTopics[source]
	return topic, ok
}

// ContactTopics lists every contact topic.
func ContactTopics() []string {
	return []string{TopicCall, TopicWebsite, TopicJobber, TopicAdLead}
}
