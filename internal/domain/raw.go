package domain

import "time"

// Source identifies which upstream format a payload arrived in.
type Source string

const (
	SourceAnswerphone Source = "answerphone"
	SourceWebsite     Source = "website"
	SourceJobber      Source = "jobber"
	SourceAdLead      Source = "adlead"
)

// Field map keys. Extractors only ever emit these.
const (
	FieldPhone    = "phone"
	FieldName     = "name"
	FieldAddress  = "address"
	FieldCity     = "city"
	FieldState    = "state"
	FieldZip      = "zip"
	FieldMessage  = "message"
	FieldCallerID = "callerid"
	FieldEmail    = "email"
)

// FieldMap is the un-normalized result of one extraction.
type FieldMap map[string]string

// RawMessage is a payload as received, plus the discriminator that selects its extractor.
type RawMessage struct {
	Source      Source
	Body        []byte
	ContentType string
	ReceivedAt  time.Time
}

// NewRawMessage wraps a body received now.
func NewRawMessage(source Source, body []byte, contentType string) RawMessage {
	return RawMessage{
		Source:      source,
		Body:        body,
		ContentType: contentType,
		ReceivedAt:  time.Now(),
	}
}
