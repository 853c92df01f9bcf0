package extract

import (
	"strings"

	"contact-relay/internal/domain"
)

const fieldCityLine = "cityline"

// Answerphone reads answering-service call transcripts:
//
//	PH: <D: 123-456-7890 >
//	CALLER:  JOHN DOE
//	ADDRESS:  206 Washington St SW
//	CITY:  Atlanta ST GA ZIP 30334
//	RE: THIS IS A TEST MESSAGE.
//	~ CALLERID:  1234567890 MSGID: 0042
type Answerphone struct {
	transcript Grammar
	cityLine   Grammar
}

// NewAnswerphone creates the transcript extractor.
func NewAnswerphone() *Answerphone {
	return &Answerphone{
		transcript: Grammar{
			Source: domain.SourceAnswerphone,
			Rules: []Rule{
				{Field: domain.FieldPhone, Start: "<D: ", End: []string{" >", ">", "\n"}, Required: true, Collapse: true},
				{Field: domain.FieldName, Start: "CALLER:", End: []string{"\n"}, Required: true, Collapse: true},
				{Field: domain.FieldAddress, Start: "ADDRESS:", End: []string{"\n"}, Collapse: true},
				{Field: fieldCityLine, Start: "CITY:", End: []string{"\n"}},
				{Field: domain.FieldMessage, Start: "RE:", End: []string{"~ CALLERID:", "CALLERID:", "MSGID:"}, Collapse: true},
				{Field: domain.FieldCallerID, Start: "CALLERID:", End: []string{"MSGID:", "\n"}, Collapse: true},
			},
		},
		cityLine: Grammar{
			Source: domain.SourceAnswerphone,
			Rules: []Rule{
				{Field: domain.FieldCity, Start: "", End: []string{" ST ", " ZIP"}, Collapse: true},
				{Field: domain.FieldState, Start: " ST ", End: []string{" ZIP"}, Collapse: true},
				{Field: domain.FieldZip, Start: "ZIP", Collapse: true},
			},
		},
	}
}

func (a *Answerphone) Source() domain.Source { return domain.SourceAnswerphone }
func (a *Answerphone) ContactType() string   { return domain.ContactTypeCall }
func (a *Answerphone) SourceLabel() string   { return "Answering Service" }

// Extract parses a transcript body.
func (a *Answerphone) Extract(raw domain.RawMessage) (domain.FieldMap, error) {
	text := strings.ReplaceAll(string(raw.Body), "\r\n", "\n")

	fields, err := a.transcript.Apply(text)
	if err != nil {
		return nil, err
	}

	if line, ok := fields[fieldCityLine]; ok {
		delete(fields, fieldCityLine)
		// Leading space lets " ST " match when the city itself is missing.
		locality, err := a.cityLine.Apply(" " + line)
		if err != nil {
			return nil, err
		}
		for k, v := range locality {
			if v != "" {
				fields[k] = v
			}
		}
	}

	return fields, nil
}
