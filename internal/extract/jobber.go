package extract

import (
	"strings"

	"github.com/tidwall/gjson"

	"contact-relay/internal/domain"
)

// Jobber reads CRM "request created" webhooks. The payload is already
// structured, so the work is picking and defaulting fields:
// the property address wins over the client's billing address, the primary
// phone and e-mail win over the rest.
type Jobber struct{}

// NewJobber creates the CRM request extractor.
func NewJobber() *Jobber {
	return &Jobber{}
}

func (j *Jobber) Source() domain.Source { return domain.SourceJobber }
func (j *Jobber) ContactType() string   { return domain.ContactTypeJobber }
func (j *Jobber) SourceLabel() string   { return "Jobber" }

// Extract selects contact fields from the request payload.
func (j *Jobber) Extract(raw domain.RawMessage) (domain.FieldMap, error) {
	if !gjson.ValidBytes(raw.Body) {
		return nil, &domain.ParseError{Source: domain.SourceJobber, Field: "body", Err: errInvalidJSON}
	}

	request := requestRoot(gjson.ParseBytes(raw.Body))
	client := request.Get("client")
	if !client.IsObject() {
		return nil, &domain.ParseError{Source: domain.SourceJobber, Field: "client"}
	}

	fields := domain.FieldMap{}

	name := client.Get("name").String()
	if strings.TrimSpace(name) == "" {
		name = client.Get("firstName").String() + " " + client.Get("lastName").String()
	}
	fields[domain.FieldName] = collapseSpace(name)

	phones := orderedValues(client.Get("phones"), "number")
	if len(phones) > 0 {
		fields[domain.FieldPhone] = phones[0]
	}
	if len(phones) > 1 {
		fields[domain.FieldCallerID] = phones[1]
	}

	if emails := orderedValues(client.Get("emails"), "address"); len(emails) > 0 {
		fields[domain.FieldEmail] = emails[0]
	}

	address := request.Get("property.address")
	if !hasAddress(address) {
		address = client.Get("billingAddress")
	}
	if hasAddress(address) {
		street := address.Get("street1").String() + " " + address.Get("street2").String()
		fields[domain.FieldAddress] = collapseSpace(street)
		fields[domain.FieldCity] = collapseSpace(address.Get("city").String())
		fields[domain.FieldState] = collapseSpace(address.Get("province").String())
		fields[domain.FieldZip] = collapseSpace(address.Get("postalCode").String())
	}

	message := request.Get("details").String()
	if strings.TrimSpace(message) == "" {
		message = request.Get("title").String()
	}
	fields[domain.FieldMessage] = collapseSpace(message)

	return fields, nil
}

func requestRoot(body gjson.Result) gjson.Result {
	for _, path := range []string{"data.request", "request"} {
		if r := body.Get(path); r.IsObject() {
			return r
		}
	}
	return body
}

// orderedValues returns the distinct non-empty values of key, primary entries first.
func orderedValues(list gjson.Result, key string) []string {
	var primary, rest []string
	seen := map[string]bool{}
	list.ForEach(func(_, item gjson.Result) bool {
		v := strings.TrimSpace(item.Get(key).String())
		if v == "" || seen[v] {
			return true
		}
		seen[v] = true
		if item.Get("primary").Bool() {
			primary = append(primary, v)
		} else {
			rest = append(rest, v)
		}
		return true
	})
	return append(primary, rest...)
}

func hasAddress(address gjson.Result) bool {
	if !address.IsObject() {
		return false
	}
	for _, key := range []string{"street1", "street2", "city", "province", "postalCode"} {
		if strings.TrimSpace(address.Get(key).String()) != "" {
			return true
		}
	}
	return false
}
