package umov

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"tracking/internal/core/domain/model/feed"
	"tracking/internal/core/domain/model/kernel"

	"golang.org/x/text/encoding/charmap"
)

// newDecoder returns an XML decoder that understands the legacy single-byte
// encodings the provider declares besides UTF-8.
func newDecoder(body []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charsetReader
	return dec
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
}

// decodeEntryIDs collects the id attribute of every <entry> element at any depth.
// The list endpoints wrap entries differently, so the document is walked token by token.
func decodeEntryIDs(body []byte) ([]string, error) {
	dec := newDecoder(body)

	ids := make([]string, 0)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return ids, nil
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "id" && strings.TrimSpace(attr.Value) != "" {
				ids = append(ids, strings.TrimSpace(attr.Value))
			}
		}
	}
}

type described struct {
	Description string `xml:"description"`
}

type customFields struct {
	Fields []customField `xml:",any"`
}

type customField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

func (c customFields) get(name string) string {
	for _, f := range c.Fields {
		if f.XMLName.Local == name {
			return strings.TrimSpace(f.Value)
		}
	}
	return ""
}

type scheduleDocument struct {
	Situation      described    `xml:"situation"`
	ScheduleType   described    `xml:"scheduleType"`
	InsertDateTime string       `xml:"insertDateTime"`
	CustomFields   customFields `xml:"customFields"`
	Agent          struct {
		Name string `xml:"name"`
	} `xml:"agent"`
	Activities []struct {
		ID string `xml:"id,attr"`
	} `xml:"activities>activity"`
}

// decodeSchedule maps a schedule document. The transaction id comes from the
// custom field the feed looks schedules up by, defaulting to the requested one.
func decodeSchedule(body []byte, scheduleID string, fc FeedConfig, transactionID string) (feed.ScheduleRecord, error) {
	var doc scheduleDocument
	if err := newDecoder(body).Decode(&doc); err != nil {
		return feed.ScheduleRecord{}, err
	}

	activityIDs := make([]string, 0, len(doc.Activities))
	for _, a := range doc.Activities {
		if id := strings.TrimSpace(a.ID); id != "" {
			activityIDs = append(activityIDs, id)
		}
	}

	txn := doc.CustomFields.get(fc.customField())
	if txn == "" {
		txn = transactionID
	}

	return feed.ScheduleRecord{
		ScheduleID:    scheduleID,
		InsertTime:    kernel.ProviderTimestampOrMissing(doc.InsertDateTime),
		TransactionID: txn,
		TaskType:      strings.TrimSpace(doc.ScheduleType.Description),
		Assignee:      strings.TrimSpace(doc.Agent.Name),
		Situation:     strings.TrimSpace(doc.Situation.Description),
		ActivityIDs:   activityIDs,
		StoreID:       doc.CustomFields.get("loja"),
	}, nil
}

type activityHistoryDocument struct {
	Activity *struct {
		ID          string `xml:"id"`
		Description string `xml:"description"`
	} `xml:"activity"`
	FinishTimeOnSystem string `xml:"finishTimeOnSystem"`
	EndTimeSync        string `xml:"endTimeSync"`
	Status             string `xml:"status"`
}

// decodeActivity maps an activity history document. ok is false when the record
// carries no activity.
func decodeActivity(body []byte) (event feed.ActivityEvent, ok bool, err error) {
	var doc activityHistoryDocument
	if err := newDecoder(body).Decode(&doc); err != nil {
		return feed.ActivityEvent{}, false, err
	}
	if doc.Activity == nil {
		return feed.ActivityEvent{}, false, nil
	}

	return feed.ActivityEvent{
		ActivityID:      strings.TrimSpace(doc.Activity.ID),
		Description:     strings.TrimSpace(doc.Activity.Description),
		FinishTime:      feed.ResolveFinishTime(doc.FinishTimeOnSystem, doc.EndTimeSync),
		ExecutionStatus: strings.TrimSpace(doc.Status),
	}, true, nil
}
