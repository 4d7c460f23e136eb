package parser

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
)

const (
	// DefaultTimezone is the business-local zone service times are written in.
	DefaultTimezone = "America/New_York"

	maxNotesLength = 5000
)

// Message is the raw content of one inbound email.
type Message struct {
	From    string
	Subject string
	Text    string
}

// Result is everything extracted from a Message. Optional fields are nil when
// the extractor found nothing usable.
type Result struct {
	Normalized      string
	StoreCode       *string
	FulfillmentType enums.FulfillmentType
	ServiceTime     *time.Time
	DeliveryAddress *string
	Customer        Customer
	Totals          Totals
	Items           []Item
	CustomerNotes   *string
	Notes           string
	Status          enums.OrderStatus
}

// Confident reports whether the result classified as RECEIVED.
func (r Result) Confident() bool {
	return r.Status == enums.OrderStatusReceived
}

// Options configures a Parser. Zero values select the defaults.
type Options struct {
	Location   *time.Location
	Precedence LabelPrecedence
	Modifiers  ModifierPolicy
}

// Parser composes the field extractors. It holds no mutable state and is safe
// for concurrent use.
type Parser struct {
	loc        *time.Location
	precedence LabelPrecedence
	modifiers  ModifierPolicy
}

// New builds a Parser from opts.
func New(opts Options) *Parser {
	loc := opts.Location
	if loc == nil {
		var err error
		if loc, err = time.LoadLocation(DefaultTimezone); err != nil {
			loc = time.UTC
		}
	}
	modifiers := opts.Modifiers
	if modifiers == nil {
		modifiers = IndentOrUnpriced
	}
	return &Parser{loc: loc, precedence: opts.Precedence, modifiers: modifiers}
}

// Location returns the zone service times are interpreted in.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Parse runs every extractor over msg. It never fails: fields that cannot be
// read are left empty and the result is classified PENDING_REVIEW.
func (p *Parser) Parse(msg Message) Result {
	text := Normalize(msg.Text)
	lines := SplitLines(text)

	res := Result{
		Normalized:      text,
		StoreCode:       ExtractStoreCode(msg.Subject, text),
		FulfillmentType: ExtractFulfillment(msg.Subject, text),
		ServiceTime:     ExtractServiceTime(lines, p.loc, p.precedence),
		Customer:        ExtractCustomer(lines),
		Totals:          ExtractTotals(lines),
		Items:           ExtractItems(lines, p.modifiers),
		CustomerNotes:   ExtractCustomerNotes(text),
	}
	res.DeliveryAddress = ExtractDeliveryAddress(lines, res.FulfillmentType)
	if res.Customer.Name == nil {
		res.Customer.Name = CustomerNameFromSubject(msg.Subject)
	}
	res.Notes = BuildNotes(msg.From, msg.Subject, res.CustomerNotes, text)
	res.Status = Classify(res.ServiceTime, res.Items)
	return res
}

// Classify returns RECEIVED when a service time and at least one top-level
// item were found, and PENDING_REVIEW otherwise.
func Classify(serviceTime *time.Time, items []Item) enums.OrderStatus {
	if serviceTime != nil && len(items) > 0 {
		return enums.OrderStatusReceived
	}
	return enums.OrderStatusPendingReview
}

// BuildNotes renders the staff-facing notes block stored on the order.
func BuildNotes(from, subject string, customerNotes *string, text string) string {
	from = strings.TrimSpace(from)
	if from == "" {
		from = "unknown"
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "(no subject)"
	}

	parts := []string{"FROM: " + from, "SUBJECT: " + subject, ""}
	if customerNotes != nil {
		parts = append(parts, "CUSTOMER NOTES: "+*customerNotes)
	}
	parts = append(parts, "", "RAW EMAIL:", text)
	return truncateRunes(strings.Join(parts, "\n"), maxNotesLength)
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
