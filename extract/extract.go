// Package extract recovers structured attributes from event message text
// using an ordered table of heuristic pattern rules.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"EventLens/core"
)

// Attribute names an extractable event field.
type Attribute string

// Attributes recognized by the extractor.
const (
	AttrAccountName Attribute = "account_name"
	AttrSecurityID  Attribute = "security_id"
	AttrProcessName Attribute = "process_name"
	AttrLogonID     Attribute = "logon_id"
	AttrObjectName  Attribute = "object_name"
	AttrLogonType   Attribute = "logon_type"
)

// Rule is one candidate pattern for one attribute. Patterns either anchor
// on a literal label ("Account Name:") or on a fixed value shape (the
// S-1-... form of a security identifier). The pattern's first capture group
// is the extracted value; a pattern without groups uses the whole match.
type Rule struct {
	Attr    Attribute
	Pattern *regexp.Regexp
}

// DefaultRules returns the built-in rule table. Rules for the same
// attribute are ordered by priority: label-anchored patterns before
// shape-anchored fallbacks, and the first match wins.
//
// Labels cover the English and Portuguese strings Windows writes, since
// exports carry whatever language the machine runs.
func DefaultRules() []Rule {
	return []Rule{
		{AttrAccountName, regexp.MustCompile(`(?i)(?:Account Name|Nome da Conta):[ \t]*([^\r\n]+)`)},
		{AttrSecurityID, regexp.MustCompile(`(?i)(?:Security ID|ID de seguran[cç]a|Identifica[cç][aã]o de seguran[cç]a):[ \t]*t?[ \t]*([^\r\n]+)`)},
		{AttrSecurityID, regexp.MustCompile(`\b(S-1-\d+(?:-[\d.]+)+)\b`)},
		{AttrProcessName, regexp.MustCompile(`(?i)(?:Process Name|Caller Process Name|Nome do Processo):[ \t]*([^\r\n]+)`)},
		{AttrProcessName, regexp.MustCompile(`(?i)([a-z]:\\(?:[^\\\r\n,"]+\\)*[^\\\r\n,"]+\.exe)\b`)},
		{AttrLogonID, regexp.MustCompile(`(?i)(?:Logon ID|ID de Logon|Identifica[cç][aã]o de logon):[ \t]*([^\r\n]+)`)},
		{AttrObjectName, regexp.MustCompile(`(?i)(?:Object Name|Nome do Objeto):[ \t]*([^\r\n]+)`)},
		{AttrLogonType, regexp.MustCompile(`(?i)(?:Logon Type|Tipo de Logon):[ \t]*([^\r\n]+)`)},
	}
}

// Entities holds the attributes one extraction pass recovered. Empty
// strings mean no pattern fired, which is an expected state.
type Entities struct {
	AccountName string
	SecurityID  string
	ProcessName string
	LogonID     string
	ObjectName  string
	LogonType   string
}

// Extractor applies a rule table to message text. Extraction is a pure
// function of the text: the same message always yields the same entities.
type Extractor struct {
	rules []Rule
}

// NewExtractor creates an extractor over the given rules, evaluated in
// order. Pass DefaultRules(), optionally with user rules prepended.
func NewExtractor(rules []Rule) *Extractor {
	return &Extractor{rules: rules}
}

// Extract runs the rule table against the message text. Absence of a match
// is silent; extraction never fails.
func (x *Extractor) Extract(message string) Entities {
	var ents Entities
	if message == "" {
		return ents
	}

	for _, rule := range x.rules {
		slot := ents.slot(rule.Attr)
		if slot == nil || *slot != "" {
			continue
		}

		m := rule.Pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		value := m[0]
		if len(m) > 1 {
			value = m[1]
		}
		value = strings.TrimSpace(value)
		if value != "" && value != "-" {
			*slot = value
		}
	}

	return ents
}

// Apply runs extraction over the event's message and fills the derived
// attribute fields in place.
func (x *Extractor) Apply(e *core.Event) {
	ents := x.Extract(e.Message)
	e.AccountName = ents.AccountName
	e.SecurityID = ents.SecurityID
	e.ProcessName = ents.ProcessName
	e.LogonID = ents.LogonID
	e.ObjectName = ents.ObjectName
	e.LogonType = ents.LogonType
}

func (e *Entities) slot(attr Attribute) *string {
	switch attr {
	case AttrAccountName:
		return &e.AccountName
	case AttrSecurityID:
		return &e.SecurityID
	case AttrProcessName:
		return &e.ProcessName
	case AttrLogonID:
		return &e.LogonID
	case AttrObjectName:
		return &e.ObjectName
	case AttrLogonType:
		return &e.LogonType
	}
	return nil
}

// ParseRule compiles a user-supplied rule, validating the attribute name
// and the pattern.
func ParseRule(attribute, pattern string) (Rule, error) {
	attr := Attribute(strings.ToLower(strings.TrimSpace(attribute)))
	var probe Entities
	if probe.slot(attr) == nil {
		return Rule{}, fmt.Errorf("unknown attribute %q", attribute)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid pattern for %s: %w", attr, err)
	}

	return Rule{Attr: attr, Pattern: re}, nil
}
