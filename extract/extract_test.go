package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EventLens/core"
)

const failedLogonMessage = "An account failed to log on.\n\n" +
	"Subject:\n" +
	"\tSecurity ID:\t\tS-1-5-18\n" +
	"\tAccount Name:\t\tWIN-SRV01$\n" +
	"\tLogon ID:\t\t0x3E7\n\n" +
	"Logon Type:\t\t\t3\n\n" +
	"Process Information:\n" +
	"\tCaller Process Name:\tC:\\Windows\\System32\\svchost.exe\n"

func TestExtractFailedLogon(t *testing.T) {
	x := NewExtractor(DefaultRules())
	ents := x.Extract(failedLogonMessage)

	assert.Equal(t, "WIN-SRV01$", ents.AccountName)
	assert.Equal(t, "S-1-5-18", ents.SecurityID)
	assert.Equal(t, `C:\Windows\System32\svchost.exe`, ents.ProcessName)
	assert.Equal(t, "0x3E7", ents.LogonID)
	assert.Equal(t, "3", ents.LogonType)
	assert.Empty(t, ents.ObjectName)
}

func TestExtractIdempotent(t *testing.T) {
	x := NewExtractor(DefaultRules())

	first := x.Extract(failedLogonMessage)
	second := x.Extract(failedLogonMessage)
	assert.Equal(t, first, second)
}

func TestExtractFirstMatchWins(t *testing.T) {
	x := NewExtractor(DefaultRules())

	// Two labeled account names; only the first one sticks.
	ents := x.Extract("Account Name: alice\nAccount Name: bob\n")
	assert.Equal(t, "alice", ents.AccountName)
}

func TestExtractLabelBeatsShapeFallback(t *testing.T) {
	x := NewExtractor(DefaultRules())

	// The labeled SID outranks the bare S-1-... match earlier in the text.
	msg := "Referenced identifier S-1-5-21-1111-2222-3333-500 appears above.\n" +
		"Security ID:\tS-1-5-19\n"
	ents := x.Extract(msg)
	assert.Equal(t, "S-1-5-19", ents.SecurityID)
}

func TestExtractShapeFallbacks(t *testing.T) {
	x := NewExtractor(DefaultRules())

	ents := x.Extract("launched C:\\Tools\\scan.exe against S-1-5-21-1-2-3-1001 last night")
	assert.Equal(t, `C:\Tools\scan.exe`, ents.ProcessName)
	assert.Equal(t, "S-1-5-21-1-2-3-1001", ents.SecurityID)
}

func TestExtractPortugueseLabels(t *testing.T) {
	x := NewExtractor(DefaultRules())

	msg := "Nome da Conta:\tmaria\n" +
		"Identificação de segurança:\tS-1-5-21-9-8-7-1002\n" +
		"Nome do Processo:\tC:\\Windows\\explorer.exe\n"
	ents := x.Extract(msg)
	assert.Equal(t, "maria", ents.AccountName)
	assert.Equal(t, "S-1-5-21-9-8-7-1002", ents.SecurityID)
	assert.Equal(t, `C:\Windows\explorer.exe`, ents.ProcessName)
}

func TestExtractSkipsPlaceholderValues(t *testing.T) {
	x := NewExtractor(DefaultRules())

	ents := x.Extract("Account Name:\t-\nObject Name:\t\n")
	assert.Empty(t, ents.AccountName)
	assert.Empty(t, ents.ObjectName)
}

func TestExtractEmptyMessage(t *testing.T) {
	x := NewExtractor(DefaultRules())
	assert.Equal(t, Entities{}, x.Extract(""))
}

func TestApplyFillsEvent(t *testing.T) {
	x := NewExtractor(DefaultRules())
	e := &core.Event{Message: failedLogonMessage}

	x.Apply(e)
	assert.Equal(t, "WIN-SRV01$", e.AccountName)
	assert.Equal(t, "S-1-5-18", e.SecurityID)
	assert.Equal(t, `C:\Windows\System32\svchost.exe`, e.ProcessName)
}

func TestParseRule(t *testing.T) {
	rule, err := ParseRule("Account_Name", `User:\s*(\S+)`)
	require.NoError(t, err)
	assert.Equal(t, AttrAccountName, rule.Attr)

	_, err = ParseRule("shoe_size", `.*`)
	assert.Error(t, err)

	_, err = ParseRule("account_name", `(`)
	assert.Error(t, err)
}

func TestUserRulesPrecedeDefaults(t *testing.T) {
	custom, err := ParseRule("account_name", `(?i)User:\s*(\S+)`)
	require.NoError(t, err)

	x := NewExtractor(append([]Rule{custom}, DefaultRules()...))
	ents := x.Extract("User: svc_backup\nAccount Name: ignored\n")
	assert.Equal(t, "svc_backup", ents.AccountName)
}
