// Package synth generates topology-preserving synthetic workflow variants by
// substituting compatible node types from a fixed table.
package synth

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

// Rule maps a canonical node-type key to the replacement keys it may be
// swapped with.
type Rule struct {
	Key   string   `yaml:"key"`
	Swaps []string `yaml:"swaps"`
}

// Table is an ordered list of substitution rules. Lookup walks the rules top
// to bottom, so matching is deterministic for a fixed table: no iteration
// over an unordered map is involved.
type Table []Rule

// Normalize derives the canonical lookup key from a node type tag: the
// namespace prefix is stripped, a "Trigger" suffix removed, and the result
// lowercased. "n8n-nodes-base.gmailTrigger" and "gmail" normalize alike.
func Normalize(nodeType string) string {
	base := strings.TrimPrefix(nodeType, workflow.TypePrefix)
	base = strings.TrimSuffix(base, "Trigger")
	return strings.ToLower(base)
}

// Candidates returns the compatible replacement keys for a node type, or nil
// if the type is not swappable. An exact key match wins; otherwise the first
// rule whose key contains, or is contained in, the normalized type is used.
// The substring fallback lets "gmailTrigger" and "gmail" share a rule, and
// first-match-wins keeps it deterministic.
func (t Table) Candidates(nodeType string) []string {
	base := Normalize(nodeType)
	if base == "" {
		return nil
	}
	for _, r := range t {
		if strings.ToLower(r.Key) == base {
			return r.Swaps
		}
	}
	for _, r := range t {
		k := strings.ToLower(r.Key)
		if strings.Contains(base, k) || strings.Contains(k, base) {
			return r.Swaps
		}
	}
	return nil
}

// LoadTable reads a substitution table from a YAML file: a list of
// {key, swaps} entries, evaluated in file order.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	for i, r := range t {
		if r.Key == "" {
			return nil, fmt.Errorf("table entry %d: empty key", i)
		}
		if len(r.Swaps) == 0 {
			return nil, fmt.Errorf("table entry %d (%q): no swaps", i, r.Key)
		}
	}
	return t, nil
}

// DefaultTable holds the built-in compatibility groups. Rule order is part of
// the contract: the substring fallback in Candidates picks the first match.
var DefaultTable = Table{
	// Triggers
	{Key: "webhook", Swaps: []string{"httpRequest", "formTrigger", "manualTrigger"}},
	{Key: "manualTrigger", Swaps: []string{"scheduleTrigger", "cronTrigger", "webhook"}},
	{Key: "scheduleTrigger", Swaps: []string{"cronTrigger", "manualTrigger"}},
	{Key: "emailTrigger", Swaps: []string{"imapEmail", "gmailTrigger"}},
	{Key: "gmailTrigger", Swaps: []string{"emailTrigger", "microsoftOutlookTrigger"}},

	// Databases
	{Key: "postgres", Swaps: []string{"mysql", "mssql", "mariaDb", "mongoDb"}},
	{Key: "mysql", Swaps: []string{"postgres", "mssql", "mariaDb"}},
	{Key: "mongoDb", Swaps: []string{"postgres", "mysql", "redis"}},
	{Key: "redis", Swaps: []string{"mongoDb", "postgres"}},
	{Key: "airtable", Swaps: []string{"googleSheets", "notion", "baserow", "nocodb"}},
	{Key: "googleSheets", Swaps: []string{"airtable", "notion", "baserow"}},
	{Key: "notion", Swaps: []string{"airtable", "googleSheets", "clickup"}},

	// Communication
	{Key: "slack", Swaps: []string{"discord", "mattermost", "microsoftTeams", "telegram"}},
	{Key: "discord", Swaps: []string{"slack", "mattermost", "telegram"}},
	{Key: "telegram", Swaps: []string{"slack", "discord", "whatsapp"}},
	{Key: "email", Swaps: []string{"gmail", "microsoftOutlook", "sendgrid"}},
	{Key: "gmail", Swaps: []string{"email", "microsoftOutlook"}},

	// CRM
	{Key: "hubspot", Swaps: []string{"salesforce", "pipedrive", "zoho"}},
	{Key: "salesforce", Swaps: []string{"hubspot", "pipedrive"}},
	{Key: "pipedrive", Swaps: []string{"hubspot", "salesforce", "airtable"}},

	// Project management
	{Key: "trello", Swaps: []string{"asana", "clickup", "jira", "monday"}},
	{Key: "asana", Swaps: []string{"trello", "clickup", "jira"}},
	{Key: "jira", Swaps: []string{"asana", "trello", "linear", "github"}},
	{Key: "clickup", Swaps: []string{"asana", "trello", "notion"}},

	// Storage
	{Key: "googleDrive", Swaps: []string{"dropbox", "oneDrive", "box"}},
	{Key: "dropbox", Swaps: []string{"googleDrive", "oneDrive"}},
	{Key: "s3", Swaps: []string{"googleCloudStorage", "azureBlob"}},

	// AI
	{Key: "openAi", Swaps: []string{"anthropic", "googleAi", "ollama"}},
	{Key: "anthropic", Swaps: []string{"openAi", "googleAi"}},
}
