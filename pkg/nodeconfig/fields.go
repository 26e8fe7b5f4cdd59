// Package nodeconfig resolves the configuration schema for each node type:
// which fields a node of a given type exposes, their kinds, options, and
// defaults. The mapping is a lookup table built once at package init, not a
// per-render conditional chain.
package nodeconfig

// FieldKind identifies the editor widget and validation rule for a field.
type FieldKind string

const (
	// KindNumber is a free numeric input.
	KindNumber FieldKind = "number"
	// KindString is a free text input.
	KindString FieldKind = "string"
	// KindSelect is a single choice from Options.
	KindSelect FieldKind = "select"
	// KindBoolean is a checkbox.
	KindBoolean FieldKind = "boolean"
	// KindSlider is a bounded numeric input with Min/Max.
	KindSlider FieldKind = "slider"
	// KindExpression is a boolean expression compiled with expr-lang.
	KindExpression FieldKind = "expression"
	// KindJSONPath is a JSONPath query into event payloads.
	KindJSONPath FieldKind = "jsonpath"
)

// FieldSpec describes one configuration field of a node type.
type FieldSpec struct {
	// Key is the config map key the field reads and writes.
	Key string
	// Label is the display name in the inspector panel.
	Label string
	// Kind selects the widget and validation rule.
	Kind FieldKind
	// Options lists the allowed values for select fields.
	Options []string
	// Min and Max bound slider fields.
	Min float64
	Max float64
	// Default is the value used when the config has no entry for Key.
	Default interface{}
	// Required marks fields that must be non-empty before activation.
	Required bool
	// Help is a short syntax hint shown below the field.
	Help string
}

// fieldTable maps node type ids to their ordered field specs. A type id
// absent from the table has no configuration ("no configuration
// available" in the inspector), which is not an error.
var fieldTable = map[string][]FieldSpec{
	"payment_received": {
		{Key: "min_amount", Label: "Minimum Amount", Kind: KindNumber, Default: 0.0, Help: "Ignore payments below this amount"},
		{Key: "currency", Label: "Currency", Kind: KindSelect, Options: []string{"USD", "EUR", "GBP"}, Default: "USD"},
	},
	"card_transaction": {
		{Key: "min_amount", Label: "Minimum Amount", Kind: KindNumber, Default: 0.0},
		{Key: "merchant_category", Label: "Merchant Category", Kind: KindString, Help: "MCC code, empty matches all"},
	},
	"schedule": {
		{Key: "interval", Label: "Interval", Kind: KindNumber, Default: 1.0, Required: true},
		{Key: "unit", Label: "Unit", Kind: KindSelect, Options: []string{"minutes", "hours", "days"}, Default: "hours"},
	},
	"webhook": {
		{Key: "path", Label: "Endpoint Path", Kind: KindString, Required: true, Help: "Path under the inbound webhook base URL"},
	},
	"send_notification": {
		{Key: "message", Label: "Message", Kind: KindString, Required: true},
		{Key: "priority", Label: "Priority", Kind: KindSelect, Options: []string{"low", "normal", "high", "urgent"}, Default: "normal"},
	},
	"transfer_funds": {
		{Key: "amount", Label: "Amount", Kind: KindNumber, Required: true},
		{Key: "currency", Label: "Currency", Kind: KindSelect, Options: []string{"USD", "EUR", "GBP"}, Default: "USD"},
		{Key: "destination", Label: "Destination Account", Kind: KindString, Required: true},
	},
	"issue_card": {
		{Key: "card_type", Label: "Card Type", Kind: KindSelect, Options: []string{"virtual", "physical"}, Default: "virtual"},
		{Key: "spending_limit", Label: "Spending Limit", Kind: KindNumber, Default: 1000.0},
	},
	"update_ledger": {
		{Key: "account", Label: "Ledger Account", Kind: KindString, Required: true},
		{Key: "entry_type", Label: "Entry Type", Kind: KindSelect, Options: []string{"debit", "credit"}, Default: "credit"},
	},
	"condition": {
		{Key: "expression", Label: "Expression", Kind: KindExpression, Required: true, Help: "Boolean: e.g., amount > 100 && currency == \"USD\""},
	},
	"delay": {
		{Key: "duration", Label: "Duration", Kind: KindNumber, Default: 5.0, Required: true},
		{Key: "unit", Label: "Unit", Kind: KindSelect, Options: []string{"seconds", "minutes", "hours", "days"}, Default: "minutes"},
	},
	"split": {
		{Key: "branches", Label: "Branches", Kind: KindSlider, Min: 2, Max: 8, Default: 2.0},
	},
	"fraud_check": {
		{Key: "risk_threshold", Label: "Risk Threshold", Kind: KindSlider, Min: 0, Max: 100, Default: 75.0},
		{Key: "block_suspicious", Label: "Block Suspicious", Kind: KindBoolean, Default: true},
	},
	"kyc_verification": {
		{Key: "provider", Label: "Provider", Kind: KindSelect, Options: []string{"internal", "persona", "onfido"}, Default: "internal"},
		{Key: "require_document", Label: "Require Document", Kind: KindBoolean, Default: true},
	},
	"aml_screening": {
		{Key: "watchlists", Label: "Watchlists", Kind: KindSelect, Options: []string{"ofac", "un", "eu", "all"}, Default: "all"},
		{Key: "match_threshold", Label: "Match Threshold", Kind: KindSlider, Min: 0, Max: 100, Default: 85.0},
	},
	"track_event": {
		{Key: "event_name", Label: "Event Name", Kind: KindString, Required: true},
		{Key: "value_path", Label: "Value Path", Kind: KindJSONPath, Help: "JSONPath into the event payload, e.g. $.payment.amount"},
	},
	"generate_report": {
		{Key: "report_type", Label: "Report Type", Kind: KindSelect, Options: []string{"summary", "compliance", "activity"}, Default: "summary"},
		{Key: "metric_path", Label: "Metric Path", Kind: KindJSONPath, Help: "JSONPath selecting the metric to aggregate"},
	},
}

// Resolve returns the ordered field specs for a node type. Unknown type ids
// resolve to an empty list, not an error.
func Resolve(typeID string) []FieldSpec {
	specs := fieldTable[typeID]
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out
}

// DefaultConfig builds the initial config map for a node type from the
// field defaults. Fields without a default are omitted.
func DefaultConfig(typeID string) map[string]interface{} {
	specs := fieldTable[typeID]
	config := make(map[string]interface{}, len(specs))
	for _, spec := range specs {
		if spec.Default != nil {
			config[spec.Key] = spec.Default
		}
	}
	return config
}
