package catalog

// defaultNodeTypes is the built-in Flowlet node palette. Order within a
// category is the palette display order.
var defaultNodeTypes = []NodeType{
	// Triggers
	{
		TypeID:      "payment_received",
		Label:       "Payment Received",
		Category:    CategoryTriggers,
		Icon:        "💰",
		Color:       "green",
		Description: "Fires when an incoming payment settles",
	},
	{
		TypeID:      "card_transaction",
		Label:       "Card Transaction",
		Category:    CategoryTriggers,
		Icon:        "💳",
		Color:       "green",
		Description: "Fires on an authorization from an issued card",
	},
	{
		TypeID:      "schedule",
		Label:       "Schedule",
		Category:    CategoryTriggers,
		Icon:        "⏰",
		Color:       "green",
		Description: "Fires on a recurring schedule",
	},
	{
		TypeID:      "webhook",
		Label:       "Webhook",
		Category:    CategoryTriggers,
		Icon:        "🔗",
		Color:       "green",
		Description: "Fires when an external system calls the inbound endpoint",
	},

	// Actions
	{
		TypeID:      "send_notification",
		Label:       "Send Notification",
		Category:    CategoryActions,
		Icon:        "🔔",
		Color:       "blue",
		Description: "Delivers a message to the account holder",
	},
	{
		TypeID:      "transfer_funds",
		Label:       "Transfer Funds",
		Category:    CategoryActions,
		Icon:        "💸",
		Color:       "blue",
		Description: "Moves money between ledger accounts",
	},
	{
		TypeID:      "issue_card",
		Label:       "Issue Card",
		Category:    CategoryActions,
		Icon:        "🪪",
		Color:       "blue",
		Description: "Requests issuance of a new card",
	},
	{
		TypeID:      "update_ledger",
		Label:       "Update Ledger",
		Category:    CategoryActions,
		Icon:        "📒",
		Color:       "blue",
		Description: "Posts an entry to the platform ledger",
	},

	// Logic
	{
		TypeID:      "condition",
		Label:       "Condition",
		Category:    CategoryLogic,
		Icon:        "❓",
		Color:       "amber",
		Description: "Branches on a boolean expression",
	},
	{
		TypeID:      "delay",
		Label:       "Delay",
		Category:    CategoryLogic,
		Icon:        "⏳",
		Color:       "amber",
		Description: "Pauses the workflow for a fixed duration",
	},
	{
		TypeID:      "split",
		Label:       "Split",
		Category:    CategoryLogic,
		Icon:        "🔀",
		Color:       "amber",
		Description: "Fans out to multiple downstream paths",
	},

	// Security & Compliance
	{
		TypeID:      "fraud_check",
		Label:       "Fraud Check",
		Category:    CategorySecurity,
		Icon:        "🛡️",
		Color:       "red",
		Description: "Scores the event against the fraud model",
	},
	{
		TypeID:      "kyc_verification",
		Label:       "KYC Verification",
		Category:    CategorySecurity,
		Icon:        "🪞",
		Color:       "red",
		Description: "Runs identity verification on the account holder",
	},
	{
		TypeID:      "aml_screening",
		Label:       "AML Screening",
		Category:    CategorySecurity,
		Icon:        "🔍",
		Color:       "red",
		Description: "Screens counterparties against watchlists",
	},

	// Analytics
	{
		TypeID:      "track_event",
		Label:       "Track Event",
		Category:    CategoryAnalytics,
		Icon:        "📈",
		Color:       "purple",
		Description: "Records an analytics event",
	},
	{
		TypeID:      "generate_report",
		Label:       "Generate Report",
		Category:    CategoryAnalytics,
		Icon:        "📊",
		Color:       "purple",
		Description: "Builds a report from collected metrics",
	},
}
