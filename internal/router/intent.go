// Package router maps a free-form user query onto one of the fixed query
// intents and onto the set of brokerage endpoints that intent is allowed to
// touch. Classification never fails outward: an unreadable query degrades to
// the discovery intent rather than an error.
package router

// Intent is one of the fixed query categories.
type Intent string

const (
	// IntentVolumeMomentum covers surge and ranking style questions about
	// trading volume and price momentum.
	IntentVolumeMomentum Intent = "volume_momentum"

	// IntentInstitutionalFlow covers institutional and foreign investor
	// buying and selling patterns.
	IntentInstitutionalFlow Intent = "institutional_flow"

	// IntentSectorTheme covers sector index and theme group questions.
	IntentSectorTheme Intent = "sector_theme"

	// IntentSingleStock covers questions anchored on one named instrument
	// or on the caller's own account.
	IntentSingleStock Intent = "single_stock"

	// IntentDiscovery is the open-ended fallback served by web search
	// rather than brokerage data.
	IntentDiscovery Intent = "discovery"
)

// Intents lists every intent in a stable order.
func Intents() []Intent {
	return []Intent{
		IntentVolumeMomentum,
		IntentInstitutionalFlow,
		IntentSectorTheme,
		IntentSingleStock,
		IntentDiscovery,
	}
}

// ParseIntent maps a string onto an Intent, reporting whether it matched.
func ParseIntent(s string) (Intent, bool) {
	switch Intent(s) {
	case IntentVolumeMomentum, IntentInstitutionalFlow, IntentSectorTheme, IntentSingleStock, IntentDiscovery:
		return Intent(s), true
	}
	return "", false
}

// toolsets fixes which brokerage endpoints each intent may invoke. Discovery
// carries none; it is answered from web search.
var toolsets = map[Intent][]string{
	IntentVolumeMomentum: {
		"ka10023", // trading volume surge
		"ka10030", // daily trading volume ranking
		"ka10032", // trading amount ranking
		"ka10027", // daily price change ranking
		"ka10029", // expected price change ranking
	},
	IntentInstitutionalFlow: {
		"ka10131", // institution/foreign continuous trading
		"ka90009", // foreign/institution trading ranking
		"ka10035", // foreign continuous net trading ranking
		"ka10044", // daily institution trading stocks
		"ka10065", // intraday investor trading ranking
	},
	IntentSectorTheme: {
		"ka20001", // sector current price
		"ka20002", // sector stock prices
		"ka20003", // all sector index
		"ka90001", // theme group info
		"ka90002", // theme component stocks
		"ka10101", // sector code list
	},
	IntentSingleStock: {
		"kt00004", // account evaluation
		"ka10001", // stock basic info
		"ka10081", // daily chart
		"ka10045", // institution trading trend
		"ka10014", // short selling trend
	},
	IntentDiscovery: nil,
}

// Toolset returns the endpoint opcodes the intent may invoke. The returned
// slice is a copy.
func Toolset(intent Intent) []string {
	ops := toolsets[intent]
	if len(ops) == 0 {
		return nil
	}
	out := make([]string, len(ops))
	copy(out, ops)
	return out
}
