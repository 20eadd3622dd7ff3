package brokerage

// Endpoint describes one remote brokerage operation: its opcode, URL path,
// parameter contract and, where the API returns an uncapped array, the name
// of the field the Invoker truncates. One registry entry replaces one
// hand-written wrapper per operation.
type Endpoint struct {
	Opcode    string
	Path      string
	Name      string
	Required  []string
	Optional  []string
	ListField string
}

var endpointRegistry = buildRegistry([]Endpoint{
	// Account
	{
		Opcode:   "kt00004",
		Path:     "/api/dostk/acnt",
		Name:     "account_evaluation",
		Required: []string{"qry_tp", "dmst_stex_tp"},
	},

	// Stock info
	{
		Opcode:   "ka10001",
		Path:     "/api/dostk/stkinfo",
		Name:     "stock_basic_info",
		Required: []string{"stk_cd"},
	},
	{
		Opcode:   "ka10101",
		Path:     "/api/dostk/stkinfo",
		Name:     "sector_code_list",
		Required: []string{"mrkt_tp"},
	},

	// Charts
	{
		Opcode:    "ka10081",
		Path:      "/api/dostk/chart",
		Name:      "daily_chart",
		Required:  []string{"stk_cd", "base_dt", "upd_stkpc_tp"},
		ListField: "stk_dt_pole_chart_qry",
	},
	{
		Opcode:    "ka10080",
		Path:      "/api/dostk/chart",
		Name:      "minute_chart",
		Required:  []string{"stk_cd", "tic_scope", "upd_stkpc_tp"},
		ListField: "stk_min_pole_chart_qry",
	},

	// Market condition / short selling
	{
		Opcode:   "ka10045",
		Path:     "/api/dostk/mrkcond",
		Name:     "institution_trading_trend",
		Required: []string{"stk_cd", "strt_dt", "end_dt", "orgn_prsm_unp_tp", "for_prsm_unp_tp"},
	},
	{
		Opcode:   "ka10014",
		Path:     "/api/dostk/shsa",
		Name:     "short_selling_trend",
		Required: []string{"stk_cd", "tm_tp", "strt_dt", "end_dt"},
	},

	// Ranking queries. These return unbounded arrays, hence the list caps.
	{
		Opcode:    "ka10023",
		Path:      "/api/dostk/rkinfo",
		Name:      "trading_volume_surge",
		Required:  []string{"mrkt_tp", "sort_tp", "tm_tp", "trde_qty_tp", "stk_cnd", "pric_tp", "stex_tp"},
		Optional:  []string{"tm"},
		ListField: "trde_qty_sdnin",
	},
	{
		Opcode:    "ka10030",
		Path:      "/api/dostk/rkinfo",
		Name:      "daily_trading_volume_ranking",
		Required:  []string{"mrkt_tp", "sort_tp", "mang_stk_incls", "crd_tp", "trde_qty_tp", "pric_tp", "trde_prica_tp", "mrkt_open_tp", "stex_tp"},
		ListField: "trde_qty_upper",
	},
	{
		Opcode:    "ka10032",
		Path:      "/api/dostk/rkinfo",
		Name:      "trading_amount_ranking",
		Required:  []string{"mrkt_tp", "mang_stk_incls", "stex_tp"},
		ListField: "trde_prica_upper",
	},
	{
		Opcode:    "ka10027",
		Path:      "/api/dostk/rkinfo",
		Name:      "daily_price_change_ranking",
		Required:  []string{"mrkt_tp", "sort_tp", "trde_qty_cnd", "stk_cnd", "crd_cnd", "updown_incls", "pric_cnd", "trde_prica_cnd", "stex_tp"},
		ListField: "pred_pre_flu_rt_upper",
	},
	{
		Opcode:    "ka10029",
		Path:      "/api/dostk/rkinfo",
		Name:      "expected_price_change_ranking",
		Required:  []string{"mrkt_tp", "sort_tp", "trde_qty_cnd", "stk_cnd", "crd_cnd", "pric_cnd", "stex_tp"},
		ListField: "exp_cntr_flu_rt_upper",
	},

	// Supply and demand
	{
		Opcode:   "ka10131",
		Path:     "/api/dostk/frgnistt",
		Name:     "institution_foreign_continuous_trading",
		Required: []string{"dt", "mrkt_tp", "netslmt_tp", "stk_inds_tp", "amt_qty_tp", "stex_tp"},
		Optional: []string{"strt_dt", "end_dt"},
	},
	{
		Opcode:   "ka90009",
		Path:     "/api/dostk/rkinfo",
		Name:     "foreign_institution_trading_ranking",
		Required: []string{"mrkt_tp", "amt_qty_tp", "qry_dt_tp", "stex_tp"},
		Optional: []string{"date"},
	},
	{
		Opcode:   "ka10035",
		Path:     "/api/dostk/rkinfo",
		Name:     "foreign_continuous_net_trading_ranking",
		Required: []string{"mrkt_tp", "trde_tp", "base_dt_tp", "stex_tp"},
	},
	{
		Opcode:   "ka10044",
		Path:     "/api/dostk/mrkcond",
		Name:     "daily_institution_trading_stocks",
		Required: []string{"strt_dt", "end_dt", "trde_tp", "mrkt_tp", "stex_tp"},
	},
	{
		Opcode:   "ka10065",
		Path:     "/api/dostk/rkinfo",
		Name:     "intraday_investor_trading_ranking",
		Required: []string{"trde_tp", "mrkt_tp", "orgn_tp"},
	},

	// Sector
	{
		Opcode:   "ka20001",
		Path:     "/api/dostk/sect",
		Name:     "sector_current_price",
		Required: []string{"mrkt_tp", "inds_cd"},
	},
	{
		Opcode:   "ka20002",
		Path:     "/api/dostk/sect",
		Name:     "sector_stock_prices",
		Required: []string{"mrkt_tp", "inds_cd", "stex_tp"},
	},
	{
		Opcode:   "ka20003",
		Path:     "/api/dostk/sect",
		Name:     "all_sector_index",
		Required: []string{"inds_cd"},
	},

	// Theme
	{
		Opcode:   "ka90001",
		Path:     "/api/dostk/thme",
		Name:     "theme_group_info",
		Required: []string{"qry_tp", "date_tp", "flu_pl_amt_tp", "stex_tp"},
		Optional: []string{"stk_cd", "thema_nm"},
	},
	{
		Opcode:   "ka90002",
		Path:     "/api/dostk/thme",
		Name:     "theme_component_stocks",
		Required: []string{"thema_grp_cd", "stex_tp"},
		Optional: []string{"date_tp"},
	},
})

func buildRegistry(endpoints []Endpoint) map[string]Endpoint {
	m := make(map[string]Endpoint, len(endpoints))
	for _, ep := range endpoints {
		m[ep.Opcode] = ep
	}
	return m
}

// Lookup returns the descriptor for an opcode.
func Lookup(opcode string) (Endpoint, bool) {
	ep, ok := endpointRegistry[opcode]
	return ep, ok
}

// Endpoints returns all registered descriptors.
func Endpoints() []Endpoint {
	out := make([]Endpoint, 0, len(endpointRegistry))
	for _, ep := range endpointRegistry {
		out = append(out, ep)
	}
	return out
}

// missingParams returns the required parameters absent from params.
func (e Endpoint) missingParams(params map[string]string) []string {
	var missing []string
	for _, name := range e.Required {
		if params[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
