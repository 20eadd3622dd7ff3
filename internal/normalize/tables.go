package normalize

// mapping describes how one endpoint's idiosyncratic response shape folds
// into the stable internal schema: scalar renames, plus the row list and the
// per-row renames where the endpoint returns one.
type mapping struct {
	Name      string
	Scalars   map[string]string // remote field -> internal field
	ListField string            // remote list field, "" when none
	ListName  string            // internal name for the row list
	Row       map[string]string // remote row field -> internal row field
}

// Row renames shared by the ranking endpoints. The remotes abbreviate
// aggressively; the internal names spell the concepts out.
var rankingRow = map[string]string{
	"stk_cd":        "stock_code",
	"stk_nm":        "stock_name",
	"cur_prc":       "current_price",
	"pred_pre_sig":  "change_sign",
	"pred_pre":      "change",
	"flu_rt":        "change_rate",
	"trde_qty":      "volume",
	"now_trde_qty":  "current_volume",
	"prev_trde_qty": "previous_volume",
	"sdnin_qty":     "surge_quantity",
	"sdnin_rt":      "surge_rate",
	"trde_prica":    "trading_value",
	"trde_tern_rt":  "turnover_rate",
	"exp_cntr_prc":  "expected_price",
}

var tables = map[string]mapping{
	"ka10001": {
		Name: "stock_basic_info",
		Scalars: map[string]string{
			"stk_cd":        "stock_code",
			"stk_nm":        "stock_name",
			"setl_mm":       "settlement_month",
			"fav":           "face_value",
			"cap":           "capital",
			"flo_stk":       "listed_shares",
			"crd_rt":        "credit_ratio",
			"oyr_hgst":      "year_high",
			"oyr_lwst":      "year_low",
			"mac":           "market_cap",
			"mac_wght":      "market_cap_weight",
			"for_exh_rt":    "foreign_exhaustion_rate",
			"repl_pric":     "replacement_price",
			"per":           "per",
			"eps":           "eps",
			"roe":           "roe",
			"pbr":           "pbr",
			"ev":            "ev",
			"bps":           "bps",
			"sale_amt":      "sales_amount",
			"bus_pro":       "business_profit",
			"cup_nga":       "current_net_income",
			"250hgst":       "high_250",
			"250lwst":       "low_250",
			"high_pric":     "high_price",
			"open_pric":     "open_price",
			"low_pric":      "low_price",
			"upl_pric":      "upper_limit_price",
			"lst_pric":      "lower_limit_price",
			"base_pric":     "base_price",
			"exp_cntr_pric": "expected_contract_price",
			"cur_prc":       "current_price",
			"flu_rt":        "change_rate",
			"trde_qty":      "volume",
		},
	},

	"kt00004": {
		Name: "account_evaluation",
		Scalars: map[string]string{
			"acnt_nm":            "account_name",
			"brch_nm":            "branch_name",
			"entr":               "deposit",
			"d2_entra":           "d2_estimated_deposit",
			"tot_est_amt":        "total_estimated_amount",
			"aset_evlt_amt":      "asset_evaluation_amount",
			"tot_pur_amt":        "total_purchase_amount",
			"prsm_dpst_aset_amt": "estimated_deposit_asset",
			"tot_grnt_sella":     "total_guarantee_sell_amount",
			"tdy_lspft_amt":      "today_investment_principal",
			"invt_bsamt":         "monthly_investment_principal",
			"lspft_amt":          "cumulative_investment_principal",
			"tdy_lspft":          "today_profit_loss",
			"lspft2":             "monthly_profit_loss",
			"lspft":              "cumulative_profit_loss",
			"tdy_lspft_rt":       "today_profit_loss_rate",
			"lspft_ratio":        "monthly_profit_loss_rate",
			"lspft_rt":           "cumulative_profit_loss_rate",
		},
		ListField: "stk_acnt_evlt_prst",
		ListName:  "stocks",
		Row: map[string]string{
			"stk_cd":     "stock_code",
			"stk_nm":     "stock_name",
			"rmnd_qty":   "remaining_quantity",
			"avg_prc":    "average_price",
			"cur_prc":    "current_price",
			"evlt_amt":   "evaluation_amount",
			"pl_amt":     "profit_loss_amount",
			"pl_rt":      "profit_loss_rate",
			"loan_dt":    "loan_date",
			"pur_amt":    "purchase_amount",
			"setl_remn":  "settlement_balance",
			"pred_buyq":  "previous_buy_quantity",
			"pred_sellq": "previous_sell_quantity",
			"tdy_buyq":   "today_buy_quantity",
			"tdy_sellq":  "today_sell_quantity",
		},
	},

	"ka10023": {
		Name:      "trading_volume_surge",
		ListField: "trde_qty_sdnin",
		ListName:  "entries",
		Row:       rankingRow,
	},
	"ka10030": {
		Name:      "daily_trading_volume_ranking",
		ListField: "trde_qty_upper",
		ListName:  "entries",
		Row:       rankingRow,
	},
	"ka10032": {
		Name:      "trading_amount_ranking",
		ListField: "trde_prica_upper",
		ListName:  "entries",
		Row:       rankingRow,
	},
	"ka10027": {
		Name:      "daily_price_change_ranking",
		ListField: "pred_pre_flu_rt_upper",
		ListName:  "entries",
		Row:       rankingRow,
	},
	"ka10029": {
		Name:      "expected_price_change_ranking",
		ListField: "exp_cntr_flu_rt_upper",
		ListName:  "entries",
		Row:       rankingRow,
	},

	"ka10081": {
		Name:      "daily_chart",
		Scalars:   map[string]string{"stk_cd": "stock_code"},
		ListField: "stk_dt_pole_chart_qry",
		ListName:  "candles",
		Row: map[string]string{
			"dt":        "date",
			"cur_prc":   "close_price",
			"open_pric": "open_price",
			"high_pric": "high_price",
			"low_pric":  "low_price",
			"trde_qty":  "volume",
		},
	},
	"ka10080": {
		Name:      "minute_chart",
		Scalars:   map[string]string{"stk_cd": "stock_code"},
		ListField: "stk_min_pole_chart_qry",
		ListName:  "candles",
		Row: map[string]string{
			"cntr_tm":   "contract_time",
			"cur_prc":   "close_price",
			"open_pric": "open_price",
			"high_pric": "high_price",
			"low_pric":  "low_price",
			"trde_qty":  "volume",
		},
	},

	"ka10045": {
		Name:      "institution_trading_trend",
		Scalars:   map[string]string{"stk_cd": "stock_code"},
		ListField: "stk_orgn_trde_trnsn",
		ListName:  "entries",
		Row: map[string]string{
			"dt":                "date",
			"close_pric":        "close_price",
			"pre_sig":           "change_sign",
			"pred_pre":          "change",
			"flu_rt":            "change_rate",
			"trde_qty":          "volume",
			"orgn_dt_acc":       "institution_period_net",
			"orgn_daly_nettrde": "institution_daily_net",
			"for_dt_acc":        "foreign_period_net",
			"for_daly_nettrde":  "foreign_daily_net",
		},
	},
	"ka10014": {
		Name:      "short_selling_trend",
		Scalars:   map[string]string{"stk_cd": "stock_code"},
		ListField: "shrts_trnsn",
		ListName:  "entries",
		Row: map[string]string{
			"dt":            "date",
			"close_pric":    "close_price",
			"shrts_qty":     "short_quantity",
			"shrts_amt":     "short_amount",
			"shrts_wght":    "short_weight",
			"ovr_shrts_qty": "cumulative_short_quantity",
			"trde_qty":      "volume",
		},
	},

	"ka10131": {
		Name:      "institution_foreign_continuous_trading",
		ListField: "orgn_frgnr_cont_trde_prst",
		ListName:  "entries",
		Row: map[string]string{
			"stk_cd":            "stock_code",
			"stk_nm":            "stock_name",
			"cur_prc":           "current_price",
			"flu_rt":            "change_rate",
			"orgn_nettrde_qty":  "institution_net_quantity",
			"frgnr_nettrde_qty": "foreign_net_quantity",
			"nettrde_qty":       "net_quantity",
			"cont_tm":           "continuous_days",
		},
	},
	"ka90009": {
		Name:      "foreign_institution_trading_ranking",
		ListField: "frgnr_orgn_trde_upper",
		ListName:  "entries",
		Row:       rankingRow,
	},
	"ka10035": {
		Name:      "foreign_continuous_net_trading_ranking",
		ListField: "for_cont_nettrde_upper",
		ListName:  "entries",
		Row:       rankingRow,
	},
	"ka10044": {
		Name:      "daily_institution_trading_stocks",
		ListField: "daly_orgn_trde_stk",
		ListName:  "entries",
		Row:       rankingRow,
	},
	"ka10065": {
		Name:      "intraday_investor_trading_ranking",
		ListField: "opmr_invsr_trde_upper",
		ListName:  "entries",
		Row:       rankingRow,
	},

	"ka10101": {
		Name:      "sector_code_list",
		ListField: "list",
		ListName:  "sectors",
		Row: map[string]string{
			"code":    "sector_code",
			"name":    "sector_name",
			"group":   "sector_group",
			"mrkt_tp": "market_type",
		},
	},
	"ka20001": {
		Name: "sector_current_price",
		Scalars: map[string]string{
			"cur_prc":      "current_price",
			"pred_pre_sig": "change_sign",
			"pred_pre":     "change",
			"flu_rt":       "change_rate",
			"trde_qty":     "volume",
			"trde_prica":   "trading_value",
		},
	},
	"ka20002": {
		Name:      "sector_stock_prices",
		ListField: "inds_stkpc",
		ListName:  "entries",
		Row:       rankingRow,
	},
	"ka20003": {
		Name:      "all_sector_index",
		ListField: "all_inds_idex",
		ListName:  "entries",
		Row: map[string]string{
			"stk_cd":   "sector_code",
			"stk_nm":   "sector_name",
			"cur_prc":  "current_price",
			"pre_sig":  "change_sign",
			"pred_pre": "change",
			"flu_rt":   "change_rate",
			"trde_qty": "volume",
		},
	},

	"ka90001": {
		Name:      "theme_group_info",
		ListField: "thema_grp",
		ListName:  "theme_groups",
		Row: map[string]string{
			"thema_grp_cd":   "theme_group_code",
			"thema_nm":       "theme_name",
			"stk_num":        "stock_count",
			"flu_sig":        "change_sign",
			"flu_rt":         "change_rate",
			"rising_stk_num": "rising_stock_count",
			"fall_stk_num":   "falling_stock_count",
			"dt_prft_rt":     "period_profit_rate",
			"main_stk":       "main_stock",
		},
	},
	"ka90002": {
		Name:      "theme_component_stocks",
		Scalars:   map[string]string{"flu_rt": "change_rate", "dt_prft_rt": "period_profit_rate"},
		ListField: "thema_comp_stk",
		ListName:  "entries",
		Row:       rankingRow,
	},
}
