package coordinator

import (
	"regexp"
	"strings"
	"time"
)

// kst anchors the date-typed defaults to the exchange's trading day.
var kst = time.FixedZone("KST", 9*60*60)

const dateFormat = "20060102"

// defaultParams carries the baseline parameter set per endpoint: whole
// market, no price or credit filters, all exchanges. Values here satisfy
// every required parameter of the endpoint except the per-query ones
// (stock code, dates) injected by buildParams.
var defaultParams = map[string]map[string]string{
	"kt00004": {"qry_tp": "0", "dmst_stex_tp": "KRX"},

	"ka10001": {},
	"ka10101": {"mrkt_tp": "0"},

	"ka10081": {"upd_stkpc_tp": "1"},
	"ka10080": {"tic_scope": "5", "upd_stkpc_tp": "1"},

	"ka10045": {"orgn_prsm_unp_tp": "1", "for_prsm_unp_tp": "1"},
	"ka10014": {"tm_tp": "1"},

	"ka10023": {"mrkt_tp": "000", "sort_tp": "1", "tm_tp": "2", "trde_qty_tp": "5", "stk_cnd": "0", "pric_tp": "0", "stex_tp": "3"},
	"ka10030": {"mrkt_tp": "000", "sort_tp": "1", "mang_stk_incls": "0", "crd_tp": "0", "trde_qty_tp": "0", "pric_tp": "0", "trde_prica_tp": "0", "mrkt_open_tp": "0", "stex_tp": "3"},
	"ka10032": {"mrkt_tp": "000", "mang_stk_incls": "1", "stex_tp": "3"},
	"ka10027": {"mrkt_tp": "000", "sort_tp": "1", "trde_qty_cnd": "0000", "stk_cnd": "0", "crd_cnd": "0", "updown_incls": "1", "pric_cnd": "0", "trde_prica_cnd": "0", "stex_tp": "3"},
	"ka10029": {"mrkt_tp": "000", "sort_tp": "1", "trde_qty_cnd": "0", "stk_cnd": "0", "crd_cnd": "0", "pric_cnd": "0", "stex_tp": "3"},

	"ka10131": {"mrkt_tp": "001", "netslmt_tp": "2", "stk_inds_tp": "0", "amt_qty_tp": "0", "stex_tp": "1"},
	"ka90009": {"mrkt_tp": "000", "amt_qty_tp": "1", "qry_dt_tp": "1", "stex_tp": "1"},
	"ka10035": {"mrkt_tp": "000", "trde_tp": "2", "base_dt_tp": "1", "stex_tp": "1"},
	"ka10044": {"trde_tp": "1", "mrkt_tp": "001", "stex_tp": "1"},
	"ka10065": {"trde_tp": "1", "mrkt_tp": "000", "orgn_tp": "9000"},

	"ka20001": {"mrkt_tp": "0", "inds_cd": "001"},
	"ka20002": {"mrkt_tp": "0", "inds_cd": "001", "stex_tp": "1"},
	"ka20003": {"inds_cd": "001"},

	"ka90001": {"qry_tp": "0", "date_tp": "10", "flu_pl_amt_tp": "1", "stex_tp": "1"},
	"ka90002": {"thema_grp_cd": "100", "stex_tp": "1"},
}

// buildParams merges the endpoint's defaults with the per-query values:
// stock code and the date-typed parameters anchored to today.
func buildParams(opcode, stockCode string) map[string]string {
	params := make(map[string]string)
	for k, v := range defaultParams[opcode] {
		params[k] = v
	}

	today := time.Now().In(kst).Format(dateFormat)
	monthAgo := time.Now().In(kst).AddDate(0, -1, 0).Format(dateFormat)

	switch opcode {
	case "ka10001", "ka10080":
		params["stk_cd"] = stockCode
	case "ka10081":
		params["stk_cd"] = stockCode
		params["base_dt"] = today
	case "ka10045", "ka10014":
		params["stk_cd"] = stockCode
		params["strt_dt"] = monthAgo
		params["end_dt"] = today
	case "ka10131":
		params["dt"] = today
	case "ka10044":
		params["strt_dt"] = monthAgo
		params["end_dt"] = today
	}

	return params
}

// codePattern matches a bare 6-digit instrument code anywhere in the query.
var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

// wellKnown maps a handful of frequently asked names to codes so a query
// naming the stock in words still routes to brokerage data.
var wellKnown = map[string]string{
	"삼성전자":     "005930",
	"sk하이닉스":   "000660",
	"lg에너지솔루션": "373220",
	"현대차":      "005380",
	"naver":    "035420",
	"네이버":      "035420",
	"카카오":      "035720",
	"셀트리온":     "068270",
}

// extractStockCode pulls an instrument code out of the query text, either a
// bare 6-digit code or a well-known company name.
func extractStockCode(query string) (string, bool) {
	if m := codePattern.FindStringSubmatch(query); m != nil {
		return m[1], true
	}
	lowered := strings.ToLower(query)
	for name, code := range wellKnown {
		if strings.Contains(lowered, name) {
			return code, true
		}
	}
	return "", false
}
