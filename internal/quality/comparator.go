package quality

var comparatorSymbols = map[string]string{
	"GT": ">",
	"LT": "<",
	"GE": ">=",
	"LE": "<=",
	"EQ": "=",
	"NE": "!=",
}

// expectedOperators maps the failing comparator to the one a passing value satisfies.
var expectedOperators = map[string]string{
	">":  "<=",
	"<":  ">=",
	">=": "<",
	"<=": ">",
	"=":  "!=",
	"!=": "=",
}

// ComparatorSymbol resolves a quality gate comparator abbreviation (GT, LT,
// GE, LE, EQ, NE) to its symbol. Unknown values are returned unchanged.
func ComparatorSymbol(abbrev string) string {
	if s, ok := comparatorSymbols[abbrev]; ok {
		return s
	}
	return abbrev
}

// ExpectedOperator returns the logical complement of a comparator symbol.
// Unknown values are returned unchanged.
func ExpectedOperator(symbol string) string {
	if s, ok := expectedOperators[symbol]; ok {
		return s
	}
	return symbol
}
