package evaluator

// Protocol hook names. User classes take part in an operator by defining a
// method with the matching name.
const (
	DunderAdd      = "__add__"
	DunderSub      = "__sub__"
	DunderMul      = "__mul__"
	DunderDiv      = "__div__"
	DunderMod      = "__mod__"
	DunderEq       = "__is_eq__"
	DunderLt       = "__lt__"
	DunderGt       = "__gt__"
	DunderLtEq     = "__lt_eq__"
	DunderGtEq     = "__gt_eq__"
	DunderNeg      = "__neg__"
	DunderPos      = "__pos__"
	DunderNot      = "__not__"
	DunderAnd      = "__and__"
	DunderOr       = "__or__"
	DunderBool     = "__bool__"
	DunderRepr     = "__repr__"
	DunderIter     = "__iter__"
	DunderNext     = "__next__"
	DunderLen      = "__len__"
	DunderCall     = "__call__"
	DunderGetIndex = "__get_index__"
	DunderSetIndex = "__set_index__"
)

// infixDunders maps binary operators to their hook. == and != are handled
// by Evaluator.equals, && and || short-circuit.
var infixDunders = map[string]string{
	"+":  DunderAdd,
	"-":  DunderSub,
	"*":  DunderMul,
	"/":  DunderDiv,
	"%":  DunderMod,
	"<":  DunderLt,
	">":  DunderGt,
	"<=": DunderLtEq,
	">=": DunderGtEq,
	"==": DunderEq,
	"!=": DunderEq,
}

var prefixDunders = map[string]string{
	"-": DunderNeg,
	"+": DunderPos,
	"!": DunderNot,
}

// operatorSymbols is the reverse of infixDunders for error messages.
var operatorSymbols = map[string]string{
	DunderAdd:  "+",
	DunderSub:  "-",
	DunderMul:  "*",
	DunderDiv:  "/",
	DunderMod:  "%",
	DunderLt:   "<",
	DunderGt:   ">",
	DunderLtEq: "<=",
	DunderGtEq: ">=",
	DunderEq:   "==",
}
