package lang

//go:generate go tool stringer --linecomment --type UnaryOp,BinaryOp --output op_string.go

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	Not UnaryOp = iota // !
	Pos                // +
	Neg                // -
)

// BinaryOp is an infix operator.
type BinaryOp int

const (
	Pow    BinaryOp = iota // **
	Mul                    // *
	Div                    // /
	Mod                    // %
	Add                    // +
	Sub                    // -
	Shl                    // <<
	Shr                    // >>
	Lt                     // <
	Le                     // <=
	Gt                     // >
	Ge                     // >=
	Eq                     // ==
	Ne                     // !=
	BitAnd                 // &
	BitXor                 // ^
	BitOr                  // |
	And                    // &&
	Or                     // ||
)

// binaryOps lists operator spellings longest first so that a scan can take
// the first prefix match.
var binaryOps = []BinaryOp{
	Pow, Shl, Shr, Le, Ge, Eq, Ne, And, Or,
	Mul, Div, Mod, Add, Sub, Lt, Gt, BitAnd, BitXor, BitOr,
}

// Precedence returns the binding strength of op; higher binds tighter.
func (op BinaryOp) Precedence() int {
	switch op {
	case Or:
		return 1
	case And:
		return 2
	case BitOr:
		return 3
	case BitXor:
		return 4
	case BitAnd:
		return 5
	case Eq, Ne:
		return 6
	case Lt, Le, Gt, Ge:
		return 7
	case Shl, Shr:
		return 8
	case Add, Sub:
		return 9
	case Mul, Div, Mod:
		return 10
	case Pow:
		return 11
	}

	return 0
}

// RightAssoc reports whether op groups to the right.
func (op BinaryOp) RightAssoc() bool { return op == Pow }
