package marketdata

import "fmt"

// BookAction is the kind of order book mutation a delta applies.
type BookAction int

const (
	BookActionAdd BookAction = iota + 1
	BookActionUpdate
	BookActionDelete
	BookActionClear
)

func (a BookAction) String() string {
	switch a {
	case BookActionAdd:
		return "ADD"
	case BookActionUpdate:
		return "UPDATE"
	case BookActionDelete:
		return "DELETE"
	case BookActionClear:
		return "CLEAR"
	default:
		return fmt.Sprintf("BookAction(%d)", int(a))
	}
}

// ParseBookAction converts the wire string form back to the enum.
func ParseBookAction(s string) (BookAction, error) {
	switch s {
	case "ADD":
		return BookActionAdd, nil
	case "UPDATE":
		return BookActionUpdate, nil
	case "DELETE":
		return BookActionDelete, nil
	case "CLEAR":
		return BookActionClear, nil
	default:
		return 0, fmt.Errorf("invalid book action %q", s)
	}
}

// OrderSide is the side of the book an order rests on.
type OrderSide int

const (
	NoOrderSide OrderSide = iota
	OrderSideBuy
	OrderSideSell
)

func (s OrderSide) String() string {
	switch s {
	case NoOrderSide:
		return "NO_ORDER_SIDE"
	case OrderSideBuy:
		return "BUY"
	case OrderSideSell:
		return "SELL"
	default:
		return fmt.Sprintf("OrderSide(%d)", int(s))
	}
}

// ParseOrderSide converts the wire string form back to the enum.
func ParseOrderSide(s string) (OrderSide, error) {
	switch s {
	case "NO_ORDER_SIDE":
		return NoOrderSide, nil
	case "BUY":
		return OrderSideBuy, nil
	case "SELL":
		return OrderSideSell, nil
	default:
		return 0, fmt.Errorf("invalid order side %q", s)
	}
}

// BookType is the granularity of the order book a delta belongs to.
type BookType int

const (
	// BookTypeL1 is top-of-book only.
	BookTypeL1 BookType = iota + 1
	// BookTypeL2 is market-by-price aggregated depth.
	BookTypeL2
	// BookTypeL3 is market-by-order full depth.
	BookTypeL3
)

func (t BookType) String() string {
	switch t {
	case BookTypeL1:
		return "L1_MBP"
	case BookTypeL2:
		return "L2_MBP"
	case BookTypeL3:
		return "L3_MBO"
	default:
		return fmt.Sprintf("BookType(%d)", int(t))
	}
}

// ParseBookType converts the wire string form back to the enum.
func ParseBookType(s string) (BookType, error) {
	switch s {
	case "L1_MBP":
		return BookTypeL1, nil
	case "L2_MBP":
		return BookTypeL2, nil
	case "L3_MBO":
		return BookTypeL3, nil
	default:
		return 0, fmt.Errorf("invalid book type %q", s)
	}
}

// AggressorSide is the side of the aggressing order in a trade.
type AggressorSide int

const (
	NoAggressor AggressorSide = iota
	AggressorSideBuyer
	AggressorSideSeller
)

func (s AggressorSide) String() string {
	switch s {
	case NoAggressor:
		return "NO_AGGRESSOR"
	case AggressorSideBuyer:
		return "BUYER"
	case AggressorSideSeller:
		return "SELLER"
	default:
		return fmt.Sprintf("AggressorSide(%d)", int(s))
	}
}

// ParseAggressorSide converts the wire string form back to the enum.
func ParseAggressorSide(s string) (AggressorSide, error) {
	switch s {
	case "NO_AGGRESSOR":
		return NoAggressor, nil
	case "BUYER":
		return AggressorSideBuyer, nil
	case "SELLER":
		return AggressorSideSeller, nil
	default:
		return 0, fmt.Errorf("invalid aggressor side %q", s)
	}
}
