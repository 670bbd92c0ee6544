package board

// Result represents the result of a game, if any. Resignations are adjudicated
// externally by the protocol driver and take priority over rule-derived
// results.
type Result uint8

const (
	NoResult Result = iota
	DrawByStalemate
	DrawByInsufficientMaterial
	CheckmateByWhite
	CheckmateByBlack
	ResignationByWhite
	ResignationByBlack
)

func (r Result) String() string {
	switch r {
	case NoResult:
		return "none"
	case DrawByStalemate:
		return "stalemate"
	case DrawByInsufficientMaterial:
		return "insufficient material"
	case CheckmateByWhite:
		return "white mates"
	case CheckmateByBlack:
		return "black mates"
	case ResignationByWhite:
		return "white resigns"
	case ResignationByBlack:
		return "black resigns"
	default:
		return "?"
	}
}
