package eval

// Piece-square tables in centipawns, from white's perspective with the eighth
// rank first. Black mirrors the rank.

var knightTable = &[64]Score{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopTable = &[64]Score{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// Pawns are rewarded for advancing, with the center files slightly
// discouraged from lingering on the second and third ranks.
var pawnTable = &[64]Score{
	0, 0, 0, 0, 0, 0, 0, 0,
	30, 30, 30, 30, 30, 30, 30, 30,
	20, 20, 22, 24, 24, 22, 20, 20,
	12, 12, 14, 20, 20, 14, 12, 12,
	8, 8, 10, 16, 16, 10, 8, 8,
	4, 4, 4, -2, -2, 4, 4, 4,
	0, 0, 0, -6, -6, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// The king prefers the sheltered back-rank squares until the endgame.
var kingTable = &[64]Score{
	-40, -40, -40, -40, -40, -40, -40, -40,
	-40, -40, -40, -40, -40, -40, -40, -40,
	-30, -30, -30, -30, -30, -30, -30, -30,
	-30, -30, -30, -30, -30, -30, -30, -30,
	-20, -20, -20, -20, -20, -20, -20, -20,
	-10, -15, -15, -20, -20, -15, -15, -10,
	5, 5, -5, -5, -5, -5, 5, 5,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgameTable = &[64]Score{
	-30, -20, -10, -10, -10, -10, -20, -30,
	-20, -10, 0, 0, 0, 0, -10, -20,
	-10, 0, 10, 15, 15, 10, 0, -10,
	-10, 0, 15, 20, 20, 15, 0, -10,
	-10, 0, 15, 20, 20, 15, 0, -10,
	-10, 0, 10, 15, 15, 10, 0, -10,
	-20, -10, 0, 0, 0, 0, -10, -20,
	-30, -20, -10, -10, -10, -10, -20, -30,
}
