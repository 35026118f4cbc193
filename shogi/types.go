package shogi

// Color identifies a side. Black (sente) moves first and advances toward
// rank 'a'; White (gote) advances toward rank 'i'.
type Color uint8

const (
	Black Color = iota
	White
)

func (c Color) Opponent() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == Black {
		return "b"
	}
	return "w"
}

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Lance
	Knight
	Silver
	Gold
	Bishop
	Rook
	King
	ProPawn
	ProLance
	ProKnight
	ProSilver
	Horse
	Dragon
)

const PieceTypeCount = 15

var promotions = [PieceTypeCount]PieceType{
	Pawn:   ProPawn,
	Lance:  ProLance,
	Knight: ProKnight,
	Silver: ProSilver,
	Bishop: Horse,
	Rook:   Dragon,
}

var demotions = [PieceTypeCount]PieceType{
	ProPawn:   Pawn,
	ProLance:  Lance,
	ProKnight: Knight,
	ProSilver: Silver,
	Horse:     Bishop,
	Dragon:    Rook,
}

// CanPromote reports whether the piece type has a promoted form.
func (pt PieceType) CanPromote() bool {
	return promotions[pt] != NoPieceType
}

func (pt PieceType) Promoted() PieceType {
	if p := promotions[pt]; p != NoPieceType {
		return p
	}
	return pt
}

// Demoted maps a promoted type back to its base type; hand inventories only
// ever hold base types.
func (pt PieceType) Demoted() PieceType {
	if d := demotions[pt]; d != NoPieceType {
		return d
	}
	return pt
}

func (pt PieceType) IsPromoted() bool {
	return demotions[pt] != NoPieceType
}

var pieceTypeLetters = [PieceTypeCount]string{
	Pawn: "P", Lance: "L", Knight: "N", Silver: "S", Gold: "G",
	Bishop: "B", Rook: "R", King: "K",
	ProPawn: "+P", ProLance: "+L", ProKnight: "+N", ProSilver: "+S",
	Horse: "+B", Dragon: "+R",
}

func (pt PieceType) String() string {
	if pt == NoPieceType {
		return "-"
	}
	return pieceTypeLetters[pt]
}

// handIndex maps a (demoted) piece type to its slot in a hand inventory,
// -1 for kings and NoPieceType.
var handIndex = [PieceTypeCount]int8{
	NoPieceType: -1,
	Pawn:        0,
	Lance:       1,
	Knight:      2,
	Silver:      3,
	Gold:        4,
	Bishop:      5,
	Rook:        6,
	King:        -1,
	ProPawn:     0,
	ProLance:    1,
	ProKnight:   2,
	ProSilver:   3,
	Horse:       5,
	Dragon:      6,
}

// HandSize is the number of distinct droppable piece types.
const HandSize = 7

// handOrder is the SFEN printing order for hand pieces.
var handOrder = [HandSize]PieceType{Rook, Bishop, Gold, Silver, Knight, Lance, Pawn}

// handPieceTypes maps a hand slot back to its piece type.
var handPieceTypes = [HandSize]PieceType{Pawn, Lance, Knight, Silver, Gold, Bishop, Rook}

// Piece packs a color and a piece type: bits 0-3 type, bit 4 color.
type Piece uint8

const NoPiece Piece = 0

func MakePiece(c Color, pt PieceType) Piece {
	return Piece(pt) | Piece(c)<<4
}

func (p Piece) Type() PieceType {
	return PieceType(p & 0x0F)
}

// Color is only meaningful for p != NoPiece.
func (p Piece) Color() Color {
	return Color(p >> 4)
}

func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	s := p.Type().String()
	if p.Color() == White {
		return lower(s)
	}
	return s
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// Square indexes the 9x9 board as rank*9+file. Rank 0 is the top row of an
// SFEN diagram (rank 'a', White's back rank); file 0 is the leftmost column
// (shogi file 9). Black moves toward lower ranks.
type Square int8

const (
	SquareCount       = 81
	NoSquare   Square = -1
)

func MakeSquare(file, rank int) Square {
	return Square(rank*9 + file)
}

func (s Square) File() int {
	return int(s) % 9
}

func (s Square) Rank() int {
	return int(s) / 9
}

// String renders the square in USI coordinates: file digit counted from the
// right, rank letter a-i from the top.
func (s Square) String() string {
	return string([]byte{byte('9' - s.File()), byte('a' + s.Rank())})
}

// ParseSquare parses a USI coordinate such as "7g".
func ParseSquare(str string) (Square, bool) {
	if len(str) != 2 || str[0] < '1' || str[0] > '9' || str[1] < 'a' || str[1] > 'i' {
		return NoSquare, false
	}
	file := int('9' - str[0])
	rank := int(str[1] - 'a')
	return MakeSquare(file, rank), true
}

// promotionZone reports whether rank lies in c's promotion zone.
func promotionZone(c Color, rank int) bool {
	if c == Black {
		return rank <= 2
	}
	return rank >= 6
}

// lastRank / lastTwoRanks detect squares from which an unpromoted pawn,
// lance or knight could never move again (forced promotion, illegal drops).
func lastRank(c Color, rank int) bool {
	if c == Black {
		return rank == 0
	}
	return rank == 8
}

func lastTwoRanks(c Color, rank int) bool {
	if c == Black {
		return rank <= 1
	}
	return rank >= 7
}
