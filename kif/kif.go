// Package kif reads KIF game records, the common Japanese shogi notation.
// KIF files are traditionally Shift-JIS encoded; moves are resolved against
// legal move generation while replaying the game, so the result is a fully
// specified move sequence.
package kif

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/fgantt/shogune/shogi"
)

// Game is one parsed record.
type Game struct {
	Headers map[string]string
	Moves   []shogi.Move
}

var errBadKIF = errors.New("kif: malformed move")

var pieceNames = map[string]shogi.PieceType{
	"歩":  shogi.Pawn,
	"香":  shogi.Lance,
	"桂":  shogi.Knight,
	"銀":  shogi.Silver,
	"金":  shogi.Gold,
	"角":  shogi.Bishop,
	"飛":  shogi.Rook,
	"玉":  shogi.King,
	"王":  shogi.King,
	"と":  shogi.ProPawn,
	"成香": shogi.ProLance,
	"成桂": shogi.ProKnight,
	"成銀": shogi.ProSilver,
	"馬":  shogi.Horse,
	"竜":  shogi.Dragon,
	"龍":  shogi.Dragon,
}

// terminal markers that end the move list.
var terminals = []string{"投了", "中断", "千日手", "詰み", "持将棋", "切れ負け", "反則", "入玉勝ち"}

// ParseFile reads a Shift-JIS encoded KIF file.
func ParseFile(path string) (*Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kif: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseShiftJIS(f)
}

// ParseShiftJIS decodes Shift-JIS input and parses it.
func ParseShiftJIS(r io.Reader) (*Game, error) {
	return Parse(transform.NewReader(r, japanese.ShiftJIS.NewDecoder()))
}

// Parse reads an already UTF-8 record.
func Parse(r io.Reader) (*Game, error) {
	game := &Game{Headers: make(map[string]string)}
	board := shogi.MustParseSFEN(shogi.StartPos)
	prevDest := shogi.NoSquare

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "*") {
			continue
		}
		if key, val, ok := strings.Cut(line, "："); ok && !isMoveLine(line) {
			game.Headers[key] = val
			continue
		}
		if !isMoveLine(line) {
			continue
		}

		text := moveText(line)
		if text == "" {
			continue
		}
		if isTerminal(text) {
			break
		}

		move, dest, err := resolveMove(board, text, prevDest)
		if err != nil {
			return nil, fmt.Errorf("%w (line %q)", err, line)
		}
		game.Moves = append(game.Moves, move)
		board.Apply(move)
		prevDest = dest
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("kif: read: %w", err)
	}
	return game, nil
}

// isMoveLine reports whether the line starts with a move number.
func isMoveLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return false
	}
	for _, c := range fields[0] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// moveText strips the move number and the trailing clock annotation.
func moveText(line string) string {
	fields := strings.Fields(line)
	text := fields[1]
	// "同" is sometimes separated from the piece by a full-width space.
	if text == "同" && len(fields) > 2 {
		text += fields[2]
	}
	if i := strings.IndexByte(text, '('); i > 0 && strings.ContainsAny(text[i:], "0123456789") {
		// keep the source suffix, drop anything after the closing paren
		if j := strings.IndexByte(text, ')'); j > i {
			text = text[:j+1]
		}
	}
	return text
}

func isTerminal(text string) bool {
	for _, t := range terminals {
		if strings.HasPrefix(text, t) {
			return true
		}
	}
	return false
}

func parseDigit(r rune) (int, bool) {
	switch {
	case r >= '1' && r <= '9':
		return int(r - '0'), true
	case r >= '１' && r <= '９':
		return int(r - '１' + 1), true
	}
	return 0, false
}

var kanjiDigits = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

// resolveMove turns one KIF move description into a fully specified legal
// move on the current board.
func resolveMove(board *shogi.Board, text string, prevDest shogi.Square) (shogi.Move, shogi.Square, error) {
	runes := []rune(text)
	i := 0

	var dest shogi.Square
	if runes[i] == '同' {
		if prevDest == shogi.NoSquare {
			return shogi.NullMove, shogi.NoSquare, fmt.Errorf("%w: 同 with no previous move", errBadKIF)
		}
		dest = prevDest
		i++
		if i < len(runes) && (runes[i] == '　' || runes[i] == ' ') {
			i++
		}
	} else {
		if i+1 >= len(runes) {
			return shogi.NullMove, shogi.NoSquare, fmt.Errorf("%w: %q", errBadKIF, text)
		}
		file, ok1 := parseDigit(runes[i])
		rank, ok2 := kanjiDigits[runes[i+1]]
		if !ok1 || !ok2 {
			return shogi.NullMove, shogi.NoSquare, fmt.Errorf("%w: bad destination in %q", errBadKIF, text)
		}
		dest = shogi.MakeSquare(9-file, rank-1)
		i += 2
	}

	// Piece name, possibly two runes (成香, 成桂, 成銀).
	if i >= len(runes) {
		return shogi.NullMove, shogi.NoSquare, fmt.Errorf("%w: %q", errBadKIF, text)
	}
	var pt shogi.PieceType
	if runes[i] == '成' && i+1 < len(runes) {
		if t, ok := pieceNames[string(runes[i:i+2])]; ok {
			pt = t
			i += 2
		}
	}
	if pt == shogi.NoPieceType {
		t, ok := pieceNames[string(runes[i])]
		if !ok {
			return shogi.NullMove, shogi.NoSquare, fmt.Errorf("%w: unknown piece in %q", errBadKIF, text)
		}
		pt = t
		i++
	}

	promote := false
	drop := false
	for i < len(runes) {
		switch runes[i] {
		case '成':
			promote = true
			i++
		case '不': // 不成
			i = len(runes)
		case '打':
			drop = true
			i++
		case '(':
			// handled below
			i = len(runes)
		default:
			i = len(runes)
		}
	}

	from := shogi.NoSquare
	if j := strings.IndexByte(text, '('); j >= 0 {
		src := []rune(text[j+1:])
		if len(src) >= 2 {
			f, ok1 := parseDigit(src[0])
			r, ok2 := parseDigit(src[1])
			if ok1 && ok2 {
				from = shogi.MakeSquare(9-f, r-1)
			}
		}
	}

	legalMoves := board.GenerateLegalMoves()
	for _, legal := range legalMoves {
		if legal.To() != dest {
			continue
		}
		if drop || legal.IsDrop() {
			if drop && legal.IsDrop() && legal.PieceType() == pt {
				return legal, dest, nil
			}
			continue
		}
		if legal.Promotes() != promote {
			continue
		}
		if from != shogi.NoSquare && legal.From() != from {
			continue
		}
		if legal.PieceType() != pt {
			continue
		}
		return legal, dest, nil
	}
	// 打 is omitted when no board piece of the type can reach the square,
	// leaving the drop as the only reading.
	if !drop && from == shogi.NoSquare && !promote {
		for _, legal := range legalMoves {
			if legal.IsDrop() && legal.To() == dest && legal.PieceType() == pt {
				return legal, dest, nil
			}
		}
	}
	return shogi.NullMove, shogi.NoSquare, fmt.Errorf("%w: no legal move matches %q", errBadKIF, text)
}
