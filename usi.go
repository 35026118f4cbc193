package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fgantt/shogune/book"
	"github.com/fgantt/shogune/engine"
	"github.com/fgantt/shogune/shogi"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	usiLoop(log)
}

// usiState is everything the protocol loop carries between commands.
type usiState struct {
	cfg      engine.Config
	bookPath string
	eng      *engine.Engine
	log      zerolog.Logger

	board   *shogi.Board
	history []uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func usiLoop(log zerolog.Logger) {
	st := &usiState{
		cfg:   engine.DefaultConfig(),
		log:   log,
		board: shogi.MustParseSFEN(shogi.StartPos),
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		switch tokens[0] {
		case "usi":
			fmt.Println("id name Shogune")
			fmt.Println("id author fgantt")
			fmt.Printf("option name USI_Hash type spin default %d min 1 max 16384\n", st.cfg.TTSizeMB)
			fmt.Printf("option name Threads type spin default %d min 1 max 32\n", st.cfg.Threads)
			fmt.Println("option name BookFile type string default <empty>")
			fmt.Println("usiok")
		case "isready":
			st.ensureEngine()
			fmt.Println("readyok")
		case "setoption":
			st.setOption(tokens[1:])
		case "usinewgame":
			if st.eng != nil {
				st.eng.NewGame()
			}
		case "position":
			st.stopSearch()
			if err := st.setPosition(tokens[1:]); err != nil {
				log.Error().Err(err).Msg("bad position command")
			}
		case "go":
			st.stopSearch()
			st.ensureEngine()
			st.startSearch(tokens[1:])
		case "stop":
			st.stopSearch()
		case "quit":
			st.stopSearch()
			return
		}
	}
}

// ensureEngine builds the engine lazily so options set before the first
// isready take effect.
func (st *usiState) ensureEngine() {
	if st.eng != nil {
		return
	}
	st.eng = engine.NewEngine(st.cfg, st.log)
	if st.bookPath != "" {
		bk, err := book.Load(st.bookPath)
		if err != nil {
			st.log.Warn().Err(err).Str("path", st.bookPath).Msg("book not loaded")
		} else {
			st.eng.SetOracle(bk)
			st.log.Info().Int("positions", bk.Len()).Msg("book loaded")
		}
	}
}

func (st *usiState) setOption(tokens []string) {
	var name, value string
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "name":
			if i+1 < len(tokens) {
				name = tokens[i+1]
			}
		case "value":
			if i+1 < len(tokens) {
				value = strings.Join(tokens[i+1:], " ")
			}
		}
	}
	switch name {
	case "USI_Hash":
		if n, err := strconv.Atoi(value); err == nil {
			st.cfg.TTSizeMB = n
			st.eng = nil
		}
	case "Threads":
		if n, err := strconv.Atoi(value); err == nil {
			st.cfg.Threads = n
			st.eng = nil
		}
	case "BookFile":
		if value == "<empty>" {
			value = ""
		}
		st.bookPath = value
		st.eng = nil
	}
}

func (st *usiState) setPosition(tokens []string) error {
	var board *shogi.Board
	rest := tokens
	switch {
	case len(tokens) > 0 && tokens[0] == "startpos":
		board = shogi.MustParseSFEN(shogi.StartPos)
		rest = tokens[1:]
	case len(tokens) > 0 && tokens[0] == "sfen":
		end := len(tokens)
		for i, t := range tokens {
			if t == "moves" {
				end = i
				break
			}
		}
		var err error
		board, err = shogi.ParseSFEN(strings.Join(tokens[1:end], " "))
		if err != nil {
			return err
		}
		rest = tokens[end:]
	default:
		return fmt.Errorf("position: expected startpos or sfen")
	}

	var history []uint64
	if len(rest) > 0 && rest[0] == "moves" {
		for _, str := range rest[1:] {
			parsed, err := shogi.ParseMove(str)
			if err != nil {
				return err
			}
			matched := shogi.NullMove
			for _, legal := range board.GenerateLegalMoves() {
				if legal.SameAction(parsed) {
					matched = legal
					break
				}
			}
			if matched == shogi.NullMove {
				return fmt.Errorf("position: illegal move %q", str)
			}
			history = append(history, board.Hash())
			board.Apply(matched)
		}
	}

	st.board = board
	st.history = history
	return nil
}

func (st *usiState) startSearch(tokens []string) {
	limits := parseGoLimits(tokens, st.board.SideToMove())

	ctx, cancel := context.WithCancel(context.Background())
	st.cancel = cancel

	board := st.board.Clone()
	history := append([]uint64(nil), st.history...)

	st.wg.Add(1)
	go func() {
		defer st.wg.Done()
		result, err := st.eng.Search(ctx, board, history, limits, printInfo)
		if err != nil {
			st.log.Error().Err(err).Msg("search failed")
			fmt.Println("bestmove resign")
			return
		}
		fmt.Println("bestmove", result.BestMove.String())
	}()
}

func (st *usiState) stopSearch() {
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
	st.wg.Wait()
}

func parseGoLimits(tokens []string, stm shogi.Color) engine.Limits {
	var limits engine.Limits
	var btime, wtime int64
	for i := 0; i < len(tokens); i++ {
		arg := func() int64 {
			if i+1 < len(tokens) {
				n, _ := strconv.ParseInt(tokens[i+1], 10, 64)
				return n
			}
			return 0
		}
		switch tokens[i] {
		case "btime":
			btime = arg()
		case "wtime":
			wtime = arg()
		case "byoyomi":
			limits.ByoyomiMs = arg()
		case "movetime":
			limits.MoveTime = time.Duration(arg()) * time.Millisecond
		case "depth":
			limits.Depth = int(arg())
		case "infinite":
			limits.Infinite = true
		}
	}
	if stm == shogi.Black {
		limits.RemainingMs = btime
	} else {
		limits.RemainingMs = wtime
	}
	return limits
}

func printInfo(r engine.DepthResult) {
	ms := r.Elapsed.Milliseconds()
	if ms == 0 {
		ms = 1
	}
	nps := r.Nodes * 1000 / uint64(ms)

	score := "cp " + strconv.FormatInt(int64(r.Score), 10)
	if r.Score > engine.Checkmate {
		score = "mate " + strconv.FormatInt(int64(engine.MaxScore-r.Score), 10)
	} else if r.Score < -engine.Checkmate {
		score = "mate -" + strconv.FormatInt(int64(engine.MaxScore+r.Score), 10)
	}

	pv := make([]string, len(r.PV))
	for i, m := range r.PV {
		pv[i] = m.String()
	}

	fmt.Println("info depth", r.Depth,
		"score", score,
		"nodes", r.Nodes,
		"time", ms,
		"nps", nps,
		"pv", strings.Join(pv, " "))
}
