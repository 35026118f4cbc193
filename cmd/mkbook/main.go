package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fgantt/shogune/book"
	"github.com/fgantt/shogune/kif"
	"github.com/fgantt/shogune/shogi"
)

func main() {
	dir := flag.String("dir", "", "directory of KIF records (required)")
	out := flag.String("out", "book.bin", "output book file")
	maxPly := flag.Int("maxply", 30, "keep the first N plies of each game")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "-dir is required")
		os.Exit(2)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", *dir, err)
		os.Exit(1)
	}

	var games [][]shogi.Move
	skipped := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".kif") {
			continue
		}
		game, err := kif.ParseFile(filepath.Join(*dir, e.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", e.Name(), err)
			skipped++
			continue
		}
		games = append(games, game.Moves)
	}

	if len(games) == 0 {
		fmt.Fprintln(os.Stderr, "no parseable KIF records found")
		os.Exit(1)
	}

	bk := book.FromGames(games, *maxPly)
	if err := bk.Save(*out); err != nil {
		fmt.Fprintf(os.Stderr, "saving book: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("built %s: %d games (%d skipped), %d positions\n",
		*out, len(games), skipped, bk.Len())
}
