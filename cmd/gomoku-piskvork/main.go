// Command gomoku-piskvork is the process entry point: a thin wire-protocol
// driver over internal/orchestrator, grounded on the teacher's
// internal/uci/uci.go bufio.Scanner+switch command loop (spec.md §6).
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hailam/gomoku/internal/board"
	"github.com/hailam/gomoku/internal/book"
	"github.com/hailam/gomoku/internal/identity"
	"github.com/hailam/gomoku/internal/orchestrator"
	"github.com/hailam/gomoku/internal/telemetry"
)

// collaborator is the subset of orchestrator.Engine the driver depends
// on, spec.md §9's Collaborator capability set.
type collaborator interface {
	InitializeBoard(w, h int) error
	OpeningMove() (board.Point, error)
	ProcessOpponentMove(x, y int) error
	BestMove() (board.Point, error)
	ReplaceBoard(stones []book.Stone) error
	About() identity.Info
}

func main() {
	telDir := os.Getenv("GOMOKU_TELEMETRY_DIR")
	var tel *telemetry.Store
	if telDir != "" {
		s, err := telemetry.Open(telDir)
		if err != nil {
			log.Printf("telemetry disabled: %v", err)
		} else {
			tel = s
			defer tel.Close()
		}
	}

	eng := orchestrator.New(orchestrator.DefaultConfig(), tel)
	d := &driver{eng: eng, out: bufio.NewWriter(os.Stdout)}
	defer d.out.Flush()

	code := d.run(os.Stdin)
	d.out.Flush()
	os.Exit(code)
}

// driver owns the command loop; it is parametric over collaborator so it
// never reaches into the engine's internals.
type driver struct {
	eng      collaborator
	out      *bufio.Writer
	hasBoard bool
}

func (d *driver) run(in io.Reader) int {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		switch strings.ToUpper(cmd) {
		case "START":
			d.handleStart(rest)
		case "BEGIN":
			d.handleBegin()
		case "TURN":
			d.handleTurn(rest)
		case "BOARD":
			d.handleBoard(scanner)
		case "ABOUT":
			d.handleAbout()
		case "END":
			return 0
		default:
			// Unknown commands are ignored, per spec.md §6.
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(d.out, "ERROR Parse error: %v\n", err)
		return 1
	}
	return 0
}

func (d *driver) handleStart(rest string) {
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		fmt.Fprintf(d.out, "ERROR Parse error: %v\n", err)
		return
	}
	if err := d.eng.InitializeBoard(n, n); err != nil {
		fmt.Fprintf(d.out, "ERROR %v\n", err)
		return
	}
	d.hasBoard = true
	fmt.Fprintln(d.out, "OK")
}

func (d *driver) handleBegin() {
	if !d.hasBoard {
		fmt.Fprintln(d.out, "ERROR board not initialized")
		return
	}
	mv, err := d.eng.OpeningMove()
	if err != nil {
		fmt.Fprintf(d.out, "ERROR %v\n", err)
		return
	}
	fmt.Fprintf(d.out, "%d,%d\n", mv.X, mv.Y)
}

func (d *driver) handleTurn(rest string) {
	if !d.hasBoard {
		fmt.Fprintln(d.out, "ERROR board not initialized")
		return
	}
	x, y, err := parseCoord(rest)
	if err != nil {
		fmt.Fprintf(d.out, "ERROR Parse error: %v\n", err)
		return
	}
	if err := d.eng.ProcessOpponentMove(x, y); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	mv, err := d.eng.BestMove()
	if err != nil {
		fmt.Fprintf(d.out, "ERROR %v\n", err)
		return
	}
	fmt.Fprintf(d.out, "%d,%d\n", mv.X, mv.Y)
}

func (d *driver) handleBoard(scanner *bufio.Scanner) {
	if !d.hasBoard {
		fmt.Fprintln(d.out, "ERROR board not initialized")
		return
	}
	var stones []book.Stone
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "DONE") {
			break
		}
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			fmt.Fprintf(d.out, "ERROR Parse error: malformed BOARD line %q\n", line)
			return
		}
		x, errX := strconv.Atoi(strings.TrimSpace(fields[0]))
		y, errY := strconv.Atoi(strings.TrimSpace(fields[1]))
		s, errS := strconv.Atoi(strings.TrimSpace(fields[2]))
		if errX != nil || errY != nil || errS != nil || (s != 1 && s != 2) {
			fmt.Fprintf(d.out, "ERROR Parse error: malformed BOARD line %q\n", line)
			return
		}
		player := board.Player1
		if s == 2 {
			player = board.Player2
		}
		stones = append(stones, book.Stone{X: x, Y: y, Player: player})
	}
	if err := d.eng.ReplaceBoard(stones); err != nil {
		fmt.Fprintf(d.out, "ERROR %v\n", err)
		return
	}
	mv, err := d.eng.BestMove()
	if err != nil {
		fmt.Fprintf(d.out, "ERROR %v\n", err)
		return
	}
	fmt.Fprintf(d.out, "%d,%d\n", mv.X, mv.Y)
}

func (d *driver) handleAbout() {
	info := d.eng.About()
	fmt.Fprintln(d.out, info.String())
}

func parseCoord(rest string) (int, int, error) {
	fields := strings.Split(strings.TrimSpace(rest), ",")
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected \"x,y\", got %q", rest)
	}
	x, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
