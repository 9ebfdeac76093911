package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

const (
	hiddenCard = "###"
	blankSlot  = "    "
)

// Driver plays one game on a text terminal.
type Driver struct {
	game   engine.Engine
	in     *bufio.Scanner
	out    io.Writer
	logger *zap.Logger
	color  bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithColor prints red suits in red.
func WithColor(enabled bool) Option {
	return func(d *Driver) {
		d.color = enabled
	}
}

// NewDriver creates a driver reading selections from in and printing to out.
func NewDriver(game engine.Engine, in io.Reader, out io.Writer, logger *zap.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{
		game:   game,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run loops until the table is won, the player quits with q, the input ends
// or ctx is cancelled. Entering u undoes the last action.
func (d *Driver) Run(ctx context.Context) error {
	d.println(d.game.Message())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		PrintPercept(d.out, d.game.Percept(), d.color)
		if d.game.IsWon() {
			d.logger.Info("game won", zap.Int("moves", d.game.TotalMoves()))
			return nil
		}

		actions := d.game.LegalActions()
		d.println("select an action:")
		for i, action := range actions {
			fmt.Fprintf(d.out, "%d %s\n", i, action)
		}

		line, ok := d.readLine()
		if !ok {
			d.logger.Debug("input closed")
			return d.in.Err()
		}

		switch line {
		case "q", "quit":
			d.logger.Info("player quit", zap.Int("moves", d.game.TotalMoves()))
			return nil
		case "u", "undo":
			if _, err := d.game.Undo(); err != nil {
				d.println(err.Error())
				continue
			}
			d.println(d.game.Message())
			continue
		}

		index, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(d.out, "invalid selection %q\n", line)
			continue
		}
		action, err := d.game.ApplyIndex(index)
		if err != nil {
			if errors.Is(err, engine.ErrActionIndex) {
				fmt.Fprintf(d.out, "no action %d\n", index)
				continue
			}
			d.println(d.game.Message())
			continue
		}
		d.logger.Debug("action applied", zap.Stringer("action", action))
		d.println(d.game.Message())
	}
}

func (d *Driver) readLine() (string, bool) {
	for d.in.Scan() {
		if line := strings.TrimSpace(d.in.Text()); line != "" {
			return strings.ToLower(line), true
		}
	}
	return "", false
}

func (d *Driver) println(s string) {
	if s != "" {
		fmt.Fprintln(d.out, s)
	}
}

// CardString renders one percept slot in three columns; hidden faces print
// as ###.
func CardString(c *cards.Card, color bool) string {
	if c == nil {
		return hiddenCard
	}
	s := c.String()
	if color && c.IsRed() {
		return pterm.LightRed(s)
	}
	return s
}

// PrintPercept prints the stock and foundations on the first line, then the
// tableau columns side by side, one row of cards per line.
func PrintPercept(w io.Writer, p engine.Percept, color bool) {
	var b strings.Builder

	if len(p.Stacks[engine.DeckStack]) > 0 {
		b.WriteString(hiddenCard + " ")
	} else {
		b.WriteString(blankSlot)
	}
	if top, ok := p.Top(engine.WasteStack); ok {
		b.WriteString(CardString(top, color) + " ")
	} else {
		b.WriteString(blankSlot)
	}
	b.WriteString("   ")

	var columns [][]*cards.Card
	for _, id := range p.StackIDs() {
		switch id.Zone {
		case engine.ZoneFoundation:
			if top, ok := p.Top(id); ok {
				b.WriteString(" " + CardString(top, color))
			} else {
				b.WriteString(blankSlot)
			}
		case engine.ZoneTableau:
			columns = append(columns, p.Stacks[id])
		}
	}
	b.WriteString("\n")

	for row := 0; ; row++ {
		var line strings.Builder
		has := false
		for _, column := range columns {
			if row < len(column) {
				line.WriteString(CardString(column[row], color) + " ")
				has = true
			} else {
				line.WriteString(blankSlot)
			}
		}
		if !has {
			break
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString("\n")
	}

	io.WriteString(w, b.String())
}
