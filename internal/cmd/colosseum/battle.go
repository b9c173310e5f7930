package colosseum

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/louisbranch/colosseum/internal/arena/domain"
	"github.com/louisbranch/colosseum/internal/arena/event"
	"github.com/louisbranch/colosseum/internal/arena/projection"
	"github.com/louisbranch/colosseum/internal/arena/service"
)

func runBattle(ctx context.Context, svc *service.ArenaService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("battle: an action is required (create, list, watch)")
	}

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("battle create", flag.ContinueOnError)
		run := fs.Bool("run", false, "Run the battle immediately")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		operands := fs.Args()
		if len(operands) != 2 {
			return fmt.Errorf("battle create: two fighter names are required")
		}

		battle, timeline, err := svc.CreateBattle(ctx, operands[0], operands[1], *run)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Created battle %s: %s vs %s\n", battle.ID, battle.FighterA, battle.FighterB)
		if timeline != nil {
			printTimeline(out, battle, timeline)
		}
		return nil

	case "list":
		summaries, err := svc.ListBattles(ctx)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No battles found.")
			return nil
		}
		fmt.Fprintf(out, "%-20s %-30s %s\n", "ID", "Matchup", "Status")
		for _, summary := range summaries {
			status := "Pending"
			if summary.Completed {
				status = "Completed"
			}
			fmt.Fprintf(out, "%-20s %-30s %s\n", summary.ID, summary.Matchup, status)
		}
		return nil

	case "watch":
		if len(args) < 2 {
			return fmt.Errorf("battle watch: a battle id is required")
		}
		battle, timeline, err := svc.WatchBattle(ctx, args[1])
		if err != nil {
			return err
		}
		printTimeline(out, battle, timeline)
		return nil

	default:
		return fmt.Errorf("battle: unknown action %q", args[0])
	}
}

func runClean(ctx context.Context, svc *service.ArenaService, out io.Writer) error {
	if err := svc.ClearBattles(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "All battles removed.")
	return nil
}

// printTimeline renders a replayed battle turn by turn.
func printTimeline(out io.Writer, battle domain.Battle, timeline *projection.Timeline) {
	fmt.Fprintf(out, "=== %s vs %s ===\n", battle.FighterA, battle.FighterB)

	lastTurn := -1
	for _, frame := range timeline.Frames {
		if frame.Turn != lastTurn && frame.Turn > 0 {
			fmt.Fprintf(out, "-- turn %d --\n", frame.Turn)
		}
		lastTurn = frame.Turn

		switch frame.Type {
		case event.TypeInitiativeRolled:
			fmt.Fprintf(out, "%s rolls initiative\n", frame.Actor)
		case event.TypeDamageApplied:
			fmt.Fprintf(out, "%s hits %s for %d (%s at %d HP)\n",
				frame.Actor, frame.Target, frame.Amount, frame.Target, frame.Health[frame.Target])
		case event.TypeHealApplied:
			fmt.Fprintf(out, "%s heals for %d (now %d HP)\n",
				frame.Actor, frame.Amount, frame.Health[frame.Actor])
		}
	}

	switch {
	case timeline.Winner != "":
		fmt.Fprintf(out, "Winner: %s\n", timeline.Winner)
	case timeline.Completed:
		fmt.Fprintln(out, "Draw: turn cap reached with both fighters standing")
	}
}
