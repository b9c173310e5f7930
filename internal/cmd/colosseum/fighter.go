package colosseum

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/colosseum/internal/arena/domain"
	"github.com/louisbranch/colosseum/internal/arena/loader"
	"github.com/louisbranch/colosseum/internal/arena/service"
)

func runFighter(ctx context.Context, svc *service.ArenaService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("fighter: an action is required (create, list, show)")
	}

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("fighter create", flag.ContinueOnError)
		file := fs.String("file", "", "Path to a JSON fighter definition file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *file == "" {
			return fmt.Errorf("fighter create: -file is required")
		}
		return createFighters(ctx, svc, *file, out)

	case "list":
		fighters, err := svc.ListFighters(ctx)
		if err != nil {
			return err
		}
		if len(fighters) == 0 {
			fmt.Fprintln(out, "No fighters found.")
			return nil
		}
		for _, fighter := range fighters {
			fmt.Fprintln(out, fighter.Name())
		}
		return nil

	case "show":
		if len(args) < 2 {
			return fmt.Errorf("fighter show: a name is required")
		}
		fighter, err := svc.GetFighter(ctx, args[1])
		if err != nil {
			return err
		}
		printFighter(out, fighter)
		return nil

	default:
		return fmt.Errorf("fighter: unknown action %q", args[0])
	}
}

func createFighters(ctx context.Context, svc *service.ArenaService, path string, out io.Writer) error {
	fighters, err := loader.LoadFile(path)
	if err != nil {
		return err
	}

	for _, fighter := range fighters {
		behavior := fighter.Behavior()
		if _, err := svc.CreateFighter(ctx, domain.CombatantInput{
			Name:        fighter.Name(),
			Health:      fighter.Health(),
			MaxHealth:   fighter.MaxHealth(),
			AttackMin:   fighter.AttackMin(),
			AttackMax:   fighter.AttackMax(),
			BaseDefense: fighter.BaseDefense(),
			HealDelta:   fighter.HealDelta(),
			Spells:      fighter.Spells(),
			Behavior:    behavior,
		}); err != nil {
			return fmt.Errorf("add fighter %s: %w", fighter.Name(), err)
		}
		fmt.Fprintf(out, "Added fighter %s\n", fighter.Name())
	}
	return nil
}

func printFighter(out io.Writer, fighter *domain.Combatant) {
	fmt.Fprintln(out, fighter.Name())
	fmt.Fprintf(out, "HP: %d/%d | ATK: %d-%d | DEF: %d | Heal: +%d\n",
		fighter.Health(), fighter.MaxHealth(),
		fighter.AttackMin(), fighter.AttackMax(),
		fighter.BaseDefense(), fighter.HealDelta())

	spells := fighter.Spells()
	names := make([]string, 0, len(spells))
	for _, spell := range spells {
		names = append(names, spell.Name)
	}
	if len(names) > 0 {
		fmt.Fprintf(out, "Spells: %s\n", strings.Join(names, ", "))
	}

	behavior := fighter.Behavior()
	fmt.Fprintf(out, "Behavior: attack %.0f%% | heal %.0f%%", behavior.AttackChance*100, behavior.HealChance*100)
	for i, chance := range behavior.SpellChances {
		fmt.Fprintf(out, " | %s %.0f%%", spells[i].Name, chance*100)
	}
	fmt.Fprintln(out)
}
