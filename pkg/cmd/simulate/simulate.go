package simulate

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/config"
	"github.com/letapeapp/race-engine-go/pkg/model"
	"github.com/letapeapp/race-engine-go/pkg/processing"
	"github.com/letapeapp/race-engine-go/pkg/stage"
)

var (
	stageID string
	players []string
	seed    int64
)

// NewSimulateCmd runs a scripted race without the HTTP server. Each
// script line is one command; ticks are driven by the script instead
// of a wall clock, so a whole race replays in milliseconds.
func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <script>",
		Short: "replays a scripted race and prints the final standings",
		Long: `Replays a race from a script file ("-" reads stdin).

Script commands, one per line ('#' starts a comment):
  tick [n]            advance the race clock n seconds (default 1)
  advance <player>    player empties a drink
  revert <player>     undo the player's last advance
  revive <player>     bring a DNF player back
  resolution          freeze the sprint window and start resolving
  order <player> <n>  assign finish position n
  unorder <player>    remove the player's assigned position
  confirm             confirm the resolved sprint order
  cancel              cancel the resolution, reopen the window`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args[0])
		},
	}
	cmd.Flags().StringVar(&stageID, "stage", "la_soif", "stage to race")
	cmd.Flags().StringSliceVar(&players, "players", []string{"Jules", "Jim"},
		"player names")
	cmd.Flags().Int64Var(&seed, "seed", 0,
		"seed for the puncture draw")
	return cmd
}

//nolint:funlen,cyclop // script dispatch
func runScript(scriptPath string) error {
	log.ResetDefault(log.DevLogger(os.Stderr, log.WarnLevel))

	catalog := stage.DefaultCatalog()
	if config.StageFile != "" {
		if err := catalog.LoadFile(config.StageFile); err != nil {
			return err
		}
	}
	stageProfile, err := catalog.Lookup(stageID)
	if err != nil {
		return err
	}
	roster := make([]model.Participant, 0, len(players))
	for _, name := range players {
		roster = append(roster, model.Participant{ID: name, Name: name})
	}

	engine, err := processing.NewEngine(stageProfile, roster,
		processing.WithRandSource(rand.NewSource(seed)),
		processing.WithCompletionDelay(0),
		processing.WithNotifier(printEvent),
	)
	if err != nil {
		return err
	}

	in := os.Stdin
	if scriptPath != "-" {
		f, openErr := os.Open(scriptPath)
		if openErr != nil {
			return openErr
		}
		defer f.Close()
		in = f
	}

	sc := bufio.NewScanner(in)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := apply(engine, fields); err != nil {
			return fmt.Errorf("line %d (%s): %w", lineNo, fields[0], err)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	printStandings(engine.View())
	return nil
}

var argCount = map[string]int{
	"advance": 1, "revert": 1, "revive": 1, "order": 2, "unorder": 1,
}

func apply(engine *processing.Engine, fields []string) error {
	if len(fields) < argCount[fields[0]]+1 {
		return fmt.Errorf("missing argument")
	}
	switch fields[0] {
	case "tick":
		n := 1
		if len(fields) > 1 {
			var err error
			if n, err = strconv.Atoi(fields[1]); err != nil {
				return err
			}
		}
		for i := 0; i < n; i++ {
			engine.Tick()
		}
		return nil
	case "advance":
		return engine.Advance(fields[1])
	case "revert":
		return engine.Revert(fields[1])
	case "revive":
		return engine.Revive(fields[1])
	case "resolution":
		return engine.OpenResolution()
	case "order":
		pos, err := strconv.Atoi(fields[2])
		if err != nil {
			return err
		}
		return engine.AssignOrder(fields[1], pos)
	case "unorder":
		return engine.RemoveFromOrder(fields[1])
	case "confirm":
		return engine.ConfirmResolution()
	case "cancel":
		return engine.CancelResolution()
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func printEvent(n model.Notification) {
	switch n.Type {
	case model.NotifyGroupRest:
		fmt.Printf("** group rest: everybody drinks (level %d)\n", n.Level)
	case model.NotifyPuncture:
		fmt.Printf("** puncture: %s (level %d)\n", n.PlayerID, n.Level)
	case model.NotifySprintOpened:
		fmt.Printf("** sprint window open (triggered by %s)\n", n.PlayerID)
	case model.NotifySprintResolutionReady:
		fmt.Println("** sprint resolution ready")
	case model.NotifyRaceCompleted:
		fmt.Println("** race completed")
	}
}

func printStandings(view *model.RaceView) {
	fmt.Printf("\n%s after %s\n", view.StageTitle, view.Elapsed)
	for _, entry := range view.Standings {
		fmt.Printf("%2d. %-20s level %2d  %s\n",
			entry.Pos, entry.Name, entry.Level,
			model.FormatClock(entry.RemainingSeconds))
	}
	if len(view.FinishOrder) > 0 {
		fmt.Println("\nPodium")
		for _, f := range view.FinishOrder {
			fmt.Printf("%2d. %s\n", f.Pos, f.Name)
		}
	}
}
