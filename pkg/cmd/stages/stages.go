package stages

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/letapeapp/race-engine-go/pkg/config"
	"github.com/letapeapp/race-engine-go/pkg/model"
	"github.com/letapeapp/race-engine-go/pkg/stage"
)

func NewStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "lists the available stages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listStages()
		},
	}
}

func listStages() error {
	catalog := stage.DefaultCatalog()
	if config.StageFile != "" {
		if err := catalog.LoadFile(config.StageFile); err != nil {
			return err
		}
	}
	for _, s := range catalog.All() {
		total := 0
		rests := 0
		for i := 1; i <= s.LevelCount(); i++ {
			total += s.Duration(i)
			if s.IsRestCheckpoint(i) {
				rests++
			}
		}
		fmt.Printf("%-14s %-22s %-10s %2d levels, %d rest stops, ~%s race time\n",
			s.ID, s.Title, s.Difficulty, s.LevelCount(), rests,
			model.FormatElapsed(total))
	}
	return nil
}
