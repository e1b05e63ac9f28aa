package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	affection "github.com/glusyy/grok-ani-affection-system"
	"github.com/glusyy/grok-ani-affection-system/internal/config"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Drive the engine interactively from stdin",
	Long: "chat runs a single in-process session: each line is one turn. " +
		"Useful for tuning rule tables and presets without a running server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		engine, err := cfg.Engine.BuildEngine()
		if err != nil {
			return fmt.Errorf("build engine: %w", err)
		}

		state := affection.DefaultState(engine.Config())
		printStatus(engine.Config().SnapshotOf(state))

		scanner := bufio.NewScanner(os.Stdin)
		fmt.Print("> ")
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" || text == "/quit" {
				break
			}

			var turn affection.Turn
			state, turn = engine.ProcessTurn(state, text)
			if turn.Notification != "" {
				fmt.Println(turn.Notification)
			}
			printStatus(turn.Current)
			fmt.Print("> ")
		}
		return scanner.Err()
	},
}

func printStatus(s affection.Snapshot) {
	unlocked := ""
	if s.Unlocked {
		unlocked = " [unlocked]"
	}
	fmt.Printf("[score %d | tier %s | level %d | xp %d]%s\n",
		s.Score, s.Tier, s.Level, s.TotalXP, unlocked)
}
