package cli

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGamePlayCmd())
	cmd.AddCommand(newGameViewCmd())
	cmd.AddCommand(newGameCountCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var player1, stake string

	cmd := &cobra.Command{
		Use:   "create [stake]",
		Short: "Create a game with the given stake",
		Long: `Create a game staking the given amount. The amount is a signed
128-bit decimal integer, given either as the argument or with --stake.
Negative amounts need --stake=-5 or a "--" separator (create -- -5).
The game is created for the logged-in account unless --player1 names
another address you control.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 1 && cmd.Flags().Changed("stake"):
				return errors.New("give the stake either as an argument or with --stake, not both")
			case len(args) == 1:
				stake = args[0]
			case !cmd.Flags().Changed("stake"):
				return errors.New("a stake is required")
			}

			if _, ok := new(big.Int).SetString(stake, 10); !ok {
				return fmt.Errorf("invalid stake %q: must be a decimal integer", stake)
			}

			req := map[string]string{"stake_amount": stake}
			if player1 != "" {
				req["player1"] = player1
			}

			var result CreateResult
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&stake, "stake", "", "Stake amount, may be negative")
	cmd.Flags().StringVar(&player1, "player1", "", "Creator address (defaults to the logged-in account)")

	return cmd
}

func newGameJoinCmd() *cobra.Command {
	var player2 string

	cmd := &cobra.Command{
		Use:   "join <id>",
		Short: "Join a game as the second player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req any
			if player2 != "" {
				req = map[string]string{"player2": player2}
			}

			var result Game
			if err := client.Post("/api/v1/games/"+args[0]+"/join", req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&player2, "player2", "", "Joining address (defaults to the logged-in account)")

	return cmd
}

func newGamePlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Roll the dice and resolve a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayResult
			if err := client.Post("/api/v1/games/"+args[0]+"/play", nil, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Get("/api/v1/games/"+args[0], &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show how many games have been created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CountResult
			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}
