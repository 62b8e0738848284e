package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/besufkad2328-dev/SEED/internal/api"
	"github.com/besufkad2328-dev/SEED/internal/app"
	"github.com/besufkad2328-dev/SEED/internal/config"
	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/nutrition"
	"github.com/besufkad2328-dev/SEED/internal/service"
	"github.com/besufkad2328-dev/SEED/internal/store"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "seedctl",
		Short:        "SEED operator tool",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to seed.yaml (default $SEED_CONFIG or ./seed.yaml)")

	loadConfig := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	root.AddCommand(
		newTargetsCmd(),
		newStateCmd(loadConfig),
		newTokenCmd(loadConfig),
	)
	return root
}

// resolveKey: числовой аргумент - Telegram ID, иначе ключ как есть
func resolveKey(arg string) string {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return service.StateKey(id)
	}
	return arg
}

func newTargetsCmd() *cobra.Command {
	p := store.DefaultProfile()
	var (
		gender   = string(p.Gender)
		activity = string(p.ActivityLevel)
		goal     = string(models.GoalMaintenance)
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Calculate daily kcal and macro targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p.Gender = models.Gender(gender)
			p.ActivityLevel = models.ActivityLevel(activity)
			g := models.GoalType(goal)
			if !g.Valid() {
				return fmt.Errorf("%w: %q", service.ErrInvalidGoal, goal)
			}
			if !p.Gender.Valid() {
				return fmt.Errorf("%w: gender %q", service.ErrInvalidProfile, gender)
			}
			if !p.ActivityLevel.Valid() {
				return fmt.Errorf("%w: activity %q", service.ErrInvalidProfile, activity)
			}

			t := nutrition.CalculateTargets(p, g)
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(t)
			}
			fmt.Fprintf(out, "kcal:    %d\nprotein: %dg\ncarbs:   %dg\nfat:     %dg\n", t.Kcal, t.ProteinG, t.CarbsG, t.FatG)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&p.WeightKg, "weight", p.WeightKg, "weight, kg")
	f.Float64Var(&p.HeightCm, "height", p.HeightCm, "height, cm")
	f.IntVar(&p.Age, "age", p.Age, "age, years")
	f.StringVar(&gender, "gender", gender, "Male | Female | Non-Binary")
	f.StringVar(&activity, "activity", activity, "Sedentary | Lightly Active | Moderately Active | Very Active | Elite Athlete")
	f.StringVar(&goal, "goal", goal, "Weight Loss | Weight Gain | Maintenance")
	f.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newStateCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset stored user state",
	}

	// withStore открывает хранилище на время одной команды
	withStore := func(fn func(cmd *cobra.Command, st *store.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			stateRepo, _, closeDB, err := app.OpenStorage(cfg)
			if err != nil {
				return err
			}
			defer closeDB()
			return fn(cmd, store.New(stateRepo, store.WithLocation(loc)), args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "keys",
			Short: "List stored state keys",
			Args:  cobra.NoArgs,
			RunE: withStore(func(cmd *cobra.Command, st *store.Store, _ []string) error {
				keys, err := st.Keys(cmd.Context())
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "show <key|telegram-id>",
			Short: "Print the reconciled state as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(cmd *cobra.Command, st *store.Store, args []string) error {
				state, err := st.Load(cmd.Context(), resolveKey(args[0]))
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(state)
			}),
		},
		&cobra.Command{
			Use:   "reset <key|telegram-id>",
			Short: "Delete stored state; the next read returns defaults",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(cmd *cobra.Command, st *store.Store, args []string) error {
				key := resolveKey(args[0])
				if err := st.Reset(cmd.Context(), key); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", key)
				return nil
			}),
		},
	)
	return cmd
}

func newTokenCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "token <key|telegram-id>",
		Short: "Issue an API token for a state key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.HTTP.JWTSecret == "" {
				return errors.New("JWT_SECRET not set")
			}
			token, err := api.NewTokenIssuer(cfg.HTTP.JWTSecret, cfg.TokenTTL()).Issue(resolveKey(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
