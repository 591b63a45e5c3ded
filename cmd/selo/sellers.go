package main

import (
	"fmt"
	"sort"

	"github.com/gmendonca/selo/internal/cli"
	"github.com/gmendonca/selo/internal/config"
	"github.com/gmendonca/selo/internal/model"
	"github.com/spf13/cobra"
)

func sellersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sellers",
		Short: "Show the effective seller trust table",
		Long: `Sellers prints the trust table the classifier will use, after merging the
built-in reputation table with any overrides from the config file. Unlisted
sellers fall back to the default tier.`,
		RunE: runSellers,
	}
}

func runSellers(_ *cobra.Command, _ []string) error {
	cfg, err := config.FromViper()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.TrustMap))
	for name := range cfg.TrustMap {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if cfg.TrustMap[names[i]] != cfg.TrustMap[names[j]] {
			return cfg.TrustMap[names[i]] > cfg.TrustMap[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Println(cli.TitleStyle.Render("Seller trust table"))
	fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-4s %s", "tier", "seller")))
	for _, name := range names {
		tier := cfg.TrustMap[name]
		line := fmt.Sprintf("%-4d %s", tier, name)
		switch tier {
		case model.TrustHigh:
			fmt.Println(cli.SuccessStyle.Render(line))
		case model.TrustNeutral:
			fmt.Println(cli.SubtleStyle.Render(line))
		default:
			fmt.Println(cli.ErrorStyle.Render(line))
		}
	}
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("default tier for unlisted sellers: %d", cfg.DefaultTrust)))
	return nil
}
