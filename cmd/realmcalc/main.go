// Command realmcalc runs the rules engines offline: combat forecasts,
// espionage planning, bounty pricing, and build planning rendered as
// terminal tables. Useful for balance work without a running server.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/berrik/realmwar/internal/entropy"
	"github.com/berrik/realmwar/internal/rules"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "realmcalc",
		Short: "Realmwar rules-engine calculator",
		Long: `Runs the deterministic game-rules engines from the command line:
combat forecasts, espionage planning, bounty pricing, and build planning.`,
	}

	rootCmd.AddCommand(combatCmd(), espionageCmd(), bountyCmd(), buildCmd(), summonCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func combatCmd() *cobra.Command {
	var (
		offense, defense float64
		land             int64
		ambush           bool
		attackType       string
		seed             int64
	)

	cmd := &cobra.Command{
		Use:   "combat",
		Short: "Forecast a single attack resolution",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Println("\nCombat Forecast")

			var src entropy.Source = entropy.Default()
			if seed != 0 {
				src = entropy.NewSeeded(seed)
			}

			result := rules.CalculateCombatResult(rules.CombatRequest{
				AttackType:      rules.ParseAttackType(attackType),
				AttackerOffense: offense,
				DefenderDefense: defense,
				DefenderAmbush:  ambush,
				TargetTotalLand: land,
			}, src)

			turnCost := rules.CalculateTurnCost(offense, defense)

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Tier", "Success", "Ratio", "Land", "Gold", "Structures", "Att Losses", "Def Losses", "Turns"}),
			)
			table.Append([]string{
				result.Tier.String(),
				fmt.Sprintf("%t", result.Success),
				fmt.Sprintf("%.2f", result.Ratio),
				humanize.Comma(result.LandGained),
				humanize.Comma(result.GoldLooted),
				humanize.Comma(result.StructuresDestroyed),
				humanize.Comma(result.AttackerLosses),
				humanize.Comma(result.DefenderLosses),
				fmt.Sprintf("%d", turnCost),
			})
			table.Render()

			validation := rules.ValidateAttackType(rules.ParseAttackType(attackType), true)
			if validation.Warning != "" {
				color.Yellow("warning: %s", validation.Warning)
			}
		},
	}

	cmd.Flags().Float64Var(&offense, "offense", 4000, "attacker offense total")
	cmd.Flags().Float64Var(&defense, "defense", 1000, "defender defense total")
	cmd.Flags().Int64Var(&land, "land", 10000, "target total land")
	cmd.Flags().BoolVar(&ambush, "ambush", false, "defender ambush active")
	cmd.Flags().StringVar(&attackType, "type", "full_attack", "attack type")
	cmd.Flags().Int64Var(&seed, "seed", 0, "entropy seed (0 = random)")
	return cmd
}

func espionageCmd() *cobra.Command {
	var (
		myScum, enemyScum int64
		myRace, enemyRace string
		land              int64
	)

	cmd := &cobra.Command{
		Use:   "espionage",
		Short: "Plan scum operations and defensive coverage",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Println("\nEspionage Planner")

			mine, theirs := rules.ParseRace(myRace), rules.ParseRace(enemyRace)

			detection := rules.CalculateDetectionRate(enemyScum, theirs, myScum, mine)
			optimal := rules.CalculateOptimalScumCount(enemyScum, theirs, mine, 0.85)
			fmt.Printf("detection of their operations: %.2f\n", detection)
			fmt.Printf("scum needed for 0.85 detection: %s\n\n", humanize.Comma(optimal))

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Operation", "Turns", "Green Losses", "Elite Losses"}),
			)
			for _, op := range []rules.Operation{rules.OpScout, rules.OpSteal, rules.OpSabotage, rules.OpBurn} {
				table.Append([]string{
					op.String(),
					fmt.Sprintf("%d", rules.OperationTurnCost(op)),
					humanize.Comma(rules.CalculateScumCasualties(myScum, rules.ScumGreen, op, mine)),
					humanize.Comma(rules.CalculateScumCasualties(myScum, rules.ScumElite, op, mine)),
				})
			}
			table.Render()

			fmt.Println("\nProtection levels:")
			protection := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Threat", "Recommended", "Minimum", "Optimal"}),
			)
			for _, threat := range []rules.ThreatLevel{rules.ThreatLow, rules.ThreatMedium, rules.ThreatHigh} {
				p := rules.CalculateProtectionLevels(land, threat, mine)
				protection.Append([]string{
					threat.String(),
					humanize.Comma(p.Recommended),
					humanize.Comma(p.Minimum),
					humanize.Comma(p.Optimal),
				})
			}
			protection.Render()
		},
	}

	cmd.Flags().Int64Var(&myScum, "my-scum", 500, "my scum count")
	cmd.Flags().Int64Var(&enemyScum, "enemy-scum", 500, "enemy scum count")
	cmd.Flags().StringVar(&myRace, "my-race", "human", "my race")
	cmd.Flags().StringVar(&enemyRace, "enemy-race", "human", "enemy race")
	cmd.Flags().Int64Var(&land, "land", 10000, "my land for protection sizing")
	return cmd
}

func bountyCmd() *cobra.Command {
	var (
		land, structures int64
		buildRatio       float64
		brt              int
	)

	cmd := &cobra.Command{
		Use:   "bounty",
		Short: "Price a bounty target",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Println("\nBounty Pricing")

			target := rules.BountyTarget{Land: land, Structures: structures, BuildRatio: buildRatio}
			reward := rules.CalculateBountyValue(target, brt)
			shared := rules.CalculateSharedKillBenefit(target, brt)

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Mode", "Land", "Structures", "Turn Savings", "Total Value"}),
			)
			table.Append([]string{
				"solo",
				humanize.Comma(reward.LandGained),
				humanize.Comma(reward.StructuresGained),
				fmt.Sprintf("%.1f", reward.TurnSavings),
				fmt.Sprintf("%.1f", reward.TotalValue),
			})
			table.Append([]string{
				"shared (sorcerer)",
				humanize.Comma(shared.SorcererReward.LandGained),
				humanize.Comma(shared.SorcererReward.StructuresGained),
				fmt.Sprintf("%.1f", shared.SorcererReward.TurnSavings),
				fmt.Sprintf("%.1f", shared.SorcererReward.TotalValue),
			})
			table.Append([]string{
				"shared (warrior)",
				humanize.Comma(shared.WarriorLand),
				"0", "0.0",
				fmt.Sprintf("%.1f", float64(shared.WarriorLand)),
			})
			table.Render()

			fmt.Printf("shared efficiency: %.1f value/turn over %d turns\n",
				shared.CombinedEfficiency, shared.CombinedTurns)
			fmt.Printf("tithing band: %s\n", rules.CalculateTithingExhaustionThreshold(land))
		},
	}

	cmd.Flags().Int64Var(&land, "land", 12000, "target land")
	cmd.Flags().Int64Var(&structures, "structures", 3000, "target structures")
	cmd.Flags().Float64Var(&buildRatio, "build-ratio", 25, "target structures per 100 land")
	cmd.Flags().IntVar(&brt, "brt", 20, "hunter build rate tier")
	return cmd
}

func buildCmd() *cobra.Command {
	var (
		count     int64
		quarryPct float64
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Plan a construction order",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Println("\nBuild Planner")

			brt := rules.CalculateBRT(quarryPct)
			eff := rules.GetBuildEfficiencyWarning(count, brt)

			fmt.Printf("quarry allocation %.0f%% -> BRT %d\n", quarryPct, brt)
			fmt.Printf("building %s structures takes %d turns\n", humanize.Comma(count), eff.Turns)
			if eff.Warning != "" {
				color.Yellow("warning: %s", eff.Warning)
			}

			fmt.Println("\nBRT breakpoints:")
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Quarry %", "BRT"}),
			)
			for _, pct := range []float64{0, 5, 10, 20, 30, 40, 50, 60, 65, 70, 75, 80, 85, 90, 95, 100} {
				table.Append([]string{fmt.Sprintf("%.0f", pct), fmt.Sprintf("%d", rules.CalculateBRT(pct))})
			}
			table.Render()
		},
	}

	cmd.Flags().Int64Var(&count, "count", 100, "structures to build")
	cmd.Flags().Float64Var(&quarryPct, "quarry", 40, "quarry allocation percentage")
	return cmd
}

func summonCmd() *cobra.Command {
	var (
		networth int64
		cashMult float64
		guild    int64
	)

	cmd := &cobra.Command{
		Use:   "summon",
		Short: "Size troop summons per race",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Println("\nSummon Sizing")

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Race", "Troops", "Fort Value"}),
			)
			for _, race := range rules.AllRaces() {
				troops := rules.CalculateCombatSummonTroops(race, networth, cashMult, guild)
				table.Append([]string{
					race.String(),
					humanize.Comma(troops),
					fmt.Sprintf("%.0f", rules.CalculateFortDefense(race, 1)),
				})
			}
			table.Render()
		},
	}

	cmd.Flags().Int64Var(&networth, "networth", 100000, "kingdom networth")
	cmd.Flags().Float64Var(&cashMult, "cash-multiplier", 1, "cash multiplier")
	cmd.Flags().Int64Var(&guild, "guildhall-bonus", 0, "guildhall bonus")
	return cmd
}
