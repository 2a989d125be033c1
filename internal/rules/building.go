// Building engine — maps quarry land allocation to build throughput
// and turn cost.
package rules

import (
	"fmt"
	"math"
)

// brtBreakpoint is one step of the build-rate tier table.
type brtBreakpoint struct {
	minPct float64
	brt    int
}

// brtTable is the fixed allocation-to-tier step table, highest
// breakpoint first. The mapping is monotonic non-decreasing in
// allocation percentage.
var brtTable = [...]brtBreakpoint{
	{100, 31},
	{95, 30},
	{90, 29},
	{85, 28},
	{80, 27},
	{75, 26},
	{70, 25},
	{65, 24},
	{60, 22},
	{50, 20},
	{40, 17},
	{30, 14},
	{20, 11},
	{10, 8},
	{5, 6},
}

// CalculateBRT maps a quarry allocation percentage to a build-rate
// tier: structures constructible per turn. Below 5% allocation the
// floor tier of 4 applies; full allocation reaches 31.
func CalculateBRT(quarryPercentage float64) int {
	for _, bp := range brtTable {
		if quarryPercentage >= bp.minPct {
			return bp.brt
		}
	}
	return 4
}

// CalculateBuildTurns prices a construction order in turns at the
// given build rate.
func CalculateBuildTurns(count int64, brt int) int {
	if count <= 0 {
		return 0
	}
	if brt <= 0 {
		brt = 4
	}
	return int(math.Ceil(float64(count) / float64(brt)))
}

// BuildEfficiency flags wasted capacity in a construction order.
type BuildEfficiency struct {
	Turns   int    `json:"turns"`
	Wasted  int64  `json:"wasted"`
	Warning string `json:"warning,omitempty"`
}

// GetBuildEfficiencyWarning checks whether the chosen count wastes
// remainder capacity within the last turn. A count that divides
// evenly draws no warning.
func GetBuildEfficiencyWarning(count int64, brt int) BuildEfficiency {
	turns := CalculateBuildTurns(count, brt)
	eff := BuildEfficiency{Turns: turns}
	if turns == 0 || brt <= 0 {
		return eff
	}
	wasted := int64(turns)*int64(brt) - count
	if wasted > 0 && wasted < int64(brt) {
		eff.Wasted = wasted
		eff.Warning = fmt.Sprintf("final turn builds only %d of %d possible structures; add %d to the order to fill it",
			int64(brt)-wasted, brt, wasted)
	}
	return eff
}
