package rules

// Army maps unit-type name to unit count. Unit names are exact string
// keys into the static weight table.
type Army map[string]int64

// UnitWeights carries the static attack/defense weight constants for a
// unit type.
type UnitWeights struct {
	Attack  float64
	Defense float64
}

// unitTable holds the static per-unit combat weights. Unknown unit
// types weigh 1/1, the peasant baseline.
func unitWeights(unit string) UnitWeights {
	switch unit {
	case "peasant":
		return UnitWeights{Attack: 1, Defense: 1}
	case "soldier":
		return UnitWeights{Attack: 3, Defense: 3}
	case "archer":
		return UnitWeights{Attack: 2, Defense: 4}
	case "pikeman":
		return UnitWeights{Attack: 2, Defense: 5}
	case "knight":
		return UnitWeights{Attack: 6, Defense: 2}
	case "summoned":
		return UnitWeights{Attack: 4, Defense: 3}
	case "scum":
		return UnitWeights{Attack: 1, Defense: 2}
	default:
		return UnitWeights{Attack: 1, Defense: 1}
	}
}

// OffensePower totals the attack weight of an army.
func OffensePower(a Army) float64 {
	var total float64
	for unit, count := range a {
		if count <= 0 {
			continue
		}
		total += unitWeights(unit).Attack * float64(count)
	}
	return total
}

// DefensePower totals the defense weight of an army.
func DefensePower(a Army) float64 {
	var total float64
	for unit, count := range a {
		if count <= 0 {
			continue
		}
		total += unitWeights(unit).Defense * float64(count)
	}
	return total
}

// TotalUnits counts every unit in an army.
func TotalUnits(a Army) int64 {
	var total int64
	for _, count := range a {
		if count > 0 {
			total += count
		}
	}
	return total
}

// HasPeasants reports whether the army commits any peasants. Mob
// assaults require them.
func HasPeasants(a Army) bool {
	return a["peasant"] > 0
}

// Copy returns a deep copy of the army.
func (a Army) Copy() Army {
	out := make(Army, len(a))
	for unit, count := range a {
		out[unit] = count
	}
	return out
}
