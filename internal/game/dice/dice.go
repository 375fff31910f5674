// Package dice provides the randomness abstraction and roll-result types for
// the Neon Isekai engine. The game resolves every check on a 3d6 bell curve
// rather than a flat d20.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "3d6+2"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"3d6+2 → [4 5 1] +2 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Sources returned by NewCryptoSource are safe for concurrent use; seeded
// sources are not and must be confined to a single generation pipeline.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// CheckResult records one resolved check: dice, modifier, target, and outcome.
//
// Invariant: Total == DiceTotal + Modifier, Margin == Total - Difficulty,
// and Success == (Total >= Difficulty). Ties succeed.
type CheckResult struct {
	Dice       []int
	DiceTotal  int
	Modifier   int
	Total      int
	Difficulty int
	Success    bool
	Margin     int
}

// RollDie rolls a single die with the given number of sides.
//
// Precondition: sides >= 1; src must be non-nil.
// Postcondition: result is in [1, sides].
func RollDie(src Source, sides int) int {
	return src.Intn(sides) + 1
}

// RollDice rolls count independent dice and returns the individual results
// (in roll order) and their sum.
//
// Precondition: count >= 1, sides >= 1.
func RollDice(src Source, count, sides int) ([]int, int) {
	results := make([]int, count)
	total := 0
	for i := range results {
		results[i] = RollDie(src, sides)
		total += results[i]
	}
	return results, total
}

// Roll3d6 rolls the game's standard resolution dice: three six-sided dice.
//
// Postcondition: result is in [3, 18].
func Roll3d6(src Source) int {
	_, total := RollDice(src, 3, 6)
	return total
}

// AttributeModifier converts a raw attribute score to its check modifier
// using floor division: floor((value - 10) / 2). An attribute of 8 yields
// -1, not 0.
func AttributeModifier(value int) int {
	diff := value - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// CheckN rolls count dice of the given sides, adds modifier, and compares the
// total against difficulty. Success is inclusive: ties succeed.
//
// Precondition: count >= 1, sides >= 1.
func CheckN(src Source, modifier, difficulty, count, sides int) CheckResult {
	results, diceTotal := RollDice(src, count, sides)
	total := diceTotal + modifier
	return CheckResult{
		Dice:       results,
		DiceTotal:  diceTotal,
		Modifier:   modifier,
		Total:      total,
		Difficulty: difficulty,
		Success:    total >= difficulty,
		Margin:     total - difficulty,
	}
}

// Check resolves a standard 3d6 check.
func Check(src Source, modifier, difficulty int) CheckResult {
	return CheckN(src, modifier, difficulty, 3, 6)
}

// CheckAdvantage rolls the check twice and keeps the higher modified total.
func CheckAdvantage(src Source, modifier, difficulty int) CheckResult {
	first := Check(src, modifier, difficulty)
	second := Check(src, modifier, difficulty)
	if first.Total >= second.Total {
		return first
	}
	return second
}

// CheckDisadvantage rolls the check twice and keeps the lower modified total.
func CheckDisadvantage(src Source, modifier, difficulty int) CheckResult {
	first := Check(src, modifier, difficulty)
	second := Check(src, modifier, difficulty)
	if first.Total <= second.Total {
		return first
	}
	return second
}

// RollAttribute rolls the canonical attribute generator: 4d6 keep the three
// highest.
//
// Postcondition: result is in [3, 18].
func RollAttribute(src Source) int {
	result, err := Roll(attributeExpr, src)
	if err != nil {
		panic("dice: rolling 4d6kh3: " + err.Error())
	}
	return result.Total()
}

var attributeExpr = MustParse("4d6kh3")
