package combat

import (
	"fmt"

	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
)

// Action names accepted by ProcessAction.
const (
	ActionAttack  = "attack"
	ActionDefend  = "defend"
	ActionAbility = "ability"
	ActionItem    = "item"
	ActionFlee    = "flee"
)

// Action describes one combat action by the current participant. Indexes
// refer to the State's Participants list, the actor's Abilities, and the
// actor's Inventory; -1 means not applicable.
type Action struct {
	Type         string
	TargetIndex  int
	AbilityIndex int
	ItemIndex    int
}

// Attack targets the participant at index.
func Attack(targetIndex int) Action {
	return Action{Type: ActionAttack, TargetIndex: targetIndex, AbilityIndex: -1, ItemIndex: -1}
}

// Defend raises the actor's guard until their next turn.
func Defend() Action {
	return Action{Type: ActionDefend, TargetIndex: -1, AbilityIndex: -1, ItemIndex: -1}
}

// UseAbility uses the actor's ability at abilityIndex against the
// participant at targetIndex.
func UseAbility(targetIndex, abilityIndex int) Action {
	return Action{Type: ActionAbility, TargetIndex: targetIndex, AbilityIndex: abilityIndex, ItemIndex: -1}
}

// UseItem uses the actor's inventory item at itemIndex, on targetIndex or on
// the actor when targetIndex is -1.
func UseItem(targetIndex, itemIndex int) Action {
	return Action{Type: ActionItem, TargetIndex: targetIndex, AbilityIndex: -1, ItemIndex: itemIndex}
}

// Flee attempts to escape the fight.
func Flee() Action {
	return Action{Type: ActionFlee, TargetIndex: -1, AbilityIndex: -1, ItemIndex: -1}
}

// ProcessAction resolves one action by the current participant, ticks active
// effects, checks the end conditions, and advances the turn when the fight
// is still on. Finished combats ignore further actions.
func (s *State) ProcessAction(action Action) {
	if s.Status != Active {
		return
	}

	current := s.Current()

	// A guard raised on the previous turn drops the moment the defender
	// acts again.
	s.removeDefend(current)

	var target *Participant
	if action.TargetIndex >= 0 && action.TargetIndex < len(s.Participants) {
		target = s.Participants[action.TargetIndex]
	}

	switch action.Type {
	case ActionAttack:
		s.processAttack(current, target)
	case ActionDefend:
		s.processDefend(current)
	case ActionAbility:
		s.processAbility(current, target, action.AbilityIndex)
	case ActionItem:
		s.processItem(current, target, action.ItemIndex)
	case ActionFlee:
		s.processFlee(current)
	}

	s.applyEffects()
	s.checkEnd()
	if s.Status == Active {
		s.nextTurn()
	}
	s.syncAll()
}

// removeDefend drops any defend effect guarding the participant.
func (s *State) removeDefend(p *Participant) {
	kept := s.ActiveEffects[:0]
	for _, effect := range s.ActiveEffects {
		if effect.Type == "defend" && effect.Target == p {
			s.appendLog(p.Name + " is no longer defending.")
			continue
		}
		kept = append(kept, effect)
	}
	s.ActiveEffects = kept
}

// defending reports whether the participant has a defend effect up.
func (s *State) defending(p *Participant) bool {
	for _, effect := range s.ActiveEffects {
		if effect.Type == "defend" && effect.Target == p {
			return true
		}
	}
	return false
}

// processAttack resolves a basic attack: 3d6 plus the attacker's strength
// modifier against the target's defense, +2 while defending. Hits deal 1d6
// plus the strength modifier; defenders shrug off 2 points, to a minimum
// of 1. Ties hit.
func (s *State) processAttack(attacker, target *Participant) {
	if target == nil {
		s.appendLog(attacker.Name + " attacks but has no target!")
		return
	}

	strMod := attacker.StrMod()
	attackRoll := dice.Roll3d6(s.src) + strMod

	defense := target.Defense
	defending := s.defending(target)
	if defending {
		defense += 2
	}

	s.appendLog(fmt.Sprintf("%s attacks %s.", attacker.Name, target.Name))
	s.appendLog(fmt.Sprintf("Attack roll: %d vs Defense: %d", attackRoll, defense))

	if attackRoll < defense {
		s.appendLog(fmt.Sprintf("Miss! %s avoids the attack.", target.Name))
		return
	}

	damage := dice.RollDie(s.src, 6) + strMod
	if defending {
		damage -= 2
		if damage < 1 {
			damage = 1
		}
	}
	s.damage(target, damage)
	s.appendLog(fmt.Sprintf("Hit! %s takes %d damage.", target.Name, damage))
	s.reportDefeat(target)
}

// processDefend raises the actor's guard: +2 defense and 2 points of damage
// reduction until the start of their next turn.
func (s *State) processDefend(defender *Participant) {
	s.ActiveEffects = append(s.ActiveEffects, &Effect{
		Type:        "defend",
		Source:      defender,
		Target:      defender,
		Duration:    1,
		Description: "Defending: +2 defense, damage reduction",
	})
	s.appendLog(defender.Name + " takes a defensive stance.")
}

// processAbility resolves a special ability. Multiplier abilities scale a
// 1d6-plus-strength roll; effect abilities register an active effect; plain
// damage abilities hit their target, or every opponent for all-target
// abilities.
func (s *State) processAbility(user, target *Participant, abilityIndex int) {
	if abilityIndex < 0 {
		s.appendLog(user.Name + " tries to use an ability but fails!")
		return
	}
	if abilityIndex >= len(user.Abilities) {
		s.appendLog(user.Name + " tries to use an invalid ability!")
		return
	}
	ability := user.Abilities[abilityIndex]

	s.appendLog(fmt.Sprintf("%s uses %s!", user.Name, ability.Name))

	switch {
	case ability.DamageMultiplier != 0:
		if target == nil {
			s.appendLog("No target for the ability!")
			return
		}
		base := dice.RollDie(s.src, 6) + user.StrMod()
		damage := int(float64(base) * ability.DamageMultiplier)
		s.damage(target, damage)
		s.appendLog(fmt.Sprintf("%s takes %d damage!", target.Name, damage))
		s.reportDefeat(target)

	case ability.Effect != "":
		effectTarget := target
		if ability.Target != "" && ability.Target != "single" {
			effectTarget = nil
		}
		duration := ability.Duration
		if duration == 0 {
			duration = 1
		}
		s.ActiveEffects = append(s.ActiveEffects, &Effect{
			Type:        ability.Effect,
			Source:      user,
			Target:      effectTarget,
			Duration:    duration,
			Amount:      ability.Amount,
			Description: "Affected by " + ability.Name,
		})
		if effectTarget != nil {
			s.appendLog(fmt.Sprintf("%s is affected by %s!", effectTarget.Name, ability.Name))
		} else {
			s.appendLog(fmt.Sprintf("The effect %s is applied!", ability.Name))
		}

	case ability.Damage != 0:
		if ability.Target == "" || ability.Target == "single" {
			if target == nil {
				s.appendLog("No target for the ability!")
				return
			}
			s.damage(target, ability.Damage)
			s.appendLog(fmt.Sprintf("%s takes %d damage!", target.Name, ability.Damage))
			s.reportDefeat(target)
			return
		}
		for _, p := range s.Participants {
			if p.IsCharacter == user.IsCharacter {
				continue
			}
			s.damage(p, ability.Damage)
			s.appendLog(fmt.Sprintf("%s takes %d damage!", p.Name, ability.Damage))
			s.reportDefeat(p)
		}
	}
}

// processItem resolves using a consumable from the character's inventory.
// Monsters carry no items. The item is consumed whether or not it had any
// combat effect.
func (s *State) processItem(user, target *Participant, itemIndex int) {
	if !user.IsCharacter {
		s.appendLog(user.Name + " can't use items!")
		return
	}
	if itemIndex < 0 {
		s.appendLog(user.Name + " tries to use an item but fails!")
		return
	}
	if itemIndex >= len(user.Inventory) {
		s.appendLog(user.Name + " tries to use an invalid item!")
		return
	}
	used := user.Inventory[itemIndex]

	s.appendLog(fmt.Sprintf("%s uses %s!", user.Name, used.Name))

	if target == nil {
		target = user
	}

	if used.Type == item.TypeConsumable {
		switch used.Subtype {
		case item.SubtypeHealthPotion:
			healing := used.Amount
			if healing == 0 {
				healing = 10
			}
			target.HP += healing
			if target.HP > target.MaxHP {
				target.HP = target.MaxHP
			}
			s.appendLog(fmt.Sprintf("%s is healed for %d HP!", target.Name, healing))

		case item.SubtypeManaPotion:
			mana := used.Amount
			if mana == 0 {
				mana = 10
			}
			target.MP += mana
			if target.MP > target.MaxMP {
				target.MP = target.MaxMP
			}
			s.appendLog(fmt.Sprintf("%s restores %d MP!", target.Name, mana))

		case item.SubtypeBuffItem:
			effectType := used.Effect
			if effectType == "" {
				effectType = "increase_attack"
			}
			duration := used.Duration
			if duration == 0 {
				duration = 3
			}
			amount := used.Amount
			if amount == 0 {
				amount = 2
			}
			s.ActiveEffects = append(s.ActiveEffects, &Effect{
				Type:        effectType,
				Source:      user,
				Target:      target,
				Duration:    duration,
				Amount:      amount,
				Description: "Buffed by " + used.Name,
			})
			s.appendLog(fmt.Sprintf("%s is buffed by %s!", target.Name, used.Name))
		}
	}

	user.Inventory = append(user.Inventory[:itemIndex], user.Inventory[itemIndex+1:]...)
}

// processFlee resolves an escape attempt: 3d6 plus the dexterity modifier
// against 10 plus one per opposing body in the fight. Ties escape.
func (s *State) processFlee(p *Participant) {
	if !p.IsCharacter {
		s.appendLog(p.Name + " can't flee!")
		return
	}

	fleeRoll := dice.Roll3d6(s.src) + p.DexMod()
	difficulty := 10 + (len(s.Participants) - 1)

	s.appendLog(p.Name + " attempts to flee!")
	if fleeRoll >= difficulty {
		s.Status = Fled
		s.appendLog(p.Name + " successfully escapes!")
	} else {
		s.appendLog(p.Name + " fails to escape!")
	}
}

// applyEffects runs the end-of-action effect tick: damage-over-time lands,
// stat-modifier effects merely persist, and timed effects count down and
// expire. Defend effects never tick; they last until the defender's next
// turn.
func (s *State) applyEffects() {
	for _, effect := range s.ActiveEffects {
		if effect.Target == nil {
			continue
		}
		if effect.Type == "damage_over_time" {
			s.damage(effect.Target, effect.Amount)
			s.appendLog(fmt.Sprintf("%s takes %d damage from %s!",
				effect.Target.Name, effect.Amount, effect.Description))
			s.reportDefeat(effect.Target)
		}
	}

	kept := s.ActiveEffects[:0]
	for _, effect := range s.ActiveEffects {
		if effect.Type == "defend" {
			kept = append(kept, effect)
			continue
		}
		effect.Duration--
		if effect.Duration > 0 {
			kept = append(kept, effect)
		} else {
			s.appendLog(fmt.Sprintf("The effect %s has worn off.", effect.Description))
		}
	}
	s.ActiveEffects = kept
}

// damage applies damage to a participant, clamping HP at 0.
func (s *State) damage(target *Participant, amount int) {
	target.HP -= amount
	if target.HP < 0 {
		target.HP = 0
	}
}

// reportDefeat logs a defeat line when the target just dropped.
func (s *State) reportDefeat(target *Participant) {
	if !target.Alive() {
		s.appendLog(target.Name + " is defeated!")
	}
}

// AutoAction picks and performs the current monster's move: 70% of the time
// a plain attack, otherwise a random ability when it has one. Character
// turns are left alone.
func (s *State) AutoAction() {
	if s.Status != Active {
		return
	}
	current := s.Current()
	if current.IsCharacter {
		return
	}

	if !s.Character().Alive() {
		s.appendLog(current.Name + " has no valid target!")
		s.nextTurn()
		return
	}

	if dice.Chance(s.src, 0.7) || len(current.Abilities) == 0 {
		s.ProcessAction(Attack(0))
		return
	}
	s.ProcessAction(UseAbility(0, s.src.Intn(len(current.Abilities))))
}
