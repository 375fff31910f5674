// Package combat implements the turn-based combat engine. All resolution
// runs on the 3d6 bell curve: attacks roll 3d6 plus the strength modifier
// against the target's defense, and fleeing rolls 3d6 plus the dexterity
// modifier against a difficulty that grows with the crowd.
//
// The engine is a state machine: StartCombat builds a State, ProcessAction
// advances it one action at a time, and the State's Status reports whether
// the fight is still running. Bound characters and monsters are synced after
// every action.
package combat

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neondnd/isekai/internal/game/character"
	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/encounter"
	"github.com/neondnd/isekai/internal/game/monster"
)

// Status is the combat state machine's phase.
type Status int

const (
	Active  Status = 0
	Victory Status = 1
	Defeat  Status = 2
	Fled    Status = 3
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case Victory:
		return "VICTORY"
	case Defeat:
		return "DEFEAT"
	case Fled:
		return "FLED"
	default:
		return "UNKNOWN"
	}
}

// Effect is an active combat effect. Defend effects are removed at the start
// of the defender's next turn; timed effects tick down after every action.
// Targetless effects (all-target statuses) linger in the list but apply to
// no one.
type Effect struct {
	Type        string
	Source      *Participant
	Target      *Participant
	Duration    int
	Amount      int
	Description string
}

// InitiativeEntry is one slot in the turn order.
type InitiativeEntry struct {
	Participant *Participant
	Initiative  int
}

// State is a running combat. Participants[0] is always the character.
type State struct {
	ID              string
	Participants    []*Participant
	InitiativeOrder []InitiativeEntry
	CurrentTurn     int
	Round           int
	Status          Status
	Log             []string
	ActiveEffects   []*Effect

	encounter *encounter.Encounter
	src       dice.Source
	logger    *zap.Logger
}

// StartCombat begins a fight between a character and a group of monsters.
// Initiative is 3d6 plus the dexterity modifier, highest first; ties keep
// the participant order, character before monsters.
//
// Precondition: ch is non-nil and monsters is non-empty; src is non-nil.
func StartCombat(ch *character.Character, monsters []*monster.Monster, src dice.Source, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}

	participants := make([]*Participant, 0, len(monsters)+1)
	participants = append(participants, FromCharacter(ch))
	for _, m := range monsters {
		participants = append(participants, FromMonster(m))
	}

	order := make([]InitiativeEntry, len(participants))
	for i, p := range participants {
		order[i] = InitiativeEntry{Participant: p, Initiative: p.rollInitiative(src)}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Initiative > order[j].Initiative
	})

	state := &State{
		ID:              uuid.NewString(),
		Participants:    participants,
		InitiativeOrder: order,
		CurrentTurn:     0,
		Round:           1,
		Status:          Active,
		Log:             []string{"Combat begins!"},

		src:    src,
		logger: logger,
	}

	logger.Info("combat started",
		zap.String("combat_id", state.ID),
		zap.String("character", ch.Name),
		zap.Int("monsters", len(monsters)),
		zap.Int("first_initiative", order[0].Initiative),
	)
	return state
}

// BindEncounter ties the combat to an encounter so that victory marks it
// completed.
func (s *State) BindEncounter(e *encounter.Encounter) {
	s.encounter = e
}

// Current returns the participant whose turn it is.
func (s *State) Current() *Participant {
	return s.InitiativeOrder[s.CurrentTurn].Participant
}

// IsCharacterTurn reports whether the character acts next.
func (s *State) IsCharacterTurn() bool {
	return s.Current().IsCharacter
}

// Character returns the character participant.
func (s *State) Character() *Participant {
	return s.Participants[0]
}

// Monsters returns the monster participants in their join order.
func (s *State) Monsters() []*Participant {
	return s.Participants[1:]
}

// appendLog records a combat log line.
func (s *State) appendLog(line string) {
	s.Log = append(s.Log, line)
	s.logger.Debug("combat log", zap.String("combat_id", s.ID), zap.String("entry", line))
}

// syncAll writes every participant's combat state back to its bound entity.
func (s *State) syncAll() {
	for _, p := range s.Participants {
		p.sync()
	}
}

// checkEnd resolves the end conditions: a downed character means defeat; a
// dead monster group means victory and completes the bound encounter.
func (s *State) checkEnd() {
	if s.Status != Active {
		return
	}

	if !s.Character().Alive() {
		s.Status = Defeat
		s.appendLog("You have been defeated!")
		return
	}

	for _, m := range s.Monsters() {
		if m.Alive() {
			return
		}
	}
	s.Status = Victory
	s.appendLog("Victory! All enemies have been defeated!")
	if s.encounter != nil {
		s.encounter.Completed = true
	}
}

// nextTurn advances the initiative pointer, skipping dead participants and
// announcing new rounds whenever the pointer wraps.
//
// Precondition: at least one participant in the order is alive.
func (s *State) nextTurn() {
	advance := func() {
		s.CurrentTurn = (s.CurrentTurn + 1) % len(s.InitiativeOrder)
		if s.CurrentTurn == 0 {
			s.Round++
			s.appendLog(fmt.Sprintf("Round %d begins!", s.Round))
		}
	}

	advance()
	for !s.Current().Alive() {
		advance()
	}
	s.appendLog(s.Current().Name + "'s turn.")
}
