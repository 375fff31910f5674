package combat

// VitalSigns is a participant's HP and MP snapshot for display.
type VitalSigns struct {
	HP    int
	MaxHP int
	MP    int
	MaxMP int
}

// MonsterStatus is one living monster's line in the combat summary.
type MonsterStatus struct {
	Name  string
	HP    int
	MaxHP int
}

// Summary is a display snapshot of a running combat.
type Summary struct {
	Round        int
	CurrentTurn  string
	IsPlayerTurn bool
	Character    VitalSigns
	Monsters     []MonsterStatus
	Status       Status
	Log          []string
}

// Summarize builds the display snapshot: the character's vitals, every
// monster still standing, whose turn it is, and the last five log lines.
func (s *State) Summarize() Summary {
	ch := s.Character()

	var monsters []MonsterStatus
	for _, m := range s.Monsters() {
		if !m.Alive() {
			continue
		}
		monsters = append(monsters, MonsterStatus{Name: m.Name, HP: m.HP, MaxHP: m.MaxHP})
	}

	log := s.Log
	if len(log) > 5 {
		log = log[len(log)-5:]
	}

	return Summary{
		Round:        s.Round,
		CurrentTurn:  s.Current().Name,
		IsPlayerTurn: s.IsCharacterTurn(),
		Character:    VitalSigns{HP: ch.HP, MaxHP: ch.MaxHP, MP: ch.MP, MaxMP: ch.MaxMP},
		Monsters:     monsters,
		Status:       s.Status,
		Log:          log,
	}
}
