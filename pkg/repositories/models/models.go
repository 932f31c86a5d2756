package models

// Progress is the persisted progression of one player.
type Progress struct {
	PlayerID     string        `json:"player_id"`
	CurrentLevel string        `json:"current_level"`
	UpdatedAt    int64         `json:"updated_at"`
	Results      []LevelResult `json:"results"`
}

// LevelResult is a level's best result. Results keep the order in which
// levels were first reached.
type LevelResult struct {
	Level  string `json:"level"`
	Result int    `json:"result"`
}

func (p *Progress) Copy() *Progress {
	if p == nil {
		return nil
	}
	out := *p
	out.Results = make([]LevelResult, len(p.Results))
	copy(out.Results, p.Results)
	return &out
}
