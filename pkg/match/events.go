package match

type CardRevealed struct {
	ID int `json:"id"`
}

// CardsMismatched is emitted when a revealed card does not match the pending
// cards. The cards flip back after the mismatch delay.
type CardsMismatched struct {
	IDs []int `json:"ids"`
}

type CardsFlippedBack struct {
	IDs []int `json:"ids"`
}

// MatchResolved is emitted once per completed group.
type MatchResolved struct {
	GroupKey string `json:"groupKey"`
	IDs      []int  `json:"ids"`
}

type CardsRemoved struct {
	IDs []int `json:"ids"`
}

type GameWon struct {
	GroupKey string `json:"groupKey"`
}

type GameLost struct {
	GroupKey string `json:"groupKey"`
	Target   string `json:"target"`
}
