// Package match implements a memory card game: cards are revealed one at a time
// and a group of face-up cards sharing a key is removed from the board.
package match

type Face uint8

const (
	FaceDown Face = iota
	FaceUp
	FaceRemoved
)

func (f Face) String() string {
	switch f {
	case FaceDown:
		return "down"
	case FaceUp:
		return "up"
	case FaceRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Card is one card on the board. Cards with the same GroupKey match.
type Card struct {
	ID       int    `json:"id"`
	GroupKey string `json:"groupKey"`
	Face     Face   `json:"face"`
}

func cardIDs(cards []*Card) []int {
	ids := make([]int, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}
