package match

import (
	"fmt"
	"math/rand"
)

// NewBoard deals groups*arity cards. Faces are assigned to groups in order,
// wrapping around when there are more groups than faces, and the board is
// shuffled. The target is the key of a randomly chosen card.
func NewBoard(faces []string, groups int, arity int, rnd *rand.Rand) ([]*Card, string, error) {
	if len(faces) == 0 {
		return nil, "", fmt.Errorf("no card faces to deal")
	}
	if groups < 1 {
		return nil, "", fmt.Errorf("invalid group count: %d", groups)
	}
	if arity < 2 {
		return nil, "", fmt.Errorf("invalid match arity: %d", arity)
	}

	keys := make([]string, 0, groups*arity)
	for g := 0; g < groups; g++ {
		face := faces[g%len(faces)]
		for i := 0; i < arity; i++ {
			keys = append(keys, face)
		}
	}

	rnd.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})

	cards := make([]*Card, len(keys))
	for i, key := range keys {
		cards[i] = &Card{
			ID:       i + 1,
			GroupKey: key,
		}
	}

	target := cards[rnd.Intn(len(cards))].GroupKey
	return cards, target, nil
}
