package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeck(t *testing.T) {
	deck := GenerateDeck()

	// 恰好52张
	require.Len(t, deck, DeckSize)

	// 每个(点数,花色)组合各一张，无重复
	seen := make(map[string]bool, DeckSize)
	for _, c := range deck {
		key := string(c.Rank) + string(c.Suit)
		assert.False(t, seen[key], "重复的牌: %s", key)
		seen[key] = true
	}
	assert.Len(t, seen, DeckSize)

	// ID在牌内唯一
	ids := make(map[string]bool, DeckSize)
	for _, c := range deck {
		assert.False(t, ids[c.ID])
		ids[c.ID] = true
	}
}

func TestGenerateDeck_Deterministic(t *testing.T) {
	// 每次调用顺序完全一致
	a := GenerateDeck()
	b := GenerateDeck()
	assert.Equal(t, a, b)

	// 固定的花色外层、点数内层顺序
	assert.Equal(t, Card{ID: "card-0", Rank: "A", Suit: "♠"}, a[0])
	assert.Equal(t, Card{ID: "card-12", Rank: "K", Suit: "♠"}, a[12])
	assert.Equal(t, Card{ID: "card-13", Rank: "A", Suit: "♥"}, a[13])
	assert.Equal(t, Card{ID: "card-51", Rank: "K", Suit: "♣"}, a[51])
}

func TestShuffleDeck_Permutation(t *testing.T) {
	deck := GenerateDeck()
	original := make([]Card, len(deck))
	copy(original, deck)

	shuffled := ShuffleDeck(deck)

	// 长度不变，输入未被修改
	require.Len(t, shuffled, len(deck))
	assert.Equal(t, original, deck)

	// 同一多重集合（按ID比对）
	counts := make(map[string]int)
	for _, c := range deck {
		counts[c.ID]++
	}
	for _, c := range shuffled {
		counts[c.ID]--
	}
	for id, n := range counts {
		assert.Zero(t, n, "牌 %s 数量不一致", id)
	}
}

func TestShuffleDeck_Uniformity(t *testing.T) {
	// 多次洗牌后，首位出现各张牌的频率应接近均匀
	// 粗粒度检验：1000次试验中首位至少出现20种不同的牌
	deck := GenerateDeck()
	firstCards := make(map[string]int)
	for i := 0; i < 1000; i++ {
		shuffled := ShuffleDeck(deck)
		firstCards[shuffled[0].ID]++
	}
	assert.Greater(t, len(firstCards), 20)

	// 任何一张牌都不应占据首位超过10%
	for id, n := range firstCards {
		assert.Less(t, n, 100, "牌 %s 首位频率异常", id)
	}
}

func TestCard_String(t *testing.T) {
	c := Card{ID: "card-0", Rank: "A", Suit: "♠"}
	assert.Equal(t, "A♠", c.String())
}
