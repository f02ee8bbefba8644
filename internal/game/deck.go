package game

import (
	"fmt"
	"math/rand"
)

// Suit 花色
type Suit string

// Rank 点数
type Rank string

// 花色与点数的枚举顺序（固定，发牌ID依赖此顺序）
var (
	Suits = []Suit{"♠", "♥", "♦", "♣"}
	Ranks = []Rank{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
)

// DeckSize 一副牌的张数
const DeckSize = 52

// Card 扑克牌（生成后不可变）
type Card struct {
	ID   string `json:"id"`   // 牌内唯一ID（card-0 ~ card-51，仅在单副牌内唯一）
	Rank Rank   `json:"rank"`
	Suit Suit   `json:"suit"`
}

// String 返回牌面显示（如 A♠）
func (c Card) String() string {
	return string(c.Rank) + string(c.Suit)
}

// GenerateDeck 生成一副有序的52张牌
// 花色为外层循环、点数为内层循环，ID按生成顺序递增，无随机性
func GenerateDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	id := 0
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, Card{
				ID:   fmt.Sprintf("card-%d", id),
				Rank: rank,
				Suit: suit,
			})
			id++
		}
	}
	return deck
}

// ShuffleDeck 返回洗牌后的新牌堆，不修改输入
// 使用Fisher-Yates算法：从末位向前遍历，与[0,i]内随机位置交换
func ShuffleDeck(deck []Card) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
