package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(playerCount int) *Room {
	room := NewRoom("ABC123", "u1", "玩家1")
	for i := 2; i <= playerCount; i++ {
		room.AddPlayer(
			"u"+string(rune('0'+i)),
			"玩家"+string(rune('0'+i)),
		)
	}
	return room
}

func TestNewRoom(t *testing.T) {
	room := NewRoom("ABC123", "u1", "房主")

	assert.Equal(t, "ABC123", room.Code)
	assert.Equal(t, "u1", room.Host)
	assert.False(t, room.Started)
	assert.Empty(t, room.Deck)
	require.Len(t, room.Players, 1)
	assert.Equal(t, "u1", room.Players[0].UID)
	assert.Empty(t, room.Players[0].Cards)
}

func TestRoom_AddPlayer(t *testing.T) {
	room := NewRoom("ABC123", "u1", "房主")

	// 新玩家按加入顺序追加
	assert.True(t, room.AddPlayer("u2", "玩家2"))
	require.Len(t, room.Players, 2)
	assert.Equal(t, "u2", room.Players[1].UID)

	// 重复加入是幂等的
	assert.False(t, room.AddPlayer("u2", "玩家2"))
	assert.Len(t, room.Players, 2)
}

func TestRoom_Deal(t *testing.T) {
	room := newTestRoom(3)
	room.Deal()

	assert.True(t, room.Started)
	assert.False(t, room.Finished)
	assert.Equal(t, 0, room.CurrentTurn)

	// 每人7张，剩余 52 - 7*3 = 31 张
	assert.Len(t, room.Deck, DeckSize-HandSize*3)
	seen := make(map[string]bool)
	for _, p := range room.Players {
		require.Len(t, p.Cards, HandSize)
		assert.Empty(t, p.SelectedIDs)
		assert.Zero(t, p.Score)
		// 任意两位玩家不共享同一张牌
		for _, c := range p.Cards {
			assert.False(t, seen[c.ID], "牌 %s 被重复发出", c.ID)
			seen[c.ID] = true
		}
	}
	// 剩余牌堆与手牌无交集
	for _, c := range room.Deck {
		assert.False(t, seen[c.ID])
	}
}

func TestRoom_Deal_ResetsState(t *testing.T) {
	room := newTestRoom(2)
	room.Deal()
	room.Players[0].ToggleSelect(0)
	room.Players[0].Score = 5

	// 再次发牌必须清空选择与得分
	room.Deal()
	assert.Empty(t, room.Players[0].SelectedIDs)
	assert.Zero(t, room.Players[0].Score)
}

func TestPlayer_ToggleSelect_Involution(t *testing.T) {
	room := newTestRoom(2)
	room.Deal()
	p := &room.Players[0]

	// 连续翻转两次回到原集合
	require.True(t, p.ToggleSelect(3))
	assert.Len(t, p.SelectedIDs, 1)
	assert.True(t, p.IsSelected(p.Cards[3].ID))

	require.True(t, p.ToggleSelect(3))
	assert.Empty(t, p.SelectedIDs)
}

func TestPlayer_ToggleSelect_InvalidIndex(t *testing.T) {
	room := newTestRoom(2)
	room.Deal()
	p := &room.Players[0]

	assert.False(t, p.ToggleSelect(-1))
	assert.False(t, p.ToggleSelect(HandSize))
	assert.Empty(t, p.SelectedIDs)
}

func TestPlayer_SelectionSurvivesDraw(t *testing.T) {
	room := newTestRoom(2)
	room.Deal()
	p := &room.Players[0]

	// 先选中第2张，再补一张牌，原选择不受影响
	selectedID := p.Cards[2].ID
	require.True(t, p.ToggleSelect(2))
	require.True(t, room.DrawCard(p.UID))

	assert.Len(t, p.Cards, HandSize+1)
	assert.True(t, p.IsSelected(selectedID))
	// 再次翻转同一位置仍然命中同一张牌
	require.True(t, p.ToggleSelect(2))
	assert.False(t, p.IsSelected(selectedID))
}

func TestWinnerOf(t *testing.T) {
	room := newTestRoom(2)

	// 未开局没有胜者
	assert.Nil(t, WinnerOf(room))

	room.Deal()
	p := &room.Players[1]

	// 差一张不算胜者
	for i := 0; i < HandSize-1; i++ {
		require.True(t, p.ToggleSelect(i))
	}
	assert.Nil(t, WinnerOf(room))
	assert.False(t, p.HasCleared())

	// 清空手牌即胜
	require.True(t, p.ToggleSelect(HandSize-1))
	winner := WinnerOf(room)
	require.NotNil(t, winner)
	assert.Equal(t, p.UID, winner.UID)
	assert.True(t, p.HasCleared())
	assert.Zero(t, p.RemainingScore())
}

func TestRoom_DrawCard(t *testing.T) {
	room := newTestRoom(2)
	room.Deal()
	before := len(room.Deck)
	top := room.Deck[0]

	// 正常补牌：牌堆顶移入手牌，牌堆减一
	require.True(t, room.DrawCard("u1"))
	assert.Len(t, room.Deck, before-1)
	p := room.Players[room.FindPlayer("u1")]
	assert.Len(t, p.Cards, HandSize+1)
	assert.Equal(t, top.ID, p.Cards[HandSize].ID)

	// 不在房间内的UID补牌被拒绝
	assert.False(t, room.DrawCard("nobody"))
}

func TestRoom_DrawCard_EmptyDeck(t *testing.T) {
	room := newTestRoom(2)
	room.Deal()
	room.Deck = []Card{}

	assert.False(t, room.DrawCard("u1"))
	assert.Len(t, room.Players[0].Cards, HandSize)
}

func TestPlayer_RemainingScore(t *testing.T) {
	room := newTestRoom(2)
	room.Deal()
	p := &room.Players[0]

	assert.Equal(t, HandSize, p.RemainingScore())
	p.ToggleSelect(0)
	p.ToggleSelect(1)
	assert.Equal(t, HandSize-2, p.RemainingScore())
}
