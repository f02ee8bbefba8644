package game

// HandSize 每位玩家的起始手牌数
const HandSize = 7

// Player 房间内的玩家状态
type Player struct {
	UID         string   `json:"uid"`          // 身份提供方的稳定主体ID
	Name        string   `json:"name"`         // 显示名称
	Cards       []Card   `json:"cards"`        // 发到的手牌（只追加，不删除、不重排）
	SelectedIDs []string `json:"selected_ids"` // 已打出的牌ID集合（以牌ID记录，补牌不会错位）
	Score       int      `json:"score"`        // 结算得分
	ScoredCards []Card   `json:"scored_cards"` // 历史遗留字段，派生数据，非权威
}

// Room 房间文档（所有客户端共享的唯一真相）
type Room struct {
	Code        string   `json:"code"`         // 6位大写字母数字房间码，即主键
	Host        string   `json:"host"`         // 房主UID
	HostName    string   `json:"host_name"`    // 房主显示名称
	Players     []Player `json:"players"`      // 按加入顺序排列，UID唯一
	Started     bool     `json:"started"`      // 是否已开局
	Finished    bool     `json:"finished"`     // 是否已结束（有人清空手牌）
	Deck        []Card   `json:"deck"`         // 未发出的剩余牌堆
	CurrentTurn int      `json:"current_turn"` // 当前回合（文档定义但暂无规则使用）
}

// NewRoom 创建新房间：未开局、空牌堆，房主为唯一玩家
func NewRoom(code, hostUID, hostName string) *Room {
	return &Room{
		Code:     code,
		Host:     hostUID,
		HostName: hostName,
		Players: []Player{
			NewPlayer(hostUID, hostName),
		},
	}
}

// NewPlayer 创建空手牌的玩家记录
func NewPlayer(uid, name string) Player {
	return Player{
		UID:         uid,
		Name:        name,
		Cards:       []Card{},
		SelectedIDs: []string{},
		ScoredCards: []Card{},
	}
}

// FindPlayer 按UID查找玩家，返回索引（未找到返回-1）
func (r *Room) FindPlayer(uid string) int {
	for i := range r.Players {
		if r.Players[i].UID == uid {
			return i
		}
	}
	return -1
}

// HasPlayer 检查UID是否已在房间内
func (r *Room) HasPlayer(uid string) bool {
	return r.FindPlayer(uid) >= 0
}

// AddPlayer 追加玩家；UID已存在时不做任何修改
func (r *Room) AddPlayer(uid, name string) bool {
	if r.HasPlayer(uid) {
		return false
	}
	r.Players = append(r.Players, NewPlayer(uid, name))
	return true
}

// Deal 开局发牌：生成并洗一副新牌，按加入顺序给每位玩家发HandSize张，
// 重置选牌与得分，剩余牌堆写回房间并置Started
func (r *Room) Deal() {
	deck := ShuffleDeck(GenerateDeck())
	for i := range r.Players {
		hand := make([]Card, HandSize)
		copy(hand, deck[:HandSize])
		deck = deck[HandSize:]

		r.Players[i].Cards = hand
		r.Players[i].SelectedIDs = []string{}
		r.Players[i].Score = 0
		r.Players[i].ScoredCards = []Card{}
	}
	r.Deck = deck
	r.Started = true
	r.Finished = false
	r.CurrentTurn = 0
}

// CanDeal 检查牌数是否足够按当前人数发牌
func (r *Room) CanDeal() bool {
	return len(r.Players) > 0 && len(r.Players)*HandSize <= DeckSize
}

// DrawCard 犯规补牌：从共享牌堆顶部取一张加入该玩家手牌
// 牌堆为空时返回false，不做任何修改
func (r *Room) DrawCard(uid string) bool {
	if len(r.Deck) == 0 {
		return false
	}
	i := r.FindPlayer(uid)
	if i < 0 {
		return false
	}
	card := r.Deck[0]
	r.Deck = r.Deck[1:]
	r.Players[i].Cards = append(r.Players[i].Cards, card)
	return true
}

// IsSelected 检查牌ID是否在玩家的已打出集合内
func (p *Player) IsSelected(cardID string) bool {
	for _, id := range p.SelectedIDs {
		if id == cardID {
			return true
		}
	}
	return false
}

// ToggleSelect 翻转手牌第index张的打出状态
// 以牌ID记录选择，保证补牌追加后不会错位；index越界返回false
func (p *Player) ToggleSelect(index int) bool {
	if index < 0 || index >= len(p.Cards) {
		return false
	}
	cardID := p.Cards[index].ID
	for i, id := range p.SelectedIDs {
		if id == cardID {
			p.SelectedIDs = append(p.SelectedIDs[:i], p.SelectedIDs[i+1:]...)
			return true
		}
	}
	p.SelectedIDs = append(p.SelectedIDs, cardID)
	return true
}

// HasCleared 玩家是否已清空手牌（打出数等于手牌数）
func (p *Player) HasCleared() bool {
	return len(p.Cards) > 0 && len(p.SelectedIDs) == len(p.Cards)
}

// RemainingScore 派生得分：手牌数减去已打出数
func (p *Player) RemainingScore() int {
	score := len(p.Cards) - len(p.SelectedIDs)
	if score < 0 {
		return 0
	}
	return score
}

// WinnerOf 从房间状态纯函数推导胜者
// 所有订阅方对同一快照得到一致结果；无人清空手牌时返回nil
func WinnerOf(r *Room) *Player {
	if !r.Started {
		return nil
	}
	for i := range r.Players {
		if r.Players[i].HasCleared() {
			return &r.Players[i]
		}
	}
	return nil
}
