package jacks

// Stage 游戏阶段
type Stage byte

const (
	StageBetting    Stage = 0
	StageDrawn      Stage = 1
	StageBonusOffer Stage = 2
	StageBonus      Stage = 3
)

var StageDictionary = map[Stage]string{
	StageBetting:    "betting",
	StageDrawn:      "drawn",
	StageBonusOffer: "bonusoffer",
	StageBonus:      "bonus",
}

// Color 奖励局猜色：红（红心/方块） 黑（黑桃/梅花）
type Color byte

const (
	ColorRed   Color = 0
	ColorBlack Color = 1
)

var ColorDictionary = map[Color]string{
	ColorRed:   "red",
	ColorBlack: "black",
}

// 手牌常量定义
const (
	HandNoWin         byte = iota + 1 // 无赢（含 2-10 小对）
	HandJacksOrBetter                 // J 以上对子
	HandTwoPair                       // 两对
	HandThreeOfKind                   // 三条
	HandStraight                      // 顺子
	HandFlush                         // 同花
	HandFullHouse                     // 葫芦
	HandFourOfKind                    // 四条
	HandStraightFlush                 // 同花顺
	HandRoyalFlush                    // 皇家同花顺
)

var HandTypeDictionary = map[byte]string{
	HandNoWin:         "No Win",
	HandJacksOrBetter: "Jacks or Better",
	HandTwoPair:       "Two Pair",
	HandThreeOfKind:   "Three of a Kind",
	HandStraight:      "Straight",
	HandFlush:         "Flush",
	HandFullHouse:     "Full House",
	HandFourOfKind:    "Four of a Kind",
	HandStraightFlush: "Straight Flush",
	HandRoyalFlush:    "Royal Flush",
}

const (
	// HandSize 一手 5 张
	HandSize = 5

	// MaxBetLevel 注码上限（押 5 注触发皇家同花顺头奖）
	MaxBetLevel = 5

	// DefaultStartingCredits / DefaultBetLevel: startNewGame 与存档缺失时的默认值
	DefaultStartingCredits = 200
	DefaultBetLevel        = 5

	// minDeckBeforeDeal 发牌前牌堆最少张数，不足则重新洗 52 张
	minDeckBeforeDeal = 10
)
