package jacks

import "errors"

var (
	ErrInsufficientCredits = errors.New("insufficient credits for bet")
	ErrOutOfCredits        = errors.New("out of credits")
	ErrNoCollect           = errors.New("nothing to collect yet")
)

// WrongStageError 在非法阶段调用动作；状态保持不变。
type WrongStageError struct {
	Action string
	Stage  Stage
}

func (e *WrongStageError) Error() string {
	return "action " + e.Action + " not allowed in stage " + StageDictionary[e.Stage]
}

func errWrongStage(action string, stage Stage) error {
	return &WrongStageError{Action: action, Stage: stage}
}

// HoldIndexError 保留标记下标越界（合法范围 0-4）。
type HoldIndexError int

func (e HoldIndexError) Error() string {
	return "hold index out of range"
}
