package application

import (
	"errors"
	"fmt"
)

// ErrSaveInFlight is returned when a save is requested while another one is
// still pending. 同一カフェへの並行書き込みをこのガードで防ぐ。
var ErrSaveInFlight = errors.New("保存処理が進行中です")

// ValidationError reports an incomplete form. バックエンドへの書き込みは
// 一切行われていないことを保証する。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newMissingScoreError(evaluatorName, categoryName string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("評価者 %s のカテゴリ %s の点数が入力されていません", evaluatorName, categoryName),
	}
}

// WriteError wraps a failed persistence step inside the save workflow.
// Step が cafe の場合、レビュー行は 1 件も書き込まれていない。
type WriteError struct {
	Step string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("保存に失敗しました (%s): %v", e.Step, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// FetchError wraps a failed lookup load.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("データの取得に失敗しました: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DeleteError wraps a failed deletion step. 先行ステップが失敗した場合、
// 後続ステップは実行されていない。
type DeleteError struct {
	Step string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("削除に失敗しました (%s): %v", e.Step, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}
