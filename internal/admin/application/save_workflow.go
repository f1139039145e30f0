package application

import (
	"context"
	"log"
	"strings"
	"sync"

	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
)

// SaveState is one state of the review form save workflow.
type SaveState string

const (
	StateIdle       SaveState = "idle"
	StateEditing    SaveState = "editing-existing"
	StateValidating SaveState = "validating"
	StateSaving     SaveState = "saving"
	StateError      SaveState = "error"
	StateSaved      SaveState = "saved"
)

// SaveWorkflow orchestrates create-or-update of a cafe plus its full
// evaluator×category review grid.
// 書き込みは厳密に順序付けられる: カフェの insert/update が完了してから
// レビューの一括 upsert を開始し、前段が失敗したら後段は実行しない。
// 同時に進行できる保存は 1 件のみ。
type SaveWorkflow struct {
	logger  *log.Logger
	cafes   CafeRepository
	reviews ReviewRepository
	lookups LookupRepository

	mu          sync.Mutex
	stateMu     sync.RWMutex
	state       SaveState
	transitions []SaveState
}

// NewSaveWorkflow constructs the workflow in the idle state.
func NewSaveWorkflow(logger *log.Logger, cafes CafeRepository, reviews ReviewRepository, lookups LookupRepository) *SaveWorkflow {
	return &SaveWorkflow{
		logger:  logger,
		cafes:   cafes,
		reviews: reviews,
		lookups: lookups,
		state:   StateIdle,
	}
}

// State returns the current workflow state.
func (w *SaveWorkflow) State() SaveState {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return w.state
}

func (w *SaveWorkflow) setState(state SaveState) {
	w.stateMu.Lock()
	w.state = state
	w.transitions = append(w.transitions, state)
	w.stateMu.Unlock()
}

// Save runs the full workflow for one submitted form.
// 完全性検証を通過するまでバックエンドへの書き込みは一切発行しない。
func (w *SaveWorkflow) Save(ctx context.Context, cmd SaveReviewSetCommand) (*SaveResult, error) {
	if !w.mu.TryLock() {
		return nil, ErrSaveInFlight
	}
	defer w.mu.Unlock()

	w.stateMu.Lock()
	w.transitions = w.transitions[:0]
	w.stateMu.Unlock()

	if cmd.CafeID != "" {
		w.setState(StateEditing)
	}

	w.setState(StateValidating)
	rows, err := w.validate(ctx, cmd)
	if err != nil {
		w.setState(StateError)
		return nil, err
	}

	w.setState(StateSaving)
	result, err := w.persist(ctx, cmd, rows)
	if err != nil {
		w.setState(StateError)
		return nil, err
	}

	w.setState(StateSaved)
	w.setState(StateIdle)
	return result, nil
}

// validate checks required fields, the evaluator lookup and grid completeness,
// and builds the full upsert batch in category order.
func (w *SaveWorkflow) validate(ctx context.Context, cmd SaveReviewSetCommand) ([]ReviewUpsertRow, error) {
	name := strings.TrimSpace(cmd.Name)
	city := strings.TrimSpace(cmd.City)
	if name == "" || city == "" {
		return nil, &ValidationError{Message: "カフェ名と都市を入力してください"}
	}

	categories, err := w.lookups.ListCategories(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	evaluators, err := w.lookups.ListEvaluators(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	required := make([]admindomain.Evaluator, 0, len(admindomain.RequiredEvaluatorNames))
	for _, evaluatorName := range admindomain.RequiredEvaluatorNames {
		evaluator, ok := admindomain.FindEvaluator(evaluators, evaluatorName)
		if !ok {
			return nil, &ValidationError{Message: "必須評価者 (I と F) がマスタに登録されていません"}
		}
		required = append(required, evaluator)
	}

	rows := make([]ReviewUpsertRow, 0, len(categories)*len(required))
	for _, category := range categories {
		for _, evaluator := range required {
			raw, ok := cmd.Grid.Score(evaluator.ID, category.ID)
			if !ok {
				return nil, newMissingScoreError(evaluator.Name, category.Name)
			}
			score, err := admindomain.NewScore(raw)
			if err != nil {
				return nil, &ValidationError{Message: err.Error()}
			}
			rows = append(rows, ReviewUpsertRow{
				EvaluatorID: evaluator.ID,
				CategoryID:  category.ID,
				Score:       score.Float64(),
			})
		}
	}
	return rows, nil
}

// persist writes the cafe first, then the review batch bound to its id.
func (w *SaveWorkflow) persist(ctx context.Context, cmd SaveReviewSetCommand, rows []ReviewUpsertRow) (*SaveResult, error) {
	name := strings.TrimSpace(cmd.Name)
	city := strings.TrimSpace(cmd.City)

	cafeID := cmd.CafeID
	created := false
	if cafeID == "" {
		id, err := w.cafes.Create(ctx, name, city)
		if err != nil {
			return nil, &WriteError{Step: "cafe", Err: err}
		}
		cafeID = id
		created = true
	} else {
		if err := w.cafes.Update(ctx, cafeID, name, city); err != nil {
			return nil, &WriteError{Step: "cafe", Err: err}
		}
	}

	for i := range rows {
		rows[i].CafeID = cafeID
	}
	if err := w.reviews.UpsertBatch(ctx, rows); err != nil {
		return nil, &WriteError{Step: "reviews", Err: err}
	}

	w.logger.Printf("レビューセットを保存しました cafeId=%s created=%t rows=%d", cafeID, created, len(rows))
	return &SaveResult{CafeID: cafeID, Created: created, RowCount: len(rows)}, nil
}
