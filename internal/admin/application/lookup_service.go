package application

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type lookupService struct {
	cafes   CafeRepository
	lookups LookupRepository
}

func NewLookupService(cafes CafeRepository, lookups LookupRepository) LookupService {
	return &lookupService{cafes: cafes, lookups: lookups}
}

// Lookups loads the three master tables concurrently and joins them.
// 1 つでも失敗したらロード全体を失敗として扱う(部分描画はしない)。
func (s *lookupService) Lookups(ctx context.Context) (*Lookups, error) {
	result := &Lookups{}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		cafes, err := s.cafes.List(groupCtx)
		if err != nil {
			return err
		}
		result.Cafes = cafes
		return nil
	})
	group.Go(func() error {
		categories, err := s.lookups.ListCategories(groupCtx)
		if err != nil {
			return err
		}
		result.Categories = categories
		return nil
	})
	group.Go(func() error {
		evaluators, err := s.lookups.ListEvaluators(groupCtx)
		if err != nil {
			return err
		}
		result.Evaluators = evaluators
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, &FetchError{Err: err}
	}

	return result, nil
}
