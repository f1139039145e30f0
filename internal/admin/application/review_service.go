package application

import (
	"context"

	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
)

type reviewService struct {
	reviews ReviewRepository
}

func NewReviewService(reviews ReviewRepository) ReviewService {
	return &reviewService{reviews: reviews}
}

// ListGroups returns reviews grouped per cafe with the score grid rebuilt,
// in the order the rows were fetched.
func (s *reviewService) ListGroups(ctx context.Context) ([]admindomain.CafeReviewGroup, error) {
	reviews, err := s.reviews.ListJoined(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	groups := make([]admindomain.CafeReviewGroup, 0)
	index := make(map[string]int)
	for _, review := range reviews {
		position, ok := index[review.CafeID]
		if !ok {
			position = len(groups)
			index[review.CafeID] = position
			groups = append(groups, admindomain.CafeReviewGroup{
				CafeID:   review.CafeID,
				CafeName: review.CafeName,
				CafeCity: review.CafeCity,
				Grid:     make(admindomain.ScoreGrid),
			})
		}
		groups[position].Grid.Set(review.EvaluatorID, review.CategoryID, review.Score)
		groups[position].Reviews = append(groups[position].Reviews, review)
	}
	return groups, nil
}

// Delete removes a single review row by its identifier.
func (s *reviewService) Delete(ctx context.Context, id string) error {
	if err := s.reviews.DeleteByID(ctx, id); err != nil {
		return &DeleteError{Step: "review", Err: err}
	}
	return nil
}
