package application

import (
	"context"
	"log"

	admindomain "github.com/jlvrmt/cafe-guide-services/api/internal/admin/domain"
)

// cafeService implements CafeService.
type cafeService struct {
	logger  *log.Logger
	cafes   CafeRepository
	reviews ReviewRepository
}

func NewCafeService(logger *log.Logger, cafes CafeRepository, reviews ReviewRepository) CafeService {
	return &cafeService{logger: logger, cafes: cafes, reviews: reviews}
}

func (s *cafeService) List(ctx context.Context) ([]admindomain.Cafe, error) {
	return s.cafes.List(ctx)
}

// Delete removes a cafe in two ordered steps: first every review row that
// references it, then the cafe itself.
// 前段のレビュー削除が失敗した場合、カフェ削除は実行しない。前段成功後に
// 後段が失敗した場合の補償(レビュー復元)は行わず、不整合はログに残して
// 次回の削除リトライに委ねる。
func (s *cafeService) Delete(ctx context.Context, id string) error {
	if err := s.reviews.DeleteByCafe(ctx, id); err != nil {
		return &DeleteError{Step: "reviews", Err: err}
	}
	if err := s.cafes.Delete(ctx, id); err != nil {
		s.logger.Printf("レビュー削除後のカフェ削除に失敗 cafeId=%s err=%v", id, err)
		return &DeleteError{Step: "cafe", Err: err}
	}
	return nil
}
