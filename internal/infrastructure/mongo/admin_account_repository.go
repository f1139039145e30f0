package mongo

import (
	"context"
	"strings"

	"github.com/jlvrmt/cafe-guide-services/api/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminAccountRepository resolves operator accounts for sign-in.
type AdminAccountRepository struct {
	collection *mongo.Collection
}

func NewAdminAccountRepository(db *mongo.Database, collectionName string) *AdminAccountRepository {
	return &AdminAccountRepository{collection: db.Collection(collectionName)}
}

// FindByEmail returns the account for the e-mail address, or mongo.ErrNoDocuments.
func (r *AdminAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.AdminAccount, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	var doc AdminAccountDocument
	if err := r.collection.FindOne(ctx, bson.M{"email": normalized}).Decode(&doc); err != nil {
		return nil, err
	}
	return &domain.AdminAccount{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}
