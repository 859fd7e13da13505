// Package mongostore persists users and admins in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage"
)

const (
	UsersCollection  = "users"
	AdminsCollection = "admins"

	opTimeout   = 5 * time.Second
	listTimeout = 10 * time.Second
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.UserStore  = (*Store)(nil)
	_ storage.AdminStore = (*Store)(nil)
)

type Store struct {
	users  *mongo.Collection
	admins *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		users:  db.Collection(UsersCollection),
		admins: db.Collection(AdminsCollection),
	}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.Transactions == nil {
		user.Transactions = []models.Transaction{}
	}

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrAlreadyExists
		}
		log.Printf("Failed to insert user %s: %v", user.Email, err)
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return s.findUser(ctx, bson.M{"_id": objID})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Failed to fetch user %v: %v", filter, err)
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	cur, err := s.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		log.Printf("Failed to decode users: %v", err)
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id, name, email string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"name": name, "email": email, "updatedAt": time.Now()}}
	var user models.User
	err = s.users.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, storage.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, storage.ErrAlreadyExists
		}
		log.Printf("Failed to update profile for user %s: %v", id, err)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

// SaveWallet performs a single conditional update. The filter pins the
// version read by the caller, so two concurrent borrow/return calls for the
// same user cannot both apply.
func (s *Store) SaveWallet(ctx context.Context, user *models.User, guard storage.BorrowGuard, added []models.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := walletFilter(user.ID, user.Version, guard)
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"role":          user.Role,
			"wallet":        user.Wallet,
			"currentBorrow": user.CurrentBorrow,
			"explorer":      user.Explorer,
			"updatedAt":     now,
		},
		"$inc": bson.M{"version": 1},
	}
	if len(added) > 0 {
		update["$push"] = bson.M{
			"transactions": bson.M{"$each": added, "$position": 0},
		}
	}

	res, err := s.users.UpdateOne(ctx, filter, update)
	if err != nil {
		log.Printf("Failed to save wallet for user %s: %v", user.ID.Hex(), err)
		return fmt.Errorf("save wallet: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrVersionConflict
	}
	user.Version++
	user.UpdatedAt = now
	return nil
}

func walletFilter(id primitive.ObjectID, version int64, guard storage.BorrowGuard) bson.M {
	filter := bson.M{"_id": id}
	if version == 0 {
		// documents written before versioning carry no version field
		filter["version"] = bson.M{"$in": bson.A{0, nil}}
	} else {
		filter["version"] = version
	}
	switch guard {
	case storage.GuardIdle:
		filter["currentBorrow.active"] = bson.M{"$ne": true}
	case storage.GuardActive:
		filter["currentBorrow.active"] = true
	}
	return filter
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		log.Printf("Failed to delete user %s: %v", id, err)
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	if _, err := s.admins.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrAlreadyExists
		}
		log.Printf("Failed to insert admin %s: %v", admin.UserID, err)
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (s *Store) FindAdminByUserID(ctx context.Context, userID string) (*models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var admin models.Admin
	if err := s.admins.FindOne(ctx, bson.M{"userId": userID}).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Failed to fetch admin %s: %v", userID, err)
		return nil, fmt.Errorf("fetch admin: %w", err)
	}
	return &admin, nil
}
