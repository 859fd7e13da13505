// Command seedusers replaces the users collection with a handful of demo
// accounts. Every account uses the password "password123".
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/config"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/db"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/logging"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage/mongostore"
)

const demoPassword = "password123"

type demoUser struct {
	name    string
	email   string
	role    string
	balance int64
	ledger  []models.Transaction
}

func demoUsers(now time.Time) []demoUser {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	return []demoUser{
		{"Rajesh Kumar", "rajesh@gmail.com", models.RoleExistingUser, 150, []models.Transaction{
			{Amount: -50, Type: models.TransactionBorrow, CreatedAt: ago(time.Hour)},
			{Amount: 200, Type: models.TransactionDeposit, CreatedAt: ago(24 * time.Hour)},
		}},
		{"Priya Sharma", "priya@gmail.com", models.RoleExistingUser, 75, []models.Transaction{
			{Amount: -25, Type: models.TransactionPenalty, Meta: map[string]any{"overdueHours": 5}, CreatedAt: ago(30 * time.Minute)},
			{Amount: -50, Type: models.TransactionBorrow, CreatedAt: ago(2 * time.Hour)},
			{Amount: 150, Type: models.TransactionDeposit, CreatedAt: ago(48 * time.Hour)},
		}},
		{"Amit Singh", "amit@gmail.com", models.RoleNewUser, 200, []models.Transaction{
			{Amount: 200, Type: models.TransactionDeposit, CreatedAt: ago(72 * time.Hour)},
		}},
		{"Sneha Patel", "sneha@gmail.com", models.RoleExistingUser, 25, []models.Transaction{
			{Amount: -25, Type: models.TransactionPenalty, Meta: map[string]any{"overdueHours": 5}, CreatedAt: ago(90 * time.Minute)},
			{Amount: -50, Type: models.TransactionBorrow, CreatedAt: ago(3 * time.Hour)},
			{Amount: 100, Type: models.TransactionDeposit, CreatedAt: ago(96 * time.Hour)},
		}},
		{"Vikram Reddy", "vikram@gmail.com", models.RoleExplorer, 0, []models.Transaction{}},
	}
}

func main() {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.StorageDriver != config.DriverMongo {
		log.Fatal().Msg("seedusers needs STORAGE_DRIVER=mongo")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}

	res, err := database.Collection(mongostore.UsersCollection).DeleteMany(ctx, bson.M{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to clear users")
	}
	log.Printf("Cleared %d existing users", res.DeletedCount)

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash demo password")
	}

	store := mongostore.New(database)
	now := time.Now().UTC()
	for _, d := range demoUsers(now) {
		user := &models.User{
			Name:         d.name,
			Email:        d.email,
			PasswordHash: string(hash),
			Role:         d.role,
			Wallet:       models.Wallet{Balance: d.balance, Currency: models.CurrencyINR},
			Transactions: d.ledger,
			CreatedAt:    now,
		}
		if d.role == models.RoleExplorer {
			expires := now.Add(time.Hour)
			user.Explorer = models.Explorer{Enabled: true, ExpiresAt: &expires}
		}
		if err := store.CreateUser(ctx, user); err != nil {
			log.Fatal().Err(err).Str("email", d.email).Msg("Failed to add user")
		}
		log.Printf("Added user: %s", d.name)
	}
}
