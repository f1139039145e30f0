package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type seedOptions struct {
	envName         string
	cafeCount       int
	fillRate        float64
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	cafes         string
	categories    string
	evaluators    string
	reviews       string
	adminAccounts string
}

type cafeDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	City      string             `bson:"city"`
	Score     float64            `bson:"score"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type categoryDocument struct {
	ID     primitive.ObjectID `bson:"_id"`
	Name   string             `bson:"name"`
	Weight float64            `bson:"weight"`
}

type evaluatorDocument struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

type reviewDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	CafeID      primitive.ObjectID `bson:"cafeId"`
	EvaluatorID primitive.ObjectID `bson:"evaluatorId"`
	CategoryID  primitive.ObjectID `bson:"categoryId"`
	Score       *float64           `bson:"score"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type adminAccountDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

var cafeNames = []string{
	"Café de la Luz", "La Bicicleta", "Toma Café", "Hanso Café", "Federal Café",
	"Misión Café", "Ruda Café", "Acid Café", "Hola Coffee", "Santa Kafeina",
	"Café Comercial", "Plántate Café", "Bianchi Kiosko Caffè", "Pum Pum Café",
	"Naji Specialty Coffee", "Cafés Tornasol", "La Colectiva", "Ineffable Coffee",
	"Café do Paço", "Fábrica Coffee Roasters",
}

var cities = []string{"Madrid", "Barcelona", "Valencia", "Sevilla", "Lisboa"}

var categorySeeds = []struct {
	name   string
	weight float64
}{
	{"Café", 3},
	{"Desayuno", 2},
	{"Ambiente", 2},
	{"Servicio", 1},
	{"Precio", 1},
}

var evaluatorNames = []string{"I", "F"}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	cfg := collections{
		cafes:         envOrDefault("CAFE_COLLECTION", "cafes"),
		categories:    envOrDefault("CATEGORY_COLLECTION", "categories"),
		evaluators:    envOrDefault("EVALUATOR_COLLECTION", "evaluators"),
		reviews:       envOrDefault("REVIEW_COLLECTION", "reviews"),
		adminAccounts: envOrDefault("ADMIN_ACCOUNT_COLLECTION", "admin_accounts"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "cafe-guide")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		dropAll(ctx, db, cfg)
		log.Printf("既存コレクションを削除しました")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))

	categoryDocs := generateCategories()
	if err := insertMany(ctx, db.Collection(cfg.categories), toAnySlice(categoryDocs)); err != nil {
		log.Fatalf("カテゴリの挿入に失敗しました: %v", err)
	}

	evaluatorDocs := generateEvaluators()
	if err := insertMany(ctx, db.Collection(cfg.evaluators), toAnySlice(evaluatorDocs)); err != nil {
		log.Fatalf("評価者の挿入に失敗しました: %v", err)
	}

	cafeDocs := generateCafes(rng, opts.cafeCount)
	reviewDocs := generateReviews(rng, cafeDocs, categoryDocs, evaluatorDocs, opts.fillRate)
	applyScores(cafeDocs, reviewDocs, categoryDocs)

	if err := insertMany(ctx, db.Collection(cfg.cafes), toAnySlice(cafeDocs)); err != nil {
		log.Fatalf("カフェの挿入に失敗しました: %v", err)
	}
	if err := insertMany(ctx, db.Collection(cfg.reviews), toAnySlice(reviewDocs)); err != nil {
		log.Fatalf("レビューの挿入に失敗しました: %v", err)
	}

	account, err := seedAdminAccount(ctx, db.Collection(cfg.adminAccounts))
	if err != nil {
		log.Fatalf("管理者アカウントの作成に失敗しました: %v", err)
	}

	log.Printf("Seed 完了: cafes=%d categories=%d evaluators=%d reviews=%d admin=%s",
		len(cafeDocs), len(categoryDocs), len(evaluatorDocs), len(reviewDocs), account)
	log.Printf("Mongo: %s / %s (env=%s)", mongoURI, dbName, opts.envName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "backend/env 内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.cafeCount, "cafes", 12, "生成するカフェ数")
	flag.Float64Var(&opts.fillRate, "fill", 0.85, "レビューグリッドの充足率 (0-1)")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.cafeCount <= 0 {
		log.Fatal("cafes は 1 以上を指定してください")
	}
	if opts.cafeCount > len(cafeNames) {
		opts.cafeCount = len(cafeNames)
	}
	if opts.fillRate < 0 || opts.fillRate > 1 {
		log.Fatal("fill は 0 から 1 の範囲で指定してください")
	}
	return opts
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			// env ファイルが用意されていない環境では環境変数のみで動かす
			log.Printf("WARN: %v", err)
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropAll(ctx context.Context, db *mongo.Database, cfg collections) {
	for _, name := range []string{
		cfg.cafes, cfg.categories, cfg.evaluators, cfg.reviews, cfg.adminAccounts,
	} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop は存在しない場合も err を返すので warning ログにとどめる
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	cafeIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "score", Value: -1}},
			Options: options.Index().SetName("idx_cafe_score"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "city", Value: 1}},
			Options: options.Index().SetName("uniq_cafe_name_city").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "city", Value: 1}},
			Options: options.Index().SetName("idx_cafe_city"),
		},
	}
	if _, err := db.Collection(cfg.cafes).Indexes().CreateMany(ctx, cafeIndexes); err != nil {
		return err
	}

	reviewIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "cafeId", Value: 1},
				{Key: "evaluatorId", Value: 1},
				{Key: "categoryId", Value: 1},
			},
			Options: options.Index().SetName("uniq_review_cafe_evaluator_category").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_review_createdAt"),
		},
	}
	if _, err := db.Collection(cfg.reviews).Indexes().CreateMany(ctx, reviewIndexes); err != nil {
		return err
	}

	accountIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_admin_email").SetUnique(true),
		},
	}
	if _, err := db.Collection(cfg.adminAccounts).Indexes().CreateMany(ctx, accountIndexes); err != nil {
		return err
	}

	return nil
}

func generateCategories() []categoryDocument {
	docs := make([]categoryDocument, 0, len(categorySeeds))
	for _, seed := range categorySeeds {
		docs = append(docs, categoryDocument{
			ID:     primitive.NewObjectID(),
			Name:   seed.name,
			Weight: seed.weight,
		})
	}
	return docs
}

func generateEvaluators() []evaluatorDocument {
	docs := make([]evaluatorDocument, 0, len(evaluatorNames))
	for _, name := range evaluatorNames {
		docs = append(docs, evaluatorDocument{
			ID:   primitive.NewObjectID(),
			Name: name,
		})
	}
	return docs
}

func generateCafes(rng *rand.Rand, count int) []cafeDocument {
	names := append([]string(nil), cafeNames...)
	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})

	now := time.Now()
	docs := make([]cafeDocument, 0, count)
	for i := 0; i < count; i++ {
		created := now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
		docs = append(docs, cafeDocument{
			ID:        primitive.NewObjectID(),
			Name:      names[i],
			City:      cities[rng.Intn(len(cities))],
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
	return docs
}

// generateReviews はカフェごとに評価者×カテゴリの全組み合わせを走査し、
// fillRate の確率で点数入りレビューを、残りは未採点 (score=null) のレビューを生成する。
func generateReviews(rng *rand.Rand, cafes []cafeDocument, categories []categoryDocument, evaluators []evaluatorDocument, fillRate float64) []reviewDocument {
	docs := make([]reviewDocument, 0, len(cafes)*len(categories)*len(evaluators))
	for _, cafe := range cafes {
		// 各カフェに固有の基準点を持たせて、点数に個性が出るようにする
		base := 6.0 + rng.Float64()*3.5
		for _, evaluator := range evaluators {
			for _, category := range categories {
				doc := reviewDocument{
					ID:          primitive.NewObjectID(),
					CafeID:      cafe.ID,
					EvaluatorID: evaluator.ID,
					CategoryID:  category.ID,
					CreatedAt:   cafe.CreatedAt.Add(time.Duration(rng.Intn(72)) * time.Hour),
				}
				doc.UpdatedAt = doc.CreatedAt
				if rng.Float64() < fillRate {
					score := clampScore(base + (rng.Float64()-0.5)*2)
					doc.Score = &score
				}
				docs = append(docs, doc)
			}
		}
	}
	return docs
}

func clampScore(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 10 {
		v = 10
	}
	return math.Round(v*10) / 10
}

// applyScores はレビューからカテゴリ毎の平均を求め、重み付き平均をカフェの総合点として書き込む。
// API 側の再計算ロジックと同じ丸め（小数第2位）を適用する。
func applyScores(cafes []cafeDocument, reviews []reviewDocument, categories []categoryDocument) {
	weights := make(map[primitive.ObjectID]float64, len(categories))
	for _, category := range categories {
		w := category.Weight
		if w <= 0 {
			w = 1
		}
		weights[category.ID] = w
	}

	type accumulator struct {
		sum   float64
		count int
	}
	perCafe := make(map[primitive.ObjectID]map[primitive.ObjectID]*accumulator)
	for _, review := range reviews {
		if review.Score == nil {
			continue
		}
		byCategory, ok := perCafe[review.CafeID]
		if !ok {
			byCategory = make(map[primitive.ObjectID]*accumulator)
			perCafe[review.CafeID] = byCategory
		}
		acc, ok := byCategory[review.CategoryID]
		if !ok {
			acc = &accumulator{}
			byCategory[review.CategoryID] = acc
		}
		acc.sum += *review.Score
		acc.count++
	}

	for i := range cafes {
		byCategory, ok := perCafe[cafes[i].ID]
		if !ok {
			continue
		}
		var weightedSum, weightSum float64
		for categoryID, acc := range byCategory {
			if acc.count == 0 {
				continue
			}
			w := weights[categoryID]
			if w <= 0 {
				w = 1
			}
			weightedSum += (acc.sum / float64(acc.count)) * w
			weightSum += w
		}
		if weightSum > 0 {
			cafes[i].Score = math.Round(weightedSum/weightSum*100) / 100
		}
	}
}

func seedAdminAccount(ctx context.Context, coll *mongo.Collection) (string, error) {
	email := strings.ToLower(envOrDefault("SEED_ADMIN_EMAIL", "admin@cafe-guide.local"))
	password := envOrDefault("SEED_ADMIN_PASSWORD", "changeme-cafe-guide")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	_, err = coll.InsertOne(ctx, adminAccountDocument{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return "", err
	}
	return email, nil
}

func insertMany(ctx context.Context, coll *mongo.Collection, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](docs []T) []any {
	out := make([]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc)
	}
	return out
}
