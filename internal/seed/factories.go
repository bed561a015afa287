// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much data the seeder creates.
type Options struct {
	Users            int
	RecipesPerUser   int
	RatingsPerRecipe int
	// SkipBcrypt stores a plaintext password; only for fast local seeding.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// randomPast returns a timestamp spread over the configured window.
func (f *Factory) randomPast() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

var (
	dishes = []string{
		"Feijoada Completa", "Moqueca de Camarão", "Pão de Queijo",
		"Brigadeiro Gourmet", "Escondidinho de Carne Seca", "Bobó de Camarão",
		"Coxinha de Frango", "Açaí na Tigela", "Strogonoff de Frango",
		"Torta de Limão", "Risoto de Cogumelos", "Lasanha à Bolonhesa",
	}
	difficulties = []string{"Fácil", "Médio", "Difícil"}
	costs        = []string{"Barato", "Moderado", "Caro"}
)

// CreateRecipe constructs and persists a sample recipe for the given user.
func (f *Factory) CreateRecipe(user *models.User, overrides ...func(*models.Recipe)) (*models.Recipe, error) {
	recipe := &models.Recipe{
		UserID:      user.ID,
		Dish:        dishes[f.rng.Intn(len(dishes))],
		Description: gofakeit.Paragraph(1, 2, 8, "\n"),
		Ingredients: gofakeit.Paragraph(1, 5, 6, "\n"),
		Steps:       gofakeit.Paragraph(1, 6, 10, "\n"),
		PrepTime:    fmt.Sprintf("%d min", gofakeit.Number(10, 120)),
		CookTime:    fmt.Sprintf("%d min", gofakeit.Number(10, 180)),
		Difficulty:  difficulties[f.rng.Intn(len(difficulties))],
		Cost:        costs[f.rng.Intn(len(costs))],
		Yield:       fmt.Sprintf("%d porções", gofakeit.Number(2, 12)),
		ImagePath:   fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		CreatedAt:   f.randomPast(),
	}

	for _, override := range overrides {
		override(recipe)
	}
	if err := f.db.Omit("Tags").Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// CreateRating persists a rating on the recipe by the given user.
func (f *Factory) CreateRating(user *models.User, recipe *models.Recipe) (*models.Rating, error) {
	rating := &models.Rating{
		UserID:    user.ID,
		RecipeID:  recipe.ID,
		Score:     gofakeit.Number(1, 5),
		Comment:   gofakeit.Sentence(12),
		CreatedAt: f.randomPast(),
	}
	if err := f.db.Omit("User", "Replies").Create(rating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}

// CreateLike persists a like, ignoring duplicate pairs.
func (f *Factory) CreateLike(user *models.User, recipe *models.Recipe) error {
	return f.db.Exec(
		`INSERT INTO likes (user_id, recipe_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, recipe_id) DO NOTHING`,
		user.ID, recipe.ID, f.randomPast(),
	).Error
}

// CreateFollow persists a follow edge, ignoring duplicates and self-follows.
func (f *Factory) CreateFollow(follower, followed *models.User) error {
	if follower.ID == followed.ID {
		return nil
	}
	return f.db.Exec(
		`INSERT INTO follows (follower_id, followed_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (follower_id, followed_id) DO NOTHING`,
		follower.ID, followed.ID, f.randomPast(),
	).Error
}
