package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/config"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRatingRepo keeps ratings in memory, enough to drive the handlers.
type fakeRatingRepo struct {
	ratings []*models.Rating
	nextID  uint
}

func newFakeRatingRepo() *fakeRatingRepo { return &fakeRatingRepo{nextID: 1} }

func (f *fakeRatingRepo) Create(_ context.Context, r *models.Rating) error {
	r.ID = f.nextID
	f.nextID++
	f.ratings = append(f.ratings, r)
	return nil
}

func (f *fakeRatingRepo) Update(_ context.Context, r *models.Rating) error {
	for i, existing := range f.ratings {
		if existing.ID == r.ID {
			f.ratings[i] = r
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRatingRepo) GetByID(_ context.Context, id uint) (*models.Rating, error) {
	for _, r := range f.ratings {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRatingRepo) GetByUserAndRecipe(_ context.Context, userID, recipeID uint) (*models.Rating, error) {
	for _, r := range f.ratings {
		if r.UserID == userID && r.RecipeID == recipeID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRatingRepo) ListByRecipe(_ context.Context, recipeID, _ uint) ([]*models.Rating, error) {
	var out []*models.Rating
	for _, r := range f.ratings {
		if r.RecipeID == recipeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) Stats(_ context.Context, recipeID uint) (*models.RatingStats, error) {
	stats := &models.RatingStats{}
	var sum int
	for _, r := range f.ratings {
		if r.RecipeID == recipeID {
			stats.TotalRatings++
			sum += r.Score
		}
	}
	if stats.TotalRatings > 0 {
		avg := float64(sum) / float64(stats.TotalRatings)
		stats.AvgScore = &avg
	}
	return stats, nil
}

func (f *fakeRatingRepo) Delete(_ context.Context, id uint) error {
	for i, r := range f.ratings {
		if r.ID == id {
			f.ratings = append(f.ratings[:i], f.ratings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRatingRepo) GetReaction(context.Context, uint, uint) (*models.RatingReaction, error) {
	return nil, nil
}
func (f *fakeRatingRepo) CreateReaction(context.Context, *models.RatingReaction) error { return nil }
func (f *fakeRatingRepo) UpdateReaction(context.Context, *models.RatingReaction) error { return nil }
func (f *fakeRatingRepo) DeleteReaction(context.Context, uint) error                   { return nil }
func (f *fakeRatingRepo) CountReactions(context.Context, uint) (int64, int64, error) {
	return 0, 0, nil
}
func (f *fakeRatingRepo) CreateReply(context.Context, *models.RatingReply) error { return nil }
func (f *fakeRatingRepo) GetReplyByID(context.Context, uint) (*models.RatingReply, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRatingRepo) DeleteReply(context.Context, uint) error { return nil }

func newRatingTestApp(t *testing.T, recipeCount int) (*fiber.App, *fakeRatingRepo) {
	t.Helper()
	recipeRepo := newFakeRecipeRepo(recipeCount)
	ratingRepo := newFakeRatingRepo()
	s := &Server{
		config:        &config.Config{JWTSecret: "test_secret"},
		ratingService: service.NewRatingService(ratingRepo, recipeRepo),
	}

	app := fiber.New()
	app.Post("/recipes/:id/avaliar", asUser(2), s.RateRecipe)
	app.Get("/recipes/:id/avaliacoes", s.GetRatings)
	return app, ratingRepo
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRateRecipe_CreateAndResubmit(t *testing.T) {
	app, repo := newRatingTestApp(t, 1)

	resp := postJSON(t, app, "/recipes/1/avaliar", fiber.Map{"score": 4, "comment": "Muito bom"})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rating models.Rating
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rating))
	assert.Equal(t, 4, rating.Score)
	assert.Equal(t, "Muito bom", rating.Comment)

	// Rating again updates in place instead of stacking a second row.
	resp2 := postJSON(t, app, "/recipes/1/avaliar", fiber.Map{"score": 5})
	defer func() { _ = resp2.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp2.StatusCode)
	assert.Len(t, repo.ratings, 1)
	assert.Equal(t, 5, repo.ratings[0].Score)
	assert.Equal(t, "Muito bom", repo.ratings[0].Comment, "blank comment keeps the old one")
}

func TestRateRecipe_ScoreValidation(t *testing.T) {
	app, repo := newRatingTestApp(t, 1)

	for _, score := range []int{0, 6} {
		resp := postJSON(t, app, "/recipes/1/avaliar", fiber.Map{"score": score})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "score %d", score)
		_ = resp.Body.Close()
	}
	assert.Empty(t, repo.ratings)
}

func TestRateRecipe_UnknownRecipe(t *testing.T) {
	app, _ := newRatingTestApp(t, 0)

	resp := postJSON(t, app, "/recipes/9/avaliar", fiber.Map{"score": 3})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetRatings_Envelope(t *testing.T) {
	app, repo := newRatingTestApp(t, 1)
	repo.ratings = []*models.Rating{
		{ID: 1, RecipeID: 1, UserID: 2, Score: 4},
		{ID: 2, RecipeID: 1, UserID: 3, Score: 5},
	}
	repo.nextID = 3

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/recipes/1/avaliacoes", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Stats struct {
			TotalRatings int64    `json:"totalRatings"`
			AvgScore     *float64 `json:"avgScore"`
		} `json:"stats"`
		Ratings []models.Rating `json:"ratings"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, int64(2), out.Stats.TotalRatings)
	require.NotNil(t, out.Stats.AvgScore)
	assert.InDelta(t, 4.5, *out.Stats.AvgScore, 0.001)
	assert.Len(t, out.Ratings, 2)
}

func TestGetRatings_EmptyListNotNull(t *testing.T) {
	app, _ := newRatingTestApp(t, 1)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/recipes/1/avaliacoes", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.JSONEq(t, "[]", string(out["ratings"]))
}
