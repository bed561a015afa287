package cache

import (
	"context"
	"fmt"
	"time"
)

// User records are deliberately not cached: a JSON round-trip drops the
// fields tagged `json:"-"` (password hash, reset code), which credential
// checks and whole-record saves depend on.
const (
	RecipeKeyPrefix = "recipe:%d"
	TagCatalogKey   = "tags:catalog"
)

const (
	RecipeTTL     = 10 * time.Minute
	TagCatalogTTL = 30 * time.Minute
)

func RecipeKey(recipeID uint) string {
	return fmt.Sprintf(RecipeKeyPrefix, recipeID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateRecipe(ctx context.Context, recipeID uint) {
	Invalidate(ctx, RecipeKey(recipeID))
}

func InvalidateTagCatalog(ctx context.Context) {
	Invalidate(ctx, TagCatalogKey)
}
