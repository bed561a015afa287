package seed

import (
	"log"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// catalogTags is the built-in tag catalog. Exclusive tags form groups the
// client treats as mutually exclusive (e.g. sweet vs savory).
var catalogTags = []models.Tag{
	{Name: "Vegano", Color: "#2e7d32"},
	{Name: "Vegetariano", Color: "#558b2f"},
	{Name: "Sem Glúten", Color: "#f9a825"},
	{Name: "Sem Lactose", Color: "#fbc02d"},
	{Name: "Fitness", Color: "#0277bd"},
	{Name: "Doce", Exclusive: true, Color: "#ad1457"},
	{Name: "Salgado", Exclusive: true, Color: "#4e342e"},
	{Name: "Rápido", Color: "#00838f"},
	{Name: "Churrasco", Color: "#bf360c"},
	{Name: "Massa", Color: "#6a1b9a"},
}

// EnsureTagCatalog inserts the built-in tags, skipping names that already
// exist. Safe to run on every boot.
func EnsureTagCatalog(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&catalogTags).Error
}

// Run populates the database with demo users, recipes, engagement and a
// follow mesh according to opts.
func Run(db *gorm.DB, opts Options) error {
	if err := EnsureTagCatalog(db); err != nil {
		return err
	}

	f := NewFactory(db, opts)

	if opts.Users <= 0 {
		opts.Users = 10
	}
	if opts.RecipesPerUser <= 0 {
		opts.RecipesPerUser = 3
	}

	var users []*models.User
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, u)
	}
	log.Printf("seeded %d users", len(users))

	var tags []models.Tag
	if err := db.Find(&tags).Error; err != nil {
		return err
	}

	var recipes []*models.Recipe
	for _, u := range users {
		for i := 0; i < opts.RecipesPerUser; i++ {
			r, err := f.CreateRecipe(u)
			if err != nil {
				return err
			}
			// 1-3 random tags per recipe
			for _, ti := range f.rng.Perm(len(tags))[:1+f.rng.Intn(3)] {
				if err := db.Exec(
					"INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
					r.ID, tags[ti].ID,
				).Error; err != nil {
					return err
				}
			}
			recipes = append(recipes, r)
		}
	}
	log.Printf("seeded %d recipes", len(recipes))

	for _, r := range recipes {
		raters := f.rng.Perm(len(users))
		n := opts.RatingsPerRecipe
		if n <= 0 || n > len(raters) {
			n = f.rng.Intn(len(raters)) + 1
		}
		for _, ui := range raters[:n] {
			if users[ui].ID == r.UserID {
				continue
			}
			if _, err := f.CreateRating(users[ui], r); err != nil {
				return err
			}
			if f.rng.Intn(2) == 0 {
				if err := f.CreateLike(users[ui], r); err != nil {
					return err
				}
			}
		}
	}

	// Random follow mesh: everyone follows a handful of others.
	for _, follower := range users {
		for _, ui := range f.rng.Perm(len(users))[:f.rng.Intn(len(users)/2+1)] {
			if err := f.CreateFollow(follower, users[ui]); err != nil {
				return err
			}
		}
	}

	log.Println("seeding complete")
	return nil
}
