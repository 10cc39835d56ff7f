package user

import (
	"Recipegram-Backend/domain"
	"Recipegram-Backend/entities"
	"Recipegram-Backend/pkg/jwt"
	"Recipegram-Backend/pkg/recipe"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Subscription{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.IngredientInRecipe{},
		&entities.RecipeTag{},
		&entities.Favorite{},
		&entities.CartItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewUserService(NewUserRepository(db), recipe.NewRecipeRepository(db), jwt.NewJWTService()), db
}

func register(t *testing.T, svc UserService, username string) domain.UserResponse {
	t.Helper()
	res, err := svc.Register(context.Background(), domain.RegisterUserRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "topsecret",
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}
	return res
}

func seedRecipe(t *testing.T, db *gorm.DB, authorID string, name string) {
	t.Helper()
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		t.Fatalf("bad author id: %v", err)
	}
	err = db.Create(&entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorUUID,
		Name:        name,
		CookingTime: 10,
		PubDate:     time.Now(),
	}).Error
	if err != nil {
		t.Fatalf("failed to seed recipe %s: %v", name, err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	registered := register(t, svc, "alice")

	if registered.Email != "alice@example.com" || registered.IsSubscribed {
		t.Fatalf("unexpected register payload: %+v", registered)
	}

	res, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "topsecret",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected a token on successful login")
	}

	if _, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	}); !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid for wrong password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "topsecret",
	}); !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid for unknown email, got %v", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	register(t, svc, "bob")

	if _, err := svc.Register(context.Background(), domain.RegisterUserRequest{
		Email:     "bob@example.com",
		Username:  "someone-else",
		FirstName: "Test",
		LastName:  "User",
		Password:  "topsecret",
	}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := svc.Register(context.Background(), domain.RegisterUserRequest{
		Email:     "other@example.com",
		Username:  "bob",
		FirstName: "Test",
		LastName:  "User",
		Password:  "topsecret",
	}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

// raceUserRepository simulates a register losing the race to another
// request: the pre-checks see no user, but the insert hits a unique
// index. When emailWinsRace is set the email row exists by the time the
// conflict is re-checked; otherwise the username index fired.
type raceUserRepository struct {
	UserRepository
	emailWinsRace bool
	emailLookups  int
}

func (r *raceUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.emailLookups++
	if r.emailWinsRace && r.emailLookups > 1 {
		return &entities.User{ID: uuid.New(), Email: email}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *raceUserRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *raceUserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return gorm.ErrDuplicatedKey
}

func TestRegisterConcurrentDuplicateMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		emailWinsRace bool
		wantErr       error
	}{
		{"email index fired", true, domain.ErrEmailTaken},
		{"username index fired", false, domain.ErrUsernameTaken},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewUserService(&raceUserRepository{emailWinsRace: tt.emailWinsRace}, nil, nil)

			_, err := svc.Register(context.Background(), domain.RegisterUserRequest{
				Email:     "raced@example.com",
				Username:  "raced",
				FirstName: "Test",
				LastName:  "User",
				Password:  "topsecret",
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSubscribeRules(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	follower := register(t, svc, "follower")
	author := register(t, svc, "writer")

	if _, err := svc.Subscribe(context.Background(), follower.ID, follower.ID, 0); !errors.Is(err, domain.ErrSelfSubscribe) {
		t.Fatalf("expected ErrSelfSubscribe, got %v", err)
	}
	if _, err := svc.Subscribe(context.Background(), follower.ID, uuid.NewString(), 0); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	res, err := svc.Subscribe(context.Background(), follower.ID, author.ID, 0)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	if !res.IsSubscribed || res.Username != "writer" {
		t.Fatalf("unexpected subscription payload: %+v", res)
	}

	if _, err := svc.Subscribe(context.Background(), follower.ID, author.ID, 0); !errors.Is(err, domain.ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}

	if err := svc.Unsubscribe(context.Background(), follower.ID, author.ID); err != nil {
		t.Fatalf("Unsubscribe returned error: %v", err)
	}
	if err := svc.Unsubscribe(context.Background(), follower.ID, author.ID); !errors.Is(err, domain.ErrNotSubscribed) {
		t.Fatalf("expected ErrNotSubscribed, got %v", err)
	}
}

func TestSubscriptionsRecipesLimit(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	follower := register(t, svc, "reader")
	author := register(t, svc, "prolific")
	for i := 0; i < 3; i++ {
		seedRecipe(t, db, author.ID, fmt.Sprintf("Recipe %d", i))
	}

	if _, err := svc.Subscribe(context.Background(), follower.ID, author.ID, 0); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	res, err := svc.GetSubscriptions(context.Background(), follower.ID, 2, 1, 10)
	if err != nil {
		t.Fatalf("GetSubscriptions returned error: %v", err)
	}
	if len(res.Authors) != 1 {
		t.Fatalf("expected 1 subscribed author, got %d", len(res.Authors))
	}

	sub := res.Authors[0]
	if sub.Username != "prolific" || !sub.IsSubscribed {
		t.Fatalf("unexpected author payload: %+v", sub)
	}
	// The limit caps the embedded recipes but not the total count.
	if len(sub.Recipes) != 2 {
		t.Fatalf("expected recipes capped at 2, got %d", len(sub.Recipes))
	}
	if sub.RecipesCount != 3 {
		t.Fatalf("expected recipes_count 3, got %d", sub.RecipesCount)
	}
}

func TestGetUsersSubscribedFlags(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	viewer := register(t, svc, "viewer")
	followed := register(t, svc, "followed")
	register(t, svc, "stranger")

	if _, err := svc.Subscribe(context.Background(), viewer.ID, followed.ID, 0); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	res, err := svc.GetUsers(context.Background(), viewer.ID, 1, 10)
	if err != nil {
		t.Fatalf("GetUsers returned error: %v", err)
	}
	if len(res.Users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(res.Users))
	}

	flags := map[string]bool{}
	for _, u := range res.Users {
		flags[u.Username] = u.IsSubscribed
	}
	if !flags["followed"] || flags["stranger"] || flags["viewer"] {
		t.Fatalf("unexpected is_subscribed flags: %v", flags)
	}

	// Anonymous listing carries no subscription flags.
	res, err = svc.GetUsers(context.Background(), "", 1, 10)
	if err != nil {
		t.Fatalf("GetUsers returned error: %v", err)
	}
	for _, u := range res.Users {
		if u.IsSubscribed {
			t.Fatalf("expected false is_subscribed for anonymous viewer, got %+v", u)
		}
	}
}
