package user

import (
	"Recipegram-Backend/domain"
	"Recipegram-Backend/entities"
	"Recipegram-Backend/internal/utils/mailing"
	"Recipegram-Backend/pkg/jwt"
	"Recipegram-Backend/pkg/recipe"
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterUserRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, viewerID string, page, limit int) (domain.UserListResponse, error)
		GetUserDetail(ctx context.Context, id, viewerID string) (domain.UserResponse, error)

		Subscribe(ctx context.Context, followerID, authorID string, recipesLimit int) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, followerID, authorID string) error
		GetSubscriptions(ctx context.Context, followerID string, recipesLimit, page, limit int) (domain.SubscriptionListResponse, error)
	}

	userService struct {
		userRepository   UserRepository
		recipeRepository recipe.RecipeRepository
		jwtService       jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, recipeRepository recipe.RecipeRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository:   userRepository,
		recipeRepository: recipeRepository,
		jwtService:       jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterUserRequest) (domain.UserResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.UserResponse{}, domain.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      domain.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent register slipped past the pre-checks; find
			// out which unique index fired.
			if _, lookupErr := s.userRepository.GetUserByEmail(ctx, req.Email); lookupErr == nil {
				return domain.UserResponse{}, domain.ErrEmailTaken
			}
			return domain.UserResponse{}, domain.ErrUsernameTaken
		}
		return domain.UserResponse{}, err
	}

	return userResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{Token: token}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return userResponse(user, false), nil
}

func (s *userService) GetUsers(ctx context.Context, viewerID string, page, limit int) (domain.UserListResponse, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	subscribed := map[string]bool{}
	if viewerID != "" && len(users) > 0 {
		ids := make([]string, 0, len(users))
		for _, user := range users {
			ids = append(ids, user.ID.String())
		}
		if subscribed, err = s.userRepository.GetSubscribedSet(ctx, viewerID, ids); err != nil {
			return domain.UserListResponse{}, err
		}
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, user := range users {
		res = append(res, userResponse(user, subscribed[user.ID.String()]))
	}

	return domain.UserListResponse{
		Users:      res,
		Pagination: domain.NewPagination(page, limit, count),
	}, nil
}

func (s *userService) GetUserDetail(ctx context.Context, id, viewerID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	isSubscribed := false
	if viewerID != "" {
		if isSubscribed, err = s.userRepository.IsSubscribed(ctx, viewerID, id); err != nil {
			return domain.UserResponse{}, err
		}
	}

	return userResponse(user, isSubscribed), nil
}

func (s *userService) Subscribe(ctx context.Context, followerID, authorID string, recipesLimit int) (domain.SubscriptionResponse, error) {
	if followerID == authorID {
		return domain.SubscriptionResponse{}, domain.ErrSelfSubscribe
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscriptionResponse{}, domain.ErrUserNotFound
		}
		return domain.SubscriptionResponse{}, err
	}

	exists, err := s.userRepository.IsSubscribed(ctx, followerID, authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	if exists {
		return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
	}

	if err := s.userRepository.CreateSubscription(ctx, followerID, authorID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
		}
		return domain.SubscriptionResponse{}, err
	}

	s.notifyNewSubscriber(ctx, followerID, author)

	return s.subscriptionResponse(ctx, author, true, recipesLimit)
}

func (s *userService) Unsubscribe(ctx context.Context, followerID, authorID string) error {
	removed, err := s.userRepository.DeleteSubscription(ctx, followerID, authorID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotSubscribed
	}
	return nil
}

func (s *userService) GetSubscriptions(ctx context.Context, followerID string, recipesLimit, page, limit int) (domain.SubscriptionListResponse, error) {
	authors, count, err := s.userRepository.GetSubscribedAuthors(ctx, followerID, page, limit)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}

	res := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		// Every author in this feed is by definition subscribed to.
		item, err := s.subscriptionResponse(ctx, author, true, recipesLimit)
		if err != nil {
			return domain.SubscriptionListResponse{}, err
		}
		res = append(res, item)
	}

	return domain.SubscriptionListResponse{
		Authors:    res,
		Pagination: domain.NewPagination(page, limit, count),
	}, nil
}

// subscriptionResponse composes the base user projection with the
// author's recipes and recipe count.
func (s *userService) subscriptionResponse(ctx context.Context, author *entities.User, isSubscribed bool, recipesLimit int) (domain.SubscriptionResponse, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID.String(), recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	count, err := s.recipeRepository.CountRecipesByAuthor(ctx, author.ID.String())
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	shorts := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		shorts = append(shorts, domain.RecipeShortResponse{
			ID:          r.ID.String(),
			Name:        r.Name,
			ImageURL:    r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}

	return domain.SubscriptionResponse{
		UserResponse: userResponse(author, isSubscribed),
		Recipes:      shorts,
		RecipesCount: count,
	}, nil
}

// notifyNewSubscriber mails the author about the new follower. Errors
// only get logged; the subscription itself already committed.
func (s *userService) notifyNewSubscriber(ctx context.Context, followerID string, author *entities.User) {
	follower, err := s.userRepository.GetUserByID(ctx, followerID)
	if err != nil {
		log.Errorf("failed to load follower for notification: %v", err)
		return
	}

	go func() {
		subject := "You have a new subscriber"
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p><b>%s</b> just subscribed to your recipes.</p>",
			author.FirstName,
			follower.Username,
		)
		if err := mailing.SendMail(author.Email, subject, body); err != nil {
			log.Errorf("failed to send subscription notification: %v", err)
		}
	}()
}

func userResponse(user *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}
