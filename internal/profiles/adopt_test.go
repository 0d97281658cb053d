package profiles

import (
	"context"
	"errors"
	"testing"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/actor"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/identity"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/places"
)

func TestAdoptAnonymousRekeysInteractionRows(t *testing.T) {
	db := openTestDB(t)
	service, interactionService := newTestServices(t, db)
	place := places.Place{Name: "Biarritz Phare", Slug: "biarritz-phare", City: "Biarritz"}
	if err := db.Create(&place).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	token := identity.Token("wandering-session")
	sessionKey := actor.Anonymous(token)
	accountKey := actor.Account("acct-123")

	if _, err := interactionService.SubmitRating(context.Background(), place.ID, sessionKey, 5); err != nil {
		t.Fatalf("rating failed: %v", err)
	}
	if _, err := interactionService.SubmitComment(context.Background(), place.ID, sessionKey, "Vue imprenable", ""); err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	if _, err := interactionService.ToggleFavorite(context.Background(), place.ID, sessionKey); err != nil {
		t.Fatalf("favorite failed: %v", err)
	}

	if err := service.AdoptAnonymous(context.Background(), token, "acct-123"); err != nil {
		t.Fatalf("adoption failed: %v", err)
	}

	stored, err := interactionService.RatingFor(context.Background(), place.ID, accountKey)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if stored == nil || *stored != 5 {
		t.Fatalf("rating not re-keyed to the account, got %v", stored)
	}
	orphaned, err := interactionService.RatingFor(context.Background(), place.ID, sessionKey)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if orphaned != nil {
		t.Fatalf("anonymous row must not survive adoption")
	}
	held, err := interactionService.IsFavorited(context.Background(), place.ID, accountKey)
	if err != nil {
		t.Fatalf("presence check failed: %v", err)
	}
	if !held {
		t.Fatalf("favorite not re-keyed to the account")
	}
}

func TestAdoptAnonymousCarriesProfileAndLikes(t *testing.T) {
	db := openTestDB(t)
	service, interactionService := newTestServices(t, db)
	place := places.Place{Name: "Grottes de Sare", Slug: "grottes-de-sare", City: "Sare"}
	if err := db.Create(&place).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	token := identity.Token("pre-login-session")
	sessionKey := actor.Anonymous(token)
	accountKey := actor.Account("acct-77")

	if _, err := interactionService.ToggleFavorite(context.Background(), place.ID, sessionKey); err != nil {
		t.Fatalf("favorite failed: %v", err)
	}
	owned, err := service.Update(context.Background(), sessionKey, UpdateFields{Slug: stringPtr("maialen")})
	if err != nil {
		t.Fatalf("profile setup failed: %v", err)
	}
	if _, err := service.Update(context.Background(), anonKey("other-owner"), UpdateFields{Slug: stringPtr("ana")}); err != nil {
		t.Fatalf("second profile setup failed: %v", err)
	}
	if _, err := service.Like(context.Background(), "ana", sessionKey); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	if err := service.AdoptAnonymous(context.Background(), token, "acct-77"); err != nil {
		t.Fatalf("adoption failed: %v", err)
	}

	// The public page and its recommendations must survive the re-key.
	recommended, err := service.Recommendations(context.Background(), "maialen")
	if err != nil {
		t.Fatalf("recommendations failed: %v", err)
	}
	if len(recommended) != 1 || recommended[0].Slug != place.Slug {
		t.Fatalf("recommendations lost across adoption: %+v", recommended)
	}

	carried, err := service.Ensure(context.Background(), accountKey)
	if err != nil {
		t.Fatalf("ensure under account failed: %v", err)
	}
	if carried.ID != owned.ID || carried.Slug != "maialen" {
		t.Fatalf("account must own the original profile, got %+v", carried)
	}
	var profileRows int64
	if err := db.Model(&Profile{}).Where("actor_key = ?", sessionKey.String()).Count(&profileRows).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if profileRows != 0 {
		t.Fatalf("anonymous profile row must not survive adoption")
	}

	// The like handed out before login now counts as the account's.
	if _, err := service.Like(context.Background(), "ana", accountKey); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked for the re-keyed like, got %v", err)
	}
}

func TestAdoptAnonymousDropsCollidingRows(t *testing.T) {
	db := openTestDB(t)
	service, interactionService := newTestServices(t, db)
	place := places.Place{Name: "Mundaka", Slug: "mundaka", City: "Mundaka"}
	if err := db.Create(&place).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	token := identity.Token("pre-login-session")
	sessionKey := actor.Anonymous(token)
	accountKey := actor.Account("acct-dup")

	// The account rated, named its profile and liked the same page before
	// adopting its old session.
	if _, err := interactionService.SubmitRating(context.Background(), place.ID, accountKey, 2); err != nil {
		t.Fatalf("account rating failed: %v", err)
	}
	if _, err := interactionService.SubmitRating(context.Background(), place.ID, sessionKey, 5); err != nil {
		t.Fatalf("session rating failed: %v", err)
	}
	if _, err := service.Update(context.Background(), accountKey, UpdateFields{Slug: stringPtr("compte")}); err != nil {
		t.Fatalf("account profile setup failed: %v", err)
	}
	if _, err := service.Update(context.Background(), sessionKey, UpdateFields{Slug: stringPtr("session")}); err != nil {
		t.Fatalf("session profile setup failed: %v", err)
	}
	if _, err := service.Update(context.Background(), anonKey("other-owner"), UpdateFields{Slug: stringPtr("ana")}); err != nil {
		t.Fatalf("target profile setup failed: %v", err)
	}
	if _, err := service.Like(context.Background(), "ana", sessionKey); err != nil {
		t.Fatalf("session like failed: %v", err)
	}
	if _, err := service.Like(context.Background(), "ana", accountKey); err != nil {
		t.Fatalf("account like failed: %v", err)
	}

	if err := service.AdoptAnonymous(context.Background(), token, "acct-dup"); err != nil {
		t.Fatalf("adoption failed: %v", err)
	}

	stored, err := interactionService.RatingFor(context.Background(), place.ID, accountKey)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if stored == nil || *stored != 2 {
		t.Fatalf("account row must win the collision, got %v", stored)
	}
	count, err := interactionService.RatingCount(context.Background(), place.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one surviving rating, got %d", count)
	}

	kept, err := service.Ensure(context.Background(), accountKey)
	if err != nil {
		t.Fatalf("ensure under account failed: %v", err)
	}
	if kept.Slug != "compte" {
		t.Fatalf("account profile must win the collision, got %q", kept.Slug)
	}
	if _, err := service.BySlug(context.Background(), "session"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("anonymous profile must be dropped, got %v", err)
	}

	// The double like collapses to one row and the counter follows.
	target, err := service.BySlug(context.Background(), "ana")
	if err != nil {
		t.Fatalf("target lookup failed: %v", err)
	}
	if target.LikeCount != 1 {
		t.Fatalf("like counter must match the surviving rows, got %d", target.LikeCount)
	}
	var likeRows int64
	if err := db.Model(&ProfileLike{}).Where("actor_key = ?", accountKey.String()).Count(&likeRows).Error; err != nil {
		t.Fatalf("like count failed: %v", err)
	}
	if likeRows != 1 {
		t.Fatalf("expected one surviving like row, got %d", likeRows)
	}
}

func TestAdoptAnonymousRejectsPlaceholder(t *testing.T) {
	db := openTestDB(t)
	service, _ := newTestServices(t, db)

	err := service.AdoptAnonymous(context.Background(), identity.Token(identity.PlaceholderToken), "acct-1")
	if !errors.Is(err, ErrInvalidActor) {
		t.Fatalf("expected ErrInvalidActor, got %v", err)
	}
}
