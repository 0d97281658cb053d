package profiles

import (
	"context"
	"fmt"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/actor"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/identity"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/interactions"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdoptAnonymous re-keys every row held by an anonymous session token to the
// given account in one transaction: ratings, comments, favorites, the profile
// itself and the likes the session handed out. This is an explicit, opt-in,
// one-time operation run when a visitor links their session to an account;
// nothing triggers it automatically. Collisions resolve in the account's
// favor: an interaction or like the account already holds drops the anonymous
// twin, and an existing account profile survives while the anonymous profile
// and the likes it received are dropped. The placeholder identity is never
// adoptable.
func (s *Service) AdoptAnonymous(ctx context.Context, token identity.Token, accountID string) error {
	if token.IsPlaceholder() {
		return ErrInvalidActor
	}
	anonymousKey := actor.Anonymous(token)
	accountKey := actor.Account(accountID)
	if anonymousKey.IsZero() || accountKey.IsZero() {
		return ErrInvalidActor
	}
	anon := anonymousKey.String()
	acct := accountKey.String()

	interactionTables := []string{
		interactions.Rating{}.TableName(),
		interactions.Comment{}.TableName(),
		interactions.Favorite{}.TableName(),
	}
	profilesTable := Profile{}.TableName()
	likesTable := ProfileLike{}.TableName()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range interactionTables {
			dropCollisions := fmt.Sprintf(
				"DELETE FROM %s WHERE actor_key = ? AND place_id IN (SELECT place_id FROM %s WHERE actor_key = ?)",
				table, table)
			if err := tx.Exec(dropCollisions, anon, acct).Error; err != nil {
				return err
			}
			rekey := fmt.Sprintf("UPDATE %s SET actor_key = ? WHERE actor_key = ?", table)
			if err := tx.Exec(rekey, acct, anon).Error; err != nil {
				return err
			}
		}

		// When the account already owns a profile the anonymous profile and
		// the likes it received go away; otherwise the row is re-keyed in
		// place and keeps its slug.
		dropReceivedLikes := fmt.Sprintf(
			"DELETE FROM %s WHERE profile_id IN (SELECT id FROM %s WHERE actor_key = ?) AND EXISTS (SELECT 1 FROM %s WHERE actor_key = ?)",
			likesTable, profilesTable, profilesTable)
		if err := tx.Exec(dropReceivedLikes, anon, acct).Error; err != nil {
			return err
		}
		dropProfile := fmt.Sprintf(
			"DELETE FROM %s WHERE actor_key = ? AND EXISTS (SELECT 1 FROM %s WHERE actor_key = ?)",
			profilesTable, profilesTable)
		if err := tx.Exec(dropProfile, anon, acct).Error; err != nil {
			return err
		}
		rekeyProfile := fmt.Sprintf("UPDATE %s SET actor_key = ? WHERE actor_key = ?", profilesTable)
		if err := tx.Exec(rekeyProfile, acct, anon).Error; err != nil {
			return err
		}

		// A profile liked under both keys keeps the account's like only, so
		// the dropped twin comes out of the target's counter.
		decrementDoubleLiked := fmt.Sprintf(
			"UPDATE %s SET like_count = like_count - 1 WHERE id IN (SELECT profile_id FROM %s WHERE actor_key = ? AND profile_id IN (SELECT profile_id FROM %s WHERE actor_key = ?))",
			profilesTable, likesTable, likesTable)
		if err := tx.Exec(decrementDoubleLiked, anon, acct).Error; err != nil {
			return err
		}
		dropLikeCollisions := fmt.Sprintf(
			"DELETE FROM %s WHERE actor_key = ? AND profile_id IN (SELECT profile_id FROM %s WHERE actor_key = ?)",
			likesTable, likesTable)
		if err := tx.Exec(dropLikeCollisions, anon, acct).Error; err != nil {
			return err
		}
		rekeyLikes := fmt.Sprintf("UPDATE %s SET actor_key = ? WHERE actor_key = ?", likesTable)
		return tx.Exec(rekeyLikes, acct, anon).Error
	})
	if err != nil {
		s.logger.Error("session adoption failed", zap.String("operation", opAdopt), zap.String("account_id", accountID), zap.Error(err))
		return err
	}
	return nil
}
