package ledger

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

func ClaimLockResource(claimKey string) string {
	return models.CollectionClaims + "/" + claimKey
}

func (l *Ledger) GetClaim(claimKey string) (*models.ClaimAuthorization, error) {
	var claim models.ClaimAuthorization
	err := l.db.FindOne(models.CollectionClaims, bson.M{"claim_key": claimKey}, &claim)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewNotFoundError("claim", claimKey)
		}
		return nil, err
	}
	return &claim, nil
}

// InsertClaim stores a signed claim. When another writer got there first the
// stored claim is returned instead, so callers always hand out one tuple.
func (l *Ledger) InsertClaim(claim models.ClaimAuthorization) (*models.ClaimAuthorization, error) {
	if err := l.db.InsertOne(models.CollectionClaims, claim); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.WithField("claim_key", claim.ClaimKey).Warn("[LEDGER] Claim already stored, returning stored signature")
			return l.GetClaim(claim.ClaimKey)
		}
		return nil, err
	}
	return &claim, nil
}
