package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/example/sofreh/internal/models"
)

func bundle(name string, productIDs ...uuid.UUID) models.FavoriteOrder {
	fav := models.FavoriteOrder{Name: name}
	for _, id := range productIDs {
		fav.Items = append(fav.Items, models.FavoriteOrderItem{ProductID: id, Quantity: 1})
	}
	return fav
}

func TestFindSingleItemFavorite(t *testing.T) {
	target := uuid.New()
	other := uuid.New()

	favorites := []models.FavoriteOrder{
		bundle("weekly combo", other, target),
		bundle("just the one", target),
		bundle("something else", other),
	}

	match := findSingleItemFavorite(favorites, target)
	assert.NotNil(t, match)
	assert.Equal(t, "just the one", match.Name)
}

func TestFindSingleItemFavoriteIgnoresMultiItemBundles(t *testing.T) {
	target := uuid.New()

	favorites := []models.FavoriteOrder{
		bundle("combo", target, uuid.New()),
	}

	assert.Nil(t, findSingleItemFavorite(favorites, target))
}

func TestFindSingleItemFavoriteNoMatch(t *testing.T) {
	assert.Nil(t, findSingleItemFavorite(nil, uuid.New()))
}
