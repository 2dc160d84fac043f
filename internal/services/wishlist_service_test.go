package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"agroland-backend/internal/models"
)

type WishlistServiceTestSuite struct {
	suite.Suite
	db              *sql.DB
	wishlistService *WishlistService
	landService     *LandService
	farmer          *models.User
	buyer           *models.User
}

func (suite *WishlistServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.wishlistService = NewWishlistService(suite.db)
	suite.landService = NewLandService(suite.db)
	suite.farmer = createTestUser(suite.T(), suite.db, "farmer@example.com", "farmer")
	suite.buyer = createTestUser(suite.T(), suite.db, "buyer@example.com", "buyer")
}

func (suite *WishlistServiceTestSuite) TestSaveLand() {
	land := createApprovedLand(suite.T(), suite.db, suite.farmer.ID)

	saved, err := suite.wishlistService.SaveLand(suite.buyer.ID, land.ID)
	suite.Require().NoError(err)
	suite.Equal(land.ID, saved.LandID)

	isSaved, err := suite.wishlistService.IsSaved(suite.buyer.ID, land.ID)
	suite.Require().NoError(err)
	suite.True(isSaved)
}

func (suite *WishlistServiceTestSuite) TestSaveLandTwice() {
	land := createApprovedLand(suite.T(), suite.db, suite.farmer.ID)

	_, err := suite.wishlistService.SaveLand(suite.buyer.ID, land.ID)
	suite.Require().NoError(err)

	_, err = suite.wishlistService.SaveLand(suite.buyer.ID, land.ID)
	suite.Require().ErrorIs(err, ErrAlreadySaved)
}

func (suite *WishlistServiceTestSuite) TestSavePendingLandLooksAbsent() {
	pending, err := suite.landService.CreateLand(suite.farmer.ID, testLandCreate())
	suite.Require().NoError(err)

	_, err = suite.wishlistService.SaveLand(suite.buyer.ID, pending.ID)
	suite.Require().ErrorIs(err, ErrLandNotFound)

	_, err = suite.wishlistService.SaveLand(suite.buyer.ID, "no-such-land")
	suite.Require().ErrorIs(err, ErrLandNotFound)
}

func (suite *WishlistServiceTestSuite) TestUnsaveLand() {
	land := createApprovedLand(suite.T(), suite.db, suite.farmer.ID)

	_, err := suite.wishlistService.SaveLand(suite.buyer.ID, land.ID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.wishlistService.UnsaveLand(suite.buyer.ID, land.ID))

	// Removing a land that is no longer (or never was) saved is a no-op
	suite.Require().NoError(suite.wishlistService.UnsaveLand(suite.buyer.ID, land.ID))
	suite.Require().NoError(suite.wishlistService.UnsaveLand(suite.buyer.ID, "no-such-land"))

	saved, err := suite.wishlistService.GetSavedLands(suite.buyer.ID)
	suite.Require().NoError(err)
	suite.Empty(saved)
}

func (suite *WishlistServiceTestSuite) TestGetSavedLandsHidesUnapproved() {
	kept := createApprovedLand(suite.T(), suite.db, suite.farmer.ID)
	demoted := createApprovedLand(suite.T(), suite.db, suite.farmer.ID)

	_, err := suite.wishlistService.SaveLand(suite.buyer.ID, kept.ID)
	suite.Require().NoError(err)
	_, err = suite.wishlistService.SaveLand(suite.buyer.ID, demoted.ID)
	suite.Require().NoError(err)

	// A significant edit pushes the listing back into review and out of
	// the saved list.
	newPrice := demoted.Price * 2
	_, err = suite.landService.UpdateLand(demoted.ID, suite.farmer.ID, false, &models.LandUpdate{
		Price: &newPrice,
	})
	suite.Require().NoError(err)

	saved, err := suite.wishlistService.GetSavedLands(suite.buyer.ID)
	suite.Require().NoError(err)
	suite.Require().Len(saved, 1)
	suite.Equal(kept.ID, saved[0].LandID)
	suite.Require().NotNil(saved[0].Land)
	suite.Equal(kept.Title, saved[0].Land.Title)
}

func TestWishlistServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WishlistServiceTestSuite))
}
