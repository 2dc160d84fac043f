package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type LandHandlersTestSuite struct {
	suite.Suite
	env         *testEnv
	farmerToken string
	buyerToken  string
	adminToken  string
}

func (suite *LandHandlersTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
	suite.farmerToken, _ = suite.env.registerUser(suite.T(), "farmer@example.com", "farmer")
	suite.buyerToken, _ = suite.env.registerUser(suite.T(), "buyer@example.com", "buyer")
	_, adminID := suite.env.registerUser(suite.T(), "admin@example.com", "buyer")
	suite.adminToken = suite.env.promoteToAdmin(suite.T(), adminID)
}

func landPayload() gin.H {
	return gin.H{
		"title":        "Fertile riverside cropland",
		"description":  "Well irrigated cropland close to the mandi with year-round canal water.",
		"landType":     "cropland",
		"listingType":  "sale",
		"price":        2500000,
		"pricePerAcre": 500000,
		"totalArea":    5,
		"city":         "Nashik",
		"state":        "Maharashtra",
		"pinCode":      "422001",
	}
}

// createLand lists a land as the farmer and returns its id
func (suite *LandHandlersTestSuite) createLand() string {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/lands", landPayload(), suite.farmerToken)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(suite.T(), w)["data"].(map[string]interface{})["id"].(string)
}

func (suite *LandHandlersTestSuite) approveLand(landID string) {
	w := suite.env.request(suite.T(), http.MethodPatch, "/api/admin/lands/"+landID+"/approve", nil, suite.adminToken)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *LandHandlersTestSuite) TestBuyerCannotCreateListing() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/lands", landPayload(), suite.buyerToken)
	suite.Require().Equal(http.StatusForbidden, w.Code)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/lands", landPayload(), "")
	suite.Require().Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LandHandlersTestSuite) TestPendingListingHiddenFromPublic() {
	landID := suite.createLand()

	// Anonymous and buyer views get a 404 until approval
	w := suite.env.request(suite.T(), http.MethodGet, "/api/lands/"+landID, nil, "")
	suite.Require().Equal(http.StatusNotFound, w.Code)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/lands/"+landID, nil, suite.buyerToken)
	suite.Require().Equal(http.StatusNotFound, w.Code)

	// The owner still sees it
	w = suite.env.request(suite.T(), http.MethodGet, "/api/lands/"+landID, nil, suite.farmerToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	suite.approveLand(landID)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/lands/"+landID, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	land := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	suite.Equal("approved", land["approvalStatus"])
}

func (suite *LandHandlersTestSuite) TestSearchEnvelope() {
	landID := suite.createLand()
	suite.approveLand(landID)
	suite.createLand() // stays pending

	w := suite.env.request(suite.T(), http.MethodGet, "/api/lands?city=Nashik", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	data := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	lands := data["lands"].([]interface{})
	suite.Require().Len(lands, 1)
	pagination := data["pagination"].(map[string]interface{})
	suite.Equal(float64(1), pagination["totalItems"])
	suite.Equal(float64(1), pagination["currentPage"])
}

func (suite *LandHandlersTestSuite) TestSearchRejectsInvalidFilters() {
	w := suite.env.request(suite.T(), http.MethodGet, "/api/lands?minPrice=100&maxPrice=50", nil, "")
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/lands?minPrice=abc", nil, "")
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/lands?sort=ownerId", nil, "")
	suite.Require().Equal(http.StatusBadRequest, w.Code)
}

func (suite *LandHandlersTestSuite) TestSignificantEditRequiresReapproval() {
	landID := suite.createLand()
	suite.approveLand(landID)

	w := suite.env.request(suite.T(), http.MethodPut, "/api/lands/"+landID, gin.H{
		"price": 3000000,
	}, suite.farmerToken)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(suite.T(), w)
	suite.Contains(body["message"], "re-approval")
	land := body["data"].(map[string]interface{})
	suite.Equal("pending", land["approvalStatus"])
}

func (suite *LandHandlersTestSuite) TestEditSomeoneElsesListing() {
	landID := suite.createLand()
	suite.approveLand(landID)

	w := suite.env.request(suite.T(), http.MethodPut, "/api/lands/"+landID, gin.H{
		"title": "Hijacked listing title",
	}, suite.buyerToken)
	suite.Require().Equal(http.StatusForbidden, w.Code)
}

func (suite *LandHandlersTestSuite) TestRejectRequiresComments() {
	landID := suite.createLand()

	w := suite.env.request(suite.T(), http.MethodPatch, "/api/admin/lands/"+landID+"/reject", gin.H{}, suite.adminToken)
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), http.MethodPatch, "/api/admin/lands/"+landID+"/reject", gin.H{
		"comments": "Ownership documents are missing",
	}, suite.adminToken)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// Non-admins cannot reach the review queue at all
	w = suite.env.request(suite.T(), http.MethodGet, "/api/admin/lands/pending", nil, suite.farmerToken)
	suite.Require().Equal(http.StatusForbidden, w.Code)
}

func (suite *LandHandlersTestSuite) TestSaveAndUnsave() {
	landID := suite.createLand()
	suite.approveLand(landID)

	w := suite.env.request(suite.T(), http.MethodPost, "/api/lands/"+landID+"/save", nil, suite.buyerToken)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	// Saving twice conflicts
	w = suite.env.request(suite.T(), http.MethodPost, "/api/lands/"+landID+"/save", nil, suite.buyerToken)
	suite.Require().Equal(http.StatusConflict, w.Code)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/lands/saved", nil, suite.buyerToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	saved := decodeBody(suite.T(), w)["data"].(map[string]interface{})["savedLands"].([]interface{})
	suite.Require().Len(saved, 1)

	w = suite.env.request(suite.T(), http.MethodDelete, "/api/lands/"+landID+"/save", nil, suite.buyerToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	// Unsaving again is still a success
	w = suite.env.request(suite.T(), http.MethodDelete, "/api/lands/"+landID+"/save", nil, suite.buyerToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/lands/saved", nil, suite.buyerToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	saved = decodeBody(suite.T(), w)["data"].(map[string]interface{})["savedLands"].([]interface{})
	suite.Empty(saved)
}

func (suite *LandHandlersTestSuite) TestSavePendingListing() {
	landID := suite.createLand()

	w := suite.env.request(suite.T(), http.MethodPost, "/api/lands/"+landID+"/save", nil, suite.buyerToken)
	suite.Require().Equal(http.StatusNotFound, w.Code)
}

func (suite *LandHandlersTestSuite) TestInquiryOnOwnListing() {
	landID := suite.createLand()
	suite.approveLand(landID)

	payload := gin.H{"message": "Is the canal water share included in the price?"}

	w := suite.env.request(suite.T(), http.MethodPost, "/api/lands/"+landID+"/inquiries", payload, suite.farmerToken)
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/lands/"+landID+"/inquiries", payload, suite.buyerToken)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *LandHandlersTestSuite) TestMyLandsCounts() {
	landID := suite.createLand()
	suite.approveLand(landID)
	suite.createLand()

	w := suite.env.request(suite.T(), http.MethodGet, "/api/lands/my", nil, suite.farmerToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	data := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	suite.Len(data["lands"].([]interface{}), 2)
	counts := data["counts"].(map[string]interface{})
	suite.Equal(float64(1), counts["approved"])
	suite.Equal(float64(1), counts["pending"])
}

func (suite *LandHandlersTestSuite) TestFeaturedStrip() {
	landID := suite.createLand()
	suite.approveLand(landID)

	// Not featured yet
	w := suite.env.request(suite.T(), http.MethodGet, "/api/lands/featured", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	lands := decodeBody(suite.T(), w)["data"].(map[string]interface{})["lands"].([]interface{})
	suite.Empty(lands)

	_, err := suite.env.db.Exec("UPDATE lands SET is_featured = true WHERE id = ?", landID)
	suite.Require().NoError(err)

	w = suite.env.request(suite.T(), http.MethodGet, fmt.Sprintf("/api/lands/featured?limit=%d", 6), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	lands = decodeBody(suite.T(), w)["data"].(map[string]interface{})["lands"].([]interface{})
	suite.Require().Len(lands, 1)
}

func (suite *LandHandlersTestSuite) TestRecordViewEndpoint() {
	landID := suite.createLand()

	// Listings in review are invisible to the counter too
	w := suite.env.request(suite.T(), http.MethodPost, "/api/lands/"+landID+"/view", nil, "")
	suite.Require().Equal(http.StatusNotFound, w.Code)

	suite.approveLand(landID)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/lands/"+landID+"/view", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	data := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	suite.Equal(float64(1), data["views"])

	w = suite.env.request(suite.T(), http.MethodPost, "/api/lands/"+landID+"/view", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	data = decodeBody(suite.T(), w)["data"].(map[string]interface{})
	suite.Equal(float64(2), data["views"])
}

func (suite *LandHandlersTestSuite) TestPropertiesAlias() {
	landID := suite.createLand()
	suite.approveLand(landID)

	// The legacy prefix serves the same handlers as /lands
	w := suite.env.request(suite.T(), http.MethodGet, "/api/properties/"+landID, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	land := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	suite.Equal(landID, land["id"])

	w = suite.env.request(suite.T(), http.MethodPost, "/api/properties/"+landID+"/save", nil, suite.buyerToken)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.env.request(suite.T(), http.MethodDelete, "/api/properties/"+landID+"/save", nil, suite.buyerToken)
	suite.Require().Equal(http.StatusOK, w.Code)
}

func TestLandHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(LandHandlersTestSuite))
}
