package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type UploadHandlersTestSuite struct {
	suite.Suite
	env *testEnv
}

func (suite *UploadHandlersTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
}

// multipartUpload posts a fake image file to the given route
func (suite *UploadHandlersTestSuite) multipartUpload(path, field, filename, contentType, token string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	suite.Require().NoError(err)
	_, err = part.Write([]byte("not-really-pixels"))
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.env.router.ServeHTTP(w, req)
	return w
}

func (suite *UploadHandlersTestSuite) TestUploadAvatarUpdatesProfile() {
	token, _ := suite.env.registerUser(suite.T(), "asha@example.com", "buyer")

	w := suite.multipartUpload("/api/upload/avatar", "avatar", "holiday photo.png", "image/png", token)
	suite.Require().Equal(http.StatusCreated, w.Code)

	data := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	url := data["url"].(string)
	suite.True(strings.HasPrefix(url, "/uploads/avatars/"), url)
	suite.Contains(url, "holiday-photo", "original filename survives as a slug")

	// The users row now carries the avatar URL
	w = suite.env.request(suite.T(), http.MethodGet, "/api/auth/me", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	profile := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	suite.Equal(url, profile["avatar"])
}

func (suite *UploadHandlersTestSuite) TestUploadImageRequiresListingRole() {
	buyerToken, _ := suite.env.registerUser(suite.T(), "buyer@example.com", "buyer")
	w := suite.multipartUpload("/api/upload/image", "image", "plot.jpg", "image/jpeg", buyerToken)
	suite.Require().Equal(http.StatusForbidden, w.Code)

	farmerToken, _ := suite.env.registerUser(suite.T(), "farmer@example.com", "farmer")
	w = suite.multipartUpload("/api/upload/image", "image", "plot.jpg", "image/jpeg", farmerToken)
	suite.Require().Equal(http.StatusCreated, w.Code)
}

func (suite *UploadHandlersTestSuite) TestUploadRejectsUnknownType() {
	token, _ := suite.env.registerUser(suite.T(), "asha@example.com", "buyer")
	w := suite.multipartUpload("/api/upload/avatar", "avatar", "resume.pdf", "application/pdf", token)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
}

func TestUploadHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(UploadHandlersTestSuite))
}
