package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"agroland-backend/internal/models"
)

type UserServiceTestSuite struct {
	suite.Suite
	db          *sql.DB
	userService *UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.userService = NewUserService(suite.db, testBcryptCost)
}

func (suite *UserServiceTestSuite) TestCreateUserDefaultsToBuyer() {
	user, err := suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "Password123",
	})
	suite.NoError(err)
	suite.Equal(models.UserTypeBuyer, user.UserType)
	suite.Equal(models.AuthProviderLocal, user.AuthProvider)
	suite.False(user.IsVerified)
	suite.True(user.IsActive)
	suite.NotEqual("Password123", user.PasswordHash, "password must be stored hashed")
}

func (suite *UserServiceTestSuite) TestCreateUserDuplicateEmail() {
	reg := &models.UserRegistration{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "Password123",
	}
	_, err := suite.userService.CreateUser(reg)
	suite.NoError(err)

	_, err = suite.userService.CreateUser(reg)
	suite.ErrorIs(err, ErrDuplicateEmail)

	// Same address with different case is still a duplicate
	reg.Email = "ASHA@Example.com"
	_, err = suite.userService.CreateUser(reg)
	suite.ErrorIs(err, ErrDuplicateEmail)
}

func (suite *UserServiceTestSuite) TestCreateUserDuplicatePhone() {
	_, err := suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "Password123",
		Phone:    "9876543210",
	})
	suite.Require().NoError(err)

	_, err = suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "Password123",
		Phone:    "9876543210",
	})
	suite.ErrorIs(err, ErrDuplicatePhone)

	var count int
	suite.Require().NoError(suite.db.QueryRow(
		"SELECT COUNT(*) FROM users WHERE phone = ?", "9876543210").Scan(&count))
	suite.Equal(1, count)

	// Accounts without a phone never collide with each other
	_, err = suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Meena Joshi",
		Email:    "meena@example.com",
		Password: "Password123",
	})
	suite.NoError(err)
}

func (suite *UserServiceTestSuite) TestCreateUserRejectsWeakPassword() {
	_, err := suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "alllowercase1",
	})
	suite.Error(err)
}

func (suite *UserServiceTestSuite) TestAuthenticateUserUniformErrors() {
	_, err := suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "Password123",
	})
	suite.NoError(err)

	_, wrongPassword := suite.userService.AuthenticateUser(&models.UserLogin{
		Email:    "asha@example.com",
		Password: "WrongPassword1",
	})
	_, unknownEmail := suite.userService.AuthenticateUser(&models.UserLogin{
		Email:    "nobody@example.com",
		Password: "Password123",
	})

	suite.Error(wrongPassword)
	suite.Error(unknownEmail)
	suite.Equal(wrongPassword.Error(), unknownEmail.Error(),
		"login failures must not reveal whether the account exists")
}

func (suite *UserServiceTestSuite) TestAuthenticateUserSuccess() {
	created, err := suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "Password123",
	})
	suite.NoError(err)

	user, err := suite.userService.AuthenticateUser(&models.UserLogin{
		Email:    "Asha@Example.com",
		Password: "Password123",
	})
	suite.NoError(err)
	suite.Equal(created.ID, user.ID)
	suite.NotNil(user.LastLogin)
}

func (suite *UserServiceTestSuite) TestAuthenticateDeactivatedUser() {
	user, err := suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "Password123",
	})
	suite.NoError(err)

	_, err = suite.userService.db.Exec("UPDATE users SET is_active = FALSE WHERE id = ?", user.ID)
	suite.NoError(err)

	_, err = suite.userService.AuthenticateUser(&models.UserLogin{
		Email:    "asha@example.com",
		Password: "Password123",
	})
	suite.Error(err)
	suite.Contains(err.Error(), "deactivated")
}

func (suite *UserServiceTestSuite) TestUpsertGoogleUserLinksExistingAccount() {
	created, err := suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "Password123",
		Phone:    "9876543210",
	})
	suite.NoError(err)

	linked, err := suite.userService.UpsertGoogleUser("google-123", "asha@example.com", "Asha Patil", "")
	suite.NoError(err)
	suite.Equal(created.ID, linked.ID)
	suite.True(linked.IsVerified, "google-verified email marks the account verified")
	suite.True(linked.HasCompleteProfile(), "linked account keeps its phone number")

	// Subsequent sign-ins resolve by google id
	again, err := suite.userService.UpsertGoogleUser("google-123", "asha@example.com", "Asha Patil", "")
	suite.NoError(err)
	suite.Equal(created.ID, again.ID)
}

func (suite *UserServiceTestSuite) TestUpsertGoogleUserCreatesAccount() {
	user, err := suite.userService.UpsertGoogleUser("google-456", "new@example.com", "New User", "https://lh3.example/p.jpg")
	suite.NoError(err)
	suite.Equal(models.AuthProviderGoogle, user.AuthProvider)
	suite.True(user.IsVerified)
	suite.False(user.HasCompleteProfile(), "fresh google sign-up still needs onboarding")

	// A Google-only account has no usable password
	_, err = suite.userService.AuthenticateUser(&models.UserLogin{
		Email:    "new@example.com",
		Password: "Password123",
	})
	suite.Error(err)
}

func (suite *UserServiceTestSuite) TestUpdateUserCannotBecomeAdmin() {
	user, err := suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "Password123",
	})
	suite.NoError(err)

	adminRole := "admin"
	_, err = suite.userService.UpdateUser(user.ID, &models.UserProfileUpdate{UserType: &adminRole})
	suite.Error(err)

	farmerRole := "farmer"
	updated, err := suite.userService.UpdateUser(user.ID, &models.UserProfileUpdate{UserType: &farmerRole})
	suite.NoError(err)
	suite.Equal(models.UserTypeFarmer, updated.UserType)
}

func (suite *UserServiceTestSuite) TestChangePassword() {
	user, err := suite.userService.CreateUser(&models.UserRegistration{
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		Password: "Password123",
	})
	suite.NoError(err)

	suite.Error(suite.userService.ChangePassword(user.ID, "WrongCurrent1", "NewPassword123"))
	suite.NoError(suite.userService.ChangePassword(user.ID, "Password123", "NewPassword123"))

	_, err = suite.userService.AuthenticateUser(&models.UserLogin{
		Email:    "asha@example.com",
		Password: "NewPassword123",
	})
	suite.NoError(err)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
