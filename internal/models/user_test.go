package models_test

import (
	"testing"

	"doubtroom/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{
		Name:  "Alice",
		Email: "alice@example.com",
	}

	assert.Empty(t, user.ID, "User ID should be empty before BeforeCreate")

	err := user.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID, "User ID must be populated after BeforeCreate")

	parsedUUID, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsedUUID)
}

// TestUserBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Name: "Bob", Email: "bob@example.com"}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}

// TestUserBeforeCreate_DefaultsRole verifies new accounts default to the student role.
func TestUserBeforeCreate_DefaultsRole(t *testing.T) {
	user := &models.User{Name: "Carol", Email: "carol@example.com"}

	assert.NoError(t, user.BeforeCreate(nil))
	assert.Equal(t, models.RoleStudent, user.Role)

	mentor := &models.User{Name: "Dan", Email: "dan@example.com", Role: models.RoleMentor}
	assert.NoError(t, mentor.BeforeCreate(nil))
	assert.Equal(t, models.RoleMentor, mentor.Role)
}

// TestUserPassword_HashAndCompare verifies bcrypt round-tripping and that the
// plaintext is never stored.
func TestUserPassword_HashAndCompare(t *testing.T) {
	user := &models.User{Name: "Eve", Email: "eve@example.com"}

	assert.NoError(t, user.SetPassword("s3cret-pw"))
	assert.NotEqual(t, "s3cret-pw", user.Password)

	assert.True(t, user.ComparePassword("s3cret-pw"))
	assert.False(t, user.ComparePassword("wrong"))
}

// TestAnswerHasVoted covers the vote-toggle membership check.
func TestAnswerHasVoted(t *testing.T) {
	answer := &models.Answer{VotedBy: pq.StringArray{"user_A", "user_B"}}

	assert.True(t, answer.HasVoted("user_A"))
	assert.False(t, answer.HasVoted("user_C"))

	empty := &models.Answer{}
	assert.False(t, empty.HasVoted("user_A"))
}
