package utils

import (
	"testing"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateRandomOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp := GenerateRandomOTP()
		assert.Len(t, otp, 6)
		for _, c := range otp {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	assert.Len(t, GenerateRandomPassword(12), 12)
	assert.Len(t, GenerateRandomPassword(1), 1)
	assert.Empty(t, GenerateRandomPassword(0))
}

func TestGenerateRandomEmployee(t *testing.T) {
	employee, err := GenerateRandomEmployee("secret", "example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, employee.Username)
	assert.NotEmpty(t, employee.FullName)
	assert.Equal(t, employee.Username+"@example.com", employee.Email)
	assert.True(t, employee.IsActive)
	assert.Contains(t, []domain.Role{domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin}, employee.Role)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte("secret")))
}

func TestGenerateRandomDayOff(t *testing.T) {
	for i := 0; i < 100; i++ {
		day := GenerateRandomDayOff()
		if day != nil {
			assert.GreaterOrEqual(t, *day, int32(1))
			assert.LessOrEqual(t, *day, int32(7))
		}
	}
}
