package codec

import (
	"github.com/dmitrijs2005/smarttask/internal/models"
)

// AccountFields is the minimum number of fields in an account line:
//
//	email|firstName|lastName|externalId|major|passwordHash|createdAt|lastLoginAt|isActive
const AccountFields = 9

func EncodeAccount(a models.Account) string {
	return join(
		a.Email,
		a.FirstName,
		a.LastName,
		a.ExternalID,
		a.Major,
		a.PasswordHash,
		formatTime(a.CreatedAt),
		formatOptionalTime(a.LastLoginAt),
		formatBool(a.Active),
	)
}

func DecodeAccount(line string) (models.Account, error) {
	f, err := fieldsOf(line, AccountFields)
	if err != nil {
		return models.Account{}, err
	}

	createdAt, err := parseTime("createdAt", f[6])
	if err != nil {
		return models.Account{}, err
	}
	lastLogin, err := parseOptionalTime("lastLoginAt", f[7])
	if err != nil {
		return models.Account{}, err
	}

	return models.Account{
		Email:        f[0],
		FirstName:    f[1],
		LastName:     f[2],
		ExternalID:   f[3],
		Major:        f[4],
		PasswordHash: f[5],
		CreatedAt:    createdAt,
		LastLoginAt:  lastLogin,
		Active:       parseBool(f[8]),
	}, nil
}

func EncodeAccounts(accounts []models.Account) []string {
	lines := make([]string, 0, len(accounts))
	for _, a := range accounts {
		lines = append(lines, EncodeAccount(a))
	}
	return lines
}

// DecodeAccounts decodes every non-blank line, collecting the ones that fail.
func DecodeAccounts(lines []string) ([]models.Account, []Corrupt) {
	accounts := make([]models.Account, 0, len(lines))
	var corrupt []Corrupt
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		a, err := DecodeAccount(line)
		if err != nil {
			corrupt = append(corrupt, Corrupt{Line: i + 1, Raw: line, Err: err})
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, corrupt
}
