package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smarttask/internal/common"
	"github.com/dmitrijs2005/smarttask/internal/models"
	"github.com/dmitrijs2005/smarttask/internal/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errBadCredentials   = errors.New("invalid email or password")
)

// readSecret prompts for a password and returns it as a string. The raw
// bytes read from the terminal are wiped.
func (a *App) readSecret(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// readNewSecret asks for a password twice.
func (a *App) readNewSecret(prompt string) (string, error) {
	pw, err := a.readSecret(prompt)
	if err != nil {
		return "", err
	}
	confirm, err := a.readSecret("Repeat password")
	if err != nil {
		return "", err
	}
	if pw != confirm {
		return "", errPasswordMismatch
	}
	return pw, nil
}

// Register prompts for the account fields and creates the account. It does
// not log the new account in.
func (a *App) Register(ctx context.Context) error {
	var r services.Registration
	var err error

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"First name", &r.FirstName},
		{"Last name", &r.LastName},
		{"Email", &r.Email},
		{"Student ID", &r.ExternalID},
		{"Major", &r.Major},
	} {
		if *f.dst, err = a.ask(f.prompt); err != nil {
			return err
		}
	}

	if r.Password, err = a.readNewSecret("Password (at least 6 characters)"); err != nil {
		return err
	}

	account, err := a.accounts.Register(ctx, r)
	if err != nil {
		return err
	}

	a.say("Registered %s. You can login now.", account.Email)
	return nil
}

// Login prompts for credentials. Unknown emails and wrong passwords produce
// the same message.
func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	account, err := a.accounts.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrWrongPassword) {
			return errBadCredentials
		}
		return err
	}

	a.email = account.Email
	a.logger.Info(ctx, "login", "email", account.Email)
	a.say("Welcome, %s!", account.FullName())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.email = ""
	a.say("Logged out")
	return nil
}

// Profile prints the account. With "edit" it first prompts for new names and
// major; blank answers keep the current value.
func (a *App) Profile(ctx context.Context, args []string) error {
	account, err := a.accounts.FindByEmail(ctx, a.email)
	if err != nil {
		return err
	}

	if len(args) > 0 && args[0] == "edit" {
		var u services.ProfileUpdate
		for _, f := range []struct {
			prompt string
			dst    **string
		}{
			{fmt.Sprintf("First name [%s]", account.FirstName), &u.FirstName},
			{fmt.Sprintf("Last name [%s]", account.LastName), &u.LastName},
			{fmt.Sprintf("Major [%s]", account.Major), &u.Major},
		} {
			v, err := a.ask(f.prompt)
			if err != nil {
				return err
			}
			*f.dst = &v
		}
		if account, err = a.accounts.UpdateProfile(ctx, a.email, u); err != nil {
			return err
		}
		a.say("Profile updated")
	}

	a.printAccount(account)
	return nil
}

func (a *App) printAccount(account models.Account) {
	v := account.View()
	last := "never"
	if v.LastLoginAt != nil {
		last = *v.LastLoginAt
	}
	a.say("%s (%s)", v.FullName, v.Initials)
	a.say("  email:      %s", v.Email)
	a.say("  student id: %s", v.StudentID)
	a.say("  major:      %s", v.Major)
	a.say("  member:     %s", v.CreatedAt)
	a.say("  last login: %s", last)
}

func (a *App) Passwd(ctx context.Context) error {
	old, err := a.readSecret("Current password")
	if err != nil {
		return err
	}
	pw, err := a.readNewSecret("New password")
	if err != nil {
		return err
	}
	if err := a.accounts.ChangePassword(ctx, a.email, old, pw); err != nil {
		return err
	}
	a.say("Password changed")
	return nil
}
