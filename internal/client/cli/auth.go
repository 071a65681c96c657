package cli

import (
	"context"
	"os"

	"github.com/avramovs/clientbook/internal/models"
)

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	if err := a.identity.Login(ctx, models.Credentials{Email: email, Password: password}); err != nil {
		printlnFn("Login failed:", err)
		return err
	}
	printlnFn("Logged in as", a.identity.Current().Email)
	return nil
}

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	name, err := GetSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	profile := models.Profile{Email: email, Name: name, Password: password}
	if err := a.identity.Register(ctx, profile); err != nil {
		printlnFn("Registration failed:", err)
		return err
	}
	printlnFn("Registered and logged in as", email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	confirm, err := GetSimpleText(a.reader, "Log out? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "y" {
		return nil
	}
	a.identity.LogOut(ctx)
	printlnFn("Logged out")
	return nil
}
