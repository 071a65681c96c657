package cli

import (
	"context"
	"fmt"
	"os"
)

// editableFields lists the draft fields in prompt order, by wire name.
var editableFields = []struct {
	name  string
	label string
}{
	{"iban", "IBAN"},
	{"fullName", "Full name"},
	{"city", "City"},
	{"email", "Email"},
	{"phone", "Phone"},
	{"secret", "Secret"},
}

// Edit walks the user through an inline edit: begin a session (which fetches
// the authoritative record), prompt per field with the current value as the
// default, then confirm or cancel.
func (a *App) Edit(ctx context.Context, id string) error {
	if err := a.editor.Begin(ctx, id); err != nil {
		printlnFn("Cannot edit:", err)
		return err
	}

	session := a.editor.Session()
	current := map[string]string{
		"iban":     session.Draft.IBAN,
		"fullName": session.Draft.FullName,
		"city":     session.Draft.City,
		"email":    session.Draft.Email,
		"phone":    session.Draft.Phone,
		"secret":   session.Draft.Secret,
	}

	for _, f := range editableFields {
		prompt := fmt.Sprintf("%s [%s] (enter keeps current)", f.label, current[f.name])
		value, err := GetSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			_ = a.editor.Cancel()
			return err
		}
		if value == "" {
			continue
		}
		if err := a.editor.SetField(f.name, value); err != nil {
			printlnFn("error:", err)
		}
	}

	confirm, err := GetSimpleText(a.reader, "Save changes? (y/n)", os.Stdout)
	if err != nil || confirm != "y" {
		_ = a.editor.Cancel()
		printlnFn("Edit cancelled")
		return err
	}

	if err := a.editor.Confirm(ctx); err != nil {
		printlnFn("Saving failed, your draft is kept:", err)
		retry, rerr := GetSimpleText(a.reader, "Retry? (y/n)", os.Stdout)
		if rerr == nil && retry == "y" {
			if err := a.editor.Confirm(ctx); err == nil {
				return a.renderAfterCommit(ctx)
			}
		}
		_ = a.editor.Cancel()
		return err
	}

	return a.renderAfterCommit(ctx)
}

func (a *App) renderAfterCommit(ctx context.Context) error {
	st, err := a.awaitList(ctx)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn("Saved")
	a.renderList(st)
	return nil
}
