package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/avramovs/clientbook/internal/client/access"
	"github.com/avramovs/clientbook/internal/client/state"
)

// List re-runs the active query and renders the result.
func (a *App) List(ctx context.Context) error {
	return a.Search(ctx, a.records.Snapshot().Query)
}

// Search issues a list fetch for query and renders the settled state.
func (a *App) Search(ctx context.Context, query string) error {
	a.records.Search(ctx, query)

	st, err := a.awaitList(ctx)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	a.renderList(st)
	return nil
}

func (a *App) renderList(st state.ListState) {
	if st.Err != nil {
		printlnFn("error:", st.Err)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tIBAN\tFULL NAME\tCITY\tEMAIL\tPHONE\t")
	ident := a.identity.Current()
	for _, r := range st.Records {
		marker := ""
		if access.PermittedActions(&r, ident).CanEdit {
			marker = "*"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.ID, marker, r.IBAN, r.FullName, r.City, r.Email, r.Phone)
	}
	_ = w.Flush()

	if len(st.Records) == 0 && st.Err == nil {
		printlnFn("(no records)")
	} else {
		printlnFn("Rows marked * are yours to edit or delete.")
	}
}

// Delete asks for confirmation and removes the record through the store.
func (a *App) Delete(ctx context.Context, id string) error {
	confirm, err := GetSimpleText(a.reader, "Delete record "+id+"? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "y" {
		return nil
	}

	if err := a.records.Delete(ctx, id); err != nil {
		printlnFn("Delete failed:", err)
		return err
	}

	st, err := a.awaitList(ctx)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	a.renderList(st)
	return nil
}
