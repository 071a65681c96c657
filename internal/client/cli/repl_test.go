package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	args     []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) List(ctx context.Context) error {
	f.calls = append(f.calls, "list")
	return nil
}
func (f *fakeExec) Search(ctx context.Context, query string) error {
	f.calls = append(f.calls, "search")
	f.args = append(f.args, query)
	return nil
}
func (f *fakeExec) Edit(ctx context.Context, id string) error {
	f.calls = append(f.calls, "edit")
	f.args = append(f.args, id)
	return nil
}
func (f *fakeExec) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	f.args = append(f.args, id)
	return nil
}

func silencePrint(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func run(t *testing.T, exec *fakeExec, lines ...string) {
	t.Helper()
	silencePrint(t)
	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, sc)
}

func TestRunREPL_DispatchAndArgs(t *testing.T) {
	exec := &fakeExec{}
	run(t, exec,
		"login",
		"l",
		"search ann berg",
		"edit r1",
		"del r2",
		"logout",
		"exit",
	)

	require.Equal(t, []string{"login", "list", "search", "edit", "delete", "logout"}, exec.calls)
	require.Equal(t, []string{"ann berg", "r1", "r2"}, exec.args)
}

func TestRunREPL_MutationsRequireLogin(t *testing.T) {
	exec := &fakeExec{}
	run(t, exec,
		"list",
		"edit r1",
		"del r1",
		"exit",
	)
	require.Empty(t, exec.calls, "nothing may dispatch while logged out")
}

func TestRunREPL_ArgValidation(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	run(t, exec,
		"edit",
		"del one two",
		"exit",
	)
	require.Empty(t, exec.calls)
}

func TestRunREPL_UnknownCommandAndBlankLines(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	run(t, exec,
		"",
		"frobnicate",
		"quit",
	)
	require.Empty(t, exec.calls)
}

func TestRunREPL_EOFExits(t *testing.T) {
	exec := &fakeExec{}
	run(t, exec) // no input at all
	require.Empty(t, exec.calls)
}
