package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nicolasFlags = []string{
	"--name", " Nicolas ",
	"--email", "Nicolas@Domain.com",
	"--phone", "611-611-6111",
	"--address", "1 Main St",
	"--city", "Ottawa",
	"--postal-code", "k1s0a8",
	"--country", "Canada",
}

type runner struct {
	t      *testing.T
	dbPath string
}

func newRunner(t *testing.T) *runner {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &runner{t: t, dbPath: filepath.Join(t.TempDir(), "cli.sqlite")}
}

func (r *runner) run(args ...string) (string, error) {
	var out bytes.Buffer
	root := NewRootCmd(&out, io.Discard)
	base := []string{"--env-file", "no-such.env", "--db-driver", "sqlite", "--db-url", r.dbPath}
	root.SetArgs(append(base, args...))
	err := root.Execute()
	return out.String(), err
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestCreateAndLookup(t *testing.T) {
	r := newRunner(t)

	out, err := r.run(append([]string{"create"}, nicolasFlags...)...)
	require.NoError(t, err)
	created := decode[account.Account](t, out)
	assert.Equal(t, account.Account{
		ID:          1,
		Name:        "Nicolas",
		Email:       "nicolas@domain.com",
		PhoneNumber: "611-611-6111",
		Address:     "1 Main St",
		City:        "Ottawa",
		PostalCode:  "K1S0A8",
		Country:     "Canada",
	}, created)

	out, err = r.run("get", "1")
	require.NoError(t, err)
	assert.Equal(t, created, decode[account.Account](t, out))

	out, err = r.run("find-by-name", "Nicolas")
	require.NoError(t, err)
	assert.Equal(t, []account.Account{created}, decode[[]account.Account](t, out))

	out, err = r.run("find-by-email", "NICOLAS@domain.com")
	require.NoError(t, err)
	assert.Equal(t, []account.Account{created}, decode[[]account.Account](t, out))

	out, err = r.run("find-by-name", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))

	out, err = r.run("list")
	require.NoError(t, err)
	assert.Len(t, decode[[]account.Account](t, out), 1)
}

func TestCreate_Duplicate(t *testing.T) {
	r := newRunner(t)
	_, err := r.run(append([]string{"create"}, nicolasFlags...)...)
	require.NoError(t, err)

	_, err = r.run(append([]string{"create"}, nicolasFlags...)...)
	require.ErrorIs(t, err, account.ErrDuplicate)
	assert.EqualError(t, err, "An account with this name already exist in database")
}

func TestCreate_MissingFlag(t *testing.T) {
	r := newRunner(t)
	_, err := r.run("create", "--name", "Nicolas")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestGet_Errors(t *testing.T) {
	r := newRunner(t)

	_, err := r.run("get", "abc")
	require.Error(t, err)

	_, err = r.run("get", "9")
	require.EqualError(t, err, "Account id:9 doesn't exist")
}

func TestList_Empty(t *testing.T) {
	r := newRunner(t)
	out, err := r.run("list")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestValidate(t *testing.T) {
	r := newRunner(t)

	out, err := r.run(append([]string{"validate"}, nicolasFlags...)...)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))

	_, err = r.run(append([]string{"create"}, nicolasFlags...)...)
	require.NoError(t, err)

	args := append([]string{"validate"}, nicolasFlags...)
	args = append(args, "--city", "")
	out, err = r.run(args...)
	require.ErrorIs(t, err, ErrInvalidParameters)
	assert.Equal(t, []map[string]string{
		{"city": "City length should be between 1 and 50 chars"},
		{"name": "An account with this name already exist in database"},
		{"email": "An account with this email already exist in database"},
	}, decode[[]map[string]string](t, out))
}

func TestPrinter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, false)
	// a bytes.Buffer is never a terminal
	require.False(t, p.pretty)
	p.pretty = true

	acc := account.Account{ID: 3, Name: "Nicolas", Email: "nicolas@domain.com"}
	require.NoError(t, p.Account(acc))
	assert.Contains(t, buf.String(), "Account #3")
	assert.Contains(t, buf.String(), "nicolas@domain.com")

	buf.Reset()
	require.NoError(t, p.Accounts(nil))
	assert.Contains(t, buf.String(), "No accounts")

	buf.Reset()
	require.NoError(t, p.FieldErrors([]account.FieldError{{Field: "name", Message: "bad name"}}))
	assert.Contains(t, buf.String(), "name")
	assert.Contains(t, buf.String(), "bad name")
}
