package console

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heysubinoy/pyazdict/internal/i18n"
	"github.com/heysubinoy/pyazdict/internal/session"
	"github.com/heysubinoy/pyazdict/pkg/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, sess *session.Session, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, New(sess, strings.NewReader(input), &out).Run())
	return out.String()
}

func newSession(t *testing.T) (*session.Session, string) {
	t.Helper()
	require.NoError(t, i18n.Init("en"))
	dir := t.TempDir()
	files := map[string]string{}
	for _, name := range policy.Names {
		files[name] = filepath.Join(dir, name+"_dict.txt")
	}
	return session.New(session.Options{Files: files, PageSize: 2, Autosave: true}), dir
}

func TestAddShowAndExit(t *testing.T) {
	sess, dir := newSession(t)
	out := run(t, sess, "4\nabcd\nhello\n1\n9\n")

	assert.Contains(t, out, "Entry added and saved.")
	assert.Contains(t, out, "Page 1 of 1")
	assert.Contains(t, out, "abcd = hello")
	assert.Contains(t, out, "Exiting.")

	data, err := os.ReadFile(filepath.Join(dir, "first_dict.txt"))
	require.NoError(t, err)
	assert.Equal(t, "abcd=hello\n", string(data))
}

func TestRejectedKeyIsReportedAndLoopContinues(t *testing.T) {
	sess, _ := newSession(t)
	out := run(t, sess, "4\nabc\nv\n6\nabc\n9\n")

	assert.Contains(t, out, "Error: key must be exactly 4 latin letters")
	assert.Contains(t, out, "Entry not found.")
	assert.Contains(t, out, "Exiting.")
}

func TestSelectThirdAndCollision(t *testing.T) {
	sess, _ := newSession(t)
	out := run(t, sess, "7\n3\n4\nab\n1\n4\nabc#\n2\n6\nab\n9\n")

	assert.Contains(t, out, "Dictionary third selected.")
	assert.Contains(t, out, "Error: key already exists considering #")
	assert.Contains(t, out, "Value: 1")
}

func TestPagingCommands(t *testing.T) {
	sess, _ := newSession(t)
	out := run(t, sess, "1\n4\naaaa\n1\n4\nbbbb\n2\n4\ncccc\n3\n2\n2\n3\n9\n")

	assert.Contains(t, out, "Page not found.")
	assert.Contains(t, out, "Page 2 of 2")
	assert.Contains(t, out, "cccc = 3")
	assert.Equal(t, 1, sess.CurrentPage())
}

func TestInvalidChoicesAndEOF(t *testing.T) {
	sess, _ := newSession(t)
	out := run(t, sess, "abc\n42\n7\nfourth\n")

	assert.Equal(t, 2, strings.Count(out, "Invalid input, try again."))
	assert.Contains(t, out, `Error: unknown dictionary "fourth"`)
	assert.NotContains(t, out, "Exiting.")
}

func TestEOFWhilePrompting(t *testing.T) {
	sess, _ := newSession(t)
	out := run(t, sess, "4\nabcd")
	assert.NotContains(t, out, "Entry added")
}

func TestRemoveAndExport(t *testing.T) {
	sess, _ := newSession(t)
	out := run(t, sess, "4\nabcd\nv\n4\nefgh\nw\n5\nabcd\n8\n9\n")

	assert.Contains(t, out, "Entry removed.")
	assert.Contains(t, out, "<entries>\n  <efgh>w</efgh>\n</entries>")
	assert.NotContains(t, out, "<abcd>")
}

func TestReportLoad(t *testing.T) {
	sess, dir := newSession(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "second_dict.txt"), []byte("12345=x\n"), 0o644))

	var out bytes.Buffer
	New(sess, strings.NewReader(""), &out).ReportLoad(sess.LoadAll())

	assert.Contains(t, out.String(), "Dictionary second loaded.")
	assert.Contains(t, out.String(), "Failed to load dictionary first")
	assert.Contains(t, out.String(), "Failed to load dictionary third")
}

func TestRussianMessages(t *testing.T) {
	sess, _ := newSession(t)
	require.NoError(t, i18n.Init("ru"))
	t.Cleanup(func() { _ = i18n.Init("en") })

	out := run(t, sess, "4\nab\nv\n9\n")
	assert.Contains(t, out, "Ошибка: Ключ должен состоять ровно из 4 латинских букв.")
	assert.Contains(t, out, "Выход из программы.")
}

func TestAddWithoutAutosave(t *testing.T) {
	require.NoError(t, i18n.Init("en"))
	dir := t.TempDir()
	files := map[string]string{policy.First: filepath.Join(dir, "first_dict.txt")}
	sess := session.New(session.Options{Files: files, PageSize: 2, Autosave: false})

	out := run(t, sess, "4\nabcd\nv\n9\n")
	assert.Contains(t, out, "Entry added. Changes are saved on exit.")
	assert.NotContains(t, out, "Entry added and saved.")
}
