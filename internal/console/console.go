// Package console implements the interactive dictionary menu.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/heysubinoy/pyazdict/internal/i18n"
	"github.com/heysubinoy/pyazdict/internal/session"
	"github.com/heysubinoy/pyazdict/pkg/kv"
)

// Menu choices.
const (
	choiceShow = iota + 1
	choiceNext
	choicePrev
	choiceAdd
	choiceRemove
	choiceSearch
	choiceSelect
	choiceExport
	choiceExit
)

var menu = []string{
	"menu.show", "menu.next", "menu.prev", "menu.add", "menu.remove",
	"menu.search", "menu.select", "menu.export", "menu.exit",
}

// errEOF signals that the input ran out while prompting.
var errEOF = errors.New("console: input closed")

// Console drives a session from line-oriented input.
type Console struct {
	sess *session.Session
	in   *bufio.Scanner
	out  io.Writer
}

// New creates a console reading commands from in and writing to out.
func New(sess *session.Session, in io.Reader, out io.Writer) *Console {
	return &Console{
		sess: sess,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// ReportLoad prints the outcome of loading each dictionary.
func (c *Console) ReportLoad(results []session.LoadResult) {
	for _, r := range results {
		if r.Err != nil {
			c.println(i18n.Tf("load.failed", r.Name, kv.Message(r.Err)))
			continue
		}
		c.println(i18n.Tf("load.ok", r.Name))
	}
}

// Run shows the menu until the user exits or input is exhausted. Errors from
// individual commands are printed and never end the loop.
func (c *Console) Run() error {
	for {
		c.printMenu()
		line, err := c.readLine()
		if err != nil {
			return c.inputErr(err)
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			c.println(i18n.T("choice.invalid"))
			continue
		}
		if choice == choiceExit {
			c.println(i18n.T("exit"))
			return nil
		}
		if err := c.dispatch(choice); err != nil {
			return c.inputErr(err)
		}
	}
}

func (c *Console) dispatch(choice int) error {
	switch choice {
	case choiceShow:
		c.printPage(c.sess.Show())
	case choiceNext:
		c.printPage(c.sess.Next())
	case choicePrev:
		c.printPage(c.sess.Prev())
	case choiceAdd:
		key, err := c.prompt("prompt.key")
		if err != nil {
			return err
		}
		value, err := c.prompt("prompt.value")
		if err != nil {
			return err
		}
		okID := "add.ok"
		if !c.sess.Autosave() {
			okID = "add.ok_unsaved"
		}
		c.reportMutation(c.sess.Add(key, value), okID)
	case choiceRemove:
		key, err := c.prompt("prompt.key")
		if err != nil {
			return err
		}
		c.reportMutation(c.sess.Remove(key), "remove.ok")
	case choiceSearch:
		key, err := c.prompt("prompt.key")
		if err != nil {
			return err
		}
		if value, ok := c.sess.Search(key); ok {
			c.println(i18n.Tf("search.found", value))
		} else {
			c.println(i18n.T("search.not_found"))
		}
	case choiceSelect:
		name, err := c.prompt("prompt.dictionary")
		if err != nil {
			return err
		}
		selected, err := c.sess.Select(name)
		if err != nil {
			c.printErr(err)
			return nil
		}
		c.println(i18n.Tf("select.ok", selected))
	case choiceExport:
		if err := c.sess.ExportXML(c.out); err != nil {
			c.println(i18n.Tf("export.failed", err))
		}
	default:
		c.println(i18n.T("choice.invalid"))
	}
	return nil
}

func (c *Console) reportMutation(err error, okID string) {
	switch {
	case err == nil:
		c.println(i18n.T(okID))
	case errors.Is(err, kv.ErrIO):
		c.println(i18n.Tf("save.failed", kv.Message(err)))
	default:
		c.printErr(err)
	}
}

func (c *Console) printPage(p kv.Page, err error) {
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			c.println(i18n.T("page.not_found"))
			return
		}
		c.printErr(err)
		return
	}

	c.println("")
	c.println(i18n.Tf("page.header", p.Number, p.Total))
	for _, e := range p.Entries {
		c.println(i18n.Tf("page.entry", e.Key, e.Value))
	}
}

func (c *Console) printMenu() {
	c.println("")
	c.println(i18n.T("menu.title"))
	for _, id := range menu {
		c.println(i18n.T(id))
	}
	fmt.Fprint(c.out, i18n.T("menu.prompt"))
}

func (c *Console) printErr(err error) {
	c.println(i18n.Tf("error", i18n.T(kv.Message(err))))
}

func (c *Console) prompt(id string) (string, error) {
	fmt.Fprint(c.out, i18n.T(id))
	return c.readLine()
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errEOF
	}
	return strings.TrimSuffix(c.in.Text(), "\r"), nil
}

// inputErr turns end of input into a clean exit.
func (c *Console) inputErr(err error) error {
	if errors.Is(err, errEOF) {
		c.println("")
		return nil
	}
	return fmt.Errorf("read input: %w", err)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
