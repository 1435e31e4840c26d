package export

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNotConfirmed is returned when the user declines to overwrite an
// existing snapshot.
var ErrNotConfirmed = errors.New("export cancelled")

// isTerminal checks if stdin is connected to a terminal
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// ConfirmOverwrite asks before replacing an existing file at path. It returns
// nil when path does not exist or the user agrees.
func ConfirmOverwrite(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	overwrite := false
	form := newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Overwrite %s?", path)).
				Description(fmt.Sprintf("%d bytes, modified %s", info.Size(), info.ModTime().Format("2006-01-02 15:04"))).
				Value(&overwrite).
				Affirmative("Overwrite").
				Negative("Cancel"),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !overwrite {
		return ErrNotConfirmed
	}
	return nil
}
