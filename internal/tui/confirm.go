package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	hperrors "github.com/chazuruo/histprune/internal/errors"
)

// ConfirmRewrite asks whether to rewrite path with removed lines dropped.
// Aborting the form with ctrl+c returns errors.ErrCanceled.
func ConfirmRewrite(path string, removed int) (bool, error) {
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove %d lines from %s?", removed, path)).
				Description("A backup is written first.").
				Affirmative("Remove").
				Negative("Cancel").
				Value(&ok),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, hperrors.ErrCanceled
		}
		return false, fmt.Errorf("confirm: %w", err)
	}
	return ok, nil
}
