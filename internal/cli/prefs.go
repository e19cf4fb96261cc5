package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/hunterxpress/courier-cli/internal/core/ports"
)

const (
	themeLight = "light"
	themeDark  = "dark"
)

// runTheme toggles the persisted UI theme preference. The theme key lives
// next to the session keys but is owned by the CLI, not the session service.
func (a *App) runTheme(ctx context.Context) {
	current, err := a.store.Get(ctx, ports.KeyTheme)
	if err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
		a.fail("Switch theme", err)
		return
	}

	next := themeDark
	if current == themeDark {
		next = themeLight
	}
	if err := a.store.Set(ctx, ports.KeyTheme, next); err != nil {
		a.fail("Switch theme", err)
		return
	}
	fmt.Fprintf(a.out, "Theme set to %s.\n", next)
}
