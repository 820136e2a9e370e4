package cli

import (
	"errors"
	"fmt"

	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/ui"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, g *globals) error {
	a, err := g.open(cmd, true)
	if errors.Is(err, app.ErrLocked) {
		return fmt.Errorf("%w (one-shot commands like `slowly ls` still work)", err)
	}
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.Run(cmd.Context(), a)
}
