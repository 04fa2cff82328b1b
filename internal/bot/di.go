package bot

import (
	"os"

	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/foxseedlab/pipelinebot/internal/session"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Dispatcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		chats := do.MustInvoke[*config.ChatDirectory](i)
		sessions := do.MustInvoke[*session.Registry](i)
		return NewDispatcher(chats, sessions, os.Stdout, cfg.ConsoleLocation()), nil
	})
}
