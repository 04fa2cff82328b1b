package discord

import (
	"github.com/foxseedlab/pipelinebot/internal/chat"
	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (chat.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewClient(c.DiscordToken, c.DiscordGuildID), nil
	})
}
