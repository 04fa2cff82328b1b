package gitlab

import (
	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/foxseedlab/pipelinebot/internal/gitlab"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (gitlab.Authenticator, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewAuthenticator(c.GitLabURL), nil
	})
}
