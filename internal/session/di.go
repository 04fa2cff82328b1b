package session

import (
	"github.com/foxseedlab/pipelinebot/internal/gitlab"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Registry, error) {
		auth := do.MustInvoke[gitlab.Authenticator](i)
		return NewRegistry(auth), nil
	})
}
