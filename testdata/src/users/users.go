package users

import (
	"context"
	"iter"
)

type Service struct {
	names []string
}

func NewService(names ...string) *Service {
	return &Service{names: names}
}

func (s *Service) Get(ctx context.Context, id string) (string, error) { // want `method Service.Get would be instrumented as plain span "spanweave.Service.Get"`
	return id, nil
}

func (s *Service) Stream() <-chan string { // want `method Service.Stream would be instrumented as async span "spanweave.Service.Stream"`
	return nil
}

func (s *Service) Names() iter.Seq[string] { // want `method Service.Names would be instrumented as generator span "spanweave.Service.Names"`
	return func(yield func(string) bool) {
		for _, name := range s.names {
			if !yield(name) {
				return
			}
		}
	}
}

func (s *Service) Check(ctx context.Context) iter.Seq2[string, error] { // want `method Service.Check would be instrumented as async generator span "spanweave.Service.Check"`
	return nil
}

func (s *Service) String() string {
	return "service"
}

func (s *Service) load() {}

// Hot is called too often to be traced.
//
//spanweave:ignore
func (s *Service) Hot() {}
