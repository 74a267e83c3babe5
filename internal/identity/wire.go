package identity

import (
	"github.com/google/wire"
)

func ProvideDirectory(service *Service) Directory {
	return service
}

var Set = wire.NewSet(NewStore, NewService, NewJSONHandler, ProvideDirectory)
