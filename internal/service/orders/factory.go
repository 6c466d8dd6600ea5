package orders

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byType map[string]actionFunc
}

func newActionFactory(onCreated, onUpdated, onDeleted actionFunc) *actionFactory {
	return &actionFactory{
		byType: map[string]actionFunc{
			EventCreated: onCreated,
			EventUpdated: onUpdated,
			EventDeleted: onDeleted,
		},
	}
}

func (f *actionFactory) get(eventType string) (actionFunc, bool) {
	eventType = strings.ToLower(strings.TrimSpace(eventType))
	fn, ok := f.byType[eventType]
	return fn, ok
}
