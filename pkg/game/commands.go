package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/cbodonnell/breedadventure/pkg/messages"
	"github.com/cbodonnell/breedadventure/pkg/resilience"
)

var ErrUnknownCommand = errors.New("unknown command")

// Apply runs a player command against the session.
func (s *Session) Apply(ctx context.Context, command *messages.Command) error {
	switch command.Action {
	case messages.CommandInitialize:
		return s.Initialize(ctx)
	case messages.CommandStart:
		return s.StartGame(ctx)
	case messages.CommandSelect:
		return s.SelectImage(ctx, command.Slot)
	case messages.CommandPowerUp:
		kind, err := types.ParsePowerUpKind(command.Kind)
		if err != nil {
			return err
		}
		return s.UsePowerUp(ctx, kind)
	case messages.CommandPause:
		s.PauseGame()
		return nil
	case messages.CommandResume:
		s.ResumeGame()
		return nil
	case messages.CommandReset:
		s.Reset()
		return nil
	case messages.CommandEnd:
		return s.EndGame(ctx)
	case messages.CommandRecover:
		kind, err := resilience.ParseKind(command.Kind)
		if err != nil {
			return err
		}
		s.RecoverFromError(ctx, kind)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command.Action)
	}
}
