package steps

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/selection"
	"github.com/cucumber/godog"
)

type selectionContext struct {
	sel     *selection.Selection
	state   selection.State
	lastErr error
}

func (sc *selectionContext) reset() {
	sc.sel = selection.New()
	sc.state = selection.StateEmpty
	sc.lastErr = nil
}

// Given steps

func (sc *selectionContext) anEmptySelection() error {
	sc.reset()
	return nil
}

// When steps

func (sc *selectionContext) iClickTheMapAt(coord string) error {
	c, err := parseCoord(coord)
	if err != nil {
		return err
	}
	sc.state = sc.sel.Pick(c)
	return nil
}

func (sc *selectionContext) iUseAsOrigin(coord string) error {
	c, err := parseCoord(coord)
	if err != nil {
		return err
	}
	sc.state = sc.sel.UseAsOrigin(c)
	return nil
}

func (sc *selectionContext) iUseAsDestination(coord string) error {
	c, err := parseCoord(coord)
	if err != nil {
		return err
	}
	sc.state, sc.lastErr = sc.sel.UseAsDestination(c)
	return nil
}

func (sc *selectionContext) iClearThePicks() error {
	sc.state = sc.sel.Clear()
	return nil
}

// Then steps

func (sc *selectionContext) theSelectionStateShouldBe(expected string) error {
	if string(sc.sel.State()) != expected {
		return fmt.Errorf("expected state %s, got %s", expected, sc.sel.State())
	}
	if sc.state != sc.sel.State() {
		return fmt.Errorf("last action returned %s but selection reports %s", sc.state, sc.sel.State())
	}
	return nil
}

func (sc *selectionContext) thePickedOriginShouldBe(coord string) error {
	expected, err := parseCoord(coord)
	if err != nil {
		return err
	}
	got, ok := sc.sel.Origin()
	if !ok {
		return fmt.Errorf("expected origin %s, but none is set", expected)
	}
	if got != expected {
		return fmt.Errorf("expected origin %s, got %s", expected, got)
	}
	return nil
}

func (sc *selectionContext) thePickedDestinationShouldBe(coord string) error {
	expected, err := parseCoord(coord)
	if err != nil {
		return err
	}
	got, ok := sc.sel.Destination()
	if !ok {
		return fmt.Errorf("expected destination %s, but none is set", expected)
	}
	if got != expected {
		return fmt.Errorf("expected destination %s, got %s", expected, got)
	}
	return nil
}

func (sc *selectionContext) noDestinationShouldBePicked() error {
	if d, ok := sc.sel.Destination(); ok {
		return fmt.Errorf("expected no destination, got %s", d)
	}
	return nil
}

func (sc *selectionContext) theSelectionActionShouldBeRejected() error {
	if sc.lastErr == nil {
		return fmt.Errorf("expected the action to be rejected, but it succeeded")
	}
	return nil
}

func InitializeSelectionScenario(ctx *godog.ScenarioContext) {
	sc := &selectionContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty selection$`, sc.anEmptySelection)

	// When steps
	ctx.Step(`^I click the map at "([^"]*)"$`, sc.iClickTheMapAt)
	ctx.Step(`^I use "([^"]*)" as the origin$`, sc.iUseAsOrigin)
	ctx.Step(`^I use "([^"]*)" as the destination$`, sc.iUseAsDestination)
	ctx.Step(`^I clear the picks$`, sc.iClearThePicks)

	// Then steps
	ctx.Step(`^the selection state should be ([A-Z_]+)$`, sc.theSelectionStateShouldBe)
	ctx.Step(`^the picked origin should be "([^"]*)"$`, sc.thePickedOriginShouldBe)
	ctx.Step(`^the picked destination should be "([^"]*)"$`, sc.thePickedDestinationShouldBe)
	ctx.Step(`^no destination should be picked$`, sc.noDestinationShouldBePicked)
	ctx.Step(`^the selection action should be rejected$`, sc.theSelectionActionShouldBeRejected)
}
