package cli

import (
	"context"
	"fmt"
)

const (
	defaultPrice      = 2000
	defaultDistanceKM = 10
)

func (a *App) runSend(ctx context.Context) {
	var form SendForm
	var err error

	if form.PickupAddress, err = promptText(a.reader, "Pickup address", a.out); err != nil {
		a.fail("Place order", err)
		return
	}
	if form.DropoffAddress, err = promptText(a.reader, "Drop-off address", a.out); err != nil {
		a.fail("Place order", err)
		return
	}
	if form.Description, err = promptText(a.reader, "What are you sending?", a.out); err != nil {
		a.fail("Place order", err)
		return
	}
	if form.Price, err = promptFloat(a.reader, "Price (₦, Enter for 2000)", defaultPrice, a.out); err != nil {
		fmt.Fprintln(a.out, err)
		return
	}
	if form.DistanceKM, err = promptFloat(a.reader, "Distance km (Enter for 10)", defaultDistanceKM, a.out); err != nil {
		fmt.Fprintln(a.out, err)
		return
	}

	if err := ValidateForm(form); err != nil {
		fmt.Fprintln(a.out, err)
		return
	}

	order, err := a.deliveries.CreateOrder(ctx, form.Input())
	if err != nil {
		a.fail("Place order", err)
		return
	}

	fmt.Fprintf(a.out, "Order placed. Reference: %s\n", order.OrderReference)
	fmt.Fprintf(a.out, "  %s -> %s\n", order.PickupAddress, order.DropoffAddress)
	fmt.Fprintf(a.out, "  %s, ₦%.0f\n", order.Package.Description, order.Price)
}

func (a *App) runHistory(ctx context.Context) {
	entries, err := a.deliveries.History(ctx)
	if err != nil {
		a.fail("Fetch history", err)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No deliveries yet.")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-12s %s", e.ID, e.Status, e.DropOffLocation)
		if e.Date != "" {
			line += "  (" + e.Date + ")"
		}
		fmt.Fprintln(a.out, line)
	}
}

func (a *App) runLocations(ctx context.Context) {
	locations, err := a.deliveries.Locations(ctx)
	if err != nil {
		a.fail("Fetch locations", err)
		return
	}
	if len(locations) == 0 {
		fmt.Fprintln(a.out, "No active deliveries.")
		return
	}
	for _, l := range locations {
		fmt.Fprintf(a.out, "%s  %s: %s [%s]\n", l.OrderID, l.Type, l.Address, l.Status)
	}
}
