package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"dareNowConsole/internal/modules/bookings/domain"
)

func pageFlags(fs *flag.FlagSet) (*int, *int) {
	return fs.Int("page", 1, "page number"), fs.Int("size", domain.DefaultPageSize, "page size")
}

func runBookings(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) > 0 && args[0] == "cancel" {
		if len(args) != 2 {
			return fmt.Errorf("usage: darenow bookings cancel <id>")
		}
		if err := a.bookings.Cancel(ctx, args[1]); err != nil {
			a.sessionHint(out)
			return err
		}
		fmt.Fprintf(out, "✅ Booking %s cancelled.\n", args[1])
		return nil
	}
	if len(args) > 0 && args[0] == "list" {
		args = args[1:]
	}

	fs := flag.NewFlagSet("bookings", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	page, size := pageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.bookings.List(ctx, domain.PageQuery{Page: *page, Size: *size})
	if err != nil {
		a.sessionHint(out)
		return err
	}
	if len(result.Items) == 0 {
		fmt.Fprintln(out, "No bookings found.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATE\tSLOT\tMEAL\tGUESTS\tFROM")
	for _, b := range result.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", b.ID, bookingDay(b), fallback(b.SlotTime, "-"), fallback(b.MealType, "-"), b.GuestCount, fallback(b.BookedFrom, "-"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPage %d of %d (%d bookings)\n", result.Page, result.TotalPages, result.TotalElements)
	return nil
}

func runSlots(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("slots", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	rawDate := fs.String("date", "", "date (YYYY-MM-DD)")
	rawMeal := fs.String("meal", "", "breakfast, lunch or dinner")
	if err := fs.Parse(args); err != nil {
		return err
	}
	date, err := domain.ParseDate(*rawDate)
	if err != nil {
		return err
	}
	meal, err := domain.ParseMealType(*rawMeal)
	if err != nil {
		return fmt.Errorf("%w: %q", err, *rawMeal)
	}

	slots, err := a.bookings.OpenSlots(ctx, date, meal)
	if err != nil {
		a.sessionHint(out)
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintf(out, "No open %s slots on %s.\n", meal, domain.FormatSlotDate(date))
		return nil
	}
	fmt.Fprintf(out, "Open %s slots on %s:\n", meal.Label(), domain.FormatSlotDate(date))
	for _, slot := range slots {
		fmt.Fprintf(out, "  %s\n", slot)
	}
	return nil
}

func runSearch(ctx context.Context, a *app, args []string, out io.Writer) error {
	term := ""
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		term, args = args[0], args[1:]
	}
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	page, size := pageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := a.bookings.Search(ctx, term, domain.PageQuery{Page: *page, Size: *size})
	if err != nil {
		return err
	}
	if len(list.Items) == 0 {
		fmt.Fprintf(out, "No places match %q.\n", domain.SearchTerm(term))
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tADDRESS")
	for _, p := range list.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, fallback(p.Address, "-"))
	}
	return w.Flush()
}

func bookingDay(b domain.Booking) string {
	if !b.Date.IsZero() {
		return b.Date.Format(time.DateOnly)
	}
	return fallback(b.BookingDate, "-")
}
